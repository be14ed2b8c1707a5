package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          int              `json:"port"`
	NGramSize     int              `json:"ngram_size"`
	PairCount     int              `json:"pair_count"`
	Similarity    SimilarityConfig `json:"similarity"`
	Samples       SamplesConfig    `json:"samples"`
	PromptFile    string           `json:"prompt_file"`
	AI            AIConfig         `json:"ai"`
	ReloadCron    string           `json:"reload_cron"`
	RateLimit     RateLimitConfig  `json:"rate_limit"`
	JWTSecret     string           `json:"jwt_secret"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	LogConfig     logger.LogConfig `json:"log_config"`
}

type SimilarityConfig struct {
	TopK      *int     `json:"top_k"`
	Threshold *float64 `json:"threshold"`
}

type SamplesConfig struct {
	Type         string      `json:"type"`
	SourcePrefix string      `json:"source_prefix"`
	TargetPrefix string      `json:"target_prefix"`
	Data         interface{} `json:"data"`
}

type AIConfig struct {
	Providers       []ProviderConfig `json:"providers"`
	Timeout         int              `json:"timeout"`
	Retry           RetryConfig      `json:"retry"`
	CacheSize       int              `json:"cache_size"`
	CacheTTLMinutes int              `json:"cache_ttl_minutes"`
}

type ProviderConfig struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Model       string      `json:"model"`
	Temperature float64     `json:"temperature"`
	Data        interface{} `json:"data"`
}

type RetryConfig struct {
	MaxAttempts       int     `json:"max_attempts"`
	InitialIntervalMS int     `json:"initial_interval_ms"`
	Multiplier        float64 `json:"multiplier"`
}

type RateLimitConfig struct {
	PerSecond float64 `json:"per_second"`
	Burst     int     `json:"burst"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.NGramSize == 0 {
		cfg.NGramSize = 3
	}
	if cfg.NGramSize < 1 {
		return fmt.Errorf("ngram_size must be positive")
	}
	if cfg.PairCount == 0 {
		cfg.PairCount = 10
	}
	if cfg.PairCount < 1 {
		return fmt.Errorf("pair_count must be positive")
	}
	if cfg.Similarity.TopK != nil && *cfg.Similarity.TopK < 0 {
		return fmt.Errorf("similarity.top_k must not be negative")
	}
	if t := cfg.Similarity.Threshold; t != nil && (*t < -1 || *t > 1) {
		return fmt.Errorf("similarity.threshold must be within [-1, 1]")
	}
	if strings.TrimSpace(cfg.PromptFile) == "" {
		return fmt.Errorf("prompt_file is required")
	}
	if cfg.Samples.Type == "" {
		cfg.Samples.Type = "local"
	}
	if cfg.Samples.SourcePrefix == "" {
		cfg.Samples.SourcePrefix = "plsql"
	}
	if cfg.Samples.TargetPrefix == "" {
		cfg.Samples.TargetPrefix = "java"
	}
	if len(cfg.AI.Providers) == 0 {
		return fmt.Errorf("ai.providers requires at least one provider")
	}
	for i, p := range cfg.AI.Providers {
		if strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("ai.providers[%d].type is required", i)
		}
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf("ai.providers[%d].model is required", i)
		}
		if p.Name == "" {
			cfg.AI.Providers[i].Name = p.Type
		}
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 300
	}
	if cfg.AI.Retry.MaxAttempts == 0 {
		cfg.AI.Retry.MaxAttempts = 5
	}
	if cfg.AI.Retry.InitialIntervalMS == 0 {
		cfg.AI.Retry.InitialIntervalMS = 100
	}
	if cfg.AI.Retry.Multiplier == 0 {
		cfg.AI.Retry.Multiplier = 2.0
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 256
	}
	if cfg.AI.CacheTTLMinutes == 0 {
		cfg.AI.CacheTTLMinutes = 60
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return nil
}

type PromptConfig struct {
	System SystemPromptConfig `yaml:"system"`
	User   UserPromptConfig   `yaml:"user"`
}

type SystemPromptConfig struct {
	Base          string   `yaml:"base"`
	Rules         []string `yaml:"rules"`
	ContextHeader string   `yaml:"context_header"`
}

type UserPromptConfig struct {
	Instructions  []string `yaml:"instructions"`
	ExampleFormat string   `yaml:"example_format"`
	TargetHeader  string   `yaml:"target_header"`
}

func LoadPrompt(path string) (*PromptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt config: %w", err)
	}
	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode prompt config: %w", err)
	}
	if strings.TrimSpace(cfg.System.Base) == "" {
		return nil, fmt.Errorf("prompt system.base is required")
	}
	if cfg.User.ExampleFormat == "" {
		return nil, fmt.Errorf("prompt user.example_format is required")
	}
	return &cfg, nil
}
