package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/ai"
	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/handler"
	"github.com/xxxsen/codegen/internal/job"
	"github.com/xxxsen/codegen/internal/middleware"
	"github.com/xxxsen/codegen/internal/pkg/jwt"
	"github.com/xxxsen/codegen/internal/prompt"
	"github.com/xxxsen/codegen/internal/sample"
	"github.com/xxxsen/codegen/internal/schedule"
	"github.com/xxxsen/codegen/internal/service"
	"github.com/xxxsen/codegen/internal/similarity"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "codegen",
		Short: "few-shot code translation server",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run codegen server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	var showAll bool
	similarCmd := &cobra.Command{
		Use:   "similar <number>",
		Short: "print the examples selected for a sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runSimilar(cmd.Context(), cfg, args[0], showAll)
		},
	}
	similarCmd.Flags().BoolVar(&showAll, "all", false, "print the full ranking instead of the selection")

	var (
		subject string
		ttl     time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "issue an api token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("jwt_secret is not configured")
			}
			token, err := jwt.GenerateToken(subject, []byte(cfg.JWTSecret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&subject, "subject", "", "token subject")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")

	rootCmd.AddCommand(runCmd, similarCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func newCorpusService(cfg *config.Config) (*service.CorpusService, error) {
	src, err := sample.New(cfg.Samples.Type, cfg.Samples.Data)
	if err != nil {
		return nil, fmt.Errorf("init sample source: %w", err)
	}
	loader := sample.NewLoader(src, sample.LoaderConfig{
		PairCount:    cfg.PairCount,
		SourcePrefix: cfg.Samples.SourcePrefix,
		TargetPrefix: cfg.Samples.TargetPrefix,
	})
	opts := make([]similarity.Option, 0, 2)
	if cfg.Similarity.TopK != nil {
		opts = append(opts, similarity.WithTopK(*cfg.Similarity.TopK))
	}
	if cfg.Similarity.Threshold != nil {
		opts = append(opts, similarity.WithThreshold(*cfg.Similarity.Threshold))
	}
	return service.NewCorpusService(loader, cfg.NGramSize, opts...), nil
}

func newChatter(cfg *config.Config) (ai.IChatter, error) {
	retry := ai.RetryConfig{
		MaxAttempts:     cfg.AI.Retry.MaxAttempts,
		InitialInterval: time.Duration(cfg.AI.Retry.InitialIntervalMS) * time.Millisecond,
		Multiplier:      cfg.AI.Retry.Multiplier,
	}
	entries := make([]ai.ChatterEntry, 0, len(cfg.AI.Providers))
	for _, pc := range cfg.AI.Providers {
		provider, err := ai.NewProvider(pc.Type, pc.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", pc.Name, err)
		}
		entries = append(entries, ai.ChatterEntry{
			Name:    pc.Name,
			Chatter: ai.NewChatter(ai.WithRetry(provider, retry), pc.Model, pc.Temperature),
		})
	}
	return ai.NewGroupChatter(entries), nil
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logutil.GetLogger(ctx)
	log.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("samples", cfg.Samples.Type),
		zap.Int("ngram_size", cfg.NGramSize),
		zap.Int("pair_count", cfg.PairCount),
	)

	promptCfg, err := config.LoadPrompt(cfg.PromptFile)
	if err != nil {
		return err
	}
	corpusService, err := newCorpusService(cfg)
	if err != nil {
		return err
	}
	if err := corpusService.Load(ctx); err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	chatter, err := newChatter(cfg)
	if err != nil {
		return err
	}
	log.Info("ai providers ready", zap.String("models", chatter.ModelName()))
	codegenService := service.NewCodeGenService(corpusService, prompt.NewBuilder(*promptCfg), chatter, service.CodeGenConfig{
		Timeout:   time.Duration(cfg.AI.Timeout) * time.Second,
		CacheSize: cfg.AI.CacheSize,
		CacheTTL:  time.Duration(cfg.AI.CacheTTLMinutes) * time.Minute,
	})

	scheduler := schedule.NewCronScheduler()
	if cfg.ReloadCron != "" {
		if err := scheduler.AddJob(job.NewCorpusReloadJob(corpusService), cfg.ReloadCron); err != nil {
			return fmt.Errorf("schedule corpus reload: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	deps := handler.RouterDeps{
		CodeGen:        handler.NewCodeGenHandler(codegenService, corpusService),
		JWTSecret:      []byte(cfg.JWTSecret),
		RatePerSecond:  cfg.RateLimit.PerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
	}
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	log.Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("server stopping...")
	return nil
}
