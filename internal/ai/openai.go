package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xxxsen/codegen/internal/model"
)

const (
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
	defaultChatPath        = "/chat/completions"
)

type openAIConfig struct {
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	ChatPath string `json:"chat_path"`
}

// openAIProvider talks to any OpenAI compatible chat completions endpoint.
type openAIProvider struct {
	name     string
	apiKey   string
	baseURL  string
	chatPath string
	headers  map[string]string
	client   *http.Client
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []model.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
	Stream      bool            `json:"stream"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *openAIProvider) Name() string {
	return p.name
}

func (p *openAIProvider) Chat(ctx context.Context, req ChatRequest) (*model.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/" + strings.TrimLeft(p.chatPath, "/")
	data, err := json.Marshal(openAIChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		Stream:      false,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range p.headers {
		httpReq.Header.Set(k, v)
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", p.name, err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%s response has no choices", p.name)
	}
	result := &model.ChatResponse{Model: out.Model, Choices: make([]model.Choice, 0, len(out.Choices))}
	for _, c := range out.Choices {
		result.Choices = append(result.Choices, model.Choice{
			Index:   c.Index,
			Message: model.Message{Role: c.Message.Role, Content: c.Message.Content},
		})
	}
	return result, nil
}

func newCompatibleFactory(name, defaultBaseURL string) ProviderFactory {
	return func(args interface{}) (IProvider, error) {
		cfg := &openAIConfig{}
		if err := decodeConfig(args, cfg); err != nil {
			return nil, err
		}
		baseURL := strings.TrimSpace(cfg.BaseURL)
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		chatPath := strings.TrimSpace(cfg.ChatPath)
		if chatPath == "" {
			chatPath = defaultChatPath
		}
		return &openAIProvider{
			name:     name,
			apiKey:   strings.TrimSpace(cfg.APIKey),
			baseURL:  baseURL,
			chatPath: chatPath,
			client:   http.DefaultClient,
		}, nil
	}
}

func init() {
	Register("openai", newCompatibleFactory("openai", defaultOpenAIBaseURL))
	Register("deepseek", newCompatibleFactory("deepseek", defaultDeepSeekBaseURL))
}
