package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/codegen/internal/model"
)

type ChatRequest struct {
	Model       string
	Temperature float64
	Messages    []model.Message
}

type IProvider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*model.ChatResponse, error)
}

// IChatter binds a provider to a model and temperature.
type IChatter interface {
	Chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error)
	ModelName() string
}

type chatter struct {
	provider    IProvider
	model       string
	temperature float64
}

func NewChatter(p IProvider, model string, temperature float64) IChatter {
	return &chatter{provider: p, model: model, temperature: temperature}
}

func (c *chatter) Chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error) {
	return c.provider.Chat(ctx, ChatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    messages,
	})
}

func (c *chatter) ModelName() string {
	return c.model
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider type is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}
