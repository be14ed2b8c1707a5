package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/model"
)

type ChatterEntry struct {
	Name    string
	Chatter IChatter
}

type groupChatter struct {
	items []ChatterEntry
}

// NewGroupChatter tries each chatter in order and returns the first
// successful response.
func NewGroupChatter(items []ChatterEntry) IChatter {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0].Chatter
	}
	return &groupChatter{items: items}
}

func (g *groupChatter) Chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Chatter == nil {
			continue
		}
		res, err := item.Chatter.Chat(ctx, messages)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		logutil.GetLogger(ctx).Warn("chatter failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
	}
	if lastErr == nil {
		return nil, fmt.Errorf("chatter not configured")
	}
	return nil, lastErr
}

func (g *groupChatter) ModelName() string {
	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if item.Chatter == nil {
			continue
		}
		names = append(names, item.Chatter.ModelName())
	}
	return strings.Join(names, "|")
}
