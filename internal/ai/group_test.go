package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/codegen/internal/model"
)

type fakeChatter struct {
	model string
	err   error
	calls int
}

func (f *fakeChatter) Chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.ChatResponse{Model: f.model, Choices: []model.Choice{{Message: model.Message{Role: model.RoleAssistant, Content: f.model}}}}, nil
}

func (f *fakeChatter) ModelName() string {
	return f.model
}

func TestGroupChatter_FailsOver(t *testing.T) {
	first := &fakeChatter{model: "a", err: errors.New("down")}
	second := &fakeChatter{model: "b"}
	third := &fakeChatter{model: "c"}
	group := NewGroupChatter([]ChatterEntry{
		{Name: "first", Chatter: first},
		{Name: "second", Chatter: second},
		{Name: "third", Chatter: third},
	})

	resp, err := group.Chat(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "b", resp.Model)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 0, third.calls)
	require.Equal(t, "a|b|c", group.ModelName())
}

func TestGroupChatter_ReturnsLastError(t *testing.T) {
	group := NewGroupChatter([]ChatterEntry{
		{Name: "first", Chatter: &fakeChatter{model: "a", err: errors.New("first down")}},
		{Name: "second", Chatter: &fakeChatter{model: "b", err: errors.New("second down")}},
	})
	_, err := group.Chat(context.Background(), nil)
	require.EqualError(t, err, "second down")
}

func TestGroupChatter_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := &fakeChatter{model: "b"}
	group := NewGroupChatter([]ChatterEntry{
		{Name: "first", Chatter: &fakeChatter{model: "a", err: context.Canceled}},
		{Name: "second", Chatter: second},
	})
	_, err := group.Chat(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, second.calls)
}

func TestNewGroupChatter_Shortcuts(t *testing.T) {
	require.Nil(t, NewGroupChatter(nil))
	only := &fakeChatter{model: "solo"}
	require.Same(t, IChatter(only), NewGroupChatter([]ChatterEntry{{Name: "solo", Chatter: only}}))
}
