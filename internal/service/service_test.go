package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/model"
	"github.com/xxxsen/codegen/internal/prompt"
)

type fakeLoader struct {
	mu       sync.Mutex
	pairs    []model.CodePair
	contexts []string
	err      error
}

func (f *fakeLoader) LoadCodePairs(ctx context.Context) ([]model.CodePair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.CodePair, len(f.pairs))
	copy(out, f.pairs)
	return out, nil
}

func (f *fakeLoader) LoadContexts(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contexts, nil
}

func (f *fakeLoader) set(pairs []model.CodePair, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs = pairs
	f.err = err
}

type fakeChatter struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages [][]model.Message
}

func (f *fakeChatter) Chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &model.ChatResponse{
		Model:   "fake-model",
		Choices: []model.Choice{{Message: model.Message{Role: model.RoleAssistant, Content: f.reply}}},
	}, nil
}

func (f *fakeChatter) ModelName() string {
	return "fake-model"
}

var errLoad = errors.New("load failed")

func testPairs() []model.CodePair {
	return []model.CodePair{
		{Source: "select name from employees where id = 1;", Target: "repo.findName(1);"},
		{Source: "select name from employees where id = 2;", Target: "repo.findName(2);"},
		{Source: "update employees set name = 'x' where id = 3;", Target: "repo.rename(3, \"x\");"},
		{Source: "delete from audit where created < sysdate;", Target: "audit.purge();"},
		{Source: "insert into audit values (1, 'login');", Target: "audit.log(1, \"login\");"},
	}
}

func testBuilder() *prompt.Builder {
	return prompt.NewBuilder(config.PromptConfig{
		System: config.SystemPromptConfig{
			Base:          "Translate PL/SQL to Java.",
			Rules:         []string{"Keep names"},
			ContextHeader: "APIs:",
		},
		User: config.UserPromptConfig{
			Instructions:  []string{"Translate."},
			ExampleFormat: "Example %d:\n%s\n=>\n%s",
			TargetHeader:  "Snippet:",
		},
	})
}

func exampleCount(userPrompt string, max int) int {
	count := 0
	for i := 1; i <= max; i++ {
		if containsLine(userPrompt, fmt.Sprintf("Example %d:", i)) {
			count++
		}
	}
	return count
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if l == line {
			return true
		}
	}
	return false
}
