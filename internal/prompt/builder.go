package prompt

import (
	"fmt"
	"strings"

	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/model"
)

const sep = "\n"

type Builder struct {
	cfg config.PromptConfig
}

func NewBuilder(cfg config.PromptConfig) *Builder {
	return &Builder{cfg: cfg}
}

// BuildSystemPrompt renders the base prompt, the rules as a bullet list and
// every context document under the context header.
func (b *Builder) BuildSystemPrompt(contexts []string) model.Message {
	rules := make([]string, 0, len(b.cfg.System.Rules))
	for _, rule := range b.cfg.System.Rules {
		rules = append(rules, "• "+rule)
	}
	blocks := make([]string, 0, len(contexts))
	for _, ctx := range contexts {
		blocks = append(blocks, "// Context API:"+sep+ctx)
	}
	content := strings.Join([]string{
		b.cfg.System.Base,
		"",
		"Rules:",
		strings.Join(rules, sep),
		"",
		b.cfg.System.ContextHeader,
		strings.Join(blocks, sep+sep),
	}, sep)
	return model.Message{Role: model.RoleSystem, Content: strings.TrimRight(content, sep)}
}

// BuildUserPrompt renders the instructions, the numbered examples and the
// source snippet to translate.
func (b *Builder) BuildUserPrompt(examples []model.CodePair, targetSource string) model.Message {
	formatted := make([]string, 0, len(examples))
	for i, pair := range examples {
		formatted = append(formatted, fmt.Sprintf(
			b.cfg.User.ExampleFormat,
			i+1,
			strings.TrimSpace(pair.Source),
			strings.TrimSpace(pair.Target),
		))
	}
	content := strings.Join([]string{
		strings.Join(b.cfg.User.Instructions, sep),
		"",
		strings.Join(formatted, sep+sep),
		"",
		b.cfg.User.TargetHeader,
		targetSource,
	}, sep)
	return model.Message{Role: model.RoleUser, Content: content}
}
