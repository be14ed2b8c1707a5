package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/model"
)

func testPromptConfig() config.PromptConfig {
	return config.PromptConfig{
		System: config.SystemPromptConfig{
			Base:          "You translate PL/SQL to Java.",
			Rules:         []string{"Keep names", "No comments"},
			ContextHeader: "Available APIs:",
		},
		User: config.UserPromptConfig{
			Instructions:  []string{"Translate the snippet.", "Return only code."},
			ExampleFormat: "Example %d:\n%s\n=>\n%s",
			TargetHeader:  "Snippet:",
		},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	b := NewBuilder(testPromptConfig())

	msg := b.BuildSystemPrompt([]string{"class Repo {}", "class Audit {}"})
	require.Equal(t, model.RoleSystem, msg.Role)
	require.Equal(t,
		"You translate PL/SQL to Java.\n\n"+
			"Rules:\n• Keep names\n• No comments\n\n"+
			"Available APIs:\n"+
			"// Context API:\nclass Repo {}\n\n"+
			"// Context API:\nclass Audit {}",
		msg.Content,
	)
}

func TestBuildSystemPrompt_NoContexts(t *testing.T) {
	b := NewBuilder(testPromptConfig())
	msg := b.BuildSystemPrompt(nil)
	require.Equal(t, "You translate PL/SQL to Java.\n\nRules:\n• Keep names\n• No comments\n\nAvailable APIs:", msg.Content)
}

func TestBuildUserPrompt(t *testing.T) {
	b := NewBuilder(testPromptConfig())

	msg := b.BuildUserPrompt([]model.CodePair{
		{Source: "  select 1 from dual;\n", Target: "\nint one = 1;  "},
		{Source: "select 2 from dual;", Target: "int two = 2;"},
	}, "select 3 from dual;")

	require.Equal(t, model.RoleUser, msg.Role)
	require.Equal(t,
		"Translate the snippet.\nReturn only code.\n\n"+
			"Example 1:\nselect 1 from dual;\n=>\nint one = 1;\n\n"+
			"Example 2:\nselect 2 from dual;\n=>\nint two = 2;\n\n"+
			"Snippet:\nselect 3 from dual;",
		msg.Content,
	)
}

func TestBuildUserPrompt_NoExamples(t *testing.T) {
	b := NewBuilder(testPromptConfig())
	msg := b.BuildUserPrompt(nil, "select 3 from dual;")
	require.Equal(t, "Translate the snippet.\nReturn only code.\n\n\n\nSnippet:\nselect 3 from dual;", msg.Content)
}
