// Package prompt renders named prompt templates and loads them from plugin
// directories. A template references arguments as {{$name}}; declared input
// variables may be required or carry defaults.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Yates-Labs/reelmate/internal/llm"
)

var (
	ErrMissingVariable  = errors.New("missing required prompt variable")
	ErrInvalidPlugin    = errors.New("invalid prompt plugin")
	ErrFunctionNotFound = errors.New("prompt function not found")
)

var placeholder = regexp.MustCompile(`\{\{\s*\$([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// InputVariable declares one template argument.
type InputVariable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"is_required"`
	Default     string `yaml:"default"`
}

// ExecutionSettings are sampling overrides applied when the template runs.
type ExecutionSettings struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
}

// Settings converts the execution settings to an llm override.
func (e ExecutionSettings) Settings() llm.Settings {
	return llm.Settings{
		Temperature: e.Temperature,
		TopP:        e.TopP,
		MaxTokens:   e.MaxTokens,
	}
}

// Template is a named prompt with declared inputs.
type Template struct {
	Name           string
	Description    string
	Text           string
	InputVariables []InputVariable
	Execution      ExecutionSettings
}

// Variables lists the placeholders used in text, in order of first use.
func Variables(text string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render substitutes args into the template. Declared defaults fill missing
// arguments; a required variable with neither is an error. Placeholders that
// were never declared render the argument or nothing.
func (t *Template) Render(args map[string]string) (string, error) {
	values := make(map[string]string, len(args)+len(t.InputVariables))
	for _, v := range t.InputVariables {
		if v.Default != "" {
			values[v.Name] = v.Default
		}
	}
	for k, v := range args {
		if v != "" {
			values[k] = v
		} else if _, ok := values[k]; !ok {
			values[k] = v
		}
	}

	var missing []string
	for _, v := range t.InputVariables {
		if v.Required && values[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s (template %s)", ErrMissingVariable, strings.Join(missing, ", "), t.Name)
	}

	return placeholder.ReplaceAllStringFunc(t.Text, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return values[name]
	}), nil
}

// Function binds a template to a model.
type Function struct {
	Template *Template
	LLM      llm.LLM
}

// NewFunction creates a prompt function.
func NewFunction(t *Template, model llm.LLM) *Function {
	return &Function{Template: t, LLM: model}
}

// Invoke renders the template and sends it to the model, applying the
// template's execution settings when the model accepts overrides.
func (f *Function) Invoke(ctx context.Context, args map[string]string) (string, error) {
	if f.LLM == nil {
		return "", fmt.Errorf("%w: no model bound to %s", llm.ErrInvalidConfig, f.Template.Name)
	}

	rendered, err := f.Template.Render(args)
	if err != nil {
		return "", err
	}

	model := f.LLM
	if c, ok := model.(llm.Configurable); ok && f.Template.Execution != (ExecutionSettings{}) {
		model = c.WithSettings(f.Template.Execution.Settings())
	}

	return model.Generate(ctx, rendered)
}
