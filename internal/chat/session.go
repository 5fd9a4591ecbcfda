package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Yates-Labs/reelmate/internal/llm"
	"github.com/Yates-Labs/reelmate/internal/logging"
	"github.com/Yates-Labs/reelmate/internal/prompt"
)

const (
	userPrompt  = "User:> "
	agentPrefix = "GPT Agent:> "
	exitCommand = "exit"
	exitMessage = "\n\nExiting chat...\n"
)

// Session is a conversation bound to one model, prompt template and tool set.
type Session struct {
	llm      llm.LLM
	template *prompt.Template
	tools    []llm.Tool
	history  History
	logger   *zap.SugaredLogger
}

// NewSession creates a session. A nil template uses prompt.ChatTemplate.
func NewSession(model llm.LLM, tmpl *prompt.Template, tools []llm.Tool, logger *zap.SugaredLogger) *Session {
	if tmpl == nil {
		tmpl = prompt.ChatTemplate()
	}
	return &Session{
		llm:      model,
		template: tmpl,
		tools:    tools,
		logger:   logging.OrNop(logger).Named("chat"),
	}
}

// History returns the session history.
func (s *Session) History() *History {
	return &s.history
}

// Send renders the template with the input and the history so far, asks the
// model for a reply and records both turns. Failed turns are not recorded.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: chat session has no model", llm.ErrInvalidConfig)
	}

	rendered, err := s.template.Render(map[string]string{
		"user_input": input,
		"history":    s.history.Render(),
	})
	if err != nil {
		return "", err
	}

	model := s.llm
	if c, ok := model.(llm.Configurable); ok && s.template.Execution != (prompt.ExecutionSettings{}) {
		model = c.WithSettings(s.template.Execution.Settings())
	}

	var reply string
	if tc, ok := model.(llm.ToolCaller); ok && len(s.tools) > 0 {
		s.logger.Debugw("sending with tools", logging.FieldCount, len(s.tools))
		reply, err = tc.GenerateWithTools(ctx, []llm.Message{{Role: llm.RoleUser, Content: rendered}}, s.tools)
	} else {
		reply, err = model.Generate(ctx, rendered)
	}
	if err != nil {
		return "", err
	}

	s.history.AddUser(input)
	s.history.AddAssistant(reply)
	return reply, nil
}

// Loop reads user lines from in and writes replies to out until the user
// types "exit", input ends or ctx is cancelled. A failed turn is reported
// and the loop carries on.
func (s *Session) Loop(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprint(out, exitMessage)
			return err
		}

		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprint(out, exitMessage)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, exitCommand) {
			fmt.Fprint(out, exitMessage)
			return nil
		}

		reply, err := s.Send(ctx, input)
		if err != nil {
			s.logger.Warnw("chat turn failed", zap.Error(err))
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s%s\n", agentPrefix, reply)
	}
}
