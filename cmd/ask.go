package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/reelmate/internal/llm"
)

var (
	askTools bool
	verbose  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a single question",
	Long: `Send one prompt to the configured model and print the answer.

With --tools the model may read and change your favorites and query TMDb
while answering.

Examples:
  reelmate ask "Name three heist movies from the 90s"
  reelmate ask --tools "Add the best rated one to my favorites"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askTools, "tools", false, "Let the model use favorites and TMDb tools")
	askCmd.Flags().BoolVar(&verbose, "verbose", false, "Show the model in use")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx := context.Background()
	out := cmd.OutOrStdout()

	model, err := newLLM()
	if err != nil {
		return err
	}

	// Print question
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Question:"))
	fmt.Fprintln(out, promptStyle.Render(question))
	fmt.Fprintln(out)

	if verbose {
		mc := model.Config()
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("→ %s (%s)", mc.Model, mc.Provider)))
	}

	var answer string
	if askTools {
		store, err := openStore()
		if err != nil {
			return err
		}
		tools, cleanup := assistantTools(store)
		defer cleanup()
		answer, err = model.GenerateWithTools(ctx, []llm.Message{{Role: llm.RoleUser, Content: question}}, tools)
		if err != nil {
			return fmt.Errorf("failed to generate answer: %w", err)
		}
	} else {
		answer, err = model.Generate(ctx, question)
		if err != nil {
			return fmt.Errorf("failed to generate answer: %w", err)
		}
	}

	fmt.Fprintln(out, headerStyle.Render("Answer:"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, answerStyle.Render(strings.TrimSpace(answer)))
	fmt.Fprintln(out)
	return nil
}
