package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/reelmate/internal/chat"
	"github.com/Yates-Labs/reelmate/internal/llm"
	"github.com/Yates-Labs/reelmate/internal/prompt"
)

var noTools bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the movie assistant",
	Long: `Start an interactive chat with the movie assistant.

The assistant can manage your favorites list and, when TMDB_API_KEY is set,
look up genres and top titles on TMDb. Type "exit" or press Ctrl-D to quit.

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key (or the AZURE_OPENAI_* set with llm.provider: azure)
  TMDB_API_KEY       - optional, enables TMDb tools`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&noTools, "no-tools", false, "Disable favorites and TMDb tools")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	model, err := newLLM()
	if err != nil {
		return err
	}

	var tools []llm.Tool
	if !noTools {
		store, err := openStore()
		if err != nil {
			return err
		}
		var cleanup func()
		tools, cleanup = assistantTools(store)
		defer cleanup()
	}

	session := chat.NewSession(model, prompt.ChatTemplate(), tools, logger)
	session.History().AddSystem("You are a comprehensive movie recommendation and favorites management assistant with TMDB database access and CSV-based favorites storage.")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render("Movie Assistant"))
	if noTools {
		fmt.Fprintln(out, mutedStyle.Render("Tools disabled: answers come from the model alone."))
	} else {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d tools available: favorites management and movie discovery.", len(tools))))
	}
	fmt.Fprintln(out, mutedStyle.Render(`Type "exit" to quit.`))
	fmt.Fprintln(out)

	err = session.Loop(ctx, cmd.InOrStdin(), out)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
