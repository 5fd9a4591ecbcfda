package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/reelmate/internal/recommend"
)

var (
	seenFile string
	recReq   recommend.Request
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend movies",
	Long: `Recommend movies from the list of titles you have already seen, or from a
custom description.

Without custom flags, titles are read one per line from --seen
(default recommend.seen_path) and sent through the Recommender plugin in
plugins.dir. Any of --format, --subject, --genre or --custom switches to a
custom request; unset fields default to a time travel medieval comedy movie.

Examples:
  reelmate recommend
  reelmate recommend --seen watched.txt
  reelmate recommend --subject heists --genre noir`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&seenFile, "seen", "", "File listing movies already seen, one per line")
	recommendCmd.Flags().StringVar(&recReq.Format, "format", "", "Format to recommend (movie, series, ...)")
	recommendCmd.Flags().StringVar(&recReq.Subject, "subject", "", "Subject to recommend")
	recommendCmd.Flags().StringVar(&recReq.Genre, "genre", "", "Genre to recommend")
	recommendCmd.Flags().StringVar(&recReq.Custom, "custom", "", "Any other requirement")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	model, err := newLLM()
	if err != nil {
		return err
	}

	custom := false
	for _, name := range []string{"format", "subject", "genre", "custom"} {
		if cmd.Flags().Changed(name) {
			custom = true
		}
	}

	out := cmd.OutOrStdout()
	var answer string
	if custom {
		r := recommend.New(model, nil, logger)
		answer, err = r.Custom(ctx, recReq)
	} else {
		path := seenFile
		if path == "" {
			path = cfg.Recommend.SeenPath
		}
		var seen []string
		seen, err = recommend.ReadSeenMovies(path)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, headerStyle.Render("Already seen:"))
		fmt.Fprintln(out, promptStyle.Render(strings.Join(seen, ", ")))
		fmt.Fprintln(out)

		r := recommend.New(model, recommend.SeenTemplate(cfg.Plugins.Dir, logger), logger)
		answer, err = r.FromSeen(ctx, seen)
	}
	if err != nil {
		return fmt.Errorf("failed to generate recommendation: %w", err)
	}

	fmt.Fprintln(out, headerStyle.Render("Recommendation:"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, answerStyle.Render(strings.TrimSpace(answer)))
	fmt.Fprintln(out)
	return nil
}
