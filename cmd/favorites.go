package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/reelmate/internal/favorites"
)

var (
	addGenre     string
	listGenre    string
	favTable     bool
	exportFormat string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the favorite movies list",
	Long: `Add, list and delete favorite movies. The list is stored as CSV
(id,title,genre,added_date) at favorites.path.`,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a movie to favorites",
	Example: `  reelmate favorites add "The Matrix" --genre Sci-Fi
  reelmate favorites add Heat`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		msg, err := store.AddFavoriteMovie(strings.Join(args, " "), addGenre)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
		return nil
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite movies",
	Example: `  reelmate favorites list
  reelmate favorites list --genre drama --table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if favTable {
			all, err := store.List()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No movies in favorites list yet.")
				return nil
			}
			entries, err := store.FilterByGenre(listGenre)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(out, "No '%s' movies found in favorites.\n", listGenre)
				return nil
			}
			outputTable(out, entries)
			return nil
		}

		var msg string
		if listGenre != "" {
			msg, err = store.GetFavoritesByGenre(listGenre)
		} else {
			msg, err = store.GetAllFavorites()
		}
		if err != nil {
			return err
		}
		fmt.Fprint(out, msg)
		if !strings.HasSuffix(msg, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	},
}

var favoritesDeleteCmd = &cobra.Command{
	Use:     "delete [id|title]",
	Aliases: []string{"rm"},
	Short:   "Delete a movie by id or title",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		msg, err := store.DeleteFavoriteMovie(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export favorites as JSON or YAML",
	Long:  `Export favorites to a file, or to stdout when the file is "-" or omitted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		entries, err := store.List()
		if err != nil {
			return err
		}

		if len(args) == 0 || args[0] == "-" {
			return favorites.ExportEntries(entries, exportFormat, cmd.OutOrStdout())
		}

		file, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer file.Close()

		if err := favorites.ExportEntries(entries, exportFormat, file); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Exported %d movies to %s", len(entries), args[0])))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesListCmd, favoritesDeleteCmd, favoritesExportCmd)

	favoritesAddCmd.Flags().StringVarP(&addGenre, "genre", "g", "", "Movie genre")
	favoritesListCmd.Flags().StringVarP(&listGenre, "genre", "g", "", "Only list movies whose genre contains this text")
	favoritesListCmd.Flags().BoolVar(&favTable, "table", false, "Render as a table")
	favoritesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or yaml")
}

func outputTable(w io.Writer, entries []favorites.Entry) {
	// Column widths
	const (
		idWidth    = 6
		titleWidth = 40
		genreWidth = 16
		dateWidth  = 21
	)

	cellHeader := headerStyle.Padding(0, 1)
	headers := []string{
		cellHeader.Width(idWidth).Render("ID"),
		cellHeader.Width(titleWidth).Render("TITLE"),
		cellHeader.Width(genreWidth).Render("GENRE"),
		cellHeader.Width(dateWidth).Render("ADDED"),
	}
	fmt.Fprintln(w, strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", idWidth),
		strings.Repeat("─", titleWidth),
		strings.Repeat("─", genreWidth),
		strings.Repeat("─", dateWidth),
	}
	fmt.Fprintln(w, borderStyle.Render(strings.Join(separatorParts, "┼")))

	idStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Width(idWidth).Align(lipgloss.Right)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Padding(0, 1).Width(titleWidth)
	genreStyle := lipgloss.NewStyle().Foreground(accentColor).Padding(0, 1).Width(genreWidth)
	dateStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1).Width(dateWidth)

	for _, e := range entries {
		cells := []string{
			idStyle.Render(e.IDString()),
			titleStyle.Render(truncate(e.Title, titleWidth-2)),
			genreStyle.Render(truncate(e.Genre, genreWidth-2)),
			dateStyle.Render(e.AddedString()),
		}
		fmt.Fprintln(w, strings.Join(cells, borderStyle.Render("│")))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d movies", len(entries))))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
