package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/reelmate/internal/tmdb"
)

var tvFlag bool

var tmdbCmd = &cobra.Command{
	Use:   "tmdb",
	Short: "Query The Movie Database",
	Long: `Look up genres and popular titles on TMDb.

Required environment variables:
  TMDB_API_KEY       - TMDb v3 API key or v4 read access token`,
}

var tmdbGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List movie genres (or TV genres with --tv)",
	Args:  cobra.NoArgs,
	RunE: withTMDb(func(ctx context.Context, c *tmdb.Client, cmd *cobra.Command, args []string) error {
		genres, err := c.Genres(ctx, kindFlag())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tmdb.GenreNames(genres))
		return nil
	}),
}

var tmdbTopCmd = &cobra.Command{
	Use:     "top [genre]",
	Short:   "List popular titles in a genre",
	Example: `  reelmate tmdb top action
  reelmate tmdb top comedy --tv`,
	Args: cobra.ExactArgs(1),
	RunE: withTMDb(func(ctx context.Context, c *tmdb.Client, cmd *cobra.Command, args []string) error {
		var titles []tmdb.Title
		var err error
		if tvFlag {
			titles, err = c.TopTVShowsByGenre(ctx, args[0])
		} else {
			titles, err = c.TopMoviesByGenre(ctx, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tmdb.FormatTitles(titles))
		return nil
	}),
}

var tmdbGenreIDCmd = &cobra.Command{
	Use:   "genre-id [genre]",
	Short: "Show the TMDb id of a genre",
	Args:  cobra.ExactArgs(1),
	RunE: withTMDb(func(ctx context.Context, c *tmdb.Client, cmd *cobra.Command, args []string) error {
		g, err := c.ResolveGenre(ctx, kindFlag(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", g.ID, g.Name)
		return nil
	}),
}

var tmdbSearchCmd = &cobra.Command{
	Use:   "search [title]",
	Short: "Search movies by title",
	Args:  cobra.ExactArgs(1),
	RunE: withTMDb(func(ctx context.Context, c *tmdb.Client, cmd *cobra.Command, args []string) error {
		titles, err := c.SearchMovie(ctx, args[0])
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No movies found.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), tmdb.FormatTitles(titles))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(tmdbCmd)
	tmdbCmd.AddCommand(tmdbGenresCmd, tmdbTopCmd, tmdbGenreIDCmd, tmdbSearchCmd)
	tmdbCmd.PersistentFlags().BoolVar(&tvFlag, "tv", false, "Use TV genres and shows instead of movies")
}

func kindFlag() tmdb.Kind {
	if tvFlag {
		return tmdb.TV
	}
	return tmdb.Movie
}

// withTMDb opens a client for the duration of one command.
func withTMDb(run func(context.Context, *tmdb.Client, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := newTMDbClient()
		if err != nil {
			return err
		}
		defer client.Close()
		return run(cmd.Context(), client, cmd, args)
	}
}
