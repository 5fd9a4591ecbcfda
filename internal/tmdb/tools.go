package tmdb

import (
	"context"
	"strconv"

	"github.com/Yates-Labs/reelmate/internal/llm"
)

// Tools exposes the client's read operations to a chat model.
func Tools(c *Client) []llm.Tool {
	genreParam := []llm.ToolParam{{Name: "genre_name", Description: "Genre name, e.g. action", Required: true}}

	genreID := func(kind Kind) func(context.Context, map[string]string) (string, error) {
		return func(ctx context.Context, args map[string]string) (string, error) {
			g, err := c.ResolveGenre(ctx, kind, args["genre_name"])
			if err != nil {
				return "", err
			}
			return strconv.Itoa(g.ID), nil
		}
	}
	top := func(kind Kind) func(context.Context, map[string]string) (string, error) {
		return func(ctx context.Context, args map[string]string) (string, error) {
			titles, err := c.topByGenre(ctx, kind, args["genre_name"])
			if err != nil {
				return "", err
			}
			return TitleNames(titles), nil
		}
	}
	list := func(kind Kind) func(context.Context, map[string]string) (string, error) {
		return func(ctx context.Context, _ map[string]string) (string, error) {
			genres, err := c.Genres(ctx, kind)
			if err != nil {
				return "", err
			}
			return GenreNames(genres), nil
		}
	}

	return []llm.Tool{
		{Name: "get_movie_genre_id", Description: "Gets the id of a movie genre", Params: genreParam, Invoke: genreID(Movie)},
		{Name: "get_tv_show_genre_id", Description: "Gets the id of a TV show genre", Params: genreParam, Invoke: genreID(TV)},
		{Name: "get_top_movies_by_genre", Description: "Gets a list of currently playing movies for a genre", Params: genreParam, Invoke: top(Movie)},
		{Name: "get_top_tv_shows_by_genre", Description: "Gets a list of currently airing TV shows for a genre", Params: genreParam, Invoke: top(TV)},
		{Name: "get_movie_genres", Description: "Gets a list of all movie genres", Invoke: list(Movie)},
		{Name: "get_tv_show_genres", Description: "Gets a list of all TV show genres", Invoke: list(TV)},
		{
			Name:        "search_movie",
			Description: "Searches for movies by title",
			Params:      []llm.ToolParam{{Name: "query", Description: "Movie title to search for", Required: true}},
			Invoke: func(ctx context.Context, args map[string]string) (string, error) {
				titles, err := c.SearchMovie(ctx, args["query"])
				if err != nil {
					return "", err
				}
				if len(titles) == 0 {
					return "No movies found.", nil
				}
				return FormatTitles(titles), nil
			},
		},
	}
}
