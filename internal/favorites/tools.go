package favorites

import (
	"context"

	"github.com/Yates-Labs/reelmate/internal/llm"
)

// Tools exposes the store's operations to a chat model.
func Tools(s *Store) []llm.Tool {
	return []llm.Tool{
		{
			Name:        "add_favorite_movie",
			Description: "Add a new movie to favorites list including genre",
			Params: []llm.ToolParam{
				{Name: "movie_title", Description: "Movie title", Required: true},
				{Name: "genre", Description: "Movie genre"},
			},
			Invoke: func(ctx context.Context, args map[string]string) (string, error) {
				return s.AddFavoriteMovie(args["movie_title"], args["genre"])
			},
		},
		{
			Name:        "get_all_favorites",
			Description: "Get all favorite movies",
			Invoke: func(ctx context.Context, args map[string]string) (string, error) {
				return s.GetAllFavorites()
			},
		},
		{
			Name:        "get_favorites_by_genre",
			Description: "Get favorite movies by genre",
			Params: []llm.ToolParam{
				{Name: "genre", Description: "Movie genre to filter by", Required: true},
			},
			Invoke: func(ctx context.Context, args map[string]string) (string, error) {
				return s.GetFavoritesByGenre(args["genre"])
			},
		},
		{
			Name:        "delete_favorite_movie",
			Description: "Delete a movie from favorites by ID or title",
			Params: []llm.ToolParam{
				{Name: "identifier", Description: "Movie ID (number) or movie title", Required: true},
			},
			Invoke: func(ctx context.Context, args map[string]string) (string, error) {
				return s.DeleteFavoriteMovie(args["identifier"])
			},
		},
	}
}
