package tmdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/Yates-Labs/reelmate/internal/logging"
)

// Genres returns the genre list for kind, served from memory or the disk
// cache before falling back to the API.
func (c *Client) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	c.mu.Lock()
	cached, ok := c.genres[kind]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	if c.cache != nil {
		if genres, ok := c.cache.Get(kind); ok {
			c.remember(kind, genres)
			return genres, nil
		}
	}

	var resp genreListResponse
	if err := c.doRequest(ctx, "/genre/"+string(kind)+"/list", nil, &resp); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(kind, resp.Genres); err != nil {
			c.logger.Warnw("failed to cache genres", "kind", string(kind), "error", err)
		}
	}
	c.remember(kind, resp.Genres)
	c.logger.Debugw("fetched genres", "kind", string(kind), logging.FieldCount, len(resp.Genres))
	return resp.Genres, nil
}

func (c *Client) remember(kind Kind, genres []Genre) {
	c.mu.Lock()
	c.genres[kind] = genres
	c.mu.Unlock()
}

// MovieGenres lists movie genres.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	return c.Genres(ctx, Movie)
}

// TVGenres lists TV genres.
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	return c.Genres(ctx, TV)
}

// AllGenres fetches the movie and TV lists concurrently.
func (c *Client) AllGenres(ctx context.Context) (movie, tv []Genre, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		movie, e = c.MovieGenres(ctx)
		return e
	})
	g.Go(func() error {
		var e error
		tv, e = c.TVGenres(ctx)
		return e
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return movie, tv, nil
}

// ResolveGenre maps a user-supplied genre name onto a TMDb genre of kind.
func (c *Client) ResolveGenre(ctx context.Context, kind Kind, name string) (Genre, error) {
	genres, err := c.Genres(ctx, kind)
	if err != nil {
		return Genre{}, err
	}
	g, ok := FindGenre(genres, name)
	if !ok {
		return Genre{}, fmt.Errorf("%w: %q (%s)", ErrGenreNotFound, name, kind)
	}
	if !strings.EqualFold(g.Name, strings.TrimSpace(name)) {
		c.logger.Debugw("fuzzy genre match", logging.FieldGenre, name, "match", g.Name)
	}
	return g, nil
}

// MovieGenreID returns the id of the named movie genre.
func (c *Client) MovieGenreID(ctx context.Context, name string) (int, error) {
	g, err := c.ResolveGenre(ctx, Movie, name)
	return g.ID, err
}

// TVGenreID returns the id of the named TV genre.
func (c *Client) TVGenreID(ctx context.Context, name string) (int, error) {
	g, err := c.ResolveGenre(ctx, TV, name)
	return g.ID, err
}

// FindGenre matches name case-insensitively, then by closest fuzzy match,
// then by a genre name contained in the query ("action movies").
func FindGenre(genres []Genre, name string) (Genre, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Genre{}, false
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
		names[i] = g.Name
	}

	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Stable(ranks)
		return genres[ranks[0].OriginalIndex], true
	}

	lower := strings.ToLower(name)
	for _, g := range genres {
		if strings.Contains(lower, strings.ToLower(g.Name)) {
			return g, true
		}
	}
	return Genre{}, false
}

// GenreNames joins genre names with ", ".
func GenreNames(genres []Genre) string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// TitleNames joins title display names with ", ".
func TitleNames(titles []Title) string {
	names := make([]string, len(titles))
	for i, t := range titles {
		names[i] = t.DisplayName()
	}
	return strings.Join(names, ", ")
}

// FormatTitles renders one line per title with year and rating.
func FormatTitles(titles []Title) string {
	var b strings.Builder
	for _, t := range titles {
		fmt.Fprintf(&b, "%s", t.DisplayName())
		if year := t.Year(); year != "" {
			fmt.Fprintf(&b, " (%s)", year)
		}
		if t.VoteAverage > 0 {
			fmt.Fprintf(&b, " - %.1f/10", t.VoteAverage)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
