// Package tmdb is a read-only client for The Movie Database v3 API, covering
// genre lists, top titles by genre and movie search.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Yates-Labs/reelmate/internal/logging"
)

var (
	ErrUnauthorized  = errors.New("tmdb: unauthorized")
	ErrRequestFailed = errors.New("tmdb: request failed")
	ErrGenreNotFound = errors.New("tmdb: genre not found")
	ErrMissingAPIKey = errors.New("tmdb: missing API key (set TMDB_API_KEY)")
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	defaultTimeout  = 15 * time.Second
	defaultLanguage = "en-US"
	userAgent       = "reelmate/1.0"
)

// Kind selects the movie or TV variant of an endpoint.
type Kind string

const (
	Movie Kind = "movie"
	TV    Kind = "tv"
)

// Config configures a Client.
type Config struct {
	// APIKey is either a v3 API key or a v4 read access token.
	APIKey  string
	BaseURL string
	// CachePath enables the on-disk genre cache when set.
	CachePath string
	Timeout   time.Duration
	Language  string
}

// Client talks to TMDb.
type Client struct {
	baseURL    string
	apiKey     string
	bearer     bool
	language   string
	httpClient *http.Client
	cache      *GenreCache
	logger     *zap.SugaredLogger

	mu     sync.Mutex
	genres map[Kind][]Genre
}

// NewClient creates a client. The caller must Close it to release the cache.
func NewClient(cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		bearer:     isAccessToken(cfg.APIKey),
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logging.OrNop(logger).Named("tmdb"),
		genres:     map[Kind][]Genre{},
	}

	if cfg.CachePath != "" {
		cache, err := OpenGenreCache(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// Close releases the genre cache.
func (c *Client) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

// isAccessToken reports whether key is a v4 read access token (a JWT).
func isAccessToken(key string) bool {
	return strings.HasPrefix(key, "eyJ") && strings.Count(key, ".") == 2
}

// doRequest performs an authenticated GET and decodes the JSON body into dest.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", c.language)
	if !c.bearer {
		query.Set("api_key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debugw("tmdb request", logging.FieldURL, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			msg = apiErr.StatusMessage
		}
		c.logger.Errorw("tmdb request error", logging.FieldURL, path, logging.FieldStatus, resp.StatusCode)
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: parsing response: %v", ErrRequestFailed, err)
	}
	return nil
}

// discover returns the most popular titles of kind in the given genre.
func (c *Client) discover(ctx context.Context, kind Kind, genreID int) ([]Title, error) {
	query := url.Values{}
	query.Set("with_genres", strconv.Itoa(genreID))
	query.Set("sort_by", "popularity.desc")
	query.Set("page", "1")

	var resp pagedResponse
	if err := c.doRequest(ctx, "/discover/"+string(kind), query, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchMovie finds movies whose title matches query.
func (c *Client) SearchMovie(ctx context.Context, query string) ([]Title, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")

	var resp pagedResponse
	if err := c.doRequest(ctx, "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// TopMoviesByGenre resolves the genre name and lists popular movies in it.
func (c *Client) TopMoviesByGenre(ctx context.Context, genre string) ([]Title, error) {
	return c.topByGenre(ctx, Movie, genre)
}

// TopTVShowsByGenre resolves the genre name and lists popular shows in it.
func (c *Client) TopTVShowsByGenre(ctx context.Context, genre string) ([]Title, error) {
	return c.topByGenre(ctx, TV, genre)
}

func (c *Client) topByGenre(ctx context.Context, kind Kind, genre string) ([]Title, error) {
	g, err := c.ResolveGenre(ctx, kind, genre)
	if err != nil {
		return nil, err
	}
	return c.discover(ctx, kind, g.ID)
}
