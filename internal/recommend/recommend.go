// Package recommend asks the model for titles based on a list of movies the
// user has seen, or on a free-form request.
package recommend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Yates-Labs/reelmate/internal/llm"
	"github.com/Yates-Labs/reelmate/internal/logging"
	"github.com/Yates-Labs/reelmate/internal/prompt"
)

var ErrSeenList = errors.New("seen movie list unavailable")

const (
	// DefaultSeenPath is the seen list read when no path is configured.
	DefaultSeenPath = "seen_movies.txt"
	PluginName      = "Recommender"
	FunctionName    = "Recommend_Movies"
)

// Request describes a custom recommendation. Empty fields take defaults.
type Request struct {
	Format  string
	Subject string
	Genre   string
	Custom  string
}

// DefaultRequest is a time-travel medieval comedy movie.
func DefaultRequest() Request {
	return Request{
		Format:  "movie",
		Subject: "time travel",
		Genre:   "medieval",
		Custom:  "must be a comedy",
	}
}

func (r Request) withDefaults() Request {
	d := DefaultRequest()
	if r.Format == "" {
		r.Format = d.Format
	}
	if r.Subject == "" {
		r.Subject = d.Subject
	}
	if r.Genre == "" {
		r.Genre = d.Genre
	}
	if r.Custom == "" {
		r.Custom = d.Custom
	}
	return r
}

// Recommender runs the recommendation prompts against one model.
type Recommender struct {
	seen   *prompt.Function
	custom *prompt.Function
	logger *zap.SugaredLogger
}

// New creates a recommender. A nil seenTemplate uses the built-in one.
func New(model llm.LLM, seenTemplate *prompt.Template, logger *zap.SugaredLogger) *Recommender {
	if seenTemplate == nil {
		seenTemplate = prompt.SeenMoviesTemplate()
	}
	return &Recommender{
		seen:   prompt.NewFunction(seenTemplate, model),
		custom: prompt.NewFunction(prompt.RecommendTemplate(), model),
		logger: logging.OrNop(logger).Named("recommend"),
	}
}

// FromSeen recommends titles the user has not watched yet.
func (r *Recommender) FromSeen(ctx context.Context, seen []string) (string, error) {
	cleaned := cleanTitles(seen)
	if len(cleaned) == 0 {
		return "", fmt.Errorf("%w: no titles given", ErrSeenList)
	}
	r.logger.Debugw("recommending from seen list", logging.FieldCount, len(cleaned))
	return r.seen.Invoke(ctx, map[string]string{"input": strings.Join(cleaned, ", ")})
}

// Custom recommends a title matching the request.
func (r *Recommender) Custom(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	r.logger.Debugw("custom recommendation", "format", req.Format, "subject", req.Subject, logging.FieldGenre, req.Genre)
	return r.custom.Invoke(ctx, map[string]string{
		"format":  req.Format,
		"subject": req.Subject,
		"genre":   req.Genre,
		"custom":  req.Custom,
	})
}

// LoadSeenMovies reads one title per line and returns them joined by ", ".
func LoadSeenMovies(path string) (string, error) {
	titles, err := ReadSeenMovies(path)
	if err != nil {
		return "", err
	}
	return strings.Join(titles, ", "), nil
}

// ReadSeenMovies reads one title per line, skipping blank lines.
func ReadSeenMovies(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeenList, err)
	}
	defer f.Close()

	var titles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		titles = append(titles, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeenList, err)
	}
	return cleanTitles(titles), nil
}

func cleanTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SeenTemplate loads Recommender/Recommend_Movies from the plugin directory,
// falling back to the built-in template when the plugin is unavailable.
func SeenTemplate(pluginDir string, logger *zap.SugaredLogger) *prompt.Template {
	logger = logging.OrNop(logger)
	plugin, err := prompt.LoadPlugin(pluginDir, PluginName)
	if err == nil {
		var tmpl *prompt.Template
		if tmpl, err = plugin.Function(FunctionName); err == nil {
			return tmpl
		}
	}
	logger.Infow("using built-in recommendation prompt", logging.FieldPath, pluginDir, "reason", err)
	return prompt.SeenMoviesTemplate()
}
