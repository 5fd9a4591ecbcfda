package cmd

import (
	"github.com/Yates-Labs/reelmate/internal/favorites"
	"github.com/Yates-Labs/reelmate/internal/llm"
	"github.com/Yates-Labs/reelmate/internal/logging"
	"github.com/Yates-Labs/reelmate/internal/tmdb"
)

// newLLM builds the configured chat model.
func newLLM() (*llm.OpenAILLM, error) {
	lc, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	model, err := llm.New(lc)
	if err != nil {
		return nil, err
	}
	logger.Debugw("llm ready", logging.FieldProvider, lc.Provider, logging.FieldModel, lc.Model)
	return model, nil
}

func openStore() (*favorites.Store, error) {
	return favorites.NewStore(cfg.Favorites.Path, logger)
}

func newTMDbClient() (*tmdb.Client, error) {
	tc, err := cfg.TMDbConfig()
	if err != nil {
		return nil, err
	}
	return tmdb.NewClient(tc, logger)
}

// assistantTools collects the favorites tools and, when TMDb is configured,
// the TMDb tools. The returned cleanup closes the TMDb client.
func assistantTools(store *favorites.Store) ([]llm.Tool, func()) {
	tools := favorites.Tools(store)

	client, err := newTMDbClient()
	if err != nil {
		logger.Warnw("TMDb tools disabled", "error", err)
		return tools, func() {}
	}
	return append(tools, tmdb.Tools(client)...), func() { client.Close() }
}
