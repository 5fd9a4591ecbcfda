// Package config loads reelmate settings from defaults, an optional
// reelmate.yaml and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Yates-Labs/reelmate/internal/favorites"
	"github.com/Yates-Labs/reelmate/internal/llm"
	"github.com/Yates-Labs/reelmate/internal/recommend"
	"github.com/Yates-Labs/reelmate/internal/tmdb"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	configName = "reelmate"
	envPrefix  = "REELMATE"
)

type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Azure     AzureConfig     `mapstructure:"azure"`
	TMDb      TMDbConfig      `mapstructure:"tmdb"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Plugins   PluginsConfig   `mapstructure:"plugins"`
	Log       LogConfig       `mapstructure:"log"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	TopP        float32 `mapstructure:"top_p"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	OrgID  string `mapstructure:"org_id"`
}

type AzureConfig struct {
	Deployment string `mapstructure:"deployment"`
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	APIVersion string `mapstructure:"api_version"`
}

type TMDbConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	CachePath string `mapstructure:"cache_path"`
}

type FavoritesConfig struct {
	Path string `mapstructure:"path"`
}

type RecommendConfig struct {
	SeenPath string `mapstructure:"seen_path"`
}

type PluginsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.model", d.Model)
	v.SetDefault("llm.max_tokens", d.MaxTokens)
	v.SetDefault("llm.temperature", d.Temperature)
	v.SetDefault("llm.top_p", d.TopP)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.org_id", "")

	v.SetDefault("azure.deployment", "")
	v.SetDefault("azure.api_key", "")
	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.api_version", d.APIVersion)

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.cache_path", "")

	v.SetDefault("favorites.path", favorites.DefaultPath)
	v.SetDefault("recommend.seen_path", recommend.DefaultSeenPath)
	v.SetDefault("plugins.dir", "plugins")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
}

// BindEnvVars maps the conventional provider variables onto their keys.
// Everything else is reachable as REELMATE_<SECTION>_<KEY>.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.org_id", "OPENAI_ORG_ID")

	v.BindEnv("azure.deployment", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("azure.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.api_version", "AZURE_OPENAI_API_VERSION")

	v.BindEnv("tmdb.api_key", "TMDB_API_KEY")
}

// Load reads configuration. An explicit path must exist; otherwise
// reelmate.yaml is looked up in the working directory and
// $HOME/.config/reelmate, and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return &cfg, nil
}

// LLMConfig builds the model configuration for the selected provider and
// checks that its credentials are present.
func (c *Config) LLMConfig() (llm.Config, error) {
	out := llm.Config{
		Provider:    strings.ToLower(strings.TrimSpace(c.LLM.Provider)),
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		TopP:        c.LLM.TopP,
		MaxTokens:   c.LLM.MaxTokens,
	}

	switch out.Provider {
	case "", llm.ProviderOpenAI:
		out.Provider = llm.ProviderOpenAI
		out.APIKey = c.OpenAI.APIKey
		out.OrgID = c.OpenAI.OrgID
		if out.APIKey == "" {
			return out, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrInvalidConfig)
		}
	case llm.ProviderAzure:
		out.APIKey = c.Azure.APIKey
		out.Endpoint = c.Azure.Endpoint
		out.APIVersion = c.Azure.APIVersion
		if c.Azure.Deployment != "" {
			out.Model = c.Azure.Deployment
		}
		var missing []string
		if c.Azure.Deployment == "" {
			missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
		}
		if out.APIKey == "" {
			missing = append(missing, "AZURE_OPENAI_API_KEY")
		}
		if out.Endpoint == "" {
			missing = append(missing, "AZURE_OPENAI_ENDPOINT")
		}
		if len(missing) > 0 {
			return out, fmt.Errorf("%w: %s not set", ErrInvalidConfig, strings.Join(missing, ", "))
		}
	default:
		return out, fmt.Errorf("%w: unknown llm.provider %q (want openai or azure)", ErrInvalidConfig, c.LLM.Provider)
	}
	return out, nil
}

// TMDbConfig builds the TMDb client configuration.
func (c *Config) TMDbConfig() (tmdb.Config, error) {
	if c.TMDb.APIKey == "" {
		return tmdb.Config{}, fmt.Errorf("%w: TMDB_API_KEY is not set", ErrInvalidConfig)
	}
	return tmdb.Config{
		APIKey:    c.TMDb.APIKey,
		BaseURL:   c.TMDb.BaseURL,
		CachePath: c.TMDb.CachePath,
	}, nil
}
