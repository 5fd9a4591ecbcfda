package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/reelmate/internal/config"
	"github.com/Yates-Labs/reelmate/internal/logging"
)

var (
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "reelmate",
	Short: "Reelmate - movie favorites and recommendation assistant",
	Long: `Reelmate keeps a list of favorite movies in a CSV file and pairs it with
an LLM assistant that can discover titles on TMDb and recommend new ones.

Configuration is read from reelmate.yaml (working directory or
~/.config/reelmate/) and the environment; a .env file is loaded first.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./reelmate.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setup loads configuration and builds the shared logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err = logging.New(level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	return nil
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
