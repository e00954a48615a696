package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/spl/internal/config"
	"github.com/ehr/spl/internal/platform/spl"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spl-server",
		Short:         "Structured Product Labeling parser and label knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDocumentsFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration. The server also requires the
// authentication settings; the batch tools only need a usable store.
func loadConfig(server bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	validate := cfg.ValidateStore
	if server {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger writes JSON lines to w, or human-readable output in
// development.
func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w})
	} else {
		logger = zerolog.New(w)
	}
	return logger.Level(cfg.Level()).With().Timestamp().Logger()
}

func newParser(cfg *config.Config) *spl.Parser {
	return spl.NewParser(spl.WithDataset(cfg.Dataset))
}
