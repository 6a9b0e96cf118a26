package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"notebox/internal/config"
	"notebox/internal/db"
	"notebox/internal/notes"
	"notebox/internal/remote"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "notectl",
	Short: "Manage notes in the notebox store",
	Long: `notectl adds, edits, archives, filters and deletes notes directly
against the configured durable store (file or MongoDB).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(configPath, verbose)}))
		slog.SetDefault(logger)
	},
}

// logLevel starts from the configured level and lets --verbose force debug.
// A config that fails to load is reported later by the command itself.
func logLevel(path string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	cfg, err := config.Load(path)
	if err != nil {
		return slog.LevelInfo
	}
	return cfg.SlogLevel()
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default $"+config.EnvConfigFile+")")
}

// withService loads config, opens storage and the persisted notes, runs fn,
// and closes storage.
func withService(ctx context.Context, fn func(*notes.Service) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	durable, closeStore, err := db.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStore(ctx)

	var fetcher notes.Fetcher
	if cfg.Remote.URL != "" {
		fetcher = remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout)
	}

	svc := notes.NewService(notes.NewStore(durable, nil), fetcher, slog.Default())
	if _, err := svc.Load(ctx); err != nil {
		return err
	}
	return fn(svc)
}
