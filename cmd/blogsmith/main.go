// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the blogsmith CLI. Each caller surface
// is a subcommand: generate, batch, serve, mcp. All of them drive the same
// four-stage pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/blogsmith/internal/config"
	"github.com/pdiddy/blogsmith/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logger writes structured logs to stderr, configured by --log-level and
// --log-format.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd is the base command for the blogsmith CLI.
var rootCmd = &cobra.Command{
	Use:   "blogsmith",
	Short: "Generate blog posts with a research, outline, draft, rewrite pipeline",
	Long: `blogsmith turns a topic into a finished blog post by chaining four
language model calls. The researcher gathers facts, the outliner structures
them, the drafter writes the post and the rewriter makes it read naturally.

Run a single topic with generate, many with batch, or expose the pipeline
over HTTP (serve) or to agents over the Model Context Protocol (mcp).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cmd); err != nil {
			return err
		}

		s, err := secrets.Load(viper.GetString("secrets_dir"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./blogsmith.yaml or ~/.config/blogsmith/config.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("secrets-dir", ".secrets/", "directory of secret files (filename is the key)")
	pf.String("provider", "", "generation provider: openai, openai-compatible, or echo")
	pf.String("model", "", "model identifier, e.g. gpt-4o-mini")
	pf.String("base-url", "", "API endpoint for openai-compatible providers")

	bindFlag("secrets_dir", pf.Lookup("secrets-dir"))
	bindFlag("ai.provider", pf.Lookup("provider"))
	bindFlag("ai.model", pf.Lookup("model"))
	bindFlag("ai.base_url", pf.Lookup("base-url"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("blogsmith")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "blogsmith"))
		}
	}

	viper.SetDefault("secrets_dir", ".secrets/")
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogger(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	format, _ := cmd.Flags().GetString("log-format")
	switch strings.ToLower(format) {
	case "text":
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	case "json":
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		return fmt.Errorf("invalid --log-format %q: use text or json", format)
	}
	slog.SetDefault(logger)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
