// Package main provides the entry point for the vocabulary practice CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"vocabapp/cmd/vocab/commands"
	"vocabapp/internal/api"
	"vocabapp/internal/config"
	"vocabapp/internal/observability"
	"vocabapp/internal/session"

	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	tp, mp, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "vocab-cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if tp != nil {
			if err := tp.Shutdown(context.TODO()); err != nil {
				logger.Warn(ctx, "Error shutting down tracer provider", map[string]interface{}{"error": err.Error(), "provider": "tracer"})
			}
		}
		if mp != nil {
			if err := mp.Shutdown(context.TODO()); err != nil {
				logger.Warn(ctx, "Error shutting down meter provider", map[string]interface{}{"error": err.Error(), "provider": "meter"})
			}
		}
	}()

	store := session.NewStore(cfg.Client.SessionFile)
	if err := store.Restore(); err != nil {
		logger.Warn(ctx, "Failed to restore session, starting logged out", map[string]interface{}{"error": err.Error()})
	}

	client, err := api.NewClient(cfg, store, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize API client", err, map[string]interface{}{"base_url": cfg.Client.BaseURL})
		os.Exit(1)
	}

	app := commands.NewApp(cfg, logger, store, client)

	rootCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Vocabulary practice client",
		Long: `Vocabulary practice client

A CLI for the vocabulary learning service. Look up words, practice them with
multiple choice, dictation, and matching exercises, and track your progress.`,

		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.AuthCommands(app))
	rootCmd.AddCommand(commands.WordCommands(app))
	rootCmd.AddCommand(commands.ExerciseCommands(app))
	rootCmd.AddCommand(commands.ProgressCommands(app))
	rootCmd.AddCommand(commands.LearnCommands(app))
	rootCmd.AddCommand(commands.AdminCommands(app))
	rootCmd.AddCommand(commands.VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
