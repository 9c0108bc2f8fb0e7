package commands

import (
	"context"

	"vocabapp/internal/view"

	"github.com/spf13/cobra"
)

// AdminCommands returns the admin command group.
func AdminCommands(app *App) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
		Long: `Administration commands. Require an admin account.

Available commands:
  train-model - Trigger a retrain of the word difficulty model`,
	}

	adminCmd.AddCommand(trainModelCmd(app))

	return adminCmd
}

func trainModelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "train-model",
		Short: "Retrain the word difficulty model",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			return app.Coordinator.Dispatch(context.Background(), view.IntentTrainModel, view.Args{})
		},
	}
}
