package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LearnCommands returns the guided learning command.
func LearnCommands(app *App) *cobra.Command {
	var level int
	var limit int

	learnCmd := &cobra.Command{
		Use:   "learn",
		Short: "Guided learning",
		Long:  `Walk through a server-selected batch of words at a chosen difficulty level (1=easy, 2=medium, 3=hard).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			ctx := context.Background()

			if limit <= 0 {
				limit = app.Cfg.Client.LearnBatchLimit
			}
			word, err := app.Queue.Start(ctx, level, limit)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Println()
				printWord(word)
				fmt.Printf("(%d remaining)\n", app.Queue.Remaining())

				fmt.Print("Press Enter for the next word, or q to stop: ")
				line, err := reader.ReadString('\n')
				if err != nil || strings.TrimSpace(line) == "q" {
					return nil
				}

				next, ok := app.Queue.Next()
				if !ok {
					fmt.Println("\nBatch complete. Run 'vocab learn' again for more words.")
					return nil
				}
				word = next
			}
		},
	}

	learnCmd.Flags().IntVarP(&level, "level", "l", 1, "difficulty level (1-3)")
	learnCmd.Flags().IntVarP(&limit, "limit", "n", 0, "words per batch (default from config)")

	return learnCmd
}
