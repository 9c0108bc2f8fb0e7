package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contextutils "vocabapp/internal/utils"
	"vocabapp/internal/view"

	"github.com/spf13/cobra"
)

// WordCommands returns the word lookup command group.
func WordCommands(app *App) *cobra.Command {
	wordCmd := &cobra.Command{
		Use:   "word",
		Short: "Word lookup commands",
		Long: `Word lookup commands.

Available commands:
  show     - Look up a word and make it the current practice target
  suggest  - Autocomplete word suggestions for a prefix
  daily    - Show today's featured word`,
	}

	wordCmd.AddCommand(wordShowCmd(app))
	wordCmd.AddCommand(wordSuggestCmd(app))
	wordCmd.AddCommand(wordDailyCmd(app))

	return wordCmd
}

func wordShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <word>",
		Short: "Look up a word",
		Long:  `Look up a word and make it the current practice target for the exercise commands.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			ctx := context.Background()
			if err := app.Coordinator.Dispatch(ctx, view.IntentSelectWord, view.Args{Word: args[0]}); err != nil {
				return err
			}
			word := app.Session.CurrentWord()
			if word != nil {
				printWord(word)
			}
			return nil
		},
	}
}

func wordSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Autocomplete word suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			suggestions, err := app.Suggester.Query(context.Background(), args[0])
			if err != nil {
				if errors.Is(err, contextutils.ErrSuperseded) {
					return nil
				}
				return err
			}
			if len(suggestions) == 0 {
				fmt.Println("No suggestions.")
				return nil
			}
			fmt.Println(strings.Join(suggestions, "\n"))
			return nil
		},
	}
}

func wordDailyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's featured word",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			if err := app.Coordinator.Dispatch(context.Background(), view.IntentDailyWord, view.Args{}); err != nil {
				return err
			}
			if word := app.Session.CurrentWord(); word != nil {
				printWord(word)
			}
			return nil
		},
	}
}
