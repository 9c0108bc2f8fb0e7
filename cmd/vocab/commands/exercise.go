package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vocabapp/internal/exercise"
	contextutils "vocabapp/internal/utils"
	"vocabapp/internal/view"

	"github.com/spf13/cobra"
)

// ExerciseCommands returns the exercise command group.
func ExerciseCommands(app *App) *cobra.Command {
	exerciseCmd := &cobra.Command{
		Use:   "exercise",
		Short: "Practice exercises",
		Long: `Practice exercises for the current word.

Available commands:
  mcq       - Multiple choice: pick the definition of the current word
  dictation - Type the current word after listening to its audio
  dragdrop  - Match a server-picked set of words to their definitions
  next      - Ask the server which word to practice next`,
	}

	exerciseCmd.AddCommand(mcqCmd(app))
	exerciseCmd.AddCommand(dictationCmd(app))
	exerciseCmd.AddCommand(dragDropCmd(app))
	exerciseCmd.AddCommand(nextExerciseCmd(app))

	return exerciseCmd
}

func mcqCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcq",
		Short: "Multiple choice exercise",
		Long:  `Pick the correct definition of the current word. Select a word first with 'vocab word show'.`,
		RunE:  runMultipleChoice(app),
	}
}

func dictationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dictation",
		Short: "Dictation exercise",
		Long:  `Listen to the current word's pronunciation and type what you heard. The word must have audio.`,
		RunE:  runDictation(app),
	}
}

func dragDropCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dragdrop",
		Short: "Word matching exercise",
		Long:  `Match a server-picked set of words to their definitions. No word selection needed.`,
		RunE:  runDragDrop(app),
	}
}

func nextExerciseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Get the server's suggestion for what to practice",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			return app.Coordinator.Dispatch(context.Background(), view.IntentNextExercise, view.Args{})
		},
	}
}

func runMultipleChoice(app *App) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if err := requireLogin(app); err != nil {
			return err
		}
		ctx := context.Background()
		if err := app.Coordinator.Dispatch(ctx, view.IntentStartMultipleChoice, view.Args{}); err != nil {
			return err
		}
		round, ok := app.Coordinator.Active().(*exercise.MultipleChoice)
		if !ok {
			return contextutils.ErrorWithContextf("no multiple choice round is mounted")
		}

		fmt.Printf("Which definition matches %q?\n", round.Prompt())
		options := round.Options()
		for i, opt := range options {
			fmt.Printf("  %d) %s\n", i+1, opt.Definition)
		}

		choice, err := readIndex("Your choice: ", len(options))
		if err != nil {
			app.Coordinator.BackToMain()
			return err
		}

		outcome, err := round.Choose(choice)
		if err != nil {
			app.Coordinator.BackToMain()
			return err
		}
		return app.Coordinator.CompleteExercise(ctx, outcome)
	}
}

func runDictation(app *App) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if err := requireLogin(app); err != nil {
			return err
		}
		ctx := context.Background()
		if err := app.Coordinator.Dispatch(ctx, view.IntentStartDictation, view.Args{}); err != nil {
			return err
		}
		round, ok := app.Coordinator.Active().(*exercise.Dictation)
		if !ok {
			return contextutils.ErrorWithContextf("no dictation round is mounted")
		}

		fmt.Printf("Listen to the audio, then type the word you heard.\nAudio: %s\n", round.AudioURL())
		reader := bufio.NewReader(os.Stdin)

		// An empty answer does not consume the attempt, so keep prompting.
		for {
			fmt.Print("Your answer: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				app.Coordinator.BackToMain()
				return contextutils.WrapError(err, "failed to read answer")
			}
			outcome, err := round.Answer(line)
			if err != nil {
				if contextutils.GetErrorCode(err) == contextutils.ErrorCodeValidationFailed && strings.TrimSpace(line) == "" {
					fmt.Println("Please type what you heard.")
					continue
				}
				app.Coordinator.BackToMain()
				return err
			}
			return app.Coordinator.CompleteExercise(ctx, outcome)
		}
	}
}

func runDragDrop(app *App) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if err := requireLogin(app); err != nil {
			return err
		}
		ctx := context.Background()
		if err := app.Coordinator.Dispatch(ctx, view.IntentStartDragDrop, view.Args{}); err != nil {
			return err
		}
		round, ok := app.Coordinator.Active().(*exercise.DragDrop)
		if !ok {
			return contextutils.ErrorWithContextf("no matching round is mounted")
		}

		if instruction := round.Instruction(); instruction != "" {
			fmt.Println(instruction)
		}

		for _, zone := range round.Zones() {
			items := round.Items()
			if len(items) == 0 {
				break
			}
			fmt.Printf("\nDefinitions for %q:\n", zone.Content)
			for i, item := range items {
				fmt.Printf("  %d) %s\n", i+1, item.Content)
			}
			choice, err := readIndex("Pick a definition: ", len(items))
			if err != nil {
				app.Coordinator.BackToMain()
				return err
			}
			if err := round.Place(items[choice].ID, zone.ID); err != nil {
				app.Coordinator.BackToMain()
				return err
			}
		}

		outcome, err := round.Submit()
		if err != nil {
			app.Coordinator.BackToMain()
			return err
		}
		return app.Coordinator.CompleteExercise(ctx, outcome)
	}
}

// readIndex prompts for a 1-based selection and returns it 0-based.
func readIndex(prompt string, count int) (int, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, contextutils.WrapError(err, "failed to read selection")
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > count {
			fmt.Printf("Enter a number between 1 and %d.\n", count)
			continue
		}
		return n - 1, nil
	}
}
