package view

import (
	"context"

	"vocabapp/internal/exercise"
	contextutils "vocabapp/internal/utils"
)

// Intent is a named user action routed through the dispatch table.
type Intent string

const (
	IntentLogin               Intent = "login"
	IntentRegister            Intent = "register"
	IntentLogout              Intent = "logout"
	IntentSelectWord          Intent = "select_word"
	IntentStartMultipleChoice Intent = "start_multiple_choice"
	IntentStartDictation      Intent = "start_dictation"
	IntentStartDragDrop       Intent = "start_drag_drop"
	IntentNextExercise        Intent = "next_exercise"
	IntentDailyWord           Intent = "daily_word"
	IntentTrainModel          Intent = "train_model"
	IntentShowProgress        Intent = "show_progress"
	IntentBackToMain          Intent = "back_to_main"
)

// Args carries the inputs an intent handler may need. Unused fields are
// ignored by handlers that do not read them.
type Args struct {
	Username string
	Password string
	Word     string
}

// intentHandlers maps each intent to its handler. Adding an intent means
// adding exactly one entry here; Dispatch has no per-intent logic.
var intentHandlers = map[Intent]func(*Coordinator, context.Context, Args) error{
	IntentLogin: func(c *Coordinator, ctx context.Context, args Args) error {
		return c.Login(ctx, args.Username, args.Password)
	},
	IntentRegister: func(c *Coordinator, ctx context.Context, args Args) error {
		return c.Register(ctx, args.Username, args.Password)
	},
	IntentLogout: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.Logout(ctx)
	},
	IntentSelectWord: func(c *Coordinator, ctx context.Context, args Args) error {
		return c.SelectWord(ctx, args.Word)
	},
	IntentStartMultipleChoice: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.StartExercise(ctx, exercise.KindMultipleChoice)
	},
	IntentStartDictation: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.StartExercise(ctx, exercise.KindDictation)
	},
	IntentStartDragDrop: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.StartExercise(ctx, exercise.KindDragDrop)
	},
	IntentNextExercise: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.NextExercise(ctx)
	},
	IntentDailyWord: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.DailyWord(ctx)
	},
	IntentTrainModel: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.TrainModel(ctx)
	},
	IntentShowProgress: func(c *Coordinator, ctx context.Context, _ Args) error {
		return c.ShowProgress(ctx)
	},
	IntentBackToMain: func(c *Coordinator, _ context.Context, _ Args) error {
		c.BackToMain()
		return nil
	},
}

// Dispatch routes an intent to its handler. Unknown intents fail validation
// rather than panicking.
func (c *Coordinator) Dispatch(ctx context.Context, intent Intent, args Args) error {
	handler, ok := intentHandlers[intent]
	if !ok {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"unknown intent", string(intent))
	}
	return handler(c, ctx, args)
}
