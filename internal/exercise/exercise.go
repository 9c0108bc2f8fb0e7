// Package exercise implements the interactive practice rounds: multiple
// choice, dictation, and drag-and-drop matching. Each controller owns one
// mounted round from load to scored outcome.
package exercise

import (
	"context"
	"time"

	"vocabapp/internal/models"
)

// Kind identifies an exercise type. Values match the server's partial names.
type Kind string

const (
	KindMultipleChoice Kind = "mcq"
	KindDictation      Kind = "dictation"
	KindDragDrop       Kind = "drag_drop"
)

// Outcome is the scored result of one completed round, ready for submission.
type Outcome struct {
	Result        models.ExerciseResult
	Correct       bool
	Feedback      string
	FeedbackDelay time.Duration
}

// Controller is one mounted exercise round. At most one controller is live at
// a time; the coordinator closes the previous one before mounting the next.
type Controller interface {
	Kind() Kind
	// Load fetches the exercise content. Must be called before answering.
	Load(ctx context.Context) error
	// Template returns the panel markup fetched on load.
	Template() string
	// Close releases the round. Safe to call more than once; answering a
	// closed round fails.
	Close()
}

// PartialSource fetches panel markup for an exercise kind.
type PartialSource interface {
	Partial(ctx context.Context, kind string) (string, error)
}

// MultipleChoiceSource fetches a multiple-choice payload for a word.
type MultipleChoiceSource interface {
	PartialSource
	MultipleChoice(ctx context.Context, word string) (*models.MultipleChoicePayload, error)
}

// DragDropSource fetches a drag-and-drop matching payload.
type DragDropSource interface {
	PartialSource
	DragDropMatch(ctx context.Context) (*models.DragDropPayload, error)
}
