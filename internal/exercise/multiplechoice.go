package exercise

import (
	"context"
	"fmt"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"
)

// MultipleChoice is a round where the user picks the definition matching the
// target word from a set of options.
type MultipleChoice struct {
	source MultipleChoiceSource
	word   string

	mu       sync.Mutex
	payload  *models.MultipleChoicePayload
	template string
	answered bool
	closed   bool
}

// NewMultipleChoice creates an unloaded multiple-choice round for the word.
func NewMultipleChoice(source MultipleChoiceSource, word string) *MultipleChoice {
	return &MultipleChoice{source: source, word: word}
}

// Kind implements Controller.
func (m *MultipleChoice) Kind() Kind { return KindMultipleChoice }

// Load fetches the exercise payload and the panel template.
func (m *MultipleChoice) Load(ctx context.Context) error {
	payload, err := m.source.MultipleChoice(ctx, m.word)
	if err != nil {
		return err
	}
	template, err := m.source.Partial(ctx, string(KindMultipleChoice))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = payload
	m.template = template
	return nil
}

// Template implements Controller.
func (m *MultipleChoice) Template() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.template
}

// Prompt returns the target word the user is matching a definition to.
func (m *MultipleChoice) Prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return ""
	}
	return m.payload.TargetWordText
}

// Options returns the selectable definitions in server order.
func (m *MultipleChoice) Options() []models.MultipleChoiceOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return nil
	}
	options := make([]models.MultipleChoiceOption, len(m.payload.Options))
	copy(options, m.payload.Options)
	return options
}

// Choose answers the round with the option at the given index. Accuracy is
// binary; a wrong pick reveals the correct definition in the feedback. Each
// round accepts exactly one answer.
func (m *MultipleChoice) Choose(index int) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise is closed", "")
	}
	if m.payload == nil {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise not loaded", "")
	}
	if m.answered {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise already answered", "")
	}
	if index < 0 || index >= len(m.payload.Options) {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"option index out of range", fmt.Sprintf("index %d of %d options", index, len(m.payload.Options)))
	}
	m.answered = true

	picked := m.payload.Options[index]
	correct := picked.WordID == m.payload.TargetWordID

	accuracy := 0.0
	feedback := "Correct!"
	if correct {
		accuracy = 1.0
	} else {
		feedback = "Incorrect."
		if opt, ok := m.payload.CorrectOption(); ok {
			feedback = fmt.Sprintf("Incorrect. The correct definition was: %s", opt.Definition)
		}
	}

	return Outcome{
		Result: models.ExerciseResult{
			WordText:         m.payload.TargetWordText,
			Accuracy:         accuracy,
			TimeTakenSeconds: config.MultipleChoiceTimeTaken,
		},
		Correct:       correct,
		Feedback:      feedback,
		FeedbackDelay: config.ExerciseFeedbackDelay,
	}, nil
}

// Close implements Controller.
func (m *MultipleChoice) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.payload = nil
	m.template = ""
}
