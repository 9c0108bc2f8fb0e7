package exercise

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"
)

// Dictation is a round where the user listens to a word's pronunciation and
// types what they heard. Requires a word with audio.
type Dictation struct {
	source PartialSource
	word   models.WordRecord

	mu       sync.Mutex
	template string
	loaded   bool
	answered bool
	closed   bool
}

// NewDictation creates an unloaded dictation round for the word.
func NewDictation(source PartialSource, word models.WordRecord) *Dictation {
	return &Dictation{source: source, word: word}
}

// Kind implements Controller.
func (d *Dictation) Kind() Kind { return KindDictation }

// Load fetches the panel template and verifies the word is dictatable.
func (d *Dictation) Load(ctx context.Context) error {
	if !d.word.HasAudio() {
		return contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
			"word has no audio", d.word.Text)
	}
	template, err := d.source.Partial(ctx, string(KindDictation))
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.template = template
	d.loaded = true
	return nil
}

// Template implements Controller.
func (d *Dictation) Template() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.template
}

// AudioURL returns the pronunciation clip the user transcribes.
func (d *Dictation) AudioURL() string {
	return d.word.AudioURL
}

// Answer scores the typed transcription. Comparison ignores case and
// surrounding whitespace. An empty answer is rejected without consuming the
// round's single attempt, and nothing is submitted for it.
func (d *Dictation) Answer(text string) (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise is closed", "")
	}
	if !d.loaded {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise not loaded", "")
	}
	if d.answered {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise already answered", "")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Outcome{}, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"please type what you heard", "")
	}
	d.answered = true

	correct := strings.EqualFold(trimmed, d.word.Text)
	accuracy := 0.0
	feedback := "Correct!"
	if correct {
		accuracy = 1.0
	} else {
		feedback = fmt.Sprintf("Incorrect. The word was: %s", d.word.Text)
	}

	return Outcome{
		Result: models.ExerciseResult{
			WordText:         d.word.Text,
			Accuracy:         accuracy,
			TimeTakenSeconds: config.DictationTimeTaken,
		},
		Correct:       correct,
		Feedback:      feedback,
		FeedbackDelay: config.ExerciseFeedbackDelay,
	}, nil
}

// Close implements Controller.
func (d *Dictation) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.template = ""
}
