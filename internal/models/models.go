// Package models defines the wire types exchanged with the vocabulary backend
// and the local validation rules the client enforces on them.
package models

import (
	"strconv"

	contextutils "vocabapp/internal/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WordRecord is a single vocabulary word as returned by the word-lookup
// endpoints. Immutable once fetched.
type WordRecord struct {
	ID                      int     `json:"id,omitempty"`
	Text                    string  `json:"text" validate:"required"`
	Definition              string  `json:"definition"`
	ImageURL                string  `json:"image_url,omitempty"`
	AudioURL                string  `json:"audio_url,omitempty"`
	DifficultyLevel         *int    `json:"difficulty_level,omitempty" validate:"omitempty,gte=1,lte=3"`
	InferredComplexityScore float64 `json:"inferred_complexity_score,omitempty"`
}

// DifficultyLabel maps the numeric difficulty level to a display label.
// Returns the raw number as a string for out-of-range values.
func (w *WordRecord) DifficultyLabel() string {
	if w.DifficultyLevel == nil {
		return ""
	}
	switch *w.DifficultyLevel {
	case 1:
		return "easy"
	case 2:
		return "medium"
	case 3:
		return "hard"
	default:
		return strconv.Itoa(*w.DifficultyLevel)
	}
}

// HasAudio reports whether the word carries a pronunciation audio URL.
func (w *WordRecord) HasAudio() bool {
	return w.AudioURL != ""
}

// Validate checks the word record against its field constraints.
func (w *WordRecord) Validate() error {
	if err := validate.Struct(w); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeInvalidPayload, contextutils.SeverityError,
			"word record failed validation", err.Error(), err)
	}
	return nil
}

// MultipleChoiceOption is one selectable definition in an MCQ exercise.
type MultipleChoiceOption struct {
	WordID     int    `json:"word_id"`
	Definition string `json:"definition"`
}

// MultipleChoicePayload is the exercise body for a multiple-choice round.
type MultipleChoicePayload struct {
	TargetWordText string                 `json:"target_word_text" validate:"required"`
	TargetWordID   int                    `json:"target_word_id"`
	Options        []MultipleChoiceOption `json:"options" validate:"required,min=2"`
	Message        string                 `json:"message,omitempty"`
}

// CorrectOption returns the option whose word id matches the target word.
func (p *MultipleChoicePayload) CorrectOption() (MultipleChoiceOption, bool) {
	for _, opt := range p.Options {
		if opt.WordID == p.TargetWordID {
			return opt, true
		}
	}
	return MultipleChoiceOption{}, false
}

// Validate enforces the payload invariant: exactly one option's word id
// equals the target word id.
func (p *MultipleChoicePayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeInvalidPayload, contextutils.SeverityError,
			"multiple choice payload failed validation", err.Error(), err)
	}
	matches := 0
	for _, opt := range p.Options {
		if opt.WordID == p.TargetWordID {
			matches++
		}
	}
	if matches != 1 {
		return contextutils.NewAppError(contextutils.ErrorCodeInvalidPayload, contextutils.SeverityError,
			"multiple choice payload failed validation",
			"expected exactly one option matching the target word, got "+strconv.Itoa(matches))
	}
	return nil
}

// DraggableItem is a definition card the user drags onto a word.
type DraggableItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// DropZone is a word slot accepting at most one draggable item.
type DropZone struct {
	ID                 string `json:"id"`
	Content            string `json:"content"`
	CorrectDraggableID string `json:"correct_draggable_id"`
}

// DragDropPayload is the exercise body for a word/definition matching round.
type DragDropPayload struct {
	ExerciseID     string          `json:"exercise_id,omitempty"`
	Instruction    string          `json:"instruction"`
	DraggableItems []DraggableItem `json:"draggable_items"`
	DropZones      []DropZone      `json:"drop_zones"`
	Message        string          `json:"message,omitempty"`
}

// Validate enforces that every zone's correct_draggable_id references exactly
// one of the draggable items.
func (p *DragDropPayload) Validate() error {
	counts := make(map[string]int, len(p.DraggableItems))
	for _, item := range p.DraggableItems {
		counts[item.ID]++
	}
	for _, zone := range p.DropZones {
		if counts[zone.CorrectDraggableID] != 1 {
			return contextutils.NewAppError(contextutils.ErrorCodeInvalidPayload, contextutils.SeverityError,
				"drag drop payload failed validation",
				"zone "+zone.ID+" references draggable "+zone.CorrectDraggableID+" which does not match exactly one item")
		}
	}
	return nil
}

// ExerciseResult is one completed exercise attempt, submitted fire-and-forget.
type ExerciseResult struct {
	WordText         string  `json:"word_text" validate:"required"`
	Accuracy         float64 `json:"accuracy" validate:"gte=0,lte=1"`
	TimeTakenSeconds float64 `json:"time_taken_seconds" validate:"gt=0"`
}

// Validate checks the result against the submission contract.
func (r *ExerciseResult) Validate() error {
	if err := validate.Struct(r); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise result failed validation", err.Error(), err)
	}
	return nil
}

// ProgressPoint is one historical snapshot in the progress trend.
type ProgressPoint struct {
	ProgressIDOrTimestamp    int     `json:"progress_id_or_timestamp"`
	AccuracyAtPoint          float64 `json:"accuracy_at_point"`
	CumulativeWordsPracticed int     `json:"cumulative_words_practiced"`
}

// Label returns the chart axis label for this point.
func (p ProgressPoint) Label() string {
	return "ID " + strconv.Itoa(p.ProgressIDOrTimestamp)
}

// ProgressReport is the aggregated practice history, rebuilt fully on each request.
type ProgressReport struct {
	TotalWordsAttemptedUnique int             `json:"total_words_attempted_unique"`
	OverallAccuracy           float64         `json:"overall_accuracy"`
	AverageTimePerAttempt     float64         `json:"average_time_per_attempt"`
	ProgressTrend             []ProgressPoint `json:"progress_trend"`
	Message                   string          `json:"message,omitempty"`
}

// User is the authenticated account profile.
type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Token is the response of the form-encoded login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NextExerciseSuggestion is the server's pick for what to practice next.
type NextExerciseSuggestion struct {
	SuggestedWord *WordRecord `json:"suggested_word"`
	Message       string      `json:"message"`
}

// RegisterRequest is the registration body; validated locally before sending.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks registration input locally so bad input never reaches the wire.
func (r *RegisterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"registration input failed validation", err.Error(), err)
	}
	return nil
}
