package models

import (
	"testing"

	contextutils "vocabapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestWordRecord_DifficultyLabel(t *testing.T) {
	tests := []struct {
		name     string
		level    *int
		expected string
	}{
		{"no level", nil, ""},
		{"easy", intPtr(1), "easy"},
		{"medium", intPtr(2), "medium"},
		{"hard", intPtr(3), "hard"},
		{"out of range shows number", intPtr(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := WordRecord{Text: "casa", DifficultyLevel: tt.level}
			assert.Equal(t, tt.expected, word.DifficultyLabel())
		})
	}
}

func TestWordRecord_Validate(t *testing.T) {
	valid := WordRecord{Text: "casa", Definition: "house"}
	assert.NoError(t, valid.Validate())

	missing := WordRecord{Definition: "house"}
	err := missing.Validate()
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeInvalidPayload, contextutils.GetErrorCode(err))
}

func TestMultipleChoicePayload_Validate(t *testing.T) {
	base := func() MultipleChoicePayload {
		return MultipleChoicePayload{
			TargetWordText: "casa",
			TargetWordID:   1,
			Options: []MultipleChoiceOption{
				{WordID: 1, Definition: "house"},
				{WordID: 2, Definition: "dog"},
				{WordID: 3, Definition: "tree"},
			},
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		p := base()
		assert.NoError(t, p.Validate())
	})

	t.Run("no option matches target", func(t *testing.T) {
		p := base()
		p.TargetWordID = 99
		err := p.Validate()
		require.Error(t, err)
		assert.Equal(t, contextutils.ErrorCodeInvalidPayload, contextutils.GetErrorCode(err))
	})

	t.Run("duplicate correct options", func(t *testing.T) {
		p := base()
		p.Options = append(p.Options, MultipleChoiceOption{WordID: 1, Definition: "home"})
		require.Error(t, p.Validate())
	})

	t.Run("too few options", func(t *testing.T) {
		p := base()
		p.Options = p.Options[:1]
		require.Error(t, p.Validate())
	})
}

func TestMultipleChoicePayload_CorrectOption(t *testing.T) {
	p := MultipleChoicePayload{
		TargetWordID: 2,
		Options: []MultipleChoiceOption{
			{WordID: 1, Definition: "house"},
			{WordID: 2, Definition: "dog"},
		},
	}
	opt, ok := p.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "dog", opt.Definition)

	p.TargetWordID = 9
	_, ok = p.CorrectOption()
	assert.False(t, ok)
}

func TestDragDropPayload_Validate(t *testing.T) {
	base := func() DragDropPayload {
		return DragDropPayload{
			DraggableItems: []DraggableItem{
				{ID: "d1", Content: "house"},
				{ID: "d2", Content: "dog"},
			},
			DropZones: []DropZone{
				{ID: "z1", Content: "casa", CorrectDraggableID: "d1"},
				{ID: "z2", Content: "perro", CorrectDraggableID: "d2"},
			},
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		p := base()
		assert.NoError(t, p.Validate())
	})

	t.Run("zone references missing item", func(t *testing.T) {
		p := base()
		p.DropZones[1].CorrectDraggableID = "d9"
		err := p.Validate()
		require.Error(t, err)
		assert.Equal(t, contextutils.ErrorCodeInvalidPayload, contextutils.GetErrorCode(err))
	})

	t.Run("duplicate item ids", func(t *testing.T) {
		p := base()
		p.DraggableItems = append(p.DraggableItems, DraggableItem{ID: "d1", Content: "home"})
		require.Error(t, p.Validate())
	})
}

func TestExerciseResult_Validate(t *testing.T) {
	tests := []struct {
		name    string
		result  ExerciseResult
		wantErr bool
	}{
		{"valid full accuracy", ExerciseResult{WordText: "casa", Accuracy: 1.0, TimeTakenSeconds: 10.0}, false},
		{"valid zero accuracy", ExerciseResult{WordText: "casa", Accuracy: 0.0, TimeTakenSeconds: 15.0}, false},
		{"valid partial accuracy", ExerciseResult{WordText: "casa", Accuracy: 0.5, TimeTakenSeconds: 60.0}, false},
		{"missing word", ExerciseResult{Accuracy: 1.0, TimeTakenSeconds: 10.0}, true},
		{"accuracy above one", ExerciseResult{WordText: "casa", Accuracy: 1.5, TimeTakenSeconds: 10.0}, true},
		{"negative accuracy", ExerciseResult{WordText: "casa", Accuracy: -0.1, TimeTakenSeconds: 10.0}, true},
		{"zero time", ExerciseResult{WordText: "casa", Accuracy: 1.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProgressPoint_Label(t *testing.T) {
	point := ProgressPoint{ProgressIDOrTimestamp: 42, AccuracyAtPoint: 0.8}
	assert.Equal(t, "ID 42", point.Label())
}

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{Username: "alice", Password: "secret1"}, false},
		{"username too short", RegisterRequest{Username: "ab", Password: "secret1"}, true},
		{"password too short", RegisterRequest{Username: "alice", Password: "abc"}, true},
		{"empty", RegisterRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
