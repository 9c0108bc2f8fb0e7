package exercise

import (
	"context"
	"testing"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mcq      *models.MultipleChoicePayload
	dragDrop *models.DragDropPayload
	err      error
}

func (f *fakeSource) Partial(_ context.Context, kind string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "<div>" + kind + "</div>", nil
}

func (f *fakeSource) MultipleChoice(_ context.Context, _ string) (*models.MultipleChoicePayload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.mcq, nil
}

func (f *fakeSource) DragDropMatch(_ context.Context) (*models.DragDropPayload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dragDrop, nil
}

func mcqPayload() *models.MultipleChoicePayload {
	return &models.MultipleChoicePayload{
		TargetWordText: "casa",
		TargetWordID:   1,
		Options: []models.MultipleChoiceOption{
			{WordID: 2, Definition: "dog"},
			{WordID: 1, Definition: "house"},
			{WordID: 3, Definition: "tree"},
		},
	}
}

func TestMultipleChoice_ChooseCorrect(t *testing.T) {
	round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
	require.NoError(t, round.Load(context.Background()))

	outcome, err := round.Choose(1)
	require.NoError(t, err)

	assert.True(t, outcome.Correct)
	assert.Equal(t, 1.0, outcome.Result.Accuracy)
	assert.Equal(t, "casa", outcome.Result.WordText)
	assert.Equal(t, config.MultipleChoiceTimeTaken, outcome.Result.TimeTakenSeconds)
	assert.Equal(t, config.ExerciseFeedbackDelay, outcome.FeedbackDelay)
}

func TestMultipleChoice_ChooseWrongRevealsAnswer(t *testing.T) {
	round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
	require.NoError(t, round.Load(context.Background()))

	outcome, err := round.Choose(0)
	require.NoError(t, err)

	assert.False(t, outcome.Correct)
	assert.Equal(t, 0.0, outcome.Result.Accuracy)
	assert.Contains(t, outcome.Feedback, "house")
}

func TestMultipleChoice_SingleAnswer(t *testing.T) {
	round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
	require.NoError(t, round.Load(context.Background()))

	_, err := round.Choose(1)
	require.NoError(t, err)

	_, err = round.Choose(0)
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))
}

func TestMultipleChoice_Guards(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
		_, err := round.Choose(0)
		require.Error(t, err)
	})

	t.Run("index out of range", func(t *testing.T) {
		round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
		require.NoError(t, round.Load(context.Background()))
		_, err := round.Choose(5)
		require.Error(t, err)
	})

	t.Run("closed", func(t *testing.T) {
		round := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
		require.NoError(t, round.Load(context.Background()))
		round.Close()
		_, err := round.Choose(0)
		require.Error(t, err)
	})
}

func dictationWord() models.WordRecord {
	return models.WordRecord{Text: "Casa", Definition: "house", AudioURL: "http://example.com/casa.mp3"}
}

func TestDictation_AnswerMatchesIgnoringCaseAndSpace(t *testing.T) {
	round := NewDictation(&fakeSource{}, dictationWord())
	require.NoError(t, round.Load(context.Background()))

	outcome, err := round.Answer("  casa \n")
	require.NoError(t, err)

	assert.True(t, outcome.Correct)
	assert.Equal(t, 1.0, outcome.Result.Accuracy)
	assert.Equal(t, "Casa", outcome.Result.WordText)
	assert.Equal(t, config.DictationTimeTaken, outcome.Result.TimeTakenSeconds)
}

func TestDictation_WrongAnswerRevealsWord(t *testing.T) {
	round := NewDictation(&fakeSource{}, dictationWord())
	require.NoError(t, round.Load(context.Background()))

	outcome, err := round.Answer("perro")
	require.NoError(t, err)

	assert.False(t, outcome.Correct)
	assert.Equal(t, 0.0, outcome.Result.Accuracy)
	assert.Contains(t, outcome.Feedback, "Casa")
}

func TestDictation_EmptyAnswerRejectedWithoutConsumingAttempt(t *testing.T) {
	round := NewDictation(&fakeSource{}, dictationWord())
	require.NoError(t, round.Load(context.Background()))

	_, err := round.Answer("   ")
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))

	// The attempt is still available.
	outcome, err := round.Answer("casa")
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
}

func TestDictation_LoadFailsWithoutAudio(t *testing.T) {
	round := NewDictation(&fakeSource{}, models.WordRecord{Text: "casa"})
	err := round.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeMissingRequired, contextutils.GetErrorCode(err))
}

func TestDictation_AnswerBeforeLoadRejected(t *testing.T) {
	round := NewDictation(&fakeSource{}, dictationWord())

	_, err := round.Answer("casa")
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))

	// Loading afterwards arms the round normally.
	require.NoError(t, round.Load(context.Background()))
	outcome, err := round.Answer("casa")
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
}

func dragDropPayload() *models.DragDropPayload {
	return &models.DragDropPayload{
		Instruction: "Match the words to their definitions",
		DraggableItems: []models.DraggableItem{
			{ID: "d1", Content: "house"},
			{ID: "d2", Content: "dog"},
			{ID: "d3", Content: "tree"},
		},
		DropZones: []models.DropZone{
			{ID: "z1", Content: "casa", CorrectDraggableID: "d1"},
			{ID: "z2", Content: "perro", CorrectDraggableID: "d2"},
			{ID: "z3", Content: "arbol", CorrectDraggableID: "d3"},
		},
	}
}

func loadedDragDrop(t *testing.T) *DragDrop {
	t.Helper()
	round := NewDragDrop(&fakeSource{dragDrop: dragDropPayload()})
	require.NoError(t, round.Load(context.Background()))
	return round
}

func TestDragDrop_PerfectScore(t *testing.T) {
	round := loadedDragDrop(t)

	require.NoError(t, round.Place("d1", "z1"))
	require.NoError(t, round.Place("d2", "z2"))
	require.NoError(t, round.Place("d3", "z3"))
	assert.True(t, round.Complete())

	outcome, err := round.Submit()
	require.NoError(t, err)

	assert.True(t, outcome.Correct)
	assert.Equal(t, 1.0, outcome.Result.Accuracy)
	assert.Equal(t, "casa", outcome.Result.WordText)
	assert.Equal(t, config.DragDropTimeTaken, outcome.Result.TimeTakenSeconds)
	assert.Equal(t, config.DragDropFeedbackDelay, outcome.FeedbackDelay)
}

func TestDragDrop_PartialScore(t *testing.T) {
	round := loadedDragDrop(t)

	require.NoError(t, round.Place("d1", "z1"))
	require.NoError(t, round.Place("d3", "z2")) // wrong
	require.NoError(t, round.Place("d2", "z3")) // wrong

	outcome, err := round.Submit()
	require.NoError(t, err)

	assert.False(t, outcome.Correct)
	assert.InDelta(t, 1.0/3.0, outcome.Result.Accuracy, 1e-9)
}

func TestDragDrop_OccupiedZoneRejectsDrop(t *testing.T) {
	round := loadedDragDrop(t)

	require.NoError(t, round.Place("d1", "z1"))
	err := round.Place("d2", "z1")
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))

	// The rejected item stays in the pool and can be placed elsewhere.
	assert.NoError(t, round.Place("d2", "z2"))
}

func TestDragDrop_UnplaceReturnsItemToPool(t *testing.T) {
	round := loadedDragDrop(t)

	require.NoError(t, round.Place("d1", "z1"))
	assert.Len(t, round.Items(), 2)

	require.NoError(t, round.Unplace("z1"))
	assert.Len(t, round.Items(), 3)

	_, placed := round.Placement("z1")
	assert.False(t, placed)
}

func TestDragDrop_EmptyBoardScoresZero(t *testing.T) {
	round := loadedDragDrop(t)

	outcome, err := round.Submit()
	require.NoError(t, err)

	assert.Equal(t, 0.0, outcome.Result.Accuracy)
	assert.False(t, outcome.Correct)
}

func TestDragDrop_NoZonesUsesFallbackWord(t *testing.T) {
	payload := &models.DragDropPayload{
		DraggableItems: []models.DraggableItem{},
		DropZones:      []models.DropZone{},
	}
	round := NewDragDrop(&fakeSource{dragDrop: payload})
	require.NoError(t, round.Load(context.Background()))

	outcome, err := round.Submit()
	require.NoError(t, err)

	assert.Equal(t, config.DragDropFallbackWord, outcome.Result.WordText)
	assert.Equal(t, 0.0, outcome.Result.Accuracy)
}

func TestDragDrop_SingleSubmit(t *testing.T) {
	round := loadedDragDrop(t)

	_, err := round.Submit()
	require.NoError(t, err)

	_, err = round.Submit()
	require.Error(t, err)
}

func TestControllers_TemplateFetchedOnLoad(t *testing.T) {
	mcq := NewMultipleChoice(&fakeSource{mcq: mcqPayload()}, "casa")
	require.NoError(t, mcq.Load(context.Background()))
	assert.Equal(t, "<div>mcq</div>", mcq.Template())

	dictation := NewDictation(&fakeSource{}, dictationWord())
	require.NoError(t, dictation.Load(context.Background()))
	assert.Equal(t, "<div>dictation</div>", dictation.Template())

	dragDrop := loadedDragDrop(t)
	assert.Equal(t, "<div>drag_drop</div>", dragDrop.Template())
}
