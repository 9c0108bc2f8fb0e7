package view

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"vocabapp/internal/api"
	"vocabapp/internal/config"
	"vocabapp/internal/exercise"
	"vocabapp/internal/models"
	"vocabapp/internal/observability"
	"vocabapp/internal/session"
	contextutils "vocabapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu sync.Mutex

	authFailure api.AuthFailureHandler

	loginErr   error
	meErr      error
	wordErr    error
	submitErr  error
	submitted  []models.ExerciseResult
	word       *models.WordRecord
	suggestion *models.NextExerciseSuggestion
	mcq        *models.MultipleChoicePayload
	dragDrop   *models.DragDropPayload
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (*models.Token, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Token{AccessToken: "tok", TokenType: "bearer"}, nil
}

func (f *fakeGateway) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &models.User{Username: req.Username}, nil
}

func (f *fakeGateway) Me(_ context.Context) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &models.User{Username: "alice"}, nil
}

func (f *fakeGateway) Word(_ context.Context, text string) (*models.WordRecord, error) {
	if f.wordErr != nil {
		return nil, f.wordErr
	}
	if f.word != nil {
		return f.word, nil
	}
	return &models.WordRecord{Text: text, Definition: "a definition"}, nil
}

func (f *fakeGateway) NextExercise(_ context.Context) (*models.NextExerciseSuggestion, error) {
	return f.suggestion, nil
}

func (f *fakeGateway) SubmitResult(_ context.Context, result models.ExerciseResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, result)
	return nil
}

func (f *fakeGateway) DailyWord(_ context.Context) (*models.WordRecord, error) {
	if f.wordErr != nil {
		return nil, f.wordErr
	}
	return &models.WordRecord{Text: "dia", Definition: "day"}, nil
}

func (f *fakeGateway) TrainModel(_ context.Context) (string, error) {
	return "training started", nil
}

func (f *fakeGateway) MultipleChoice(_ context.Context, _ string) (*models.MultipleChoicePayload, error) {
	return f.mcq, nil
}

func (f *fakeGateway) DragDropMatch(_ context.Context) (*models.DragDropPayload, error) {
	return f.dragDrop, nil
}

func (f *fakeGateway) Partial(_ context.Context, kind string) (string, error) {
	return "<div>" + kind + "</div>", nil
}

func (f *fakeGateway) SetAuthFailureHandler(h api.AuthFailureHandler) {
	f.authFailure = h
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

func newTestCoordinator(t *testing.T, gateway *fakeGateway) (*Coordinator, *session.Store, *recordingNotifier) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	notifier := &recordingNotifier{}
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	coordinator := NewCoordinator(gateway, store, logger, notifier, WithSleep(func(time.Duration) {}))
	return coordinator, store, notifier
}

func mcqPayload() *models.MultipleChoicePayload {
	return &models.MultipleChoicePayload{
		TargetWordText: "casa",
		TargetWordID:   1,
		Options: []models.MultipleChoiceOption{
			{WordID: 1, Definition: "house"},
			{WordID: 2, Definition: "dog"},
		},
	}
}

func TestVisiblePanels(t *testing.T) {
	tests := []struct {
		name     string
		screen   Screen
		loggedIn bool
		expected []Panel
	}{
		{"logged out sees only auth", ScreenMain, false, []Panel{PanelAuth}},
		{"logged out on exercise screen still only auth", ScreenExercise, false, []Panel{PanelAuth}},
		{"main screen", ScreenMain, true, []Panel{PanelMain}},
		{"exercise screen", ScreenExercise, true, []Panel{PanelMain, PanelExercise}},
		{"progress screen", ScreenProgress, true, []Panel{PanelMain, PanelProgress}},
		{"logged in on logged-out screen", ScreenLoggedOut, true, []Panel{PanelMain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VisiblePanels(tt.screen, tt.loggedIn))
		})
	}
}

func TestCoordinator_LoginMovesToMain(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, store, notifier := newTestCoordinator(t, gateway)

	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	assert.Equal(t, ScreenMain, coordinator.Screen())
	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "alice", store.Username())
	require.NotEmpty(t, notifier.all())
	assert.Contains(t, notifier.all()[0].Message, "alice")
}

func TestCoordinator_LoginProfileFailureRollsBack(t *testing.T) {
	gateway := &fakeGateway{meErr: contextutils.ErrServer}
	coordinator, store, _ := newTestCoordinator(t, gateway)

	err := coordinator.Login(context.Background(), "alice", "secret1")
	require.Error(t, err)
	assert.False(t, store.IsLoggedIn())
	assert.Equal(t, ScreenLoggedOut, coordinator.Screen())
}

func TestCoordinator_StartsOnMainWhenSessionRestored(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, store.Login("tok", &models.User{Username: "alice"}))

	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	coordinator := NewCoordinator(&fakeGateway{}, store, logger, nil, WithSleep(func(time.Duration) {}))

	assert.Equal(t, ScreenMain, coordinator.Screen())
}

func TestCoordinator_ExercisePreconditions(t *testing.T) {
	t.Run("mcq needs a current word", func(t *testing.T) {
		gateway := &fakeGateway{mcq: mcqPayload()}
		coordinator, _, _ := newTestCoordinator(t, gateway)
		require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

		err := coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice)
		require.Error(t, err)
		assert.Equal(t, contextutils.ErrorCodeMissingRequired, contextutils.GetErrorCode(err))
		assert.Equal(t, ScreenMain, coordinator.Screen())
	})

	t.Run("dictation needs audio", func(t *testing.T) {
		gateway := &fakeGateway{word: &models.WordRecord{Text: "casa", Definition: "house"}}
		coordinator, _, _ := newTestCoordinator(t, gateway)
		require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
		require.NoError(t, coordinator.SelectWord(context.Background(), "casa"))

		err := coordinator.StartExercise(context.Background(), exercise.KindDictation)
		require.Error(t, err)
		assert.Equal(t, contextutils.ErrorCodeMissingRequired, contextutils.GetErrorCode(err))
	})

	t.Run("drag drop needs no word", func(t *testing.T) {
		gateway := &fakeGateway{dragDrop: &models.DragDropPayload{
			DraggableItems: []models.DraggableItem{{ID: "d1", Content: "house"}},
			DropZones:      []models.DropZone{{ID: "z1", Content: "casa", CorrectDraggableID: "d1"}},
		}}
		coordinator, _, _ := newTestCoordinator(t, gateway)
		require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

		require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindDragDrop))
		assert.Equal(t, ScreenExercise, coordinator.Screen())
	})

	t.Run("logged out cannot start", func(t *testing.T) {
		coordinator, _, _ := newTestCoordinator(t, &fakeGateway{})
		err := coordinator.StartExercise(context.Background(), exercise.KindDragDrop)
		require.Error(t, err)
	})
}

func TestCoordinator_SingleExerciseMount(t *testing.T) {
	gateway := &fakeGateway{
		mcq:  mcqPayload(),
		word: &models.WordRecord{Text: "casa", Definition: "house"},
	}
	coordinator, _, _ := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	require.NoError(t, coordinator.SelectWord(context.Background(), "casa"))

	require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice))
	first := coordinator.Active().(*exercise.MultipleChoice)

	require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice))
	second := coordinator.Active().(*exercise.MultipleChoice)
	assert.NotSame(t, first, second)

	// The first round was closed when the second mounted.
	_, err := first.Choose(0)
	require.Error(t, err)
}

func TestCoordinator_CompleteExerciseSubmitsAndReturnsToMain(t *testing.T) {
	gateway := &fakeGateway{
		mcq:  mcqPayload(),
		word: &models.WordRecord{Text: "casa", Definition: "house"},
	}
	coordinator, _, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	require.NoError(t, coordinator.SelectWord(context.Background(), "casa"))
	require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice))

	round := coordinator.Active().(*exercise.MultipleChoice)
	outcome, err := round.Choose(0)
	require.NoError(t, err)

	require.NoError(t, coordinator.CompleteExercise(context.Background(), outcome))

	assert.Equal(t, ScreenMain, coordinator.Screen())
	assert.Nil(t, coordinator.Active())
	require.Len(t, gateway.submitted, 1)
	assert.Equal(t, "casa", gateway.submitted[0].WordText)
	assert.Equal(t, 1.0, gateway.submitted[0].Accuracy)

	found := false
	for _, n := range notifier.all() {
		if n.Message == outcome.Feedback {
			found = true
		}
	}
	assert.True(t, found, "feedback notice shown")
}

func TestCoordinator_CompleteExerciseSubmitFailureStillUnmounts(t *testing.T) {
	gateway := &fakeGateway{
		mcq:       mcqPayload(),
		word:      &models.WordRecord{Text: "casa", Definition: "house"},
		submitErr: contextutils.ErrConnection,
	}
	coordinator, _, _ := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	require.NoError(t, coordinator.SelectWord(context.Background(), "casa"))
	require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice))

	round := coordinator.Active().(*exercise.MultipleChoice)
	outcome, err := round.Choose(0)
	require.NoError(t, err)

	err = coordinator.CompleteExercise(context.Background(), outcome)
	require.Error(t, err)
	assert.Equal(t, ScreenMain, coordinator.Screen())
	assert.Nil(t, coordinator.Active())
}

func TestCoordinator_ForceLogoutIsIdempotent(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, store, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	before := len(notifier.all())

	// Simulate several concurrent requests all observing a 401.
	coordinator.ForceLogout(context.Background())
	coordinator.ForceLogout(context.Background())
	coordinator.ForceLogout(context.Background())

	assert.False(t, store.IsLoggedIn())
	assert.Equal(t, ScreenLoggedOut, coordinator.Screen())
	notices := notifier.all()
	require.Equal(t, before+1, len(notices), "exactly one session-expired notice")
	assert.Equal(t, config.NoticeDuration, notices[len(notices)-1].Duration)
}

func TestCoordinator_ForceLogoutConcurrentNotifiesOnce(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, store, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	before := len(notifier.all())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coordinator.ForceLogout(context.Background())
		}()
	}
	wg.Wait()

	assert.False(t, store.IsLoggedIn())
	assert.Equal(t, before+1, len(notifier.all()), "exactly one session-expired notice")
}

func TestCoordinator_ForceLogoutNotifiesAgainAfterRelogin(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, _, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	coordinator.ForceLogout(context.Background())
	afterFirst := len(notifier.all())

	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	coordinator.ForceLogout(context.Background())

	// Login and welcome notice plus a fresh session-expired notice.
	assert.Equal(t, afterFirst+2, len(notifier.all()))
	notices := notifier.all()
	assert.Contains(t, notices[len(notices)-1].Message, "expired")
}

func TestCoordinator_ForceLogoutRegisteredWithGateway(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, store, _ := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	require.NotNil(t, gateway.authFailure)
	gateway.authFailure(context.Background())

	assert.False(t, store.IsLoggedIn())
	assert.Equal(t, ScreenLoggedOut, coordinator.Screen())
}

func TestCoordinator_ForceLogoutUnmountsExercise(t *testing.T) {
	gateway := &fakeGateway{
		mcq:  mcqPayload(),
		word: &models.WordRecord{Text: "casa", Definition: "house"},
	}
	coordinator, _, _ := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))
	require.NoError(t, coordinator.SelectWord(context.Background(), "casa"))
	require.NoError(t, coordinator.StartExercise(context.Background(), exercise.KindMultipleChoice))

	coordinator.ForceLogout(context.Background())

	assert.Nil(t, coordinator.Active())
	assert.Equal(t, []Panel{PanelAuth}, coordinator.Visible())
}

func TestCoordinator_NextExerciseSetsCurrentWord(t *testing.T) {
	gateway := &fakeGateway{
		suggestion: &models.NextExerciseSuggestion{
			SuggestedWord: &models.WordRecord{Text: "perro", Definition: "dog"},
		},
	}
	coordinator, store, _ := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	require.NoError(t, coordinator.NextExercise(context.Background()))

	word := store.CurrentWord()
	require.NotNil(t, word)
	assert.Equal(t, "perro", word.Text)
}

func TestCoordinator_NextExerciseWithoutSuggestionNotifies(t *testing.T) {
	gateway := &fakeGateway{
		suggestion: &models.NextExerciseSuggestion{Message: "Practice more words first"},
	}
	coordinator, store, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	require.NoError(t, coordinator.NextExercise(context.Background()))
	assert.Nil(t, store.CurrentWord())

	notices := notifier.all()
	assert.Equal(t, "Practice more words first", notices[len(notices)-1].Message)
}

func TestCoordinator_ProgressAndBack(t *testing.T) {
	coordinator, _, _ := newTestCoordinator(t, &fakeGateway{})
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	require.NoError(t, coordinator.ShowProgress(context.Background()))
	assert.Equal(t, []Panel{PanelMain, PanelProgress}, coordinator.Visible())

	coordinator.BackToMain()
	assert.Equal(t, []Panel{PanelMain}, coordinator.Visible())
}

func TestCoordinator_DailyWordSetsCurrentWord(t *testing.T) {
	coordinator, store, _ := newTestCoordinator(t, &fakeGateway{})
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	require.NoError(t, coordinator.Dispatch(context.Background(), IntentDailyWord, Args{}))

	word := store.CurrentWord()
	require.NotNil(t, word)
	assert.Equal(t, "dia", word.Text)
}

func TestCoordinator_TrainModelRequiresAdmin(t *testing.T) {
	gateway := &fakeGateway{}
	coordinator, store, notifier := newTestCoordinator(t, gateway)
	require.NoError(t, coordinator.Login(context.Background(), "alice", "secret1"))

	// The fake profile is not an admin.
	err := coordinator.Dispatch(context.Background(), IntentTrainModel, Args{})
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeForbidden, contextutils.GetErrorCode(err))

	// Grant admin and retry.
	require.NoError(t, store.Login("tok", &models.User{Username: "alice", IsAdmin: true}))
	require.NoError(t, coordinator.Dispatch(context.Background(), IntentTrainModel, Args{}))

	notices := notifier.all()
	assert.Equal(t, "training started", notices[len(notices)-1].Message)
}

func TestCoordinator_DispatchTable(t *testing.T) {
	gateway := &fakeGateway{word: &models.WordRecord{Text: "casa", Definition: "house"}}
	coordinator, store, _ := newTestCoordinator(t, gateway)

	require.NoError(t, coordinator.Dispatch(context.Background(), IntentLogin, Args{Username: "alice", Password: "secret1"}))
	assert.True(t, store.IsLoggedIn())

	require.NoError(t, coordinator.Dispatch(context.Background(), IntentSelectWord, Args{Word: "casa"}))
	require.NotNil(t, store.CurrentWord())

	require.NoError(t, coordinator.Dispatch(context.Background(), IntentLogout, Args{}))
	assert.False(t, store.IsLoggedIn())

	err := coordinator.Dispatch(context.Background(), Intent("bogus"), Args{})
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeValidationFailed, contextutils.GetErrorCode(err))
}
