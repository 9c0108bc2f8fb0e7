package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vocabapp/internal/api"
	"vocabapp/internal/config"
	"vocabapp/internal/exercise"
	"vocabapp/internal/models"
	"vocabapp/internal/observability"
	"vocabapp/internal/session"
	contextutils "vocabapp/internal/utils"
)

// Gateway is the slice of the API client the coordinator drives.
type Gateway interface {
	exercise.MultipleChoiceSource
	exercise.DragDropSource
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Word(ctx context.Context, text string) (*models.WordRecord, error)
	NextExercise(ctx context.Context) (*models.NextExerciseSuggestion, error)
	SubmitResult(ctx context.Context, result models.ExerciseResult) error
	DailyWord(ctx context.Context) (*models.WordRecord, error)
	TrainModel(ctx context.Context) (string, error)
	SetAuthFailureHandler(api.AuthFailureHandler)
}

// Coordinator owns the screen state machine. It enforces that at most one
// exercise round is mounted at a time and that a rejected bearer token lands
// the user on the auth panel exactly once, regardless of how many in-flight
// requests observed the rejection.
type Coordinator struct {
	gateway  Gateway
	session  *session.Store
	logger   *observability.Logger
	notifier Notifier
	sleep    func(time.Duration)

	mu                sync.Mutex
	screen            Screen
	active            exercise.Controller
	loggedOutNotified bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSleep replaces the delay function used between feedback and the return
// to the main panel. Tests inject a no-op here.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Coordinator) { c.sleep = sleep }
}

// NewCoordinator wires the state machine to the gateway and session store and
// registers the forced-logout hook. The initial screen follows the restored
// session state.
func NewCoordinator(gateway Gateway, store *session.Store, logger *observability.Logger, notifier Notifier, opts ...Option) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	c := &Coordinator{
		gateway:  gateway,
		session:  store,
		logger:   logger,
		notifier: notifier,
		sleep:    time.Sleep,
		screen:   ScreenLoggedOut,
	}
	for _, opt := range opts {
		opt(c)
	}
	if store.IsLoggedIn() {
		c.screen = ScreenMain
	}
	gateway.SetAuthFailureHandler(c.ForceLogout)
	return c
}

// Screen returns the current screen.
func (c *Coordinator) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Visible returns the panels currently visible.
func (c *Coordinator) Visible() []Panel {
	return VisiblePanels(c.Screen(), c.session.IsLoggedIn())
}

// Active returns the mounted exercise round, or nil.
func (c *Coordinator) Active() exercise.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Login authenticates, loads the user profile, and moves to the main screen.
func (c *Coordinator) Login(ctx context.Context, username, password string) error {
	token, err := c.gateway.Login(ctx, username, password)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	// The profile request needs the token in place.
	if err := c.session.Login(token.AccessToken, nil); err != nil {
		return err
	}
	user, err := c.gateway.Me(ctx)
	if err != nil {
		if lerr := c.session.Logout(); lerr != nil {
			c.logger.Warn(ctx, "Failed to clear session after profile fetch failure", map[string]interface{}{"error": lerr.Error()})
		}
		c.notifier.Notify(errorNotice(err))
		return err
	}
	if err := c.session.Login(token.AccessToken, user); err != nil {
		return err
	}

	c.mu.Lock()
	c.screen = ScreenMain
	c.loggedOutNotified = false
	c.mu.Unlock()

	c.logger.Info(ctx, "User logged in", map[string]interface{}{"username": user.Username})
	c.notifier.Notify(infoNotice(fmt.Sprintf("Welcome, %s!", user.Username)))
	return nil
}

// Register creates an account. The user still logs in explicitly afterwards.
func (c *Coordinator) Register(ctx context.Context, username, password string) error {
	user, err := c.gateway.Register(ctx, models.RegisterRequest{Username: username, Password: password})
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	c.notifier.Notify(infoNotice(fmt.Sprintf("Registration successful for %s. Please log in.", user.Username)))
	return nil
}

// Logout clears the session and returns to the auth panel.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.closeActive()
	if err := c.session.Logout(); err != nil {
		return err
	}
	c.mu.Lock()
	c.screen = ScreenLoggedOut
	c.mu.Unlock()
	c.logger.Info(ctx, "User logged out", nil)
	c.notifier.Notify(infoNotice("Logged out."))
	return nil
}

// ForceLogout handles a rejected bearer token. Idempotent: concurrent 401s
// produce one state transition and one notice.
func (c *Coordinator) ForceLogout(ctx context.Context) {
	c.mu.Lock()
	if c.loggedOutNotified || (c.screen == ScreenLoggedOut && !c.session.IsLoggedIn()) {
		c.mu.Unlock()
		return
	}
	c.loggedOutNotified = true
	if c.active != nil {
		c.active.Close()
		c.active = nil
	}
	c.screen = ScreenLoggedOut
	c.mu.Unlock()

	if err := c.session.Logout(); err != nil {
		c.logger.Warn(ctx, "Failed to clear session on forced logout", map[string]interface{}{"error": err.Error()})
	}
	c.logger.Warn(ctx, "Session rejected by server, forcing logout", nil)
	c.notifier.Notify(Notice{
		Message:  "Your session has expired. Please log in again.",
		Level:    contextutils.SeverityWarn,
		Duration: config.NoticeDuration,
	})
}

// SelectWord looks up a word and makes it the current practice target.
func (c *Coordinator) SelectWord(ctx context.Context, text string) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}
	word, err := c.gateway.Word(ctx, text)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	if err := c.session.SetCurrentWord(word); err != nil {
		return err
	}
	c.mu.Lock()
	c.screen = ScreenMain
	c.mu.Unlock()
	return nil
}

// StartExercise mounts a round of the given kind, closing any previous round
// first. Multiple choice and dictation need a selected word; dictation
// additionally needs pronunciation audio. Drag-drop needs nothing: the
// server picks the word set.
func (c *Coordinator) StartExercise(ctx context.Context, kind exercise.Kind) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}

	controller, err := c.buildController(kind)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}

	c.closeActive()

	if err := controller.Load(ctx); err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}

	c.mu.Lock()
	c.active = controller
	c.screen = ScreenExercise
	c.mu.Unlock()

	c.logger.Info(ctx, "Exercise started", map[string]interface{}{"kind": string(kind)})
	return nil
}

func (c *Coordinator) buildController(kind exercise.Kind) (exercise.Controller, error) {
	switch kind {
	case exercise.KindMultipleChoice:
		word := c.session.CurrentWord()
		if word == nil {
			return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
				"select a word before starting a multiple choice exercise", "")
		}
		return exercise.NewMultipleChoice(c.gateway, word.Text), nil
	case exercise.KindDictation:
		word := c.session.CurrentWord()
		if word == nil {
			return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
				"select a word before starting a dictation exercise", "")
		}
		if !word.HasAudio() {
			return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
				"the selected word has no pronunciation audio", word.Text)
		}
		return exercise.NewDictation(c.gateway, *word), nil
	case exercise.KindDragDrop:
		return exercise.NewDragDrop(c.gateway), nil
	default:
		return nil, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"unknown exercise kind", string(kind))
	}
}

// CompleteExercise submits a scored outcome, shows its feedback for the
// outcome's delay, then unmounts the round and returns to the main panel.
// A failed submission is reported but does not keep the round mounted.
func (c *Coordinator) CompleteExercise(ctx context.Context, outcome exercise.Outcome) error {
	level := contextutils.SeverityInfo
	if !outcome.Correct {
		level = contextutils.SeverityWarn
	}
	c.notifier.Notify(Notice{Message: outcome.Feedback, Level: level, Duration: outcome.FeedbackDelay})

	submitErr := c.gateway.SubmitResult(ctx, outcome.Result)
	if submitErr != nil {
		c.logger.Error(ctx, "Failed to submit exercise result", submitErr, map[string]interface{}{
			"word": outcome.Result.WordText,
		})
		c.notifier.Notify(errorNotice(submitErr))
	}

	c.sleep(outcome.FeedbackDelay)
	c.closeActive()

	c.mu.Lock()
	if c.screen == ScreenExercise {
		c.screen = ScreenMain
	}
	c.mu.Unlock()
	return submitErr
}

// NextExercise asks the server which word to practice next and makes it the
// current target.
func (c *Coordinator) NextExercise(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}
	suggestion, err := c.gateway.NextExercise(ctx)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	if suggestion.SuggestedWord == nil {
		message := suggestion.Message
		if message == "" {
			message = "No suggestion available right now."
		}
		c.notifier.Notify(infoNotice(message))
		return nil
	}
	if err := c.session.SetCurrentWord(suggestion.SuggestedWord); err != nil {
		return err
	}
	c.mu.Lock()
	c.screen = ScreenMain
	c.mu.Unlock()
	c.notifier.Notify(infoNotice(fmt.Sprintf("Try practicing: %s", suggestion.SuggestedWord.Text)))
	return nil
}

// DailyWord fetches today's featured word and makes it the current target.
func (c *Coordinator) DailyWord(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}
	word, err := c.gateway.DailyWord(ctx)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	if err := c.session.SetCurrentWord(word); err != nil {
		return err
	}
	c.mu.Lock()
	c.screen = ScreenMain
	c.mu.Unlock()
	c.notifier.Notify(infoNotice(fmt.Sprintf("Word of the day: %s", word.Text)))
	return nil
}

// TrainModel triggers the server-side difficulty model retrain. Admin only;
// the gate is checked locally so non-admins get an immediate answer.
func (c *Coordinator) TrainModel(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}
	if !c.session.IsAdmin() {
		err := contextutils.NewAppError(contextutils.ErrorCodeForbidden, contextutils.SeverityWarn,
			"this action requires an admin account", "")
		c.notifier.Notify(errorNotice(err))
		return err
	}
	message, err := c.gateway.TrainModel(ctx)
	if err != nil {
		c.notifier.Notify(errorNotice(err))
		return err
	}
	c.notifier.Notify(infoNotice(message))
	return nil
}

// ShowProgress switches to the progress screen, unmounting any exercise.
func (c *Coordinator) ShowProgress(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		return contextutils.ErrAuthFailure
	}
	c.closeActive()
	c.mu.Lock()
	c.screen = ScreenProgress
	c.mu.Unlock()
	return nil
}

// BackToMain returns to the main screen, unmounting any exercise.
func (c *Coordinator) BackToMain() {
	c.closeActive()
	c.mu.Lock()
	if c.screen != ScreenLoggedOut {
		c.screen = ScreenMain
	}
	c.mu.Unlock()
}

func (c *Coordinator) closeActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Close()
		c.active = nil
	}
}
