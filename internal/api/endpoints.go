package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"
)

// Login exchanges credentials for a bearer token using the OAuth2 password
// flow (form-encoded body). A 401 here means bad credentials, not an expired
// session, so the forced-logout hook does not fire.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token models.Token
	err := c.do(ctx, http.MethodPost, "/token", strings.NewReader(form.Encode()), requestOptions{
		contentType: "application/x-www-form-urlencoded",
	}, &token)
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeServer, contextutils.SeverityError,
			"login response missing access token", "")
	}
	return &token, nil
}

// Register creates a new account. Input is validated locally first so
// malformed requests never reach the wire.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to encode registration request")
	}
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users/", bytes.NewReader(body), requestOptions{
		contentType: "application/json",
	}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, requestOptions{authenticated: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Word looks up a single word by its text.
func (c *Client) Word(ctx context.Context, text string) (*models.WordRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
			"word text is required", "")
	}
	var word models.WordRecord
	if err := c.do(ctx, http.MethodGet, "/word/"+url.PathEscape(text), nil, requestOptions{authenticated: true}, &word); err != nil {
		return nil, err
	}
	if err := word.Validate(); err != nil {
		return nil, err
	}
	return &word, nil
}

// autocomplete fetches raw word suggestions for a prefix. Callers go through
// the Suggester, which enforces last-request-wins ordering.
func (c *Client) autocomplete(ctx context.Context, prefix string) ([]string, error) {
	q := url.Values{}
	q.Set("prefix", prefix)
	var suggestions []string
	if err := c.do(ctx, http.MethodGet, "/words/autocomplete?"+q.Encode(), nil, requestOptions{authenticated: true}, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// NextExercise asks the server which word the user should practice next.
func (c *Client) NextExercise(ctx context.Context) (*models.NextExerciseSuggestion, error) {
	var suggestion models.NextExerciseSuggestion
	if err := c.do(ctx, http.MethodGet, "/next_exercise/me", nil, requestOptions{authenticated: true}, &suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// SubmitResult records one completed exercise attempt.
func (c *Client) SubmitResult(ctx context.Context, result models.ExerciseResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(result)
	if err != nil {
		return contextutils.WrapError(err, "failed to encode exercise result")
	}
	return c.do(ctx, http.MethodPost, "/submit_exercise_data/", bytes.NewReader(body), requestOptions{
		authenticated: true,
		contentType:   "application/json",
	}, nil)
}

// MultipleChoice fetches a multiple-choice exercise for the given word.
func (c *Client) MultipleChoice(ctx context.Context, word string) (*models.MultipleChoicePayload, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityWarn,
			"word text is required", "")
	}
	var payload models.MultipleChoicePayload
	err := c.do(ctx, http.MethodGet, "/exercise/multiple_choice/"+url.PathEscape(word), nil, requestOptions{
		authenticated: true,
		schemaName:    SchemaMultipleChoice,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DragDropMatch fetches a word/definition matching exercise. The server picks
// the word set; no input is required.
func (c *Client) DragDropMatch(ctx context.Context) (*models.DragDropPayload, error) {
	var payload models.DragDropPayload
	err := c.do(ctx, http.MethodGet, "/exercise/drag_drop_match/", nil, requestOptions{
		authenticated: true,
		schemaName:    SchemaDragDrop,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Partial fetches the HTML template for an exercise panel.
func (c *Client) Partial(ctx context.Context, kind string) (string, error) {
	switch kind {
	case "mcq", "dictation", "drag_drop":
	default:
		return "", contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"unknown partial kind", kind)
	}
	return c.doText(ctx, "/app/partials/"+kind)
}

// ProgressReport fetches the aggregated practice history for the user.
func (c *Client) ProgressReport(ctx context.Context) (*models.ProgressReport, error) {
	var report models.ProgressReport
	err := c.do(ctx, http.MethodGet, "/users/me/progress_report/", nil, requestOptions{
		authenticated: true,
		schemaName:    SchemaProgressReport,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DailyWord returns today's featured word.
func (c *Client) DailyWord(ctx context.Context) (*models.WordRecord, error) {
	var word models.WordRecord
	if err := c.do(ctx, http.MethodGet, "/words/daily_word/", nil, requestOptions{authenticated: true}, &word); err != nil {
		return nil, err
	}
	if err := word.Validate(); err != nil {
		return nil, err
	}
	return &word, nil
}

// LearnWords fetches a batch of words for guided learning at the given
// difficulty level.
func (c *Client) LearnWords(ctx context.Context, level, limit int) ([]models.WordRecord, error) {
	if level < 1 || level > 3 {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"difficulty level must be between 1 and 3", strconv.Itoa(level))
	}
	q := url.Values{}
	q.Set("level", strconv.Itoa(level))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var words []models.WordRecord
	if err := c.do(ctx, http.MethodGet, "/words/learn/?"+q.Encode(), nil, requestOptions{authenticated: true}, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// TrainModel triggers a retrain of the server-side difficulty model. Admin only.
func (c *Client) TrainModel(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/admin/train_model", nil, requestOptions{authenticated: true}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "training started"
	}
	return resp.Message, nil
}
