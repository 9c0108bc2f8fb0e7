// Package commands implements the vocab CLI subcommands.
package commands

import (
	"fmt"
	"strings"

	"vocabapp/internal/api"
	"vocabapp/internal/config"
	"vocabapp/internal/learning"
	"vocabapp/internal/models"
	"vocabapp/internal/observability"
	"vocabapp/internal/progress"
	"vocabapp/internal/session"
	contextutils "vocabapp/internal/utils"
	"vocabapp/internal/view"
)

// App bundles the shared dependencies every subcommand uses.
type App struct {
	Cfg         *config.Config
	Logger      *observability.Logger
	Session     *session.Store
	Client      *api.Client
	Coordinator *view.Coordinator
	Suggester   *api.Suggester
	Renderer    *progress.Renderer
	Queue       *learning.Queue
}

// NewApp wires the client layers together for CLI use.
func NewApp(cfg *config.Config, logger *observability.Logger, store *session.Store, client *api.Client) *App {
	app := &App{
		Cfg:       cfg,
		Logger:    logger,
		Session:   store,
		Client:    client,
		Suggester: api.NewSuggester(client),
		Queue:     learning.NewQueue(client, logger),
	}
	app.Coordinator = view.NewCoordinator(client, store, logger, terminalNotifier{})
	app.Renderer = progress.NewRenderer(client, logger, nil)
	return app
}

// terminalNotifier prints transient notices to stdout.
type terminalNotifier struct{}

// Notify implements view.Notifier.
func (terminalNotifier) Notify(n view.Notice) {
	prefix := ""
	switch n.Level {
	case contextutils.SeverityWarn:
		prefix = "! "
	case contextutils.SeverityError:
		prefix = "!! "
	}
	fmt.Println(prefix + n.Message)
}

// requireLogin fails fast with a friendly message when no session is active.
func requireLogin(app *App) error {
	if !app.Session.IsLoggedIn() {
		return contextutils.NewAppError(contextutils.ErrorCodeAuthFailure, contextutils.SeverityWarn,
			"you are not logged in; run 'vocab auth login' first", "")
	}
	return nil
}

// printWord renders a word record for terminal display.
func printWord(word *models.WordRecord) {
	fmt.Printf("Word: %s\n", word.Text)
	if word.Definition != "" {
		fmt.Printf("Definition: %s\n", word.Definition)
	}
	if label := word.DifficultyLabel(); label != "" {
		fmt.Printf("Difficulty: %s\n", label)
	}
	if word.ImageURL != "" {
		fmt.Printf("Image: %s\n", word.ImageURL)
	}
	if word.HasAudio() {
		fmt.Printf("Audio: %s\n", word.AudioURL)
	}
}

// divider prints a horizontal rule sized to the header above it.
func divider(width int) {
	fmt.Println(strings.Repeat("-", width))
}
