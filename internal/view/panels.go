// Package view coordinates which panels are visible and routes user intents
// to the session, gateway, and exercise layers. Visibility is a pure function
// of the current screen and login state, so it can never drift out of sync
// with the data that produced it.
package view

// Screen is the coordinator's top-level state.
type Screen int

const (
	// ScreenLoggedOut shows only the authentication panel.
	ScreenLoggedOut Screen = iota
	// ScreenMain shows word search, word display, and the action buttons.
	ScreenMain
	// ScreenExercise shows the main panel with a mounted exercise round.
	ScreenExercise
	// ScreenProgress shows the main panel with the progress report.
	ScreenProgress
)

// String returns the screen name for logging.
func (s Screen) String() string {
	switch s {
	case ScreenLoggedOut:
		return "logged_out"
	case ScreenMain:
		return "main"
	case ScreenExercise:
		return "exercise"
	case ScreenProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Panel is one visible region of the interface.
type Panel string

const (
	PanelAuth     Panel = "auth"
	PanelMain     Panel = "main"
	PanelExercise Panel = "exercise"
	PanelProgress Panel = "progress"
)

// VisiblePanels computes the set of visible panels for a screen. Pure: no
// state is read or written. A logged-out user sees only the auth panel no
// matter what screen is requested.
func VisiblePanels(screen Screen, loggedIn bool) []Panel {
	if !loggedIn {
		return []Panel{PanelAuth}
	}
	switch screen {
	case ScreenExercise:
		return []Panel{PanelMain, PanelExercise}
	case ScreenProgress:
		return []Panel{PanelMain, PanelProgress}
	case ScreenLoggedOut:
		// Logged in but on the logged-out screen happens transiently during
		// login; show the main panel.
		return []Panel{PanelMain}
	default:
		return []Panel{PanelMain}
	}
}
