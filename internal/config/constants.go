package config

import "time"

// Timeout constants
const (
	// HTTP timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Test timeouts
	TestTimeout = 100 * time.Millisecond
)

// Exercise timing constants. The reported durations are fixed per exercise
// kind rather than measured from wall clock; the backend scoring model
// expects these exact values.
const (
	MultipleChoiceTimeTaken = 10.0
	DictationTimeTaken      = 15.0
	DragDropTimeTaken       = 60.0
)

// Feedback display delays before control returns to the main panel
const (
	ExerciseFeedbackDelay = 5 * time.Second
	DragDropFeedbackDelay = 7 * time.Second
)

// Notice constants
const (
	// NoticeDuration is how long a transient status message stays visible
	NoticeDuration = 5 * time.Second
	// NoticeShortDuration is used for progress/loading notices
	NoticeShortDuration = 2 * time.Second
)

// Guided learning constants
const (
	DefaultLearnBatchLimit = 5
	// AutocompleteMinPrefix is the minimum prefix length before suggestions are requested
	AutocompleteMinPrefix = 1
)

// Session persistence constants
const (
	SessionFileName = "session.yaml"
	SessionFileMode = 0o600
)

// DragDropFallbackWord is submitted when a drag-drop payload has no drop zones.
// The first zone's content is otherwise used as the result key.
const DragDropFallbackWord = "drag_drop_set"
