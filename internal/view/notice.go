package view

import (
	"time"

	"vocabapp/internal/config"
	contextutils "vocabapp/internal/utils"
)

// Notice is a transient status message shown to the user.
type Notice struct {
	Message  string
	Level    contextutils.SeverityLevel
	Duration time.Duration
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Notice) {}

func infoNotice(message string) Notice {
	return Notice{Message: message, Level: contextutils.SeverityInfo, Duration: config.NoticeDuration}
}

func errorNotice(err error) Notice {
	return Notice{
		Message:  contextutils.UserMessage(err),
		Level:    contextutils.GetErrorSeverity(err),
		Duration: config.NoticeDuration,
	}
}
