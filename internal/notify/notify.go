package notify

import (
	"context"
	"log/slog"
)

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier delivers user-facing messages. Every user-significant outcome
// (item added, checkout blocked, persistence failure) routes through one
// of these; rendering is the consumer's concern.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, severity Severity)
}

// LogNotifier records notifications in the service log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, userID, message string, severity Severity) {
	level := slog.LevelInfo
	if severity == SeverityError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "user notification",
		slog.String("user_id", userID),
		slog.String("severity", string(severity)),
		slog.String("message", message),
	)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, userID, message string, severity Severity) {
	for _, n := range m {
		n.Notify(ctx, userID, message, severity)
	}
}
