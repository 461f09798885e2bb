package notify

import (
	"context"

	"go.uber.org/zap"
)

// Event describes one run-phase transition.
type Event struct {
	// RunID identifies the audit run.
	RunID string
	// Phase is the human-readable phase name.
	Phase string
	// Percent is the overall run progress, 0-100.
	Percent int
	// Message is the notification text.
	Message string
	// Err is set when the event reports a failure.
	Err error
}

// Notifier receives run-phase events. Implementations must treat delivery
// as best effort; a failed notification never fails the audit.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// LogNotifier writes events to the structured log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, ev Event) {
	fields := []zap.Field{
		zap.String("run_id", ev.RunID),
		zap.String("phase", ev.Phase),
		zap.Int("percent", ev.Percent),
	}
	if ev.Err != nil {
		n.Logger.Error(ev.Message, append(fields, zap.Error(ev.Err))...)
		return
	}
	n.Logger.Info(ev.Message, fields...)
}

// multiNotifier fans an event out to several notifiers.
type multiNotifier []Notifier

func (m multiNotifier) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}

// Multi combines notifiers into one.
func Multi(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
