package worker

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// Notifier delivers a roster change to whoever should hear about it.
type Notifier interface {
	Notify(ctx context.Context, e model.RosterEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e model.RosterEvent) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, e model.RosterEvent) error { //nolint:gocritic // hugeParam
	return f(ctx, e)
}

// LogNotifier writes a confirmation notice per roster change.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier returns a notifier that logs through l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Nop()
	}
	return &LogNotifier{log: l.Named("notifier")}
}

// Notify logs the confirmation text for e.
func (n *LogNotifier) Notify(ctx context.Context, e model.RosterEvent) error { //nolint:gocritic // hugeParam
	var notice string
	switch e.Kind {
	case model.RosterSignedUp:
		notice = model.SignupMessage(e.Activity, e.Email)
	case model.RosterUnregistered:
		notice = model.UnregisterMessage(e.Activity, e.Email)
	default:
		notice = string(e.Kind)
	}
	n.log.Info(ctx, notice,
		logger.String("event_id", e.ID),
		logger.String("activity", e.Activity),
		logger.Int("participants", e.Participants))
	return nil
}
