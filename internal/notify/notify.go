package notify

import (
	"context"

	"campusrun/internal/delivery"

	"github.com/sirupsen/logrus"
)

// Dispatcher fans lifecycle events out to the notification sideband.
// Delivery is best-effort: a failed dispatch must never fail or block
// the transition that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []delivery.Event)
}

// LogDispatcher records each event as a structured log line. Stands in
// for (and is a debugging tap alongside) a real push transport.
type LogDispatcher struct {
	logger *logrus.Logger
}

func NewLogDispatcher(logger *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, events []delivery.Event) {
	for _, event := range events {
		d.logger.WithFields(logrus.Fields{
			"event":        string(event.Kind),
			"request_id":   event.RequestID,
			"actor_id":     event.ActorID,
			"requester_id": event.RequesterID,
			"helper_id":    event.HelperID,
		}).Info("lifecycle event")
	}
}
