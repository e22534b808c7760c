package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/americas-iot/sims-portal/internal/events"
)

// StartAuditWorker subscribes a structured audit log to auth events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("subject_id", event.SubjectID),
			zap.String("username", event.Username),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginRejected,
		events.EventUserCreated,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventUserStatusChanged,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
