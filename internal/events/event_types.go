package events

import (
	"time"

	"github.com/americas-iot/sims-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginRejected     EventType = "login_rejected"
	EventUserCreated       EventType = "user_created"
	EventUserUpdated       EventType = "user_updated"
	EventUserDeleted       EventType = "user_deleted"
	EventUserStatusChanged EventType = "user_status_changed"
)

// Event represents an auth/audit event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginRejectedPayload carries the rejection reason code.
type LoginRejectedPayload struct {
	Code string `json:"code"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}
