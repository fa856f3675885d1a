package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded    = "auth.login_succeeded"
	EventTypeTokenRefreshed    = "auth.token_refreshed"
	EventTypePasswordRequested = "auth.password_requested"
	EventTypeUserRegistered    = "auth.user_registered"
	EventTypeUserActivated     = "user.activated"
	EventTypeUserDeactivated   = "user.deactivated"
	EventTypeUserRolesUpdated  = "user.roles_updated"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// UserEvent records something that happened to a single account.
type UserEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	ActorID  int64  `json:"actor_id,omitempty"`
}

func NewUserEvent(eventType string, userID int64, username string, actorID int64) *UserEvent {
	return &UserEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"user_id":  userID,
			"username": username,
			"actor_id": actorID,
		}),
		UserID:   userID,
		Username: username,
		ActorID:  actorID,
	}
}

type RolesUpdatedEvent struct {
	BaseEvent
	UserID  int64    `json:"user_id"`
	Roles   []string `json:"roles"`
	ActorID int64    `json:"actor_id"`
}

func NewRolesUpdatedEvent(userID int64, roles []string, actorID int64) *RolesUpdatedEvent {
	return &RolesUpdatedEvent{
		BaseEvent: newBase(EventTypeUserRolesUpdated, map[string]interface{}{
			"user_id":  userID,
			"roles":    roles,
			"actor_id": actorID,
		}),
		UserID:  userID,
		Roles:   roles,
		ActorID: actorID,
	}
}

// AuditLogger returns a handler that writes every event to logger.
func AuditLogger(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}
