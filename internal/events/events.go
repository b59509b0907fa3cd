// Package events publishes domain events after successful writes.
//
// Publishing is best effort: the write has already been committed when an
// event is sent, so callers log publish failures instead of failing the RPC.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Type names a domain event. It doubles as the AMQP routing key.
type Type string

const (
	GroupCreated     Type = "group.created"
	GroupRenamed     Type = "group.renamed"
	GroupDeleted     Type = "group.deleted"
	MemberAdded      Type = "member.added"
	MemberRemoved    Type = "member.removed"
	ExpenseCreated   Type = "expense.created"
	ExpenseDeleted   Type = "expense.deleted"
	PaymentSubmitted Type = "payment.submitted"
	PaymentAccepted  Type = "payment.accepted"
)

// Event is one state change in a group.
type Event struct {
	Type     Type   `json:"type"`
	GroupID  string `json:"groupId"`
	ActorID  string `json:"actorId"`
	EntityID string `json:"entityId,omitempty"`
	At       int64  `json:"at"`
}

// New stamps an event with the current time.
func New(t Type, groupID, actorID, entityID string) Event {
	return Event{
		Type:     t,
		GroupID:  groupID,
		ActorID:  actorID,
		EntityID: entityID,
		At:       time.Now().Unix(),
	}
}

// JSON encodes the event body.
func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the debug log. It is used when no broker is configured.
type LogPublisher struct{}

var _ Publisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, e Event) error {
	slog.DebugContext(ctx, "Domain event",
		"type", e.Type,
		"group_id", e.GroupID,
		"actor_id", e.ActorID,
		"entity_id", e.EntityID,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
