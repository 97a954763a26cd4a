package delivery

import "time"

type EventKind string

const (
	EventRequestCreated    EventKind = "request.created"
	EventRequestAccepted   EventKind = "request.accepted"
	EventPhotoAttached     EventKind = "request.photo_attached"
	EventDeliveryCompleted EventKind = "delivery.completed"
	EventDeliveryCancelled EventKind = "delivery.cancelled"
	EventRequestArchived   EventKind = "request.archived"
	EventRequestReopened   EventKind = "request.reopened"
	EventRequestDeleted    EventKind = "request.deleted"
)

// Event describes a committed lifecycle change. Transitions return
// events instead of talking to the notification sideband directly; the
// caller dispatches them after the mutation is durable.
type Event struct {
	Kind        EventKind
	RequestID   string
	ActorID     string
	RequesterID string
	HelperID    string
	OccurredAt  time.Time
}
