package registry

import (
	"context"
	"time"
)

// EventKind names a completed state transition.
type EventKind string

// Notification kinds emitted by the transition engine.
const (
	// EventCreatureCreated is emitted when a creature is created from a
	// fresh random genome.
	EventCreatureCreated EventKind = "creature.created"
	// EventCreatureBred is emitted when a creature is bred from two
	// parents.
	EventCreatureBred EventKind = "creature.bred"
)

// Event is an output record describing a committed state transition,
// delivered to external observers.
type Event struct {
	Kind       EventKind  `json:"kind"`
	Owner      Owner      `json:"owner"`
	CreatureID CreatureID `json:"creature_id"`
	Creature   Creature   `json:"creature"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NotificationSink accepts transition events. Delivery is fire-and-forget
// from the core's perspective: the core never observes delivery success or
// failure, and a sink must not block the transition path.
type NotificationSink interface {
	Notify(ctx context.Context, event Event)
}
