// Package events is the process-wide broadcast channel of the client.
//
// Independent UI components subscribe to a Publisher without sharing a parent.
// Delivery is synchronous with respect to Publish: every listener registered
// at publish time is called, in registration order, before Publish returns.
package events

import "time"

// Kind names a cross-component signal.
type Kind string

const (
	KindSessionChanged    Kind = "session-changed"
	KindActivityObserved  Kind = "activity-observed"
	KindUserAuthenticated Kind = "user-authenticated"
	KindPendingChanged    Kind = "pending-changed"
)

// Event is what travels on the activity bus.
type Event struct {
	Kind   Kind
	Source string // pointer, key, touch, scroll, app, store ...
	At     time.Time
}

// ActivityBus is the bus carrying Event values.
type ActivityBus = Bus[Event]

// NewActivityBus creates an empty activity bus.
func NewActivityBus() *ActivityBus {
	return New[Event]()
}
