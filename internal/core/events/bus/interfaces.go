package bus

import "time"

// Bus is an in-process pub/sub channel for simulation lifecycle events.
//
// - Type-based fan-out: handlers subscribe by Event.Type; Wildcard receives all.
// - Synchronous delivery in subscription order, on the publisher's goroutine.
// - Handler errors are joined and returned from Publish/PublishBatch.
// - Metrics are collected only while at least one observer is registered.
// - All methods are safe for concurrent use.
type Bus interface {
	// Publish delivers the event to every active subscriber of event.Type and
	// to wildcard subscribers.
	Publish(event Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...Filter) error
	// PublishBatch publishes sequentially and aggregates errors.
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler Handler) (Subscription, error)
	// Unsubscribe is safe to call with nil.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Metrics() Metrics
}

// Wildcard subscribes to every event type.
const Wildcard = "*"

// Event is an immutable notification. Data carries a typed payload such as
// EntityPayload or ComponentPayload.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Data      any
}

type (
	Handler func(event Event) error
	// Filter decides whether an event should be delivered.
	Filter func(event Event) bool
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about deliveries; it should return quickly.
type Observer interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
