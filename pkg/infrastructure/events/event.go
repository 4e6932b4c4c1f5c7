package events

import (
	"time"
)

// Event is one audit entry in a stream. Streams are keyed per order or per
// truckload.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type BaseEvent struct {
	EventType    string    `json:"type"`
	Stream       string    `json:"stream"`
	EventData    any       `json:"data"`
	EventTime    time.Time `json:"timestamp"`
	EventVersion int       `json:"version"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) StreamID() string     { return e.Stream }
func (e BaseEvent) Data() any            { return e.EventData }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }
func (e BaseEvent) Version() int         { return e.EventVersion }

// NewEvent builds an unversioned event; the store assigns the version on append
func NewEvent(eventType, streamID string, data any) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now().UTC(),
	}
}

// OrderStream is the stream of an order's split-load history
func OrderStream(orderID string) string {
	return "order-" + orderID
}

// TruckloadStream is the stream of a truckload's payroll runs
func TruckloadStream(truckloadID string) string {
	return "truckload-" + truckloadID
}
