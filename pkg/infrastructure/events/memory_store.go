package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/freightpay/pkg/logger"
)

// InMemoryEventStore keeps every stream in memory. Subscribers are notified
// synchronously after the append, in subscription order.
type InMemoryEventStore struct {
	mutex       sync.RWMutex
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	allEvents   []Event
	log         *logger.Logger
}

func NewInMemoryEventStore(log *logger.Logger) *InMemoryEventStore {
	if log == nil {
		log = logger.Nop()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		log:         log,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if streamID == "" {
		return fmt.Errorf("stream id cannot be empty")
	}

	s.mutex.Lock()
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	handlers := append([]EventHandler(nil), s.subscribers[versioned.EventType]...)
	s.mutex.Unlock()

	for _, handler := range handlers {
		if !handler.CanHandle(versioned.EventType) {
			continue
		}
		if err := handler.Handle(versioned); err != nil {
			ctx := s.log.WithFields(context.Background(), map[string]any{
				"event_type": versioned.EventType,
				"stream":     streamID,
			})
			s.log.Error(ctx, "event handler failed", err)
		}
	}

	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}
	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}
