package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/freightpay/pkg/logger"
)

type recordingHandler struct {
	mu    sync.Mutex
	types map[string]bool
	seen  []Event
	err   error
}

func (h *recordingHandler) Handle(event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.err
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	return h.types[eventType]
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore(logger.Nop())

	require.NoError(t, store.AppendEvent(OrderStream("ORD-1"), NewEvent(SplitPendingEvent, "", nil)))
	require.NoError(t, store.AppendEvent(OrderStream("ORD-2"), NewEvent(SplitPendingEvent, "", nil)))
	require.NoError(t, store.AppendEvent(OrderStream("ORD-1"), NewEvent(SplitAppliedEvent, "", nil)))

	events, err := store.ReadEvents(OrderStream("ORD-1"), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Version())
	assert.Equal(t, 2, events[1].Version())
	assert.Equal(t, SplitAppliedEvent, events[1].Type())
	assert.Equal(t, "order-ORD-1", events[1].StreamID())

	tail, _ := store.ReadEvents(OrderStream("ORD-1"), 2)
	assert.Len(t, tail, 1)
	none, _ := store.ReadEvents(OrderStream("ORD-1"), 3)
	assert.Empty(t, none)

	all, _ := store.ReadAllEvents(0)
	assert.Len(t, all, 3)
	fromOne, _ := store.ReadAllEvents(1)
	assert.Len(t, fromOne, 2)
}

func TestInMemoryEventStore_RejectsEmptyStream(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	assert.Error(t, store.AppendEvent("", NewEvent(SplitPendingEvent, "", nil)))
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(logger.Nop())
	handler := &recordingHandler{types: map[string]bool{PayrollCalculatedEvent: true}}
	failing := &recordingHandler{types: map[string]bool{PayrollCalculatedEvent: true}, err: errors.New("boom")}

	require.NoError(t, store.Subscribe([]string{PayrollCalculatedEvent}, handler))
	require.NoError(t, store.Subscribe([]string{PayrollCalculatedEvent}, failing))

	require.NoError(t, store.AppendEvent(TruckloadStream("TL-1"), NewEvent(PayrollCalculatedEvent, "", PayrollCalculated{TruckloadID: "TL-1"})))
	require.NoError(t, store.AppendEvent(TruckloadStream("TL-1"), NewEvent(SplitClearedEvent, "", nil)))

	require.Len(t, handler.seen, 1)
	payload, ok := handler.seen[0].Data().(PayrollCalculated)
	require.True(t, ok)
	assert.Equal(t, "TL-1", string(payload.TruckloadID))
	assert.Len(t, failing.seen, 1)

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent(TruckloadStream("TL-1"), NewEvent(PayrollCalculatedEvent, "", nil)))
	assert.Len(t, handler.seen, 1)
	assert.Len(t, failing.seen, 2)
}
