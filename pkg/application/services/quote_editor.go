package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	"github.com/vsinha/freightpay/pkg/logger"
)

// QuoteEditor stages freight quote edits and writes them on Flush.
// Legs of a split load are read-only: their quote is derived from the split.
type QuoteEditor struct {
	orders     repositories.OrderRepository
	eventStore events.EventStore
	log        *logger.Logger
	queue      *WriteQueue
}

// NewQuoteEditor creates a quote editor over the order repository
func NewQuoteEditor(orders repositories.OrderRepository, eventStore events.EventStore, log *logger.Logger) *QuoteEditor {
	if log == nil {
		log = logger.Nop()
	}
	return &QuoteEditor{
		orders:     orders,
		eventStore: eventStore,
		log:        log,
		queue:      NewWriteQueue(),
	}
}

// StageQuote stages a new raw freight quote for the order an assignment
// belongs to. The quote is the order's full price, so the edit is written to
// every leg. The value is kept as typed; a blank value clears the quote.
// Staging another edit for the same order replaces the pending one.
func (e *QuoteEditor) StageQuote(ctx context.Context, assignmentID string, raw string) error {
	order, err := e.orders.GetAssignment(assignmentID)
	if err != nil {
		return err
	}
	if _, err := e.editableLegs(order.OrderID); err != nil {
		return err
	}

	var value *string
	if strings.TrimSpace(raw) != "" {
		value = &raw
	}

	orderID := order.OrderID
	description := fmt.Sprintf("set freight quote of %s to %q", orderID, raw)
	e.queue.Stage("quote:"+string(orderID), description, func(ctx context.Context) error {
		return e.write(ctx, orderID, value)
	})
	e.log.Debug(e.log.WithOrderID(e.log.WithField(ctx, "assignment_id", assignmentID), string(orderID)), "quote edit staged")
	return nil
}

// write re-reads the legs so edits made since staging are not lost
func (e *QuoteEditor) write(ctx context.Context, orderID entities.OrderID, value *string) error {
	legs, err := e.editableLegs(orderID)
	if err != nil {
		return err
	}

	for i := range legs {
		leg := &legs[i]
		previous := leg.FreightQuote
		leg.FreightQuote = copyQuote(value)
		if err := e.orders.SaveAssignment(leg); err != nil {
			return err
		}

		if e.eventStore != nil {
			stream := events.OrderStream(string(orderID))
			event := events.NewEvent(events.QuoteEditedEvent, stream, events.QuoteEdited{
				AssignmentID: leg.AssignmentID,
				OldValue:     previous,
				NewValue:     value,
			})
			if err := e.eventStore.AppendEvent(stream, event); err != nil {
				e.log.Error(ctx, "failed to append quote event", err)
			}
		}
	}
	return nil
}

// editableLegs returns every leg of the order, or STATE_CONFLICT when any of
// them carries a split-derived quote
func (e *QuoteEditor) editableLegs(orderID entities.OrderID) ([]entities.AssignedOrder, error) {
	legs, err := e.orders.GetAssignmentsByOrder(orderID)
	if err != nil {
		return nil, err
	}
	for i := range legs {
		if err := checkEditable(&legs[i]); err != nil {
			return nil, err
		}
	}
	return legs, nil
}

func copyQuote(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

// Pending lists staged edits
func (e *QuoteEditor) Pending() []StagedWrite {
	return e.queue.Pending()
}

// Flush writes staged edits in staging order
func (e *QuoteEditor) Flush(ctx context.Context) error {
	count := e.queue.Len()
	if err := e.queue.Flush(ctx); err != nil {
		return err
	}
	if count > 0 {
		e.log.Info(e.log.WithField(ctx, "count", count), "quote edits saved")
	}
	return nil
}

// Discard drops staged edits
func (e *QuoteEditor) Discard() int {
	return e.queue.Discard()
}

func checkEditable(order *entities.AssignedOrder) error {
	if order.QuoteEditable() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "freight quote of a split-load leg is derived from the split").
		WithDetails(map[string]string{
			"assignment_id": order.AssignmentID,
			"order_id":      string(order.OrderID),
		})
}
