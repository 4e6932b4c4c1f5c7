package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

const (
	SplitPendingEvent    = "split.pending"
	SplitAppliedEvent    = "split.applied"
	SplitClearedEvent    = "split.cleared"
	SplitReconciledEvent = "split.reconciled"

	PayrollCalculatedEvent = "payroll.calculated"
	QuoteEditedEvent       = "quote.edited"
	SnapshotSavedEvent     = "settlement.snapshot_saved"
)

// SplitEvents lists the split lifecycle event types
var SplitEvents = []string{SplitPendingEvent, SplitAppliedEvent, SplitClearedEvent, SplitReconciledEvent}

type SplitPending struct {
	Configuration entities.SplitConfiguration `json:"configuration"`
	AssignmentID  string                      `json:"assignment_id,omitempty"`
}

type SplitApplied struct {
	Configuration entities.SplitConfiguration `json:"configuration"`
	CreatedIDs    []string                    `json:"created_ids"`
	DeletedIDs    []string                    `json:"deleted_ids"`
}

type SplitCleared struct {
	OrderID    entities.OrderID `json:"order_id"`
	DeletedIDs []string         `json:"deleted_ids"`
}

type SplitReconciled struct {
	OrderID    entities.OrderID    `json:"order_id"`
	From       entities.SplitState `json:"from"`
	To         entities.SplitState `json:"to"`
	CreatedIDs []string            `json:"created_ids"`
	DeletedIDs []string            `json:"deleted_ids"`
}

type PayrollCalculated struct {
	TruckloadID    entities.TruckloadID `json:"truckload_id"`
	DriverID       entities.DriverID    `json:"driver_id"`
	TotalQuotes    decimal.Decimal      `json:"total_quotes"`
	LoadValue      decimal.Decimal      `json:"load_value"`
	FinalDriverPay decimal.Decimal      `json:"final_driver_pay"`
}

type QuoteEdited struct {
	AssignmentID string  `json:"assignment_id"`
	OldValue     *string `json:"old_value,omitempty"`
	NewValue     *string `json:"new_value,omitempty"`
}

type SnapshotSaved struct {
	SnapshotID  string               `json:"snapshot_id"`
	TruckloadID entities.TruckloadID `json:"truckload_id"`
}
