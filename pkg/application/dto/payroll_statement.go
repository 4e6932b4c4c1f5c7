package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// PayrollStatement is one truckload's settlement as shown to the driver
type PayrollStatement struct {
	TruckloadID           entities.TruckloadID      `json:"truckload_id"`
	DriverID              entities.DriverID         `json:"driver_id"`
	DriverName            string                    `json:"driver_name"`
	StartDate             time.Time                 `json:"start_date"`
	EndDate               time.Time                 `json:"end_date"`
	UsedDefaultPercentage bool                      `json:"used_default_percentage"`
	Breakdown             entities.PayrollBreakdown `json:"breakdown"`
	Orders                []entities.AssignedOrder  `json:"orders"`
	Adjustments           entities.AdjustmentSet    `json:"adjustments"`
	CalculatedAt          time.Time                 `json:"calculated_at"`
}

// SplitSummary checks a split order across every truckload in a run.
// QuoteCounted is the order's counted quote plus its net load-value split
// records; a balanced split counts its full quote exactly once. EqualSplit is
// set when an exactly even split made both legs count the full quote.
type SplitSummary struct {
	OrderID      entities.OrderID     `json:"order_id"`
	State        entities.SplitState  `json:"state"`
	FullQuote    decimal.Decimal      `json:"full_quote"`
	MiscValue    decimal.Decimal      `json:"misc_value"`
	AppliesTo    entities.Target      `json:"applies_to"`
	FullSide     entities.TruckloadID `json:"full_side_truckload,omitempty"`
	MiscSide     entities.TruckloadID `json:"misc_side_truckload,omitempty"`
	QuoteCounted decimal.Decimal      `json:"quote_counted"`
	Balanced     bool                 `json:"balanced"`
	EqualSplit   bool                 `json:"equal_split,omitempty"`
}

// BalanceLabel describes the balance check for display
func (s SplitSummary) BalanceLabel() string {
	switch {
	case s.Balanced:
		return "yes"
	case s.EqualSplit:
		return "no (equal split)"
	default:
		return "no"
	}
}

// PayrollRun is the result of calculating every truckload
type PayrollRun struct {
	Statements []*PayrollStatement `json:"statements"`
	Splits     []SplitSummary      `json:"splits"`
	RunAt      time.Time           `json:"run_at"`
}

// TotalDriverPay sums final driver pay across statements
func (r *PayrollRun) TotalDriverPay() decimal.Decimal {
	total := decimal.Zero
	for _, statement := range r.Statements {
		total = total.Add(statement.Breakdown.FinalDriverPay)
	}
	return total
}
