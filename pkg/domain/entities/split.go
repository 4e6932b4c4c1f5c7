package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitState is where an order sits in the split-load lifecycle
type SplitState int

const (
	Unsplit SplitState = iota
	PendingSplit
	Split
)

// String method for SplitState enum
func (s SplitState) String() string {
	switch s {
	case Unsplit:
		return "unsplit"
	case PendingSplit:
		return "pending_split"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

func (s SplitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SplitConfiguration records how an order's quote is divided between the
// pickup and delivery legs. FullSide holds fullQuote − misc; the other leg
// holds the misc value.
type SplitConfiguration struct {
	OrderID   OrderID         `json:"order_id"`
	FullQuote decimal.Decimal `json:"full_quote"`
	MiscValue decimal.Decimal `json:"misc_value"`
	FullSide  AssignmentType  `json:"full_side"`
	AppliesTo Target          `json:"applies_to"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSplitConfiguration creates a validated SplitConfiguration.
// A misc value above the full quote is accepted; callers surface it as a warning.
func NewSplitConfiguration(
	orderID OrderID,
	fullQuote decimal.Decimal,
	miscValue decimal.Decimal,
	fullSide AssignmentType,
	appliesTo Target,
) (*SplitConfiguration, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if !miscValue.IsPositive() {
		return nil, fmt.Errorf("misc value must be positive, got %s", miscValue.String())
	}
	if fullQuote.IsNegative() {
		return nil, fmt.Errorf("full quote cannot be negative, got %s", fullQuote.String())
	}
	if appliesTo == "" {
		appliesTo = TargetLoadValue
	}
	if appliesTo != TargetLoadValue && appliesTo != TargetDriverPay {
		return nil, fmt.Errorf("invalid applies_to: %s (expected: load_value or driver_pay)", appliesTo)
	}

	return &SplitConfiguration{
		OrderID:   orderID,
		FullQuote: fullQuote,
		MiscValue: miscValue,
		FullSide:  fullSide,
		AppliesTo: appliesTo,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MiscSide is the leg holding the misc portion
func (c *SplitConfiguration) MiscSide() AssignmentType {
	return c.FullSide.Opposite()
}

// FullPortion is the portion held by the full side
func (c *SplitConfiguration) FullPortion() decimal.Decimal {
	return c.FullQuote.Sub(c.MiscValue)
}

// QuoteFor returns the assignment quote the given leg should carry
func (c *SplitConfiguration) QuoteFor(leg AssignmentType) decimal.Decimal {
	if leg == c.FullSide {
		return c.FullPortion()
	}
	return c.MiscValue
}

// MiscExceedsQuote reports a configuration the UI would have asked the user to confirm
func (c *SplitConfiguration) MiscExceedsQuote() bool {
	return c.MiscValue.GreaterThan(c.FullQuote)
}
