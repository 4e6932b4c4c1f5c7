package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssignmentType is the leg of an order a truckload is responsible for
type AssignmentType int

const (
	Pickup AssignmentType = iota
	Delivery
)

// String method for AssignmentType enum
func (a AssignmentType) String() string {
	switch a {
	case Pickup:
		return "pickup"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Opposite returns the other leg of the order
func (a AssignmentType) Opposite() AssignmentType {
	if a == Pickup {
		return Delivery
	}
	return Pickup
}

func (a AssignmentType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AssignmentType) UnmarshalText(text []byte) error {
	parsed, err := ParseAssignmentType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAssignmentType parses "pickup" or "delivery", case-insensitively
func ParseAssignmentType(s string) (AssignmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup":
		return Pickup, nil
	case "delivery":
		return Delivery, nil
	default:
		return Pickup, fmt.Errorf("invalid assignment type: %s (expected: pickup or delivery)", s)
	}
}

// AssignedOrder is one leg of an order placed on a truckload.
//
// FreightQuote is kept exactly as entered; it is parsed tolerantly at
// calculation time. AssignmentQuote is only set when the order is a split
// load, and is derived from the split configuration.
type AssignedOrder struct {
	AssignmentID     string           `json:"assignment_id"`
	OrderID          OrderID          `json:"order_id"`
	TruckloadID      TruckloadID      `json:"truckload_id"`
	Type             AssignmentType   `json:"type"`
	Sequence         int              `json:"sequence"`
	FreightQuote     *string          `json:"freight_quote"`
	AssignmentQuote  *decimal.Decimal `json:"assignment_quote,omitempty"`
	SplitPending     bool             `json:"split_pending,omitempty"`
	PickupCustomer   string           `json:"pickup_customer,omitempty"`
	DeliveryCustomer string           `json:"delivery_customer,omitempty"`
}

// NewAssignedOrder creates a validated AssignedOrder
func NewAssignedOrder(
	assignmentID string,
	orderID OrderID,
	truckloadID TruckloadID,
	assignmentType AssignmentType,
	sequence int,
	freightQuote *string,
) (*AssignedOrder, error) {
	if assignmentID == "" {
		return nil, fmt.Errorf("assignment id cannot be empty")
	}
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if truckloadID == "" {
		return nil, fmt.Errorf("truckload id cannot be empty")
	}
	if assignmentType != Pickup && assignmentType != Delivery {
		return nil, fmt.Errorf("invalid assignment type: %d", assignmentType)
	}
	if sequence < 0 {
		return nil, fmt.Errorf("sequence cannot be negative, got %d", sequence)
	}

	return &AssignedOrder{
		AssignmentID: assignmentID,
		OrderID:      orderID,
		TruckloadID:  truckloadID,
		Type:         assignmentType,
		Sequence:     sequence,
		FreightQuote: freightQuote,
	}, nil
}

// IsSplit reports whether this leg carries a split-load portion
func (a *AssignedOrder) IsSplit() bool {
	return a.AssignmentQuote != nil
}

// QuoteEditable reports whether the raw freight quote may be edited directly.
// Split legs derive their quote from the split configuration.
func (a *AssignedOrder) QuoteEditable() bool {
	return !a.IsSplit()
}

// RawQuote returns the freight quote as entered, or "" when absent
func (a *AssignedOrder) RawQuote() string {
	if a.FreightQuote == nil {
		return ""
	}
	return *a.FreightQuote
}

// Clone returns a deep copy so callers can mutate without touching stored rows
func (a AssignedOrder) Clone() AssignedOrder {
	out := a
	if a.FreightQuote != nil {
		q := *a.FreightQuote
		out.FreightQuote = &q
	}
	if a.AssignmentQuote != nil {
		aq := *a.AssignmentQuote
		out.AssignmentQuote = &aq
	}
	return out
}
