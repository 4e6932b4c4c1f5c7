package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Target is the figure a deduction or addition is applied to
type Target string

const (
	TargetLoadValue Target = "load_value"
	TargetDriverPay Target = "driver_pay"
)

// ParseTarget parses "load_value" or "driver_pay"
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case TargetLoadValue:
		return TargetLoadValue, nil
	case TargetDriverPay:
		return TargetDriverPay, nil
	default:
		return "", fmt.Errorf("invalid applies_to: %s (expected: load_value or driver_pay)", s)
	}
}

// Category separates the three independent deduction/addition ledgers
type Category string

const (
	CategoryCrossDriver Category = "cross_driver"
	CategoryManual      Category = "manual"
	CategorySplitLoad   Category = "split_load"
)

// Categories lists every category in display order
var Categories = []Category{CategoryCrossDriver, CategoryManual, CategorySplitLoad}

// ParseCategory parses a category name
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryCrossDriver:
		return CategoryCrossDriver, nil
	case CategoryManual:
		return CategoryManual, nil
	case CategorySplitLoad:
		return CategorySplitLoad, nil
	default:
		return "", fmt.Errorf("invalid category: %s (expected: cross_driver, manual or split_load)", s)
	}
}

// AdjustmentBase holds the fields every category shares
type AdjustmentBase struct {
	ID          string          `json:"id"`
	TruckloadID TruckloadID     `json:"truckload_id"`
	OrderID     *OrderID        `json:"order_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	AppliesTo   Target          `json:"applies_to"`
	IsAddition  bool            `json:"is_addition"`
	Comment     *string         `json:"comment,omitempty"`
}

// Adjustment is a deduction or addition record of one of the three categories.
// The interface is sealed: only the variants in this package implement it.
type Adjustment interface {
	Base() AdjustmentBase
	Category() Category
	adjustment()
}

// CrossDriverDeduction is recorded when another driver picked up or delivered
// freight invoiced on this truckload
type CrossDriverDeduction struct {
	AdjustmentBase
	DriverName   string     `json:"driver_name,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Action       string     `json:"action,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
}

func (d CrossDriverDeduction) Base() AdjustmentBase { return d.AdjustmentBase }
func (d CrossDriverDeduction) Category() Category   { return CategoryCrossDriver }
func (CrossDriverDeduction) adjustment()            {}

// ManualAdjustment is a free-form entry; the comment is mandatory
type ManualAdjustment struct {
	AdjustmentBase
}

func (m ManualAdjustment) Base() AdjustmentBase { return m.AdjustmentBase }
func (m ManualAdjustment) Category() Category   { return CategoryManual }
func (ManualAdjustment) adjustment()            {}

// SplitLoadAdjustment mirrors the misc-value transfer between the two legs of
// a split load
type SplitLoadAdjustment struct {
	AdjustmentBase
}

func (s SplitLoadAdjustment) Base() AdjustmentBase { return s.AdjustmentBase }
func (s SplitLoadAdjustment) Category() Category   { return CategorySplitLoad }
func (SplitLoadAdjustment) adjustment()            {}

// AdjustmentInput is the entry form shared by all categories
type AdjustmentInput struct {
	ID           string          `json:"id" validate:"required"`
	Category     string          `json:"category" validate:"required,oneof=cross_driver manual split_load"`
	TruckloadID  TruckloadID     `json:"truckload_id" validate:"required"`
	OrderID      *OrderID        `json:"order_id"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	AppliesTo    string          `json:"applies_to" validate:"required,oneof=load_value driver_pay"`
	IsAddition   bool            `json:"is_addition"`
	Comment      string          `json:"comment" validate:"required_if=Category manual,max=500"`
	DriverName   string          `json:"driver_name"`
	Date         *time.Time      `json:"date"`
	Action       string          `json:"action"`
	CustomerName string          `json:"customer_name"`
}

// NewAdjustment validates the input and builds the category's variant
func NewAdjustment(input AdjustmentInput) (Adjustment, error) {
	if err := ValidateAdjustmentInput(input); err != nil {
		return nil, err
	}

	base := AdjustmentBase{
		ID:          input.ID,
		TruckloadID: input.TruckloadID,
		OrderID:     input.OrderID,
		Amount:      input.Amount,
		AppliesTo:   Target(input.AppliesTo),
		IsAddition:  input.IsAddition,
	}
	if comment := strings.TrimSpace(input.Comment); comment != "" {
		base.Comment = &comment
	}

	switch Category(input.Category) {
	case CategoryCrossDriver:
		return CrossDriverDeduction{
			AdjustmentBase: base,
			DriverName:     input.DriverName,
			Date:           input.Date,
			Action:         input.Action,
			CustomerName:   input.CustomerName,
		}, nil
	case CategoryManual:
		return ManualAdjustment{AdjustmentBase: base}, nil
	default:
		return SplitLoadAdjustment{AdjustmentBase: base}, nil
	}
}

// AdjustmentOrderID returns the scoped order of a record, or "" when unscoped
func AdjustmentOrderID(a Adjustment) OrderID {
	base := a.Base()
	if base.OrderID == nil {
		return ""
	}
	return *base.OrderID
}

// CloneAdjustment returns a deep copy of a record so callers can mutate it
// without touching stored rows
func CloneAdjustment(a Adjustment) Adjustment {
	switch v := a.(type) {
	case CrossDriverDeduction:
		v.AdjustmentBase = v.AdjustmentBase.clone()
		if v.Date != nil {
			d := *v.Date
			v.Date = &d
		}
		return v
	case *CrossDriverDeduction:
		return CloneAdjustment(*v)
	case ManualAdjustment:
		v.AdjustmentBase = v.AdjustmentBase.clone()
		return v
	case *ManualAdjustment:
		return CloneAdjustment(*v)
	case SplitLoadAdjustment:
		v.AdjustmentBase = v.AdjustmentBase.clone()
		return v
	case *SplitLoadAdjustment:
		return CloneAdjustment(*v)
	default:
		return a
	}
}

func (b AdjustmentBase) clone() AdjustmentBase {
	out := b
	if b.OrderID != nil {
		o := *b.OrderID
		out.OrderID = &o
	}
	if b.Comment != nil {
		c := *b.Comment
		out.Comment = &c
	}
	return out
}
