package splitload

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// LegUpdate is the desired split state of one assignment leg
type LegUpdate struct {
	AssignmentID    string
	TruckloadID     entities.TruckloadID
	Type            entities.AssignmentType
	AssignmentQuote *decimal.Decimal
	SplitPending    bool
	Changed         bool
}

// Plan is everything needed to bring an order's legs and split-load records
// in line with its configuration
type Plan struct {
	OrderID  entities.OrderID
	State    entities.SplitState
	Legs     []LegUpdate
	Create   []entities.SplitLoadAdjustment
	Delete   []string
	Warnings []entities.Advisory
}

// IsNoop reports whether applying the plan would change nothing
func (p *Plan) IsNoop() bool {
	if len(p.Create) > 0 || len(p.Delete) > 0 {
		return false
	}
	for _, leg := range p.Legs {
		if leg.Changed {
			return false
		}
	}
	return true
}

// ChangedLegs returns the leg updates that differ from the current rows
func (p *Plan) ChangedLegs() []LegUpdate {
	changed := make([]LegUpdate, 0, len(p.Legs))
	for _, leg := range p.Legs {
		if leg.Changed {
			changed = append(changed, leg)
		}
	}
	return changed
}

// Apply copies the leg update onto an assignment row
func (u LegUpdate) Apply(order *entities.AssignedOrder) {
	if u.AssignmentQuote == nil {
		order.AssignmentQuote = nil
	} else {
		quote := *u.AssignmentQuote
		order.AssignmentQuote = &quote
	}
	order.SplitPending = u.SplitPending
}

// Legs picks the first pickup and first delivery row of an order
func Legs(legs []entities.AssignedOrder) (pickup, delivery *entities.AssignedOrder) {
	for i := range legs {
		switch legs[i].Type {
		case entities.Pickup:
			if pickup == nil {
				pickup = &legs[i]
			}
		case entities.Delivery:
			if delivery == nil {
				delivery = &legs[i]
			}
		}
	}
	return pickup, delivery
}

// StateOf derives the lifecycle state from a configuration and the legs that exist
func StateOf(cfg *entities.SplitConfiguration, legs []entities.AssignedOrder) entities.SplitState {
	if cfg == nil {
		return entities.Unsplit
	}
	pickup, delivery := Legs(legs)
	if pickup != nil && delivery != nil {
		return entities.Split
	}
	return entities.PendingSplit
}

// NewPlan computes the changes that bring an order in line with cfg.
//
// With both legs present the order is Split: the full side carries
// fullQuote − misc, the misc side carries misc, and the misc value moves
// between the two truckloads as a deduction on the full side and an addition
// on the misc side. With one leg the order is PendingSplit: that leg gets its
// provisional quote flagged as pending and no records exist.
//
// existing holds the order's current split-load records. Records that already
// match the desired ones are kept, so planning against the result of a
// previous plan yields a no-op.
func NewPlan(
	cfg *entities.SplitConfiguration,
	legs []entities.AssignedOrder,
	existing []entities.SplitLoadAdjustment,
) Plan {
	plan := Plan{
		OrderID:  cfg.OrderID,
		State:    StateOf(cfg, legs),
		Legs:     []LegUpdate{},
		Create:   []entities.SplitLoadAdjustment{},
		Delete:   []string{},
		Warnings: []entities.Advisory{},
	}

	if cfg.MiscExceedsQuote() {
		plan.Warnings = append(plan.Warnings, entities.Advisory{
			Kind:    entities.AdvisoryMiscExceedsQuote,
			OrderID: cfg.OrderID,
			Message: fmt.Sprintf(
				"misc value %s exceeds full quote %s",
				cfg.MiscValue.StringFixed(2), cfg.FullQuote.StringFixed(2),
			),
		})
	}

	pending := plan.State == entities.PendingSplit
	pickup, delivery := Legs(legs)
	for _, row := range []*entities.AssignedOrder{pickup, delivery} {
		if row == nil {
			continue
		}
		quote := cfg.QuoteFor(row.Type)
		plan.Legs = append(plan.Legs, newLegUpdate(row, &quote, pending))
	}

	var desired []entities.SplitLoadAdjustment
	if plan.State == entities.Split {
		fullLeg, miscLeg := pickup, delivery
		if cfg.FullSide == entities.Delivery {
			fullLeg, miscLeg = delivery, pickup
		}
		desired = []entities.SplitLoadAdjustment{
			transferRecord(cfg, fullLeg.TruckloadID, miscLeg.TruckloadID, false),
			transferRecord(cfg, miscLeg.TruckloadID, fullLeg.TruckloadID, true),
		}
	}

	plan.Create, plan.Delete = diffRecords(desired, existing)
	return plan
}

// NewClearPlan computes the changes that return an order to Unsplit
func NewClearPlan(
	orderID entities.OrderID,
	legs []entities.AssignedOrder,
	existing []entities.SplitLoadAdjustment,
) Plan {
	plan := Plan{
		OrderID:  orderID,
		State:    entities.Unsplit,
		Legs:     []LegUpdate{},
		Create:   []entities.SplitLoadAdjustment{},
		Delete:   []string{},
		Warnings: []entities.Advisory{},
	}

	for i := range legs {
		plan.Legs = append(plan.Legs, newLegUpdate(&legs[i], nil, false))
	}
	for _, record := range existing {
		plan.Delete = append(plan.Delete, record.ID)
	}
	return plan
}

func newLegUpdate(row *entities.AssignedOrder, quote *decimal.Decimal, pending bool) LegUpdate {
	return LegUpdate{
		AssignmentID:    row.AssignmentID,
		TruckloadID:     row.TruckloadID,
		Type:            row.Type,
		AssignmentQuote: quote,
		SplitPending:    pending,
		Changed:         !sameQuote(row.AssignmentQuote, quote) || row.SplitPending != pending,
	}
}

func sameQuote(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// transferRecord builds the split-load record booked on truckloadID
func transferRecord(
	cfg *entities.SplitConfiguration,
	truckloadID, counterpart entities.TruckloadID,
	addition bool,
) entities.SplitLoadAdjustment {
	orderID := cfg.OrderID
	var comment string
	if addition {
		comment = fmt.Sprintf("split load %s: misc value from truckload %s", orderID, counterpart)
	} else {
		comment = fmt.Sprintf("split load %s: misc value to truckload %s", orderID, counterpart)
	}

	return entities.SplitLoadAdjustment{
		AdjustmentBase: entities.AdjustmentBase{
			ID:          uuid.NewString(),
			TruckloadID: truckloadID,
			OrderID:     &orderID,
			Amount:      cfg.MiscValue,
			AppliesTo:   cfg.AppliesTo,
			IsAddition:  addition,
			Comment:     &comment,
		},
	}
}

// diffRecords matches desired records against existing ones by content.
// Each existing record can satisfy at most one desired record.
func diffRecords(
	desired []entities.SplitLoadAdjustment,
	existing []entities.SplitLoadAdjustment,
) (create []entities.SplitLoadAdjustment, remove []string) {
	create = []entities.SplitLoadAdjustment{}
	remove = []string{}
	used := make([]bool, len(existing))

	for _, want := range desired {
		found := false
		for i, have := range existing {
			if !used[i] && sameRecord(want, have) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			create = append(create, want)
		}
	}

	for i, have := range existing {
		if !used[i] {
			remove = append(remove, have.ID)
		}
	}
	return create, remove
}

func sameRecord(a, b entities.SplitLoadAdjustment) bool {
	return a.TruckloadID == b.TruckloadID &&
		a.IsAddition == b.IsAddition &&
		a.AppliesTo == b.AppliesTo &&
		a.Amount.Equal(b.Amount)
}
