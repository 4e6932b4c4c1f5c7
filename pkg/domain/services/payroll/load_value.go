package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// LoadValueResult is the outcome of aggregating one truckload's orders
type LoadValueResult struct {
	TotalQuotes   decimal.Decimal
	Contributions []entities.QuoteContribution
	Excluded      []entities.ExcludedQuote
	Advisories    []entities.Advisory
}

// orderGroup collects the legs of one order present on the truckload
type orderGroup struct {
	orderID  entities.OrderID
	pickup   *entities.AssignedOrder
	delivery *entities.AssignedOrder
}

// representative is the row whose quote fields are used for the merged order.
// Transfer orders use the delivery leg.
func (g *orderGroup) representative() *entities.AssignedOrder {
	if g.delivery != nil {
		return g.delivery
	}
	return g.pickup
}

// groupByOrder merges legs sharing an order ID, keeping first-appearance order.
// A repeated leg of the same type is ignored so the quote still counts once.
func groupByOrder(orders []entities.AssignedOrder) []*orderGroup {
	groups := make([]*orderGroup, 0, len(orders))
	index := make(map[entities.OrderID]*orderGroup, len(orders))

	for i := range orders {
		row := &orders[i]
		group, exists := index[row.OrderID]
		if !exists {
			group = &orderGroup{orderID: row.OrderID}
			index[row.OrderID] = group
			groups = append(groups, group)
		}

		switch row.Type {
		case entities.Pickup:
			if group.pickup == nil {
				group.pickup = row
			}
		case entities.Delivery:
			if group.delivery == nil {
				group.delivery = row
			}
		}
	}

	return groups
}

// AggregateLoadValue reduces one truckload's assigned orders to its total
// quote, counting every order's freight exactly once.
//
// For split legs the assignment holding the smaller (misc) portion is left
// out; the other leg counts the full freight quote. An order whose two split
// legs both ride this truckload counts its full quote. The comparison is strict,
// so an exact 50/50 split counts on both legs and is reported as an advisory.
func AggregateLoadValue(orders []entities.AssignedOrder) LoadValueResult {
	result := LoadValueResult{
		TotalQuotes:   decimal.Zero,
		Contributions: []entities.QuoteContribution{},
		Excluded:      []entities.ExcludedQuote{},
		Advisories:    []entities.Advisory{},
	}

	for _, group := range groupByOrder(orders) {
		rep := group.representative()
		if rep == nil {
			continue
		}

		if rep.SplitPending {
			result.Excluded = append(result.Excluded, entities.ExcludedQuote{
				OrderID:  group.orderID,
				RawValue: rep.RawQuote(),
				Reason:   entities.ExcludedPendingSplit,
			})
			continue
		}

		quote, reason, ok := ParseQuote(rep.FreightQuote)
		if !ok {
			result.Excluded = append(result.Excluded, entities.ExcludedQuote{
				OrderID:  group.orderID,
				RawValue: rep.RawQuote(),
				Reason:   reason,
			})
			continue
		}

		transfer := group.pickup != nil && group.delivery != nil
		contribution := entities.QuoteContribution{
			OrderID:        group.orderID,
			Representative: rep.Type,
			Transfer:       transfer,
			Quote:          quote,
			Counted:        quote,
			Rule:           entities.RuleFullQuote,
		}
		if group.pickup != nil {
			seq := group.pickup.Sequence
			contribution.PickupSequence = &seq
		}
		if group.delivery != nil {
			seq := group.delivery.Sequence
			contribution.DeliverySequence = &seq
		}

		if rep.AssignmentQuote != nil {
			assignmentQuote := *rep.AssignmentQuote
			contribution.AssignmentQuote = &assignmentQuote
		}

		// Both legs of a split on one truckload: the split records net to
		// zero here, so the full quote counts once.
		if rep.AssignmentQuote != nil && !transfer {
			assignmentQuote := *rep.AssignmentQuote
			otherPortion := quote.Sub(assignmentQuote)

			if assignmentQuote.LessThan(otherPortion) {
				contribution.Counted = decimal.Zero
				contribution.Rule = entities.RuleSplitMisc
			} else {
				contribution.Rule = entities.RuleSplitFull
				if assignmentQuote.Equal(otherPortion) {
					result.Advisories = append(result.Advisories, entities.Advisory{
						Kind:    entities.AdvisoryEqualSplit,
						OrderID: group.orderID,
						Message: fmt.Sprintf("split of %s is exactly even; both legs count the full quote", quote.StringFixed(2)),
					})
				}
			}
		}

		result.TotalQuotes = result.TotalQuotes.Add(contribution.Counted)
		result.Contributions = append(result.Contributions, contribution)
	}

	return result
}
