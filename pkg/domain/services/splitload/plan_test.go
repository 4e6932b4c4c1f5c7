package splitload

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/services/payroll"
)

func quote(s string) *string { return &s }

func assignment(id string, truckload entities.TruckloadID, legType entities.AssignmentType) entities.AssignedOrder {
	return entities.AssignedOrder{
		AssignmentID: id,
		OrderID:      "ORD-S",
		TruckloadID:  truckload,
		Type:         legType,
		Sequence:     1,
		FreightQuote: quote("400.00"),
	}
}

func config(t *testing.T, misc string, fullSide entities.AssignmentType) *entities.SplitConfiguration {
	t.Helper()
	cfg, err := entities.NewSplitConfiguration(
		"ORD-S",
		decimal.RequireFromString("400.00"),
		decimal.RequireFromString(misc),
		fullSide,
		"",
	)
	require.NoError(t, err)
	return cfg
}

// apply mimics the service: it writes the plan back onto legs and records
func apply(plan Plan, legs []entities.AssignedOrder, records []entities.SplitLoadAdjustment) ([]entities.AssignedOrder, []entities.SplitLoadAdjustment) {
	for _, update := range plan.Legs {
		for i := range legs {
			if legs[i].AssignmentID == update.AssignmentID {
				update.Apply(&legs[i])
			}
		}
	}

	deleted := make(map[string]bool, len(plan.Delete))
	for _, id := range plan.Delete {
		deleted[id] = true
	}
	kept := []entities.SplitLoadAdjustment{}
	for _, record := range records {
		if !deleted[record.ID] {
			kept = append(kept, record)
		}
	}
	return legs, append(kept, plan.Create...)
}

func TestNewPlan_BothLegsPresent(t *testing.T) {
	cfg := config(t, "150.00", entities.Pickup)
	legs := []entities.AssignedOrder{
		assignment("a-pick", "TL-1", entities.Pickup),
		assignment("a-drop", "TL-2", entities.Delivery),
	}

	plan := NewPlan(cfg, legs, nil)

	assert.Equal(t, entities.Split, plan.State)
	require.Len(t, plan.Legs, 2)
	assert.Equal(t, "250.00", plan.Legs[0].AssignmentQuote.StringFixed(2))
	assert.Equal(t, "150.00", plan.Legs[1].AssignmentQuote.StringFixed(2))
	assert.False(t, plan.Legs[0].SplitPending)
	assert.True(t, plan.Legs[0].Changed)

	require.Len(t, plan.Create, 2)
	deduction, addition := plan.Create[0], plan.Create[1]
	assert.Equal(t, entities.TruckloadID("TL-1"), deduction.TruckloadID)
	assert.False(t, deduction.IsAddition)
	assert.Equal(t, entities.TruckloadID("TL-2"), addition.TruckloadID)
	assert.True(t, addition.IsAddition)
	for _, record := range plan.Create {
		assert.Equal(t, "150.00", record.Amount.StringFixed(2))
		assert.Equal(t, entities.TargetLoadValue, record.AppliesTo)
		require.NotNil(t, record.OrderID)
		assert.Equal(t, entities.OrderID("ORD-S"), *record.OrderID)
		assert.NotEmpty(t, record.ID)
	}
	assert.NotEqual(t, deduction.ID, addition.ID)
	assert.Empty(t, plan.Delete)
	assert.Empty(t, plan.Warnings)
}

func TestNewPlan_DeliveryAsFullSide(t *testing.T) {
	cfg := config(t, "100.00", entities.Delivery)
	legs := []entities.AssignedOrder{
		assignment("a-pick", "TL-1", entities.Pickup),
		assignment("a-drop", "TL-2", entities.Delivery),
	}

	plan := NewPlan(cfg, legs, nil)

	assert.Equal(t, "100.00", plan.Legs[0].AssignmentQuote.StringFixed(2))
	assert.Equal(t, "300.00", plan.Legs[1].AssignmentQuote.StringFixed(2))
	require.Len(t, plan.Create, 2)
	assert.Equal(t, entities.TruckloadID("TL-2"), plan.Create[0].TruckloadID)
	assert.False(t, plan.Create[0].IsAddition)
	assert.Equal(t, entities.TruckloadID("TL-1"), plan.Create[1].TruckloadID)
	assert.True(t, plan.Create[1].IsAddition)
}

func TestNewPlan_SingleLegIsPending(t *testing.T) {
	cfg := config(t, "150.00", entities.Delivery)
	legs := []entities.AssignedOrder{assignment("a-pick", "TL-1", entities.Pickup)}

	plan := NewPlan(cfg, legs, nil)

	assert.Equal(t, entities.PendingSplit, plan.State)
	require.Len(t, plan.Legs, 1)
	assert.True(t, plan.Legs[0].SplitPending)
	assert.Equal(t, "150.00", plan.Legs[0].AssignmentQuote.StringFixed(2))
	assert.Empty(t, plan.Create)
}

func TestNewPlan_PendingBecomesSplitWhenSecondLegArrives(t *testing.T) {
	cfg := config(t, "150.00", entities.Pickup)
	legs := []entities.AssignedOrder{assignment("a-pick", "TL-1", entities.Pickup)}
	legs, records := apply(NewPlan(cfg, legs, nil), legs, nil)
	require.True(t, legs[0].SplitPending)

	legs = append(legs, assignment("a-drop", "TL-2", entities.Delivery))
	plan := NewPlan(cfg, legs, records)

	assert.Equal(t, entities.Split, plan.State)
	require.Len(t, plan.Legs, 2)
	assert.True(t, plan.Legs[0].Changed, "pending flag must be cleared")
	assert.False(t, plan.Legs[0].SplitPending)
	assert.Len(t, plan.Create, 2)
}

func TestNewPlan_Idempotent(t *testing.T) {
	cfg := config(t, "150.00", entities.Pickup)
	legs := []entities.AssignedOrder{
		assignment("a-pick", "TL-1", entities.Pickup),
		assignment("a-drop", "TL-2", entities.Delivery),
	}

	legs, records := apply(NewPlan(cfg, legs, nil), legs, nil)
	second := NewPlan(cfg, legs, records)

	assert.True(t, second.IsNoop())
	assert.Empty(t, second.ChangedLegs())
}

func TestNewPlan_RepairsAndReplacesRecords(t *testing.T) {
	legs := []entities.AssignedOrder{
		assignment("a-pick", "TL-1", entities.Pickup),
		assignment("a-drop", "TL-2", entities.Delivery),
	}
	legs, records := apply(NewPlan(config(t, "150.00", entities.Pickup), legs, nil), legs, nil)

	t.Run("missing record is recreated", func(t *testing.T) {
		plan := NewPlan(config(t, "150.00", entities.Pickup), legs, records[:1])
		require.Len(t, plan.Create, 1)
		assert.True(t, plan.Create[0].IsAddition)
		assert.Empty(t, plan.Delete)
	})

	t.Run("new misc value replaces both records", func(t *testing.T) {
		plan := NewPlan(config(t, "120.00", entities.Pickup), legs, records)
		assert.Len(t, plan.Create, 2)
		assert.ElementsMatch(t, []string{records[0].ID, records[1].ID}, plan.Delete)
	})
}

func TestNewPlan_MiscAboveQuoteWarns(t *testing.T) {
	cfg := config(t, "450.00", entities.Pickup)
	legs := []entities.AssignedOrder{assignment("a-pick", "TL-1", entities.Pickup)}

	plan := NewPlan(cfg, legs, nil)

	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, entities.AdvisoryMiscExceedsQuote, plan.Warnings[0].Kind)
	assert.Equal(t, "-50.00", plan.Legs[0].AssignmentQuote.StringFixed(2))
}

func TestNewClearPlan(t *testing.T) {
	legs := []entities.AssignedOrder{
		assignment("a-pick", "TL-1", entities.Pickup),
		assignment("a-drop", "TL-2", entities.Delivery),
	}
	legs, records := apply(NewPlan(config(t, "150.00", entities.Pickup), legs, nil), legs, nil)

	plan := NewClearPlan("ORD-S", legs, records)

	assert.Equal(t, entities.Unsplit, plan.State)
	assert.Len(t, plan.Delete, 2)
	legs, records = apply(plan, legs, records)
	for _, leg := range legs {
		assert.Nil(t, leg.AssignmentQuote)
		assert.False(t, leg.SplitPending)
	}
	assert.Empty(t, records)
	cleared := NewClearPlan("ORD-S", legs, records)
	assert.True(t, cleared.IsNoop())
}

func TestStateOf(t *testing.T) {
	cfg := config(t, "150.00", entities.Pickup)
	pick := assignment("a-pick", "TL-1", entities.Pickup)
	drop := assignment("a-drop", "TL-2", entities.Delivery)

	assert.Equal(t, entities.Unsplit, StateOf(nil, []entities.AssignedOrder{pick, drop}))
	assert.Equal(t, entities.PendingSplit, StateOf(cfg, []entities.AssignedOrder{drop}))
	assert.Equal(t, entities.PendingSplit, StateOf(cfg, nil))
	assert.Equal(t, entities.Split, StateOf(cfg, []entities.AssignedOrder{pick, drop}))
}

// The split moves exactly misc between the two truckloads' load values, so
// together they count the full quote once.
func TestNewPlan_ConservesQuoteAcrossTruckloads(t *testing.T) {
	for _, target := range []entities.Target{entities.TargetLoadValue, entities.TargetDriverPay} {
		t.Run(string(target), func(t *testing.T) {
			cfg := config(t, "150.00", entities.Pickup)
			cfg.AppliesTo = target
			legs := []entities.AssignedOrder{
				assignment("a-pick", "TL-1", entities.Pickup),
				assignment("a-drop", "TL-2", entities.Delivery),
			}
			legs, records := apply(NewPlan(cfg, legs, nil), legs, nil)

			byTruckload := func(id entities.TruckloadID) ([]entities.AssignedOrder, entities.AdjustmentSet) {
				var orders []entities.AssignedOrder
				for _, leg := range legs {
					if leg.TruckloadID == id {
						orders = append(orders, leg)
					}
				}
				var set entities.AdjustmentSet
				for _, record := range records {
					if record.TruckloadID == id {
						set.SplitLoad = append(set.SplitLoad, record)
					}
				}
				return orders, set
			}

			hundred := decimal.NewFromInt(100)
			o1, a1 := byTruckload("TL-1")
			o2, a2 := byTruckload("TL-2")
			one := payroll.ComputePayroll(o1, a1, hundred)
			two := payroll.ComputePayroll(o2, a2, hundred)

			assert.Equal(t, "400.00", one.FinalDriverPay.Add(two.FinalDriverPay).StringFixed(2))
			if target == entities.TargetLoadValue {
				assert.Equal(t, "250.00", one.LoadValue.StringFixed(2))
				assert.Equal(t, "150.00", two.LoadValue.StringFixed(2))
			}
		})
	}
}
