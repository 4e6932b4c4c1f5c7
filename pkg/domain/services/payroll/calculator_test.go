package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

func pct(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func scenarioOrders() []entities.AssignedOrder {
	return []entities.AssignedOrder{
		leg("ORD-A", entities.Delivery, 1, strPtr("500.00")),
		withAssignmentQuote(leg("ORD-B", entities.Pickup, 2, strPtr("400.00")), "150.00"),
	}
}

func scenarioAdjustments() entities.AdjustmentSet {
	return entities.AdjustmentSet{
		CrossDriver: []entities.CrossDriverDeduction{
			{AdjustmentBase: base("cd-1", "20.00", entities.TargetDriverPay, false), DriverName: "Sam Ortiz"},
		},
		Manual: []entities.ManualAdjustment{
			{AdjustmentBase: base("m-1", "50.00", entities.TargetLoadValue, false)},
		},
	}
}

func TestComputePayroll_Scenario(t *testing.T) {
	breakdown := ComputePayroll(scenarioOrders(), scenarioAdjustments(), pct("30"))

	assert.Equal(t, "500.00", breakdown.TotalQuotes.StringFixed(2))
	assert.Equal(t, "450.00", breakdown.LoadValue.StringFixed(2))
	assert.Equal(t, "30.00", breakdown.DriverLoadPercentage.StringFixed(2))
	assert.Equal(t, "135.00", breakdown.BaseDriverPay.StringFixed(2))
	assert.Equal(t, "115.00", breakdown.FinalDriverPay.StringFixed(2))

	assert.Equal(t, "50.00", breakdown.Manual.DeductionsToLoadValue.StringFixed(2))
	assert.Equal(t, "20.00", breakdown.CrossDriver.DeductionsToDriverPay.StringFixed(2))
	require.Len(t, breakdown.Contributions, 2)
	assert.Equal(t, entities.RuleSplitMisc, breakdown.Contributions[1].Rule)
	assert.Empty(t, breakdown.Advisories)
}

func TestComputePayroll_Idempotent(t *testing.T) {
	orders := scenarioOrders()
	adjustments := scenarioAdjustments()

	first := ComputePayroll(orders, adjustments, pct("30"))
	second := ComputePayroll(orders, adjustments, pct("30"))

	assert.True(t, first.FinalDriverPay.Equal(second.FinalDriverPay))
	assert.True(t, first.LoadValue.Equal(second.LoadValue))
	assert.Equal(t, first.Contributions, second.Contributions)
}

func TestComputePayroll_CrossDriverAdditionsIgnored(t *testing.T) {
	adjustments := scenarioAdjustments()
	adjustments.CrossDriver = append(adjustments.CrossDriver,
		entities.CrossDriverDeduction{AdjustmentBase: base("cd-2", "999", entities.TargetLoadValue, true)},
		entities.CrossDriverDeduction{AdjustmentBase: base("cd-3", "999", entities.TargetDriverPay, true)},
	)

	breakdown := ComputePayroll(scenarioOrders(), adjustments, pct("30"))

	assert.Equal(t, "450.00", breakdown.LoadValue.StringFixed(2))
	assert.Equal(t, "115.00", breakdown.FinalDriverPay.StringFixed(2))
	assert.Equal(t, "999.00", breakdown.CrossDriver.AdditionsToLoadValue.StringFixed(2))
	assert.Equal(t, "999.00", breakdown.CrossDriver.AdditionsToDriverPay.StringFixed(2))
}

func TestComputePayroll_AdjustmentMonotonicity(t *testing.T) {
	baseline := ComputePayroll(scenarioOrders(), scenarioAdjustments(), pct("30"))

	cases := []struct {
		name       string
		adjustment entities.ManualAdjustment
		wantLoad   string
		wantFinal  string
	}{
		{
			name:       "load value deduction",
			adjustment: entities.ManualAdjustment{AdjustmentBase: base("x", "10", entities.TargetLoadValue, false)},
			wantLoad:   "440.00",
			wantFinal:  "112.00",
		},
		{
			name:       "load value addition",
			adjustment: entities.ManualAdjustment{AdjustmentBase: base("x", "10", entities.TargetLoadValue, true)},
			wantLoad:   "460.00",
			wantFinal:  "118.00",
		},
		{
			name:       "driver pay deduction",
			adjustment: entities.ManualAdjustment{AdjustmentBase: base("x", "10", entities.TargetDriverPay, false)},
			wantLoad:   "450.00",
			wantFinal:  "105.00",
		},
		{
			name:       "driver pay addition",
			adjustment: entities.ManualAdjustment{AdjustmentBase: base("x", "10", entities.TargetDriverPay, true)},
			wantLoad:   "450.00",
			wantFinal:  "125.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adjustments := scenarioAdjustments()
			adjustments.Manual = append(adjustments.Manual, tc.adjustment)

			breakdown := ComputePayroll(scenarioOrders(), adjustments, pct("30"))

			assert.Equal(t, tc.wantLoad, breakdown.LoadValue.StringFixed(2))
			assert.Equal(t, tc.wantFinal, breakdown.FinalDriverPay.StringFixed(2))
			assert.Equal(t, "450.00", baseline.LoadValue.StringFixed(2))
		})
	}
}

func TestComputePayroll_ClampsPercentage(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		clamped bool
	}{
		{"within range", "42.5", "42.50", false},
		{"zero", "0", "0.00", false},
		{"hundred", "100", "100.00", false},
		{"above", "130", "100.00", true},
		{"below", "-5", "0.00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			breakdown := ComputePayroll(scenarioOrders(), entities.AdjustmentSet{}, pct(tc.input))

			assert.Equal(t, tc.want, breakdown.DriverLoadPercentage.StringFixed(2))
			if tc.clamped {
				require.Len(t, breakdown.Advisories, 1)
				assert.Equal(t, entities.AdvisoryPercentageClamped, breakdown.Advisories[0].Kind)
			} else {
				assert.Empty(t, breakdown.Advisories)
			}
		})
	}
}

func TestComputePayroll_NegativeLoadValueIsAllowed(t *testing.T) {
	adjustments := entities.AdjustmentSet{
		Manual: []entities.ManualAdjustment{
			{AdjustmentBase: base("m-1", "600", entities.TargetLoadValue, false)},
		},
	}

	breakdown := ComputePayroll(scenarioOrders(), adjustments, pct("30"))

	assert.Equal(t, "-100.00", breakdown.LoadValue.StringFixed(2))
	assert.Equal(t, "-30.00", breakdown.BaseDriverPay.StringFixed(2))
}

// A split order moved between two truckloads is counted exactly once in total.
func TestComputePayroll_SplitConservation(t *testing.T) {
	quote := "400.00"
	fullSide := withAssignmentQuote(leg("ORD-S", entities.Pickup, 1, strPtr(quote)), "250.00")
	fullSide.TruckloadID = "TL-1"
	miscSide := withAssignmentQuote(leg("ORD-S", entities.Delivery, 1, strPtr(quote)), "150.00")
	miscSide.TruckloadID = "TL-2"

	one := ComputePayroll(
		[]entities.AssignedOrder{fullSide},
		entities.AdjustmentSet{SplitLoad: []entities.SplitLoadAdjustment{
			{AdjustmentBase: base("s-1", "150.00", entities.TargetLoadValue, false)},
		}},
		pct("30"),
	)
	two := ComputePayroll(
		[]entities.AssignedOrder{miscSide},
		entities.AdjustmentSet{SplitLoad: []entities.SplitLoadAdjustment{
			{AdjustmentBase: base("s-2", "150.00", entities.TargetLoadValue, true)},
		}},
		pct("30"),
	)

	assert.Equal(t, "250.00", one.LoadValue.StringFixed(2))
	assert.Equal(t, "150.00", two.LoadValue.StringFixed(2))
	assert.Equal(t, "400.00", one.LoadValue.Add(two.LoadValue).StringFixed(2))
}
