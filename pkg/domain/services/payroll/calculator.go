package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

var (
	hundred       = decimal.NewFromInt(100)
	minPercentage = decimal.Zero
	maxPercentage = hundred
)

// ComputePayroll turns one truckload's orders, its three adjustment ledgers
// and the driver's load percentage into the itemized breakdown:
//
//	loadValue      = totalQuotes − A.dLV − B.dLV − C.dLV + B.aLV + C.aLV
//	baseDriverPay  = loadValue × pct / 100
//	finalDriverPay = baseDriverPay − A.dDP − B.dDP − C.dDP + B.aDP + C.aDP
//
// A is cross-driver, B manual, C split-load. Cross-driver additions are
// reduced for display but never enter either formula.
// ComputePayroll holds no state and never fails.
func ComputePayroll(
	orders []entities.AssignedOrder,
	adjustments entities.AdjustmentSet,
	driverLoadPercentage decimal.Decimal,
) entities.PayrollBreakdown {
	aggregate := AggregateLoadValue(orders)

	crossDriver := ReduceAdjustments(adjustments.CrossDriver)
	manual := ReduceAdjustments(adjustments.Manual)
	splitLoad := ReduceAdjustments(adjustments.SplitLoad)

	advisories := aggregate.Advisories
	pct := driverLoadPercentage
	if pct.LessThan(minPercentage) || pct.GreaterThan(maxPercentage) {
		clamped := decimal.Min(decimal.Max(pct, minPercentage), maxPercentage)
		advisories = append(advisories, entities.Advisory{
			Kind:    entities.AdvisoryPercentageClamped,
			Message: fmt.Sprintf("driver load percentage %s clamped to %s", pct.String(), clamped.String()),
		})
		pct = clamped
	}

	loadValue := aggregate.TotalQuotes.
		Sub(crossDriver.DeductionsToLoadValue).
		Sub(manual.DeductionsToLoadValue).
		Sub(splitLoad.DeductionsToLoadValue).
		Add(manual.AdditionsToLoadValue).
		Add(splitLoad.AdditionsToLoadValue)

	baseDriverPay := loadValue.Mul(pct).Div(hundred)

	finalDriverPay := baseDriverPay.
		Sub(crossDriver.DeductionsToDriverPay).
		Sub(manual.DeductionsToDriverPay).
		Sub(splitLoad.DeductionsToDriverPay).
		Add(manual.AdditionsToDriverPay).
		Add(splitLoad.AdditionsToDriverPay)

	return entities.PayrollBreakdown{
		TotalQuotes:          aggregate.TotalQuotes,
		CrossDriver:          crossDriver,
		Manual:               manual,
		SplitLoad:            splitLoad,
		LoadValue:            loadValue,
		DriverLoadPercentage: pct,
		BaseDriverPay:        baseDriverPay,
		FinalDriverPay:       finalDriverPay,
		Contributions:        aggregate.Contributions,
		Excluded:             aggregate.Excluded,
		Advisories:           advisories,
	}
}
