package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// ReduceAdjustments buckets one category's records by sign and target.
// The addition flag is honoured for every category, including cross-driver
// records that are only ever entered as deductions.
func ReduceAdjustments[T entities.Adjustment](records []T) entities.AdjustmentTotals {
	totals := entities.AdjustmentTotals{
		DeductionsToLoadValue: decimal.Zero,
		AdditionsToLoadValue:  decimal.Zero,
		DeductionsToDriverPay: decimal.Zero,
		AdditionsToDriverPay:  decimal.Zero,
	}

	for _, record := range records {
		base := record.Base()
		switch {
		case base.IsAddition && base.AppliesTo == entities.TargetLoadValue:
			totals.AdditionsToLoadValue = totals.AdditionsToLoadValue.Add(base.Amount)
		case base.IsAddition && base.AppliesTo == entities.TargetDriverPay:
			totals.AdditionsToDriverPay = totals.AdditionsToDriverPay.Add(base.Amount)
		case !base.IsAddition && base.AppliesTo == entities.TargetLoadValue:
			totals.DeductionsToLoadValue = totals.DeductionsToLoadValue.Add(base.Amount)
		case !base.IsAddition && base.AppliesTo == entities.TargetDriverPay:
			totals.DeductionsToDriverPay = totals.DeductionsToDriverPay.Add(base.Amount)
		}
	}

	return totals
}
