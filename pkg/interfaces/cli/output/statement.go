package output

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// breakdownLine is one row of the Load Value → Driver Pay walk
type breakdownLine struct {
	Label    string
	Amount   string
	Subtotal bool
}

type categoryTotals struct {
	label  string
	totals entities.AdjustmentTotals
}

func categoriesOf(b entities.PayrollBreakdown) []categoryTotals {
	return []categoryTotals{
		{label: "Cross-driver", totals: b.CrossDriver},
		{label: "Manual", totals: b.Manual},
		{label: "Split load", totals: b.SplitLoad},
	}
}

// breakdownLines itemizes a breakdown the same way for every renderer.
// Zero-valued adjustment lines are omitted; cross-driver additions never
// enter the totals and are not listed.
func breakdownLines(b entities.PayrollBreakdown) []breakdownLine {
	lines := []breakdownLine{
		{Label: "Total quotes", Amount: formatMoney(b.TotalQuotes)},
	}

	for _, c := range categoriesOf(b) {
		lines = appendAmount(lines, c.label+" deductions", c.totals.DeductionsToLoadValue.Neg())
		if c.label != "Cross-driver" {
			lines = appendAmount(lines, c.label+" additions", c.totals.AdditionsToLoadValue)
		}
	}

	lines = append(lines,
		breakdownLine{Label: "Load value", Amount: formatMoney(b.LoadValue), Subtotal: true},
		breakdownLine{Label: "Driver load percentage", Amount: b.DriverLoadPercentage.StringFixed(2) + "%"},
		breakdownLine{Label: "Base driver pay", Amount: formatMoney(b.BaseDriverPay), Subtotal: true},
	)

	for _, c := range categoriesOf(b) {
		lines = appendAmount(lines, c.label+" deductions to pay", c.totals.DeductionsToDriverPay.Neg())
		if c.label != "Cross-driver" {
			lines = appendAmount(lines, c.label+" additions to pay", c.totals.AdditionsToDriverPay)
		}
	}

	return append(lines, breakdownLine{
		Label:    "Final driver pay",
		Amount:   formatMoney(b.FinalDriverPay),
		Subtotal: true,
	})
}

func appendAmount(lines []breakdownLine, label string, amount decimal.Decimal) []breakdownLine {
	if amount.IsZero() {
		return lines
	}
	return append(lines, breakdownLine{Label: label, Amount: formatMoney(amount)})
}

// formatMoney renders an amount as "$1,234.50" or "-$50.00"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	return sign + "$" + grouped.String() + "." + frac
}
