package output

import (
	"fmt"
	"io"

	"github.com/vsinha/freightpay/pkg/application/dto"
	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// generateTextOutput creates human-readable text output
func generateTextOutput(run *dto.PayrollRun, config Config) error {
	w := config.out()

	fmt.Fprintf(w, "📊 Payroll Summary\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Truckloads: %d\n", len(run.Statements))
	fmt.Fprintf(w, "Split loads: %d\n", len(run.Splits))
	fmt.Fprintf(w, "Total driver pay: %s\n", formatMoney(run.TotalDriverPay()))
	if config.CalculationTime > 0 {
		fmt.Fprintf(w, "Calculation Time: %v\n", config.CalculationTime)
	}
	fmt.Fprintln(w)

	for _, statement := range run.Statements {
		writeStatementText(w, statement)
	}

	if len(run.Splits) > 0 {
		fmt.Fprintf(w, "✂️  Split Loads:\n")
		fmt.Fprintf(w, "%-12s %-14s %-12s %-12s %-12s %-12s %-12s %-8s\n",
			"Order", "State", "Full Quote", "Misc", "Full Side", "Misc Side", "Counted", "Balanced")
		fmt.Fprintf(w, "%-12s %-14s %-12s %-12s %-12s %-12s %-12s %-8s\n",
			"------------", "--------------", "------------", "------------",
			"------------", "------------", "------------", "--------")
		for _, split := range run.Splits {
			fmt.Fprintf(w, "%-12s %-14s %-12s %-12s %-12s %-12s %-12s %-8s\n",
				split.OrderID,
				split.State.String(),
				split.FullQuote.StringFixed(2),
				split.MiscValue.StringFixed(2),
				split.FullSide,
				split.MiscSide,
				split.QuoteCounted.StringFixed(2),
				split.BalanceLabel())
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeStatementText(w io.Writer, s *dto.PayrollStatement) {
	b := s.Breakdown

	fmt.Fprintf(w, "🚚 Truckload %s: %s (%s)\n", s.TruckloadID, s.DriverName, s.DriverID)
	if !s.StartDate.IsZero() {
		fmt.Fprintf(w, "Period: %s to %s\n", formatDate(s.StartDate), formatDate(s.EndDate))
	}
	fmt.Fprintln(w)

	if len(b.Contributions) > 0 {
		fmt.Fprintf(w, "%-12s %-10s %-9s %-12s %-12s %-10s\n",
			"Order", "Leg", "Transfer", "Quote", "Counted", "Rule")
		fmt.Fprintf(w, "%-12s %-10s %-9s %-12s %-12s %-10s\n",
			"------------", "----------", "---------", "------------", "------------", "----------")
		for _, c := range b.Contributions {
			fmt.Fprintf(w, "%-12s %-10s %-9t %-12s %-12s %-10s\n",
				c.OrderID,
				c.Representative.String(),
				c.Transfer,
				c.Quote.StringFixed(2),
				c.Counted.StringFixed(2),
				c.Rule)
		}
		fmt.Fprintln(w)
	}

	if len(b.Excluded) > 0 {
		fmt.Fprintf(w, "Excluded orders:\n")
		for _, e := range b.Excluded {
			fmt.Fprintf(w, "  %s %q (%s)\n", e.OrderID, e.RawValue, e.Reason)
		}
		fmt.Fprintln(w)
	}

	writeAdjustmentsText(w, s.Adjustments)

	for _, line := range breakdownLines(b) {
		if line.Subtotal {
			fmt.Fprintf(w, "%-36s %14s\n", line.Label, line.Amount)
			continue
		}
		fmt.Fprintf(w, "  %-34s %14s\n", line.Label, line.Amount)
	}
	fmt.Fprintln(w)

	if len(b.Advisories) > 0 {
		fmt.Fprintf(w, "⚠️  Advisories:\n")
		for _, a := range b.Advisories {
			fmt.Fprintf(w, "  [%s] %s\n", a.Kind, a.Message)
		}
		fmt.Fprintln(w)
	}
}

func writeAdjustmentsText(w io.Writer, set entities.AdjustmentSet) {
	var rows []entities.Adjustment
	for _, d := range set.CrossDriver {
		rows = append(rows, d)
	}
	for _, m := range set.Manual {
		rows = append(rows, m)
	}
	for _, s := range set.SplitLoad {
		rows = append(rows, s)
	}
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(w, "%-14s %-12s %-10s %-12s %-12s %s\n",
		"Category", "Order", "Kind", "Applies To", "Amount", "Comment")
	fmt.Fprintf(w, "%-14s %-12s %-10s %-12s %-12s %s\n",
		"--------------", "------------", "----------", "------------", "------------", "-------")
	for _, adj := range rows {
		base := adj.Base()
		kind := "deduction"
		if base.IsAddition {
			kind = "addition"
		}
		comment := ""
		if base.Comment != nil {
			comment = *base.Comment
		}
		fmt.Fprintf(w, "%-14s %-12s %-10s %-12s %-12s %s\n",
			adj.Category(),
			entities.AdjustmentOrderID(adj),
			kind,
			base.AppliesTo,
			base.Amount.StringFixed(2),
			comment)
	}
	fmt.Fprintln(w)
}
