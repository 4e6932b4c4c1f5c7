package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/freightpay/pkg/application/dto"
)

const (
	summarySheet = "Summary"
	splitsSheet  = "Split Loads"
	maxSheetName = 31
)

// BuildWorkbook creates a summary sheet, a split-load sheet when the run has
// splits, and one sheet per truckload. The caller closes the file.
func BuildWorkbook(run *dto.PayrollRun) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRows(f, summarySheet, summaryHeader, summaryRows(run)); err != nil {
		f.Close()
		return nil, err
	}

	if len(run.Splits) > 0 {
		if err := writeSplitSheet(f, run.Splits); err != nil {
			f.Close()
			return nil, err
		}
	}

	used := map[string]bool{summarySheet: true, splitsSheet: true}
	for _, statement := range run.Statements {
		name := sheetName(string(statement.TruckloadID), used)
		if err := writeStatementSheet(f, name, statement); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSplitSheet(f *excelize.File, splits []dto.SplitSummary) error {
	if _, err := f.NewSheet(splitsSheet); err != nil {
		return err
	}
	header := []string{"order_id", "state", "full_quote", "misc_value", "applies_to",
		"full_side_truckload", "misc_side_truckload", "quote_counted", "balanced", "equal_split"}
	rows := make([][]any, 0, len(splits))
	for _, s := range splits {
		rows = append(rows, []any{
			string(s.OrderID),
			s.State.String(),
			s.FullQuote.InexactFloat64(),
			s.MiscValue.InexactFloat64(),
			string(s.AppliesTo),
			string(s.FullSide),
			string(s.MiscSide),
			s.QuoteCounted.InexactFloat64(),
			s.Balanced,
			s.EqualSplit,
		})
	}
	return writeAnyRows(f, splitsSheet, header, rows)
}

func writeStatementSheet(f *excelize.File, sheet string, s *dto.PayrollStatement) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Truckload", string(s.TruckloadID)},
		{"Driver", fmt.Sprintf("%s (%s)", s.DriverName, s.DriverID)},
		{"Period", fmt.Sprintf("%s to %s", formatDate(s.StartDate), formatDate(s.EndDate))},
		{},
		{"Order", "Leg", "Transfer", "Quote", "Counted", "Rule"},
	}
	for _, c := range s.Breakdown.Contributions {
		rows = append(rows, []any{
			string(c.OrderID),
			c.Representative.String(),
			c.Transfer,
			c.Quote.InexactFloat64(),
			c.Counted.InexactFloat64(),
			string(c.Rule),
		})
	}
	for _, e := range s.Breakdown.Excluded {
		rows = append(rows, []any{string(e.OrderID), "", "", e.RawValue, 0, string(e.Reason)})
	}

	rows = append(rows, []any{})
	for _, line := range breakdownLines(s.Breakdown) {
		rows = append(rows, []any{line.Label, line.Amount})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]string) error {
	converted := make([][]any, 0, len(rows))
	for _, row := range rows {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		converted = append(converted, values)
	}
	return writeAnyRows(f, sheet, header, converted)
}

func writeAnyRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes a truckload ID safe and unique as a worksheet name
func sheetName(id string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, id)
	if name == "" {
		name = "Truckload"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	candidate := name
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := name
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}

// generateXLSXOutput writes the statements workbook into the output directory
func generateXLSXOutput(run *dto.PayrollRun, config Config) error {
	if err := requireOutputDir(config); err != nil {
		return err
	}

	f, err := BuildWorkbook(run)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	filename := filepath.Join(config.OutputDir, xlsxFilename)
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "📗 Workbook saved to: %s\n", filename)
	}
	return nil
}
