package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// Writer writes scenarios in the format Loader reads
type Writer struct{}

// NewWriter creates a new CSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteScenario writes every scenario file into dir, creating it if needed
func (w *Writer) WriteScenario(dir string, scenario *Scenario) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scenario directory %s: %w", dir, err)
	}

	tables := []struct {
		file   string
		header []string
		rows   [][]string
	}{
		{TruckloadsFile, truckloadsHeader, truckloadRows(scenario.Truckloads)},
		{DriversFile, driversHeader, driverRows(scenario.Drivers)},
		{AssignmentsFile, assignmentsHeader, assignmentRows(scenario.Assignments)},
		{AdjustmentsFile, adjustmentsHeader, adjustmentRows(scenario.Adjustments)},
		{SplitLoadsFile, splitLoadsHeader, splitRows(scenario.Splits)},
	}

	for _, table := range tables {
		if err := writeTable(filepath.Join(dir, table.file), table.header, table.rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteSettlements writes settlement snapshots to settlements.csv in dir.
// Snapshots are written beside the scenario; the loader does not read them.
func (w *Writer) WriteSettlements(dir string, snapshots []*entities.SettlementSnapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	rows := make([][]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		b := snapshot.Breakdown
		rows = append(rows, []string{
			snapshot.ID,
			string(snapshot.TruckloadID),
			string(snapshot.DriverID),
			snapshot.CreatedAt.UTC().Format(time.RFC3339),
			b.TotalQuotes.StringFixed(2),
			b.LoadValue.StringFixed(2),
			b.DriverLoadPercentage.StringFixed(2),
			b.BaseDriverPay.StringFixed(2),
			b.FinalDriverPay.StringFixed(2),
		})
	}
	return writeTable(filepath.Join(dir, SettlementsFile), settlementsHeader, rows)
}

func writeTable(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", filename, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func truckloadRows(truckloads []*entities.Truckload) [][]string {
	rows := make([][]string, 0, len(truckloads))
	for _, t := range truckloads {
		rows = append(rows, []string{
			string(t.ID),
			string(t.DriverID),
			t.DriverName,
			formatDate(t.StartDate),
			formatDate(t.EndDate),
		})
	}
	return rows
}

func driverRows(settings []*entities.DriverSettings) [][]string {
	rows := make([][]string, 0, len(settings))
	for _, s := range settings {
		rows = append(rows, []string{string(s.DriverID), formatOptionalDecimal(s.LoadPercentage)})
	}
	return rows
}

func assignmentRows(assignments []*entities.AssignedOrder) [][]string {
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []string{
			a.AssignmentID,
			string(a.OrderID),
			string(a.TruckloadID),
			a.Type.String(),
			strconv.Itoa(a.Sequence),
			a.RawQuote(),
			formatOptionalDecimal(a.AssignmentQuote),
			strconv.FormatBool(a.SplitPending),
			a.PickupCustomer,
			a.DeliveryCustomer,
		})
	}
	return rows
}

func adjustmentRows(adjustments []entities.Adjustment) [][]string {
	rows := make([][]string, 0, len(adjustments))
	for _, a := range adjustments {
		base := a.Base()
		row := []string{
			base.ID,
			string(a.Category()),
			string(base.TruckloadID),
			string(entities.AdjustmentOrderID(a)),
			base.Amount.String(),
			string(base.AppliesTo),
			strconv.FormatBool(base.IsAddition),
			"", "", "", "", "",
		}
		if base.Comment != nil {
			row[7] = *base.Comment
		}
		if cd, ok := a.(entities.CrossDriverDeduction); ok {
			row[8] = cd.DriverName
			if cd.Date != nil {
				row[9] = formatDate(*cd.Date)
			}
			row[10] = cd.Action
			row[11] = cd.CustomerName
		}
		rows = append(rows, row)
	}
	return rows
}

func splitRows(configs []*entities.SplitConfiguration) [][]string {
	rows := make([][]string, 0, len(configs))
	for _, cfg := range configs {
		rows = append(rows, []string{
			string(cfg.OrderID),
			cfg.FullQuote.String(),
			cfg.MiscValue.String(),
			cfg.FullSide.String(),
			string(cfg.AppliesTo),
		})
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatOptionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
