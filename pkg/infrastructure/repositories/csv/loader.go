package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

// Scenario file names inside a scenario directory
const (
	TruckloadsFile  = "truckloads.csv"
	DriversFile     = "drivers.csv"
	AssignmentsFile = "assignments.csv"
	AdjustmentsFile = "adjustments.csv"
	SplitLoadsFile  = "split_loads.csv"
	SettlementsFile = "settlements.csv"
)

const dateLayout = "2006-01-02"

var (
	truckloadsHeader  = []string{"truckload_id", "driver_id", "driver_name", "start_date", "end_date"}
	driversHeader     = []string{"driver_id", "load_percentage"}
	assignmentsHeader = []string{"assignment_id", "order_id", "truckload_id", "type", "sequence", "freight_quote", "assignment_quote", "split_pending", "pickup_customer", "delivery_customer"}
	adjustmentsHeader = []string{"id", "category", "truckload_id", "order_id", "amount", "applies_to", "is_addition", "comment", "driver_name", "date", "action", "customer_name"}
	splitLoadsHeader  = []string{"order_id", "full_quote", "misc_value", "full_side", "applies_to"}
	settlementsHeader = []string{"snapshot_id", "truckload_id", "driver_id", "created_at", "total_quotes", "load_value", "driver_load_percentage", "base_driver_pay", "final_driver_pay"}
)

// Loader handles loading payroll scenarios from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads every scenario file from dir. Truckloads and
// assignments are required; the other files may be missing or header-only.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	truckloads, err := l.LoadTruckloads(filepath.Join(dir, TruckloadsFile))
	if err != nil {
		return nil, err
	}
	assignments, err := l.LoadAssignments(filepath.Join(dir, AssignmentsFile))
	if err != nil {
		return nil, err
	}

	scenario := &Scenario{
		Truckloads:  truckloads,
		Assignments: assignments,
		Drivers:     []*entities.DriverSettings{},
		Adjustments: []entities.Adjustment{},
		Splits:      []*entities.SplitConfiguration{},
	}

	if path := filepath.Join(dir, DriversFile); fileExists(path) {
		if scenario.Drivers, err = l.LoadDrivers(path); err != nil {
			return nil, err
		}
	}
	if path := filepath.Join(dir, AdjustmentsFile); fileExists(path) {
		if scenario.Adjustments, err = l.LoadAdjustments(path); err != nil {
			return nil, err
		}
	}
	if path := filepath.Join(dir, SplitLoadsFile); fileExists(path) {
		if scenario.Splits, err = l.LoadSplitLoads(path); err != nil {
			return nil, err
		}
	}

	return scenario, nil
}

// LoadTruckloads loads truckloads from a CSV file
func (l *Loader) LoadTruckloads(filename string) ([]*entities.Truckload, error) {
	records, err := readTable(filename, "truckloads", truckloadsHeader, true)
	if err != nil {
		return nil, err
	}

	truckloads := make([]*entities.Truckload, 0, len(records))
	for i, record := range records {
		truckload, err := parseTruckload(record)
		if err != nil {
			return nil, fmt.Errorf("truckloads CSV row %d: %w", i+2, err)
		}
		truckloads = append(truckloads, truckload)
	}
	return truckloads, nil
}

// LoadDrivers loads driver settings from a CSV file
func (l *Loader) LoadDrivers(filename string) ([]*entities.DriverSettings, error) {
	records, err := readTable(filename, "drivers", driversHeader, false)
	if err != nil {
		return nil, err
	}

	settings := make([]*entities.DriverSettings, 0, len(records))
	for i, record := range records {
		s, err := parseDriverSettings(record)
		if err != nil {
			return nil, fmt.Errorf("drivers CSV row %d: %w", i+2, err)
		}
		settings = append(settings, s)
	}
	return settings, nil
}

// LoadAssignments loads assignment legs from a CSV file. Freight quotes are
// kept exactly as written.
func (l *Loader) LoadAssignments(filename string) ([]*entities.AssignedOrder, error) {
	records, err := readTable(filename, "assignments", assignmentsHeader, true)
	if err != nil {
		return nil, err
	}

	assignments := make([]*entities.AssignedOrder, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, record := range records {
		order, err := parseAssignment(record)
		if err != nil {
			return nil, fmt.Errorf("assignments CSV row %d: %w", i+2, err)
		}
		if row, dup := seen[order.AssignmentID]; dup {
			return nil, fmt.Errorf("assignments CSV row %d: duplicate assignment_id %s (first seen on row %d)", i+2, order.AssignmentID, row)
		}
		seen[order.AssignmentID] = i + 2
		assignments = append(assignments, order)
	}
	return assignments, nil
}

// LoadAdjustments loads deduction and addition records of all categories
func (l *Loader) LoadAdjustments(filename string) ([]entities.Adjustment, error) {
	records, err := readTable(filename, "adjustments", adjustmentsHeader, false)
	if err != nil {
		return nil, err
	}

	adjustments := make([]entities.Adjustment, 0, len(records))
	for i, record := range records {
		adjustment, err := parseAdjustment(record)
		if err != nil {
			return nil, fmt.Errorf("adjustments CSV row %d: %w", i+2, err)
		}
		adjustments = append(adjustments, adjustment)
	}
	return adjustments, nil
}

// LoadSplitLoads loads split-load configurations from a CSV file
func (l *Loader) LoadSplitLoads(filename string) ([]*entities.SplitConfiguration, error) {
	records, err := readTable(filename, "split loads", splitLoadsHeader, false)
	if err != nil {
		return nil, err
	}

	configs := make([]*entities.SplitConfiguration, 0, len(records))
	for i, record := range records {
		cfg, err := parseSplitLoad(record)
		if err != nil {
			return nil, fmt.Errorf("split loads CSV row %d: %w", i+2, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// readTable reads a CSV file, validates its header and column counts and
// returns the data rows
func readTable(filename, name string, expectedHeader []string, requireRows bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV is empty", name)
	}
	if requireRows && len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", name)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// tolerate a UTF-8 BOM written by spreadsheet exports
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func parseTruckload(record []string) (*entities.Truckload, error) {
	start, err := parseOptionalDate("start_date", record[3])
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", record[4])
	if err != nil {
		return nil, err
	}

	return entities.NewTruckload(
		entities.TruckloadID(strings.TrimSpace(record[0])),
		entities.DriverID(strings.TrimSpace(record[1])),
		strings.TrimSpace(record[2]),
		start,
		end,
	)
}

func parseDriverSettings(record []string) (*entities.DriverSettings, error) {
	driverID := entities.DriverID(strings.TrimSpace(record[0]))
	if driverID == "" {
		return nil, fmt.Errorf("driver_id cannot be empty")
	}

	settings := &entities.DriverSettings{DriverID: driverID}
	if raw := strings.TrimSpace(record[1]); raw != "" {
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid load_percentage: %s", record[1])
		}
		settings.LoadPercentage = &pct
	}
	return settings, nil
}

func parseAssignment(record []string) (*entities.AssignedOrder, error) {
	legType, err := entities.ParseAssignmentType(record[3])
	if err != nil {
		return nil, err
	}

	sequence, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid sequence: %s", record[4])
	}

	var freightQuote *string
	if raw := record[5]; strings.TrimSpace(raw) != "" && !strings.EqualFold(strings.TrimSpace(raw), "NULL") {
		freightQuote = &raw
	}

	order, err := entities.NewAssignedOrder(
		strings.TrimSpace(record[0]),
		entities.OrderID(strings.TrimSpace(record[1])),
		entities.TruckloadID(strings.TrimSpace(record[2])),
		legType,
		sequence,
		freightQuote,
	)
	if err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(record[6]); raw != "" && !strings.EqualFold(raw, "NULL") {
		quote, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid assignment_quote: %s", record[6])
		}
		order.AssignmentQuote = &quote
	}

	order.SplitPending, err = parseOptionalBool("split_pending", record[7])
	if err != nil {
		return nil, err
	}
	order.PickupCustomer = strings.TrimSpace(record[8])
	order.DeliveryCustomer = strings.TrimSpace(record[9])

	return order, nil
}

func parseAdjustment(record []string) (entities.Adjustment, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %s", record[4])
	}

	isAddition, err := parseOptionalBool("is_addition", record[6])
	if err != nil {
		return nil, err
	}

	date, err := parseOptionalDate("date", record[9])
	if err != nil {
		return nil, err
	}

	input := entities.AdjustmentInput{
		ID:           strings.TrimSpace(record[0]),
		Category:     strings.ToLower(strings.TrimSpace(record[1])),
		TruckloadID:  entities.TruckloadID(strings.TrimSpace(record[2])),
		Amount:       amount,
		AppliesTo:    strings.ToLower(strings.TrimSpace(record[5])),
		IsAddition:   isAddition,
		Comment:      strings.TrimSpace(record[7]),
		DriverName:   strings.TrimSpace(record[8]),
		Action:       strings.TrimSpace(record[10]),
		CustomerName: strings.TrimSpace(record[11]),
	}
	if orderID := strings.TrimSpace(record[3]); orderID != "" {
		id := entities.OrderID(orderID)
		input.OrderID = &id
	}
	if !date.IsZero() {
		input.Date = &date
	}

	adjustment, err := entities.NewAdjustment(input)
	if err != nil {
		return nil, describeValidation(err)
	}
	return adjustment, nil
}

func parseSplitLoad(record []string) (*entities.SplitConfiguration, error) {
	fullQuote, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid full_quote: %s", record[1])
	}
	misc, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid misc_value: %s", record[2])
	}
	fullSide, err := entities.ParseAssignmentType(record[3])
	if err != nil {
		return nil, err
	}

	var target entities.Target
	if raw := strings.TrimSpace(record[4]); raw != "" {
		if target, err = entities.ParseTarget(raw); err != nil {
			return nil, err
		}
	}

	return entities.NewSplitConfiguration(
		entities.OrderID(strings.TrimSpace(record[0])),
		fullQuote,
		misc,
		fullSide,
		target,
	)
}

func parseOptionalDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, raw)
	}
	return t, nil
}

func parseOptionalBool(field, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", field, raw)
	}
	return b, nil
}

// describeValidation flattens field messages into the error text so row
// errors read on one line
func describeValidation(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || len(details) == 0 {
		return err
	}

	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+details[field])
	}
	return fmt.Errorf("%s: %s: %w", typed.Message(), strings.Join(parts, "; "), err)
}
