package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/infrastructure/repositories/memory"
)

func memoryRepositories() Repositories {
	return Repositories{
		Orders:      memory.NewOrderRepository(8),
		Adjustments: memory.NewAdjustmentRepository(),
		Truckloads:  memory.NewTruckloadRepository(),
		Drivers:     memory.NewDriverSettingsRepository(),
		Splits:      memory.NewSplitConfigRepository(),
	}
}

// A scenario written by Writer loads back into the same repository state
func TestWriter_ScenarioRoundTrip(t *testing.T) {
	src := writeBasicScenario(t)
	writeFile(t, src, DriversFile, "driver_id,load_percentage\nDRV-1,27.5\n")
	writeFile(t, src, AdjustmentsFile, `id,category,truckload_id,order_id,amount,applies_to,is_addition,comment,driver_name,date,action,customer_name
CD-1,cross_driver,TL-1,ORD-A,20.00,driver_pay,false,,Sam Ortiz,2025-03-04,delivery,Harbor Foods
S-1,split_load,TL-1,ORD-B,150,load_value,true,split load ORD-B,,,,
`)
	writeFile(t, src, SplitLoadsFile, "order_id,full_quote,misc_value,full_side,applies_to\nORD-B,1400,150,delivery,load_value\n")

	loader := NewLoader()
	original, err := loader.LoadScenario(src)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	repos := memoryRepositories()
	if err := original.Populate(repos); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	snapshot, err := ScenarioFromRepositories(repos)
	if err != nil {
		t.Fatalf("ScenarioFromRepositories failed: %v", err)
	}

	dst := t.TempDir()
	if err := NewWriter().WriteScenario(dst, snapshot); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}
	reloaded, err := loader.LoadScenario(dst)
	if err != nil {
		t.Fatalf("LoadScenario of written scenario failed: %v", err)
	}

	if len(reloaded.Assignments) != len(original.Assignments) {
		t.Fatalf("Expected %d assignments, got %d", len(original.Assignments), len(reloaded.Assignments))
	}
	for i, want := range original.Assignments {
		got := reloaded.Assignments[i]
		if got.AssignmentID != want.AssignmentID || got.RawQuote() != want.RawQuote() || got.Type != want.Type {
			t.Errorf("Assignment %d: expected %+v, got %+v", i, want, got)
		}
		if (got.AssignmentQuote == nil) != (want.AssignmentQuote == nil) {
			t.Errorf("Assignment %d: assignment quote presence changed", i)
		}
	}

	if len(reloaded.Adjustments) != 2 {
		t.Fatalf("Expected 2 adjustments, got %d", len(reloaded.Adjustments))
	}
	split, ok := reloaded.Adjustments[1].(entities.SplitLoadAdjustment)
	if !ok || !split.IsAddition || split.Comment == nil || *split.Comment != "split load ORD-B" {
		t.Errorf("Expected split-load addition to survive round trip, got %+v", reloaded.Adjustments[1])
	}
	cd := reloaded.Adjustments[0].(entities.CrossDriverDeduction)
	if cd.Date == nil || cd.Date.Format("2006-01-02") != "2025-03-04" {
		t.Errorf("Expected cross-driver date to survive round trip, got %v", cd.Date)
	}

	if len(reloaded.Splits) != 1 || reloaded.Splits[0].FullSide != entities.Delivery {
		t.Errorf("Expected split configuration to survive round trip, got %+v", reloaded.Splits)
	}
	if len(reloaded.Drivers) != 1 || reloaded.Drivers[0].LoadPercentage.String() != "27.5" {
		t.Errorf("Expected driver percentage to survive round trip, got %+v", reloaded.Drivers)
	}
}

func TestWriter_WriteSettlements(t *testing.T) {
	dir := t.TempDir()
	snapshots := []*entities.SettlementSnapshot{{
		ID:          "snap-1",
		TruckloadID: "TL-1",
		DriverID:    "DRV-1",
		CreatedAt:   time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC),
		Breakdown: entities.PayrollBreakdown{
			TotalQuotes:          decimal.RequireFromString("500"),
			LoadValue:            decimal.RequireFromString("450"),
			DriverLoadPercentage: decimal.RequireFromString("30"),
			BaseDriverPay:        decimal.RequireFromString("135"),
			FinalDriverPay:       decimal.RequireFromString("115"),
		},
	}}

	if err := NewWriter().WriteSettlements(dir, snapshots); err != nil {
		t.Fatalf("WriteSettlements failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, SettlementsFile))
	if err != nil {
		t.Fatalf("Failed to read settlements: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one row, got %d lines", len(lines))
	}
	want := "snap-1,TL-1,DRV-1,2025-03-07T17:00:00Z,500.00,450.00,30.00,135.00,115.00"
	if lines[1] != want {
		t.Errorf("Expected row %q, got %q", want, lines[1])
	}
}
