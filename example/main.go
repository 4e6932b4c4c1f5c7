package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/services/payroll"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	"github.com/vsinha/freightpay/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/freightpay/pkg/logger"
)

func main() {
	ctx := context.Background()

	fmt.Println("🧮 Engine only: one truckload, two orders")
	engineOnly()

	fmt.Println()
	fmt.Println("🚚 Services: splitting an order across two truckloads")
	if err := withServices(ctx); err != nil {
		log.Fatal(err)
	}
}

// engineOnly feeds the calculator directly. ORD-B's leg here carries the
// 150.00 misc portion of a split, so only ORD-A's quote counts.
func engineOnly() {
	quoteA, quoteB := "500.00", "400.00"
	misc := decimal.RequireFromString("150.00")

	orders := []entities.AssignedOrder{
		{AssignmentID: "A-1", OrderID: "ORD-A", TruckloadID: "TL-1", Type: entities.Delivery, Sequence: 1, FreightQuote: &quoteA},
		{AssignmentID: "A-2", OrderID: "ORD-B", TruckloadID: "TL-1", Type: entities.Pickup, Sequence: 2, FreightQuote: &quoteB, AssignmentQuote: &misc},
	}

	fuel := "fuel advance"
	orderA := entities.OrderID("ORD-A")
	adjustments := entities.AdjustmentSet{
		Manual: []entities.ManualAdjustment{{AdjustmentBase: entities.AdjustmentBase{
			ID: "MAN-1", TruckloadID: "TL-1", Amount: decimal.RequireFromString("50.00"),
			AppliesTo: entities.TargetLoadValue, Comment: &fuel,
		}}},
		CrossDriver: []entities.CrossDriverDeduction{{AdjustmentBase: entities.AdjustmentBase{
			ID: "CD-1", TruckloadID: "TL-1", OrderID: &orderA, Amount: decimal.RequireFromString("20.00"),
			AppliesTo: entities.TargetDriverPay,
		}}},
	}

	b := payroll.ComputePayroll(orders, adjustments, decimal.NewFromInt(30))
	printBreakdown(b)
}

func withServices(ctx context.Context) error {
	stores := services.Stores{
		Orders:      memory.NewOrderRepository(4),
		Adjustments: memory.NewAdjustmentRepository(),
		Truckloads:  memory.NewTruckloadRepository(),
		Drivers:     memory.NewDriverSettingsRepository(),
		Splits:      memory.NewSplitConfigRepository(),
		Settlements: memory.NewSettlementRepository(),
	}

	week := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	tl1, err := entities.NewTruckload("TL-1", "DRV-1", "Ana Reyes", week, week.AddDate(0, 0, 4))
	if err != nil {
		return err
	}
	tl2, err := entities.NewTruckload("TL-2", "DRV-2", "Ben Cho", week, week.AddDate(0, 0, 4))
	if err != nil {
		return err
	}
	if err := stores.Truckloads.LoadTruckloads([]*entities.Truckload{tl1, tl2}); err != nil {
		return err
	}

	pct := decimal.NewFromInt(30)
	if err := stores.Drivers.LoadSettings([]*entities.DriverSettings{{DriverID: "DRV-1", LoadPercentage: &pct}}); err != nil {
		return err
	}

	quote := "400.00"
	pickup, err := entities.NewAssignedOrder("A-1", "ORD-B", "TL-1", entities.Pickup, 1, &quote)
	if err != nil {
		return err
	}
	delivery, err := entities.NewAssignedOrder("A-2", "ORD-B", "TL-2", entities.Delivery, 1, &quote)
	if err != nil {
		return err
	}
	if err := stores.Orders.LoadAssignments([]*entities.AssignedOrder{pickup, delivery}); err != nil {
		return err
	}

	logs := logger.New(logger.Options{ServiceName: "freightpay-example", Format: "console"})
	eventStore := events.NewInMemoryEventStore(logs)
	splits := services.NewSplitLoadService(stores, eventStore, logs)
	payrollService := services.NewPayrollService(services.DefaultPayrollConfig(), stores, splits, eventStore, logs)

	result, err := splits.Configure(ctx, "ORD-B", decimal.RequireFromString("150.00"), "delivery", "load_value")
	if err != nil {
		return err
	}
	fmt.Printf("ORD-B is now %s; %d split-load records created\n", result.State, len(result.CreatedIDs))

	run, err := payrollService.CalculateAll(ctx)
	if err != nil {
		return err
	}
	for _, statement := range run.Statements {
		fmt.Printf("\n%s (%s)\n", statement.TruckloadID, statement.DriverName)
		printBreakdown(statement.Breakdown)
	}
	for _, split := range run.Splits {
		fmt.Printf("\n%s counted %s of %s across truckloads (balanced: %t)\n",
			split.OrderID, split.QuoteCounted.StringFixed(2), split.FullQuote.StringFixed(2), split.Balanced)
	}
	return nil
}

func printBreakdown(b entities.PayrollBreakdown) {
	fmt.Printf("  Total quotes:     %s\n", b.TotalQuotes.StringFixed(2))
	fmt.Printf("  Load value:       %s\n", b.LoadValue.StringFixed(2))
	fmt.Printf("  Base driver pay:  %s (%s%%)\n", b.BaseDriverPay.StringFixed(2), b.DriverLoadPercentage.StringFixed(2))
	fmt.Printf("  Final driver pay: %s\n", b.FinalDriverPay.StringFixed(2))
	for _, a := range b.Advisories {
		fmt.Printf("  ⚠️  %s\n", a.Message)
	}
}
