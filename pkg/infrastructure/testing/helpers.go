package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/infrastructure/repositories/memory"
)

// Scenario holds populated in-memory repositories
type Scenario struct {
	Orders      *memory.OrderRepository
	Adjustments *memory.AdjustmentRepository
	Truckloads  *memory.TruckloadRepository
	Drivers     *memory.DriverSettingsRepository
	Splits      *memory.SplitConfigRepository
	Settlements *memory.SettlementRepository
}

// NewScenario returns empty repositories
func NewScenario() *Scenario {
	return &Scenario{
		Orders:      memory.NewOrderRepository(16),
		Adjustments: memory.NewAdjustmentRepository(),
		Truckloads:  memory.NewTruckloadRepository(),
		Drivers:     memory.NewDriverSettingsRepository(),
		Splits:      memory.NewSplitConfigRepository(),
		Settlements: memory.NewSettlementRepository(),
	}
}

// BuildBrokerageScenario builds a week of three truckloads:
//
//	TL-100  DRV-1 (30%)   ORD-A delivery 500.00, ORD-B pickup 400.00,
//	                      manual 50.00 off load value, cross-driver 20.00 off driver pay
//	TL-200  DRV-2 (none)  ORD-B delivery 400.00, ORD-T pickup+delivery $1,200.00,
//	                      ORD-X delivery "TBD"
//	TL-300  DRV-1 (30%)   ORD-P pickup 300.00, ORD-C delivery 250.00
//
// ORD-B is configured as a split with misc 150.00 on the pickup side; the
// legs are left unreconciled. ORD-P is configured as a split whose delivery
// leg has not been assigned yet.
func BuildBrokerageScenario() *Scenario {
	s := NewScenario()
	week := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mustLoad(s.Truckloads.LoadTruckloads([]*entities.Truckload{
		mustCreateTruckload("TL-100", "DRV-1", "Ana Reyes", week),
		mustCreateTruckload("TL-200", "DRV-2", "Ben Cho", week),
		mustCreateTruckload("TL-300", "DRV-1", "Ana Reyes", week.AddDate(0, 0, 7)),
	}))

	pct := decimal.RequireFromString("30")
	mustLoad(s.Drivers.LoadSettings([]*entities.DriverSettings{
		{DriverID: "DRV-1", LoadPercentage: &pct},
	}))

	mustLoad(s.Orders.LoadAssignments([]*entities.AssignedOrder{
		mustCreateAssignment("A-1", "ORD-A", "TL-100", entities.Delivery, 1, "500.00"),
		mustCreateAssignment("A-2", "ORD-B", "TL-100", entities.Pickup, 2, "400.00"),
		mustCreateAssignment("A-3", "ORD-B", "TL-200", entities.Delivery, 1, "400.00"),
		mustCreateAssignment("A-4", "ORD-T", "TL-200", entities.Pickup, 2, "$1,200.00"),
		mustCreateAssignment("A-5", "ORD-T", "TL-200", entities.Delivery, 3, "$1,200.00"),
		mustCreateAssignment("A-6", "ORD-X", "TL-200", entities.Delivery, 4, "TBD"),
		mustCreateAssignment("A-7", "ORD-P", "TL-300", entities.Pickup, 1, "300.00"),
		mustCreateAssignment("A-8", "ORD-C", "TL-300", entities.Delivery, 2, "250.00"),
	}))

	orderA := entities.OrderID("ORD-A")
	mustLoad(s.Adjustments.LoadAdjustments([]entities.Adjustment{
		mustCreateAdjustment(entities.AdjustmentInput{
			ID:          "MAN-1",
			Category:    string(entities.CategoryManual),
			TruckloadID: "TL-100",
			Amount:      decimal.RequireFromString("50.00"),
			AppliesTo:   string(entities.TargetLoadValue),
			Comment:     "fuel advance",
		}),
		mustCreateAdjustment(entities.AdjustmentInput{
			ID:           "CD-1",
			Category:     string(entities.CategoryCrossDriver),
			TruckloadID:  "TL-100",
			OrderID:      &orderA,
			Amount:       decimal.RequireFromString("20.00"),
			AppliesTo:    string(entities.TargetDriverPay),
			DriverName:   "Sam Ortiz",
			Action:       "delivery",
			CustomerName: "Harbor Foods",
		}),
	}))

	mustLoad(s.Splits.SaveConfiguration(mustCreateSplit("ORD-B", "400.00", "150.00", entities.Delivery)))
	mustLoad(s.Splits.SaveConfiguration(mustCreateSplit("ORD-P", "300.00", "100.00", entities.Delivery)))

	return s
}

func mustLoad(err error) {
	if err != nil {
		panic(err)
	}
}

// mustCreateTruckload is a helper for tests - panics on validation error
func mustCreateTruckload(id, driverID, driverName string, start time.Time) *entities.Truckload {
	truckload, err := entities.NewTruckload(
		entities.TruckloadID(id),
		entities.DriverID(driverID),
		driverName,
		start,
		start.AddDate(0, 0, 4),
	)
	if err != nil {
		panic(err)
	}
	return truckload
}

// mustCreateAssignment is a helper for tests - panics on validation error
func mustCreateAssignment(
	id, orderID, truckloadID string,
	legType entities.AssignmentType,
	sequence int,
	quote string,
) *entities.AssignedOrder {
	order, err := entities.NewAssignedOrder(
		id,
		entities.OrderID(orderID),
		entities.TruckloadID(truckloadID),
		legType,
		sequence,
		&quote,
	)
	if err != nil {
		panic(err)
	}
	return order
}

// mustCreateAdjustment is a helper for tests - panics on validation error
func mustCreateAdjustment(input entities.AdjustmentInput) entities.Adjustment {
	adjustment, err := entities.NewAdjustment(input)
	if err != nil {
		panic(err)
	}
	return adjustment
}

// mustCreateSplit is a helper for tests - panics on validation error
func mustCreateSplit(orderID, fullQuote, misc string, fullSide entities.AssignmentType) *entities.SplitConfiguration {
	cfg, err := entities.NewSplitConfiguration(
		entities.OrderID(orderID),
		decimal.RequireFromString(fullQuote),
		decimal.RequireFromString(misc),
		fullSide,
		entities.TargetLoadValue,
	)
	if err != nil {
		panic(err)
	}
	return cfg
}
