package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	csvrepo "github.com/vsinha/freightpay/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/freightpay/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/freightpay/pkg/logger"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Truckloads int    // Number of truckloads to generate
	Orders     int    // Number of orders spread across the truckloads
	Splits     int    // Number of orders to configure as split loads
	OutputDir  string // Output directory for generated files
	Seed       int64  // Random seed for reproducible generation
	Help       bool   // Show help
	Verbose    bool   // Verbose output

	Logger *logger.Logger
}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	log    *logger.Logger
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		log:    logOrNop(config.Logger),
	}
}

// orderLayout is where the legs of a generated order ride
type orderLayout int

const (
	layoutTransfer  orderLayout = iota // both legs on one truckload
	layoutCrossLoad                    // legs on two truckloads
	layoutOneLeg                       // second leg not yet assigned
)

type generatedOrder struct {
	id     entities.OrderID
	layout orderLayout
	quote  *string
	amount decimal.Decimal
	usable bool
}

var (
	generatorWeek = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	driverNames = []string{
		"Ana Reyes", "Ben Cho", "Carla Diaz", "Dev Patel", "Erin Walsh",
		"Femi Okafor", "Gus Lindqvist", "Hana Sato",
	}
	customers = []string{
		"Acme Foods", "Bay Grocers", "Cascade Paper", "Delta Steel",
		"Evergreen Farms", "Fulton Supply", "Granite Builders", "Harbor Imports",
	}
	manualComments = []string{
		"fuel advance", "lumper fee", "detention pay", "tarp pay",
		"toll reimbursement", "late delivery", "damaged pallet",
	}
)

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validateInputs(); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Printf(
			"🔧 Generating scenario with %d truckloads, %d orders, %d split loads\n",
			cmd.config.Truckloads,
			cmd.config.Orders,
			cmd.config.Splits,
		)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	orders := memory.NewOrderRepository(cmd.config.Orders * 2)
	adjustments := memory.NewAdjustmentRepository()
	truckloads := memory.NewTruckloadRepository()
	drivers := memory.NewDriverSettingsRepository()
	splits := memory.NewSplitConfigRepository()

	if cmd.config.Verbose {
		fmt.Println("🚚 Generating truckloads and drivers...")
	}
	generatedTruckloads, settings, err := cmd.generateTruckloads()
	if err != nil {
		return fmt.Errorf("failed to generate truckloads: %w", err)
	}
	if err := truckloads.LoadTruckloads(generatedTruckloads); err != nil {
		return err
	}
	if err := drivers.LoadSettings(settings); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Println("📦 Generating orders...")
	}
	generatedOrders, assignments, err := cmd.generateOrders(generatedTruckloads)
	if err != nil {
		return fmt.Errorf("failed to generate orders: %w", err)
	}
	if err := orders.LoadAssignments(assignments); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Println("🧾 Generating deductions and additions...")
	}
	generatedAdjustments, err := cmd.generateAdjustments(generatedTruckloads, assignments)
	if err != nil {
		return fmt.Errorf("failed to generate adjustments: %w", err)
	}
	if err := adjustments.LoadAdjustments(generatedAdjustments); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Println("✂️  Configuring split loads...")
	}
	stores := services.Stores{
		Orders:      orders,
		Adjustments: adjustments,
		Truckloads:  truckloads,
		Drivers:     drivers,
		Splits:      splits,
		Settlements: memory.NewSettlementRepository(),
	}
	configured, err := cmd.configureSplits(ctx, services.NewSplitLoadService(stores, nil, cmd.log), generatedOrders)
	if err != nil {
		return fmt.Errorf("failed to configure split loads: %w", err)
	}

	scenario, err := csvrepo.ScenarioFromRepositories(csvrepo.Repositories{
		Orders:      orders,
		Adjustments: adjustments,
		Truckloads:  truckloads,
		Drivers:     drivers,
		Splits:      splits,
	})
	if err != nil {
		return err
	}
	if err := csvrepo.NewWriter().WriteScenario(cmd.config.OutputDir, scenario); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("  Assignments: %d\n", len(scenario.Assignments))
		fmt.Printf("  Adjustments: %d\n", len(scenario.Adjustments))
		fmt.Printf("  Split loads: %d\n", configured)
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

// validateInputs validates the generator configuration
func (cmd *GenerateCommand) validateInputs() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("must specify -output directory")
	}
	if cmd.config.Truckloads < 1 {
		return fmt.Errorf("truckloads must be at least 1, got %d", cmd.config.Truckloads)
	}
	if cmd.config.Orders < 1 {
		return fmt.Errorf("orders must be at least 1, got %d", cmd.config.Orders)
	}
	if cmd.config.Splits < 0 || cmd.config.Splits > cmd.config.Orders {
		return fmt.Errorf("splits must be between 0 and %d, got %d", cmd.config.Orders, cmd.config.Splits)
	}
	return nil
}

// generateTruckloads spreads truckloads over a pool of drivers, one week each.
// About one driver in five has no load percentage on file.
func (cmd *GenerateCommand) generateTruckloads() ([]*entities.Truckload, []*entities.DriverSettings, error) {
	driverCount := min(len(driverNames), max(1, (cmd.config.Truckloads+1)/2))

	var settings []*entities.DriverSettings
	for i := 0; i < driverCount; i++ {
		if cmd.rand.Float64() < 0.2 {
			continue
		}
		pct := decimal.NewFromInt(int64(25 + cmd.rand.Intn(11)))
		settings = append(settings, &entities.DriverSettings{
			DriverID:       driverID(i),
			LoadPercentage: &pct,
		})
	}

	truckloads := make([]*entities.Truckload, 0, cmd.config.Truckloads)
	for i := 0; i < cmd.config.Truckloads; i++ {
		driver := i % driverCount
		start := generatorWeek.AddDate(0, 0, 7*(i/driverCount))
		truckload, err := entities.NewTruckload(
			entities.TruckloadID(fmt.Sprintf("TL-%04d", i+1)),
			driverID(driver),
			driverNames[driver],
			start,
			start.AddDate(0, 0, 4),
		)
		if err != nil {
			return nil, nil, err
		}
		truckloads = append(truckloads, truckload)
	}

	return truckloads, settings, nil
}

func driverID(i int) entities.DriverID {
	return entities.DriverID(fmt.Sprintf("DRV-%02d", i+1))
}

// generateOrders places each order's legs. Cross-load orders need two truckloads.
func (cmd *GenerateCommand) generateOrders(truckloads []*entities.Truckload) ([]generatedOrder, []*entities.AssignedOrder, error) {
	sequences := make(map[entities.TruckloadID]int)
	nextSequence := func(id entities.TruckloadID) int {
		sequences[id]++
		return sequences[id]
	}

	var orders []generatedOrder
	var assignments []*entities.AssignedOrder

	for i := 0; i < cmd.config.Orders; i++ {
		order := cmd.generateQuote(entities.OrderID(fmt.Sprintf("ORD-%05d", i+1)))

		roll := cmd.rand.Float64()
		switch {
		case roll < 0.1:
			order.layout = layoutOneLeg
		case roll < 0.55 && len(truckloads) > 1:
			order.layout = layoutCrossLoad
		default:
			order.layout = layoutTransfer
		}

		pickupTL := truckloads[cmd.rand.Intn(len(truckloads))]
		deliveryTL := pickupTL
		if order.layout == layoutCrossLoad {
			for deliveryTL.ID == pickupTL.ID {
				deliveryTL = truckloads[cmd.rand.Intn(len(truckloads))]
			}
		}

		pickupCustomer := customers[cmd.rand.Intn(len(customers))]
		deliveryCustomer := customers[cmd.rand.Intn(len(customers))]

		legs := []struct {
			legType   entities.AssignmentType
			truckload *entities.Truckload
		}{
			{entities.Pickup, pickupTL},
			{entities.Delivery, deliveryTL},
		}
		if order.layout == layoutOneLeg {
			legs = legs[:1]
			if cmd.rand.Intn(2) == 0 {
				legs[0].legType = entities.Delivery
			}
		}

		for _, leg := range legs {
			assignment, err := entities.NewAssignedOrder(
				cmd.newID("A"),
				order.id,
				leg.truckload.ID,
				leg.legType,
				nextSequence(leg.truckload.ID),
				cloneQuote(order.quote),
			)
			if err != nil {
				return nil, nil, err
			}
			assignment.PickupCustomer = pickupCustomer
			assignment.DeliveryCustomer = deliveryCustomer
			assignments = append(assignments, assignment)
		}

		orders = append(orders, order)
	}

	return orders, assignments, nil
}

// generateQuote produces the mix of quote spellings dispatchers actually type
func (cmd *GenerateCommand) generateQuote(id entities.OrderID) generatedOrder {
	cents := int64(15000 + cmd.rand.Intn(285000))
	amount := decimal.New(cents, -2)
	order := generatedOrder{id: id, amount: amount, usable: true}

	var raw string
	roll := cmd.rand.Float64()
	switch {
	case roll < 0.03:
		order.usable = false
		return order
	case roll < 0.08:
		raw = "TBD"
		order.usable = false
	case roll < 0.35:
		raw = "$" + groupThousands(amount.StringFixed(2))
	case roll < 0.5:
		raw = amount.Round(0).String()
	default:
		raw = amount.StringFixed(2)
	}
	order.quote = &raw
	return order
}

// generateAdjustments adds manual and cross-driver records to about a third
// of the truckloads each
func (cmd *GenerateCommand) generateAdjustments(
	truckloads []*entities.Truckload,
	assignments []*entities.AssignedOrder,
) ([]entities.Adjustment, error) {
	ordersByTruckload := make(map[entities.TruckloadID][]*entities.AssignedOrder)
	for _, a := range assignments {
		ordersByTruckload[a.TruckloadID] = append(ordersByTruckload[a.TruckloadID], a)
	}

	var adjustments []entities.Adjustment
	for _, truckload := range truckloads {
		if cmd.rand.Float64() < 0.35 {
			target := entities.TargetLoadValue
			if cmd.rand.Intn(2) == 0 {
				target = entities.TargetDriverPay
			}
			adjustment, err := entities.NewAdjustment(entities.AdjustmentInput{
				ID:          cmd.newID("MAN"),
				Category:    string(entities.CategoryManual),
				TruckloadID: truckload.ID,
				Amount:      decimal.New(int64(1000+cmd.rand.Intn(14000)), -2),
				AppliesTo:   string(target),
				IsAddition:  cmd.rand.Intn(3) == 0,
				Comment:     manualComments[cmd.rand.Intn(len(manualComments))],
			})
			if err != nil {
				return nil, err
			}
			adjustments = append(adjustments, adjustment)
		}

		legs := ordersByTruckload[truckload.ID]
		if len(legs) == 0 || cmd.rand.Float64() >= 0.3 {
			continue
		}

		var otherDrivers []*entities.Truckload
		for _, other := range truckloads {
			if other.DriverID != truckload.DriverID {
				otherDrivers = append(otherDrivers, other)
			}
		}
		if len(otherDrivers) == 0 {
			continue
		}

		leg := legs[cmd.rand.Intn(len(legs))]
		other := otherDrivers[cmd.rand.Intn(len(otherDrivers))]

		orderID := leg.OrderID
		date := truckload.StartDate.AddDate(0, 0, cmd.rand.Intn(5))
		customer := leg.PickupCustomer
		if leg.Type == entities.Delivery {
			customer = leg.DeliveryCustomer
		}
		adjustment, err := entities.NewAdjustment(entities.AdjustmentInput{
			ID:           cmd.newID("CD"),
			Category:     string(entities.CategoryCrossDriver),
			TruckloadID:  truckload.ID,
			OrderID:      &orderID,
			Amount:       decimal.New(int64(2000+cmd.rand.Intn(8000)), -2),
			AppliesTo:    string(entities.TargetDriverPay),
			DriverName:   other.DriverName,
			Date:         &date,
			Action:       leg.Type.String(),
			CustomerName: customer,
		})
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adjustment)
	}

	return adjustments, nil
}

// configureSplits splits orders with a usable quote. One-leg orders become
// pending splits.
func (cmd *GenerateCommand) configureSplits(
	ctx context.Context,
	splits *services.SplitLoadService,
	orders []generatedOrder,
) (int, error) {
	var candidates []generatedOrder
	for _, order := range orders {
		if order.usable && order.layout != layoutTransfer {
			candidates = append(candidates, order)
		}
	}
	cmd.rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	configured := 0
	for _, order := range candidates {
		if configured == cmd.config.Splits {
			break
		}

		share := decimal.NewFromInt(int64(10 + cmd.rand.Intn(31))).Div(decimal.NewFromInt(100))
		misc := order.amount.Mul(share).Round(2)
		if !misc.IsPositive() {
			continue
		}

		fullSide := entities.Delivery
		if cmd.rand.Intn(2) == 0 {
			fullSide = entities.Pickup
		}
		appliesTo := entities.TargetLoadValue
		if cmd.rand.Float64() < 0.2 {
			appliesTo = entities.TargetDriverPay
		}

		if _, err := splits.Configure(ctx, order.id, misc, fullSide.String(), string(appliesTo)); err != nil {
			return configured, err
		}
		configured++
	}

	return configured, nil
}

// newID returns a prefixed identifier drawn from the seeded source, so the
// same seed yields the same files
func (cmd *GenerateCommand) newID(prefix string) string {
	id, err := uuid.NewRandomFromReader(cmd.rand)
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, cmd.rand.Int63())
	}
	return prefix + "-" + id.String()[:8]
}

func cloneQuote(q *string) *string {
	if q == nil {
		return nil
	}
	v := *q
	return &v
}

// groupThousands inserts commas into the integer part of a fixed-point string
func groupThousands(fixed string) string {
	dot := len(fixed)
	for i, r := range fixed {
		if r == '.' {
			dot = i
			break
		}
	}
	whole, rest := fixed[:dot], fixed[dot:]

	out := make([]byte, 0, len(fixed)+len(whole)/3)
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return string(out) + rest
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Println(`Freight Payroll Scenario Generator

USAGE:
    freightpay generate [OPTIONS]

OPTIONS:
    -output <DIR>       Output directory for generated files (required)
    -truckloads <N>     Number of truckloads to generate (default: 6)
    -orders <N>         Number of orders to generate (default: 20)
    -splits <N>         Number of orders to configure as split loads (default: 3)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

The generated scenario mixes transfer orders (both legs on one truckload),
orders split across two truckloads, orders with only one leg assigned, quotes
typed as "$1,234.50", "1235" or "TBD", and manual and cross-driver records.

EXAMPLES:
    # Generate a small scenario
    freightpay generate -output ./test_scenario

    # Generate a larger reproducible scenario
    freightpay generate -truckloads 40 -orders 300 -splits 25 -output ./large_scenario -seed 12345 -verbose`)
}
