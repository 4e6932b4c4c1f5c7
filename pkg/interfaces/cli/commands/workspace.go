package commands

import (
	"fmt"
	"os"

	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	csvrepo "github.com/vsinha/freightpay/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/freightpay/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/freightpay/pkg/logger"
)

// workspace is a scenario directory loaded into in-memory repositories
type workspace struct {
	dir      string
	scenario *csvrepo.Scenario
	repos    csvrepo.Repositories
	stores   services.Stores
	events   *events.InMemoryEventStore
}

func openWorkspace(dir string, log *logger.Logger, verbose bool) (*workspace, error) {
	if dir == "" {
		return nil, fmt.Errorf("must specify -scenario directory")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("scenario directory not found: %s", dir)
	}

	if verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	scenario, err := csvrepo.NewLoader().LoadScenario(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	orders := memory.NewOrderRepository(len(scenario.Assignments))
	adjustments := memory.NewAdjustmentRepository()
	truckloads := memory.NewTruckloadRepository()
	drivers := memory.NewDriverSettingsRepository()
	splits := memory.NewSplitConfigRepository()

	repos := csvrepo.Repositories{
		Orders:      orders,
		Adjustments: adjustments,
		Truckloads:  truckloads,
		Drivers:     drivers,
		Splits:      splits,
	}
	if err := scenario.Populate(repos); err != nil {
		return nil, err
	}

	if verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Truckloads: %d\n", len(scenario.Truckloads))
		fmt.Printf("  Driver settings: %d\n", len(scenario.Drivers))
		fmt.Printf("  Assignments: %d\n", len(scenario.Assignments))
		fmt.Printf("  Adjustments: %d\n", len(scenario.Adjustments))
		fmt.Printf("  Split loads: %d\n\n", len(scenario.Splits))
	}

	return &workspace{
		dir:      dir,
		scenario: scenario,
		repos:    repos,
		stores: services.Stores{
			Orders:      orders,
			Adjustments: adjustments,
			Truckloads:  truckloads,
			Drivers:     drivers,
			Splits:      splits,
			Settlements: memory.NewSettlementRepository(),
		},
		events: events.NewInMemoryEventStore(log),
	}, nil
}

// save writes the current repository state back to the scenario directory
func (w *workspace) save() error {
	scenario, err := csvrepo.ScenarioFromRepositories(w.repos)
	if err != nil {
		return err
	}
	if err := csvrepo.NewWriter().WriteScenario(w.dir, scenario); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

// saveSettlements writes the stored settlement snapshots beside the scenario
func (w *workspace) saveSettlements() (int, error) {
	snapshots, err := w.stores.Settlements.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read settlement snapshots: %w", err)
	}
	if err := csvrepo.NewWriter().WriteSettlements(w.dir, snapshots); err != nil {
		return 0, fmt.Errorf("failed to write settlement snapshots: %w", err)
	}
	return len(snapshots), nil
}

func (w *workspace) eventCount() int {
	all, err := w.events.ReadAllEvents(0)
	if err != nil {
		return 0
	}
	return len(all)
}

func logOrNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}
