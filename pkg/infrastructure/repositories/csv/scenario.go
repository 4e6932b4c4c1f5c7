package csv

import (
	"fmt"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
)

// Scenario is the content of a scenario directory
type Scenario struct {
	Truckloads  []*entities.Truckload
	Drivers     []*entities.DriverSettings
	Assignments []*entities.AssignedOrder
	Adjustments []entities.Adjustment
	Splits      []*entities.SplitConfiguration
}

// Repositories is the set of stores a scenario is loaded into
type Repositories struct {
	Orders      repositories.OrderRepository
	Adjustments repositories.AdjustmentRepository
	Truckloads  repositories.TruckloadRepository
	Drivers     repositories.DriverSettingsRepository
	Splits      repositories.SplitConfigRepository
}

// Populate loads the scenario into the repositories
func (s *Scenario) Populate(repos Repositories) error {
	if err := repos.Truckloads.LoadTruckloads(s.Truckloads); err != nil {
		return fmt.Errorf("failed to load truckloads: %w", err)
	}
	if err := repos.Drivers.LoadSettings(s.Drivers); err != nil {
		return fmt.Errorf("failed to load driver settings: %w", err)
	}
	if err := repos.Orders.LoadAssignments(s.Assignments); err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	if err := repos.Adjustments.LoadAdjustments(s.Adjustments); err != nil {
		return fmt.Errorf("failed to load adjustments: %w", err)
	}
	for _, cfg := range s.Splits {
		if err := repos.Splits.SaveConfiguration(cfg); err != nil {
			return fmt.Errorf("failed to load split configuration for %s: %w", cfg.OrderID, err)
		}
	}
	return nil
}

// ScenarioFromRepositories reads the current repository state back into a Scenario
func ScenarioFromRepositories(repos Repositories) (*Scenario, error) {
	truckloads, err := repos.Truckloads.GetAllTruckloads()
	if err != nil {
		return nil, fmt.Errorf("failed to read truckloads: %w", err)
	}
	drivers, err := repos.Drivers.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read driver settings: %w", err)
	}
	orders, err := repos.Orders.GetAllAssignments()
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	adjustments, err := repos.Adjustments.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjustments: %w", err)
	}
	splits, err := repos.Splits.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read split configurations: %w", err)
	}

	assignments := make([]*entities.AssignedOrder, 0, len(orders))
	for i := range orders {
		assignments = append(assignments, &orders[i])
	}

	return &Scenario{
		Truckloads:  truckloads,
		Drivers:     drivers,
		Assignments: assignments,
		Adjustments: adjustments,
		Splits:      splits,
	}, nil
}
