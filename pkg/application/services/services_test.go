package services

import (
	"testing"

	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/freightpay/pkg/infrastructure/testing"
	"github.com/vsinha/freightpay/pkg/logger"
)

type testEnv struct {
	scenario *testhelpers.Scenario
	stores   Stores
	events   *events.InMemoryEventStore
	splits   *SplitLoadService
	payroll  *PayrollService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvFrom(t, testhelpers.BuildBrokerageScenario())
}

func newTestEnvFrom(t *testing.T, scenario *testhelpers.Scenario) *testEnv {
	t.Helper()
	stores := Stores{
		Orders:      scenario.Orders,
		Adjustments: scenario.Adjustments,
		Truckloads:  scenario.Truckloads,
		Drivers:     scenario.Drivers,
		Splits:      scenario.Splits,
		Settlements: scenario.Settlements,
	}
	log := logger.Nop()
	eventStore := events.NewInMemoryEventStore(log)
	splits := NewSplitLoadService(stores, eventStore, log)
	return &testEnv{
		scenario: scenario,
		stores:   stores,
		events:   eventStore,
		splits:   splits,
		payroll:  NewPayrollService(DefaultPayrollConfig(), stores, splits, eventStore, log),
	}
}

func (e *testEnv) eventTypes(t *testing.T, stream string) []string {
	t.Helper()
	recorded, err := e.events.ReadEvents(stream, 0)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	types := make([]string, 0, len(recorded))
	for _, event := range recorded {
		types = append(types, event.Type())
	}
	return types
}
