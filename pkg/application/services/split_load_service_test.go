package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/freightpay/pkg/infrastructure/testing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func splitRecordsOf(t *testing.T, env *testEnv, orderID entities.OrderID) []entities.Adjustment {
	t.Helper()
	records, err := env.stores.Adjustments.ListByOrder(orderID, entities.CategorySplitLoad)
	require.NoError(t, err)
	return records
}

func TestSplitLoadService_ConfigureBothLegs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.splits.Configure(ctx, "ORD-B", dec("120"), "pickup", "driver_pay")
	require.NoError(t, err)

	assert.Equal(t, entities.Split, result.State)
	assert.True(t, result.Changed)
	assert.Len(t, result.CreatedIDs, 2)
	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.Configuration)
	assert.Equal(t, "400.00", result.Configuration.FullQuote.StringFixed(2))

	pickup, err := env.stores.Orders.GetAssignment("A-2")
	require.NoError(t, err)
	require.NotNil(t, pickup.AssignmentQuote)
	assert.Equal(t, "280.00", pickup.AssignmentQuote.StringFixed(2))
	assert.False(t, pickup.SplitPending)

	delivery, _ := env.stores.Orders.GetAssignment("A-3")
	assert.Equal(t, "120.00", delivery.AssignmentQuote.StringFixed(2))

	records := splitRecordsOf(t, env, "ORD-B")
	require.Len(t, records, 2)
	for _, record := range records {
		base := record.Base()
		assert.Equal(t, entities.TargetDriverPay, base.AppliesTo)
		assert.Equal(t, "120.00", base.Amount.StringFixed(2))
		if base.TruckloadID == "TL-100" {
			assert.False(t, base.IsAddition)
		} else {
			assert.True(t, base.IsAddition)
		}
	}

	state, err := env.splits.State(ctx, "ORD-B")
	require.NoError(t, err)
	assert.Equal(t, entities.Split, state)
	assert.Equal(t, []string{events.SplitAppliedEvent}, env.eventTypes(t, events.OrderStream("ORD-B")))
}

func TestSplitLoadService_ReconfigureReplacesRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.splits.Configure(ctx, "ORD-B", dec("150"), "delivery", "")
	require.NoError(t, err)
	second, err := env.splits.Configure(ctx, "ORD-B", dec("100"), "delivery", "")
	require.NoError(t, err)

	assert.ElementsMatch(t, first.CreatedIDs, second.DeletedIDs)
	assert.Len(t, splitRecordsOf(t, env, "ORD-B"), 2)

	third, err := env.splits.Configure(ctx, "ORD-B", dec("100"), "delivery", "")
	require.NoError(t, err)
	assert.False(t, third.Changed)
}

func TestSplitLoadService_PendingUntilSecondLeg(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.splits.Configure(ctx, "ORD-P", dec("100"), "delivery", "")
	require.NoError(t, err)
	assert.Equal(t, entities.PendingSplit, result.State)
	assert.Empty(t, result.CreatedIDs)

	pickup, _ := env.stores.Orders.GetAssignment("A-7")
	assert.True(t, pickup.SplitPending)
	assert.Equal(t, "100.00", pickup.AssignmentQuote.StringFixed(2))

	quote := "300.00"
	delivery, err := entities.NewAssignedOrder("A-9", "ORD-P", "TL-200", entities.Delivery, 5, &quote)
	require.NoError(t, err)
	require.NoError(t, env.stores.Orders.SaveAssignment(delivery))

	reconciled, err := env.splits.Reconcile(ctx, "ORD-P")
	require.NoError(t, err)
	assert.Equal(t, entities.Split, reconciled.State)
	assert.Len(t, reconciled.CreatedIDs, 2)

	pickup, _ = env.stores.Orders.GetAssignment("A-7")
	assert.False(t, pickup.SplitPending)
	assert.Len(t, splitRecordsOf(t, env, "ORD-P"), 2)

	assert.Equal(t,
		[]string{events.SplitPendingEvent, events.SplitReconciledEvent},
		env.eventTypes(t, events.OrderStream("ORD-P")),
	)

	again, err := env.splits.Reconcile(ctx, "ORD-P")
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Len(t, env.eventTypes(t, events.OrderStream("ORD-P")), 2)
}

func TestSplitLoadService_ReconcileRepairsMissingRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.splits.Configure(ctx, "ORD-B", dec("150"), "delivery", "")
	require.NoError(t, err)
	require.NoError(t, env.stores.Adjustments.Delete(result.CreatedIDs[0]))

	repaired, err := env.splits.Reconcile(ctx, "ORD-B")
	require.NoError(t, err)
	assert.Len(t, repaired.CreatedIDs, 1)
	assert.Len(t, splitRecordsOf(t, env, "ORD-B"), 2)
}

func TestSplitLoadService_Clear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.splits.Configure(ctx, "ORD-B", dec("150"), "delivery", "")
	require.NoError(t, err)

	result, err := env.splits.Clear(ctx, "ORD-B")
	require.NoError(t, err)
	assert.Equal(t, entities.Unsplit, result.State)
	assert.Len(t, result.DeletedIDs, 2)

	for _, id := range []string{"A-2", "A-3"} {
		leg, _ := env.stores.Orders.GetAssignment(id)
		assert.Nil(t, leg.AssignmentQuote)
		assert.False(t, leg.SplitPending)
	}
	assert.Empty(t, splitRecordsOf(t, env, "ORD-B"))

	cfg, _ := env.stores.Splits.GetConfiguration("ORD-B")
	assert.Nil(t, cfg)

	state, _ := env.splits.State(ctx, "ORD-B")
	assert.Equal(t, entities.Unsplit, state)

	statement, err := env.payroll.Calculate(ctx, "TL-100")
	require.NoError(t, err)
	assert.Equal(t, "900.00", statement.Breakdown.TotalQuotes.StringFixed(2))
}

func TestSplitLoadService_ConfigureValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		orderID  entities.OrderID
		misc     string
		fullSide string
		target   string
		code     pkgerrors.Code
	}{
		{"zero misc", "ORD-B", "0", "pickup", "", pkgerrors.CodeValidation},
		{"negative misc", "ORD-B", "-5", "pickup", "", pkgerrors.CodeValidation},
		{"bad side", "ORD-B", "10", "sideways", "", pkgerrors.CodeValidation},
		{"bad target", "ORD-B", "10", "pickup", "fuel", pkgerrors.CodeValidation},
		{"unknown order", "ORD-ZZ", "10", "pickup", "", pkgerrors.CodeNotFound},
		{"unusable quote", "ORD-X", "10", "pickup", "", pkgerrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.splits.Configure(ctx, tt.orderID, dec(tt.misc), tt.fullSide, tt.target)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tt.code), "got %v", err)
		})
	}

	assert.Empty(t, splitRecordsOf(t, env, "ORD-B"))
}

func TestSplitLoadService_MiscAboveQuoteIsAWarning(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.splits.Configure(context.Background(), "ORD-B", dec("450"), "delivery", "")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, entities.AdvisoryMiscExceedsQuote, result.Warnings[0].Kind)
}

func TestSplitLoadService_ReconcileTruckload(t *testing.T) {
	env := newTestEnvFrom(t, testhelpers.BuildBrokerageScenario())

	results, err := env.splits.ReconcileTruckload(context.Background(), "TL-200")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entities.OrderID("ORD-B"), results[0].OrderID)
	assert.Equal(t, entities.Split, results[0].State)

	unsplit, err := env.splits.Reconcile(context.Background(), "ORD-A")
	require.NoError(t, err)
	assert.Equal(t, entities.Unsplit, unsplit.State)
	assert.False(t, unsplit.Changed)
}
