package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
)

func TestQuoteEditor_StageAndFlush(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, env.events, nil)
	ctx := context.Background()

	require.NoError(t, editor.StageQuote(ctx, "A-1", "$550"))
	require.NoError(t, editor.StageQuote(ctx, "A-1", "$575.25"))
	require.NoError(t, editor.StageQuote(ctx, "A-8", "  "))
	require.Len(t, editor.Pending(), 2)

	before, _ := env.stores.Orders.GetAssignment("A-1")
	assert.Equal(t, "500.00", before.RawQuote(), "staged edits are not visible before flush")

	require.NoError(t, editor.Flush(ctx))
	assert.Empty(t, editor.Pending())

	after, _ := env.stores.Orders.GetAssignment("A-1")
	assert.Equal(t, "$575.25", after.RawQuote())
	cleared, _ := env.stores.Orders.GetAssignment("A-8")
	assert.Nil(t, cleared.FreightQuote)

	assert.Equal(t, []string{events.QuoteEditedEvent}, env.eventTypes(t, events.OrderStream("ORD-A")))

	statement, err := env.payroll.Calculate(ctx, "TL-100")
	require.NoError(t, err)
	assert.Equal(t, "575.25", statement.Breakdown.TotalQuotes.StringFixed(2))
}

func TestQuoteEditor_RejectsSplitLegs(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, env.events, nil)
	ctx := context.Background()

	_, err := env.splits.Reconcile(ctx, "ORD-B")
	require.NoError(t, err)

	err = editor.StageQuote(ctx, "A-2", "999")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Empty(t, editor.Pending())
}

func TestQuoteEditor_SplitAfterStagingFailsFlush(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, env.events, nil)
	ctx := context.Background()

	require.NoError(t, editor.StageQuote(ctx, "A-2", "999"))
	_, err := env.splits.Reconcile(ctx, "ORD-B")
	require.NoError(t, err)

	err = editor.Flush(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	assert.Equal(t, 1, editor.Discard())
	leg, _ := env.stores.Orders.GetAssignment("A-2")
	assert.Equal(t, "400.00", leg.RawQuote())
}

func TestQuoteEditor_UnknownAssignment(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, nil, nil)

	err := editor.StageQuote(context.Background(), "A-404", "100")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestQuoteEditor_EditsEveryLegOfTransferOrder(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, env.events, nil)
	ctx := context.Background()

	require.NoError(t, editor.StageQuote(ctx, "A-4", "900.00"))
	require.NoError(t, editor.Flush(ctx))

	for _, id := range []string{"A-4", "A-5"} {
		leg, _ := env.stores.Orders.GetAssignment(id)
		assert.Equal(t, "900.00", leg.RawQuote(), id)
	}
	assert.Equal(t,
		[]string{events.QuoteEditedEvent, events.QuoteEditedEvent},
		env.eventTypes(t, events.OrderStream("ORD-T")))

	statement, err := env.payroll.Calculate(ctx, "TL-200")
	require.NoError(t, err)
	assert.Equal(t, "1300.00", statement.Breakdown.TotalQuotes.StringFixed(2))
}

func TestQuoteEditor_EditsBothTruckloadsOfClearedSplit(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, env.events, nil)
	ctx := context.Background()

	_, err := env.splits.Clear(ctx, "ORD-B")
	require.NoError(t, err)

	require.NoError(t, editor.StageQuote(ctx, "A-2", "600.00"))
	require.NoError(t, editor.Flush(ctx))

	for _, id := range []string{"A-2", "A-3"} {
		leg, _ := env.stores.Orders.GetAssignment(id)
		assert.Equal(t, "600.00", leg.RawQuote(), id)
	}

	result, err := env.splits.Configure(ctx, "ORD-B", dec("150"), "pickup", "")
	require.NoError(t, err)
	require.NotNil(t, result.Configuration)
	assert.Equal(t, "600.00", result.Configuration.FullQuote.StringFixed(2))
}

func TestQuoteEditor_EditsOfOneOrderCoalesce(t *testing.T) {
	env := newTestEnv(t)
	editor := NewQuoteEditor(env.stores.Orders, nil, nil)
	ctx := context.Background()

	require.NoError(t, editor.StageQuote(ctx, "A-4", "900.00"))
	require.NoError(t, editor.StageQuote(ctx, "A-5", "950.00"))
	require.Len(t, editor.Pending(), 1)

	require.NoError(t, editor.Flush(ctx))
	leg, _ := env.stores.Orders.GetAssignment("A-4")
	assert.Equal(t, "950.00", leg.RawQuote())
}
