package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/dto"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/services/payroll"
	"github.com/vsinha/freightpay/pkg/domain/services/splitload"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	"github.com/vsinha/freightpay/pkg/logger"
)

// SplitLoadService configures split loads and keeps each order's legs and
// split-load records consistent with its configuration
type SplitLoadService struct {
	stores     Stores
	eventStore events.EventStore
	log        *logger.Logger

	// serializes read-plan-write cycles
	mu sync.Mutex
}

// NewSplitLoadService creates a split-load service
func NewSplitLoadService(stores Stores, eventStore events.EventStore, log *logger.Logger) *SplitLoadService {
	if log == nil {
		log = logger.Nop()
	}
	return &SplitLoadService{
		stores:     stores,
		eventStore: eventStore,
		log:        log,
	}
}

// Configure splits an order's quote so that the fullSide leg keeps
// fullQuote − misc and the other leg carries misc. If only one leg exists the
// order becomes PendingSplit until the other leg is assigned.
func (s *SplitLoadService) Configure(
	ctx context.Context,
	orderID entities.OrderID,
	misc decimal.Decimal,
	fullSide string,
	appliesTo string,
) (*dto.SplitResult, error) {
	input := entities.SplitInput{
		OrderID:   orderID,
		MiscValue: misc,
		FullSide:  fullSide,
		AppliesTo: appliesTo,
	}
	if err := entities.ValidateSplitInput(input); err != nil {
		return nil, err
	}
	side, err := entities.ParseAssignmentType(fullSide)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid full side")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.log.WithOrderID(ctx, string(orderID))

	legs, err := s.stores.Orders.GetAssignmentsByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load legs of order %s: %w", orderID, err)
	}
	if len(legs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order has no assignments: %s", orderID))
	}

	fullQuote, err := orderQuote(legs)
	if err != nil {
		return nil, err
	}

	cfg, err := entities.NewSplitConfiguration(orderID, fullQuote, misc, side, entities.Target(appliesTo))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid split configuration")
	}

	existing, err := s.splitRecords(orderID)
	if err != nil {
		return nil, err
	}

	plan := splitload.NewPlan(cfg, legs, existing)
	if err := s.stores.Splits.SaveConfiguration(cfg); err != nil {
		return nil, fmt.Errorf("failed to save split configuration for %s: %w", orderID, err)
	}
	if err := s.apply(plan, legs); err != nil {
		return nil, err
	}

	result := newSplitResult(plan, cfg)
	if plan.State == entities.Split {
		s.record(ctx, events.OrderStream(string(orderID)), events.SplitAppliedEvent, events.SplitApplied{
			Configuration: *cfg,
			CreatedIDs:    result.CreatedIDs,
			DeletedIDs:    result.DeletedIDs,
		})
	} else {
		pending := events.SplitPending{Configuration: *cfg}
		if len(plan.Legs) == 1 {
			pending.AssignmentID = plan.Legs[0].AssignmentID
		}
		s.record(ctx, events.OrderStream(string(orderID)), events.SplitPendingEvent, pending)
	}

	for _, warning := range plan.Warnings {
		s.log.Warn(ctx, warning.Message)
	}
	s.log.Info(s.log.WithField(ctx, "state", plan.State.String()), "split load configured")

	return result, nil
}

// Reconcile brings a split order in line with its configuration. It is safe
// to call any number of times; a consistent order is left untouched.
func (s *SplitLoadService) Reconcile(ctx context.Context, orderID entities.OrderID) (*dto.SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcile(ctx, orderID)
}

func (s *SplitLoadService) reconcile(ctx context.Context, orderID entities.OrderID) (*dto.SplitResult, error) {
	cfg, err := s.stores.Splits.GetConfiguration(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load split configuration for %s: %w", orderID, err)
	}
	if cfg == nil {
		return &dto.SplitResult{
			OrderID:    orderID,
			State:      entities.Unsplit,
			CreatedIDs: []string{},
			DeletedIDs: []string{},
			Warnings:   []entities.Advisory{},
		}, nil
	}

	legs, err := s.stores.Orders.GetAssignmentsByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load legs of order %s: %w", orderID, err)
	}
	existing, err := s.splitRecords(orderID)
	if err != nil {
		return nil, err
	}

	plan := splitload.NewPlan(cfg, legs, existing)
	result := newSplitResult(plan, cfg)
	if plan.IsNoop() {
		return result, nil
	}

	from := currentState(legs)
	if err := s.apply(plan, legs); err != nil {
		return nil, err
	}

	ctx = s.log.WithOrderID(ctx, string(orderID))
	s.record(ctx, events.OrderStream(string(orderID)), events.SplitReconciledEvent, events.SplitReconciled{
		OrderID:    orderID,
		From:       from,
		To:         plan.State,
		CreatedIDs: result.CreatedIDs,
		DeletedIDs: result.DeletedIDs,
	})
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"from": from.String(),
		"to":   plan.State.String(),
	}), "split load reconciled")

	return result, nil
}

// ReconcileTruckload reconciles every split order with a leg on the truckload
func (s *SplitLoadService) ReconcileTruckload(ctx context.Context, truckloadID entities.TruckloadID) ([]*dto.SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	legs, err := s.stores.Orders.GetAssignmentsByTruckload(truckloadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments of truckload %s: %w", truckloadID, err)
	}

	seen := make(map[entities.OrderID]bool, len(legs))
	results := []*dto.SplitResult{}
	for _, leg := range legs {
		if seen[leg.OrderID] {
			continue
		}
		seen[leg.OrderID] = true

		result, err := s.reconcile(ctx, leg.OrderID)
		if err != nil {
			return nil, err
		}
		if result.Configuration != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// Clear returns an order to Unsplit: assignment quotes and pending flags are
// removed along with the configuration and the order's split-load records
func (s *SplitLoadService) Clear(ctx context.Context, orderID entities.OrderID) (*dto.SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	legs, err := s.stores.Orders.GetAssignmentsByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load legs of order %s: %w", orderID, err)
	}
	existing, err := s.splitRecords(orderID)
	if err != nil {
		return nil, err
	}

	plan := splitload.NewClearPlan(orderID, legs, existing)
	if err := s.apply(plan, legs); err != nil {
		return nil, err
	}
	if err := s.stores.Splits.DeleteConfiguration(orderID); err != nil {
		return nil, fmt.Errorf("failed to delete split configuration for %s: %w", orderID, err)
	}

	result := newSplitResult(plan, nil)
	ctx = s.log.WithOrderID(ctx, string(orderID))
	s.record(ctx, events.OrderStream(string(orderID)), events.SplitClearedEvent, events.SplitCleared{
		OrderID:    orderID,
		DeletedIDs: result.DeletedIDs,
	})
	s.log.Info(ctx, "split load cleared")

	return result, nil
}

// State reports where the order sits in the split lifecycle
func (s *SplitLoadService) State(ctx context.Context, orderID entities.OrderID) (entities.SplitState, error) {
	cfg, err := s.stores.Splits.GetConfiguration(orderID)
	if err != nil {
		return entities.Unsplit, fmt.Errorf("failed to load split configuration for %s: %w", orderID, err)
	}
	legs, err := s.stores.Orders.GetAssignmentsByOrder(orderID)
	if err != nil {
		return entities.Unsplit, fmt.Errorf("failed to load legs of order %s: %w", orderID, err)
	}
	return splitload.StateOf(cfg, legs), nil
}

// splitRecords returns the order's category-C records
func (s *SplitLoadService) splitRecords(orderID entities.OrderID) ([]entities.SplitLoadAdjustment, error) {
	records, err := s.stores.Adjustments.ListByOrder(orderID, entities.CategorySplitLoad)
	if err != nil {
		return nil, fmt.Errorf("failed to load split-load records for %s: %w", orderID, err)
	}

	result := make([]entities.SplitLoadAdjustment, 0, len(records))
	for _, record := range records {
		if split, ok := record.(entities.SplitLoadAdjustment); ok {
			result = append(result, split)
		}
	}
	return result, nil
}

// apply writes a plan: leg rows first, then stale records are removed and
// missing ones created
func (s *SplitLoadService) apply(plan splitload.Plan, legs []entities.AssignedOrder) error {
	for _, update := range plan.ChangedLegs() {
		for i := range legs {
			if legs[i].AssignmentID != update.AssignmentID {
				continue
			}
			row := legs[i].Clone()
			update.Apply(&row)
			if err := s.stores.Orders.SaveAssignment(&row); err != nil {
				return fmt.Errorf("failed to update assignment %s: %w", row.AssignmentID, err)
			}
		}
	}

	for _, id := range plan.Delete {
		if err := s.stores.Adjustments.Delete(id); err != nil {
			return fmt.Errorf("failed to delete split-load record %s: %w", id, err)
		}
	}
	for _, record := range plan.Create {
		if err := s.stores.Adjustments.Create(record); err != nil {
			return fmt.Errorf("failed to create split-load record %s: %w", record.ID, err)
		}
	}
	return nil
}

func (s *SplitLoadService) record(ctx context.Context, stream, eventType string, data any) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(stream, events.NewEvent(eventType, stream, data)); err != nil {
		s.log.Error(ctx, "failed to append split event", err)
	}
}

// orderQuote is the full freight quote of an order, read from its
// representative leg
func orderQuote(legs []entities.AssignedOrder) (decimal.Decimal, error) {
	pickup, delivery := splitload.Legs(legs)
	rep := delivery
	if rep == nil {
		rep = pickup
	}
	if rep == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "order has no pickup or delivery leg")
	}

	quote, reason, ok := payroll.ParseQuote(rep.FreightQuote)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "order has no usable freight quote").
			WithDetails(map[string]string{"freight_quote": string(reason)})
	}
	return quote, nil
}

func currentState(legs []entities.AssignedOrder) entities.SplitState {
	for _, leg := range legs {
		if leg.SplitPending {
			return entities.PendingSplit
		}
	}
	pickup, delivery := splitload.Legs(legs)
	if pickup != nil && delivery != nil && pickup.IsSplit() && delivery.IsSplit() {
		return entities.Split
	}
	return entities.Unsplit
}

func newSplitResult(plan splitload.Plan, cfg *entities.SplitConfiguration) *dto.SplitResult {
	result := &dto.SplitResult{
		OrderID:       plan.OrderID,
		State:         plan.State,
		Configuration: cfg,
		Changed:       !plan.IsNoop(),
		CreatedIDs:    make([]string, 0, len(plan.Create)),
		DeletedIDs:    append([]string{}, plan.Delete...),
		Warnings:      plan.Warnings,
	}
	for _, record := range plan.Create {
		result.CreatedIDs = append(result.CreatedIDs, record.ID)
	}
	return result
}
