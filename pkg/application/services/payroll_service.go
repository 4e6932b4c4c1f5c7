package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/dto"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/services/payroll"
	"github.com/vsinha/freightpay/pkg/domain/services/splitload"
	"github.com/vsinha/freightpay/pkg/infrastructure/events"
	"github.com/vsinha/freightpay/pkg/logger"
)

// PayrollConfig holds payroll service settings
type PayrollConfig struct {
	// DefaultLoadPercentage applies to drivers with no percentage on file
	DefaultLoadPercentage decimal.Decimal
}

// DefaultPayrollConfig returns the stock settings
func DefaultPayrollConfig() PayrollConfig {
	return PayrollConfig{DefaultLoadPercentage: entities.DefaultLoadPercentage}
}

// PayrollService computes truckload settlements from the repositories
type PayrollService struct {
	config     PayrollConfig
	stores     Stores
	splits     *SplitLoadService
	eventStore events.EventStore
	log        *logger.Logger
	snapshots  *WriteQueue
	now        func() time.Time
}

// NewPayrollService creates a payroll service. splits may be nil, in which
// case pending splits are not reconciled before calculating.
func NewPayrollService(
	config PayrollConfig,
	stores Stores,
	splits *SplitLoadService,
	eventStore events.EventStore,
	log *logger.Logger,
) *PayrollService {
	if log == nil {
		log = logger.Nop()
	}
	return &PayrollService{
		config:     config,
		stores:     stores,
		splits:     splits,
		eventStore: eventStore,
		log:        log,
		snapshots:  NewWriteQueue(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Calculate computes the payroll statement of one truckload. Calculating
// twice over unchanged data yields the same breakdown.
func (s *PayrollService) Calculate(ctx context.Context, truckloadID entities.TruckloadID) (*dto.PayrollStatement, error) {
	truckload, err := s.stores.Truckloads.GetTruckload(truckloadID)
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithTruckloadID(ctx, string(truckloadID))
	ctx = s.log.WithDriverID(ctx, string(truckload.DriverID))

	if s.splits != nil {
		if _, err := s.splits.ReconcileTruckload(ctx, truckloadID); err != nil {
			return nil, fmt.Errorf("failed to reconcile split loads on %s: %w", truckloadID, err)
		}
	}

	orders, err := s.stores.Orders.GetAssignmentsByTruckload(truckloadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments of %s: %w", truckloadID, err)
	}

	adjustments, err := s.adjustmentSet(truckloadID)
	if err != nil {
		return nil, err
	}

	settings, err := s.stores.Drivers.GetSettings(truckload.DriverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for driver %s: %w", truckload.DriverID, err)
	}
	usedDefault := settings == nil || settings.LoadPercentage == nil
	pct := settings.EffectiveLoadPercentage(s.config.DefaultLoadPercentage)

	breakdown := payroll.ComputePayroll(orders, adjustments, pct)
	if usedDefault {
		breakdown.Advisories = append(breakdown.Advisories, entities.Advisory{
			Kind:    entities.AdvisoryDefaultPercentage,
			Message: fmt.Sprintf("driver %s has no load percentage on file; using %s", truckload.DriverID, pct.StringFixed(2)),
		})
	}

	statement := &dto.PayrollStatement{
		TruckloadID:           truckload.ID,
		DriverID:              truckload.DriverID,
		DriverName:            truckload.DriverName,
		StartDate:             truckload.StartDate,
		EndDate:               truckload.EndDate,
		UsedDefaultPercentage: usedDefault,
		Breakdown:             breakdown,
		Orders:                orders,
		Adjustments:           adjustments,
		CalculatedAt:          s.now(),
	}

	if s.eventStore != nil {
		stream := events.TruckloadStream(string(truckloadID))
		event := events.NewEvent(events.PayrollCalculatedEvent, stream, events.PayrollCalculated{
			TruckloadID:    truckload.ID,
			DriverID:       truckload.DriverID,
			TotalQuotes:    breakdown.TotalQuotes,
			LoadValue:      breakdown.LoadValue,
			FinalDriverPay: breakdown.FinalDriverPay,
		})
		if err := s.eventStore.AppendEvent(stream, event); err != nil {
			s.log.Error(ctx, "failed to append payroll event", err)
		}
	}

	if len(breakdown.Excluded) > 0 {
		s.log.Warn(s.log.WithField(ctx, "excluded", len(breakdown.Excluded)), "orders left out of load value")
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"total_quotes":     breakdown.TotalQuotes.StringFixed(2),
		"load_value":       breakdown.LoadValue.StringFixed(2),
		"final_driver_pay": breakdown.FinalDriverPay.StringFixed(2),
	}), "payroll calculated")

	return statement, nil
}

// CalculateAll computes every truckload's statement, sorted by truckload ID,
// and checks each split order across the run
func (s *PayrollService) CalculateAll(ctx context.Context) (*dto.PayrollRun, error) {
	truckloads, err := s.stores.Truckloads.GetAllTruckloads()
	if err != nil {
		return nil, fmt.Errorf("failed to load truckloads: %w", err)
	}

	run := &dto.PayrollRun{
		Statements: make([]*dto.PayrollStatement, 0, len(truckloads)),
		Splits:     []dto.SplitSummary{},
		RunAt:      s.now(),
	}
	for _, truckload := range truckloads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		statement, err := s.Calculate(ctx, truckload.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate payroll for %s: %w", truckload.ID, err)
		}
		run.Statements = append(run.Statements, statement)
	}

	summaries, err := s.splitSummaries(run.Statements)
	if err != nil {
		return nil, err
	}
	run.Splits = summaries

	for _, summary := range run.Splits {
		if summary.State != entities.Split || summary.Balanced {
			continue
		}
		orderCtx := s.log.WithOrderID(ctx, string(summary.OrderID))
		if summary.EqualSplit {
			s.log.Warn(orderCtx, "split load is exactly even; both legs count the full quote")
		} else {
			s.log.Warn(orderCtx, "split load does not balance across truckloads")
		}
	}
	return run, nil
}

// splitSummaries totals each configured split order across the statements
func (s *PayrollService) splitSummaries(statements []*dto.PayrollStatement) ([]dto.SplitSummary, error) {
	configs, err := s.stores.Splits.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load split configurations: %w", err)
	}

	summaries := make([]dto.SplitSummary, 0, len(configs))
	for _, cfg := range configs {
		legs, err := s.stores.Orders.GetAssignmentsByOrder(cfg.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load legs of order %s: %w", cfg.OrderID, err)
		}

		summary := dto.SplitSummary{
			OrderID:      cfg.OrderID,
			State:        splitload.StateOf(cfg, legs),
			FullQuote:    cfg.FullQuote,
			MiscValue:    cfg.MiscValue,
			AppliesTo:    cfg.AppliesTo,
			QuoteCounted: decimal.Zero,
		}
		for _, leg := range legs {
			if leg.Type == cfg.FullSide {
				summary.FullSide = leg.TruckloadID
			} else {
				summary.MiscSide = leg.TruckloadID
			}
		}

		for _, statement := range statements {
			for _, contribution := range statement.Breakdown.Contributions {
				if contribution.OrderID == cfg.OrderID {
					summary.QuoteCounted = summary.QuoteCounted.Add(contribution.Counted)
				}
			}
			for _, advisory := range statement.Breakdown.Advisories {
				if advisory.Kind == entities.AdvisoryEqualSplit && advisory.OrderID == cfg.OrderID {
					summary.EqualSplit = true
				}
			}
			for _, record := range statement.Adjustments.SplitLoad {
				if entities.AdjustmentOrderID(record) != cfg.OrderID || record.AppliesTo != entities.TargetLoadValue {
					continue
				}
				if record.IsAddition {
					summary.QuoteCounted = summary.QuoteCounted.Add(record.Amount)
				} else {
					summary.QuoteCounted = summary.QuoteCounted.Sub(record.Amount)
				}
			}
		}
		summary.Balanced = summary.QuoteCounted.Equal(cfg.FullQuote)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// adjustmentSet loads the three ledgers of a truckload
func (s *PayrollService) adjustmentSet(truckloadID entities.TruckloadID) (entities.AdjustmentSet, error) {
	set := entities.AdjustmentSet{
		CrossDriver: []entities.CrossDriverDeduction{},
		Manual:      []entities.ManualAdjustment{},
		SplitLoad:   []entities.SplitLoadAdjustment{},
	}

	for _, category := range entities.Categories {
		records, err := s.stores.Adjustments.ListByTruckload(truckloadID, category)
		if err != nil {
			return set, fmt.Errorf("failed to load %s records of %s: %w", category, truckloadID, err)
		}
		for _, record := range records {
			switch r := record.(type) {
			case entities.CrossDriverDeduction:
				set.CrossDriver = append(set.CrossDriver, r)
			case entities.ManualAdjustment:
				set.Manual = append(set.Manual, r)
			case entities.SplitLoadAdjustment:
				set.SplitLoad = append(set.SplitLoad, r)
			}
		}
	}
	return set, nil
}

// StageSnapshot stages a statement for persistence. Restaging a truckload
// replaces its pending snapshot.
func (s *PayrollService) StageSnapshot(statement *dto.PayrollStatement) {
	snapshot := entities.SettlementSnapshot{
		ID:          uuid.NewString(),
		TruckloadID: statement.TruckloadID,
		DriverID:    statement.DriverID,
		Breakdown:   statement.Breakdown,
		CreatedAt:   statement.CalculatedAt,
	}

	key := "snapshot:" + string(statement.TruckloadID)
	description := fmt.Sprintf("save settlement snapshot for %s", statement.TruckloadID)
	s.snapshots.Stage(key, description, func(ctx context.Context) error {
		if err := s.stores.Settlements.SaveSnapshot(&snapshot); err != nil {
			return err
		}
		if s.eventStore != nil {
			stream := events.TruckloadStream(string(snapshot.TruckloadID))
			event := events.NewEvent(events.SnapshotSavedEvent, stream, events.SnapshotSaved{
				SnapshotID:  snapshot.ID,
				TruckloadID: snapshot.TruckloadID,
			})
			if err := s.eventStore.AppendEvent(stream, event); err != nil {
				s.log.Error(ctx, "failed to append snapshot event", err)
			}
		}
		return nil
	})
}

// PendingSnapshots lists the snapshots staged but not yet written
func (s *PayrollService) PendingSnapshots() []StagedWrite {
	return s.snapshots.Pending()
}

// FlushSnapshots writes every staged snapshot
func (s *PayrollService) FlushSnapshots(ctx context.Context) error {
	count := s.snapshots.Len()
	if err := s.snapshots.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush settlement snapshots: %w", err)
	}
	if count > 0 {
		s.log.Info(s.log.WithField(ctx, "count", count), "settlement snapshots saved")
	}
	return nil
}
