package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

// AdjustmentRepository provides in-memory storage for the three deduction ledgers.
// Records are copied on the way in and out.
type AdjustmentRepository struct {
	mu      sync.RWMutex
	records []entities.Adjustment
}

// NewAdjustmentRepository creates a new in-memory adjustment repository
func NewAdjustmentRepository() *AdjustmentRepository {
	return &AdjustmentRepository{
		records: []entities.Adjustment{},
	}
}

// Verify interface compliance
var _ repositories.AdjustmentRepository = (*AdjustmentRepository)(nil)

// LoadAdjustments loads records into the repository
func (r *AdjustmentRepository) LoadAdjustments(adjustments []entities.Adjustment) error {
	for _, adjustment := range adjustments {
		if err := r.Create(adjustment); err != nil {
			return err
		}
	}
	return nil
}

// Create stores a new record; IDs are unique across categories
func (r *AdjustmentRepository) Create(adjustment entities.Adjustment) error {
	if adjustment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "adjustment is required")
	}
	id := adjustment.Base().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(id) >= 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("adjustment already exists: %s", id))
	}
	r.records = append(r.records, entities.CloneAdjustment(adjustment))
	return nil
}

// Delete removes a record by ID
func (r *AdjustmentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("adjustment not found: %s", id))
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *AdjustmentRepository) find(id string) int {
	for i, record := range r.records {
		if record.Base().ID == id {
			return i
		}
	}
	return -1
}

// ListByTruckload returns a truckload's records of one category
func (r *AdjustmentRepository) ListByTruckload(truckloadID entities.TruckloadID, category entities.Category) ([]entities.Adjustment, error) {
	return r.filter(func(a entities.Adjustment) bool {
		return a.Category() == category && a.Base().TruckloadID == truckloadID
	}), nil
}

// ListByOrder returns the records of one category scoped to an order
func (r *AdjustmentRepository) ListByOrder(orderID entities.OrderID, category entities.Category) ([]entities.Adjustment, error) {
	return r.filter(func(a entities.Adjustment) bool {
		return a.Category() == category && entities.AdjustmentOrderID(a) == orderID
	}), nil
}

// GetAll returns every record
func (r *AdjustmentRepository) GetAll() ([]entities.Adjustment, error) {
	return r.filter(func(entities.Adjustment) bool { return true }), nil
}

func (r *AdjustmentRepository) filter(keep func(entities.Adjustment) bool) []entities.Adjustment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []entities.Adjustment{}
	for _, record := range r.records {
		if keep(record) {
			result = append(result, entities.CloneAdjustment(record))
		}
	}
	return result
}
