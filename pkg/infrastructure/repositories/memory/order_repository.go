package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

// OrderRepository provides in-memory assignment storage.
// Rows are returned as copies; writes go through SaveAssignment.
type OrderRepository struct {
	mu          sync.RWMutex
	assignments []entities.AssignedOrder
	index       map[string]int
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository(expectedAssignments int) *OrderRepository {
	return &OrderRepository{
		assignments: make([]entities.AssignedOrder, 0, expectedAssignments),
		index:       make(map[string]int, expectedAssignments),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadAssignments loads assignment rows into the repository
func (r *OrderRepository) LoadAssignments(orders []*entities.AssignedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range orders {
		if order.AssignmentID == "" {
			return fmt.Errorf("assignment for order %s has no id", order.OrderID)
		}
		r.upsert(order.Clone())
	}
	return nil
}

func (r *OrderRepository) upsert(order entities.AssignedOrder) {
	if i, exists := r.index[order.AssignmentID]; exists {
		r.assignments[i] = order
		return
	}
	r.index[order.AssignmentID] = len(r.assignments)
	r.assignments = append(r.assignments, order)
}

// SaveAssignment inserts or replaces an assignment row
func (r *OrderRepository) SaveAssignment(order *entities.AssignedOrder) error {
	if order == nil || order.AssignmentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsert(order.Clone())
	return nil
}

// GetAssignment returns one assignment row
func (r *OrderRepository) GetAssignment(assignmentID string) (*entities.AssignedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[assignmentID]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("assignment not found: %s", assignmentID))
	}
	order := r.assignments[i].Clone()
	return &order, nil
}

// GetAssignmentsByTruckload returns a truckload's rows in load order
func (r *OrderRepository) GetAssignmentsByTruckload(truckloadID entities.TruckloadID) ([]entities.AssignedOrder, error) {
	return r.filter(func(o *entities.AssignedOrder) bool { return o.TruckloadID == truckloadID }), nil
}

// GetAssignmentsByOrder returns every leg of an order across truckloads
func (r *OrderRepository) GetAssignmentsByOrder(orderID entities.OrderID) ([]entities.AssignedOrder, error) {
	return r.filter(func(o *entities.AssignedOrder) bool { return o.OrderID == orderID }), nil
}

// GetAllAssignments returns all rows
func (r *OrderRepository) GetAllAssignments() ([]entities.AssignedOrder, error) {
	return r.filter(func(*entities.AssignedOrder) bool { return true }), nil
}

func (r *OrderRepository) filter(keep func(*entities.AssignedOrder) bool) []entities.AssignedOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []entities.AssignedOrder{}
	for i := range r.assignments {
		if keep(&r.assignments[i]) {
			result = append(result, r.assignments[i].Clone())
		}
	}
	return result
}
