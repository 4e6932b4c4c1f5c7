package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

// SplitConfigRepository provides in-memory split configuration storage
type SplitConfigRepository struct {
	mu      sync.RWMutex
	configs map[entities.OrderID]entities.SplitConfiguration
}

// NewSplitConfigRepository creates a new in-memory split configuration repository
func NewSplitConfigRepository() *SplitConfigRepository {
	return &SplitConfigRepository{
		configs: make(map[entities.OrderID]entities.SplitConfiguration),
	}
}

var _ repositories.SplitConfigRepository = (*SplitConfigRepository)(nil)

// GetConfiguration returns the order's configuration, or nil when unsplit
func (r *SplitConfigRepository) GetConfiguration(orderID entities.OrderID) (*entities.SplitConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[orderID]
	if !exists {
		return nil, nil
	}
	return &cfg, nil
}

// SaveConfiguration inserts or replaces an order's configuration
func (r *SplitConfigRepository) SaveConfiguration(cfg *entities.SplitConfiguration) error {
	if cfg == nil || cfg.OrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.OrderID] = *cfg
	return nil
}

// DeleteConfiguration removes an order's configuration; deleting a missing one is a no-op
func (r *SplitConfigRepository) DeleteConfiguration(orderID entities.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, orderID)
	return nil
}

// GetAll returns every configuration sorted by order ID
func (r *SplitConfigRepository) GetAll() ([]*entities.SplitConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.SplitConfiguration, 0, len(r.configs))
	for id := range r.configs {
		cfg := r.configs[id]
		result = append(result, &cfg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result, nil
}

// SettlementRepository keeps the latest snapshot per truckload
type SettlementRepository struct {
	mu        sync.RWMutex
	snapshots map[entities.TruckloadID]entities.SettlementSnapshot
}

// NewSettlementRepository creates a new in-memory settlement repository
func NewSettlementRepository() *SettlementRepository {
	return &SettlementRepository{
		snapshots: make(map[entities.TruckloadID]entities.SettlementSnapshot),
	}
}

var _ repositories.SettlementRepository = (*SettlementRepository)(nil)

// SaveSnapshot replaces the truckload's snapshot
func (r *SettlementRepository) SaveSnapshot(snapshot *entities.SettlementSnapshot) error {
	if snapshot == nil || snapshot.TruckloadID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "truckload id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshot.TruckloadID] = *snapshot
	return nil
}

// GetSnapshot returns the truckload's latest snapshot
func (r *SettlementRepository) GetSnapshot(truckloadID entities.TruckloadID) (*entities.SettlementSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, exists := r.snapshots[truckloadID]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("snapshot not found: %s", truckloadID))
	}
	return &snapshot, nil
}

// GetAll returns the latest snapshot of every truckload sorted by truckload ID
func (r *SettlementRepository) GetAll() ([]*entities.SettlementSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.SettlementSnapshot, 0, len(r.snapshots))
	for id := range r.snapshots {
		snapshot := r.snapshots[id]
		result = append(result, &snapshot)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TruckloadID < result[j].TruckloadID })
	return result, nil
}
