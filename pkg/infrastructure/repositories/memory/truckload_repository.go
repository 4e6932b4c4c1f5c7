package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/domain/repositories"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

// TruckloadRepository provides in-memory truckload storage
type TruckloadRepository struct {
	mu         sync.RWMutex
	truckloads map[entities.TruckloadID]entities.Truckload
}

// NewTruckloadRepository creates a new in-memory truckload repository
func NewTruckloadRepository() *TruckloadRepository {
	return &TruckloadRepository{
		truckloads: make(map[entities.TruckloadID]entities.Truckload),
	}
}

// Verify interface compliance
var _ repositories.TruckloadRepository = (*TruckloadRepository)(nil)

// LoadTruckloads loads truckloads into the repository
func (r *TruckloadRepository) LoadTruckloads(truckloads []*entities.Truckload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, truckload := range truckloads {
		r.truckloads[truckload.ID] = *truckload
	}
	return nil
}

// GetTruckload returns one truckload
func (r *TruckloadRepository) GetTruckload(id entities.TruckloadID) (*entities.Truckload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	truckload, exists := r.truckloads[id]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("truckload not found: %s", id))
	}
	return &truckload, nil
}

// GetAllTruckloads returns all truckloads sorted by ID
func (r *TruckloadRepository) GetAllTruckloads() ([]*entities.Truckload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Truckload, 0, len(r.truckloads))
	for id := range r.truckloads {
		truckload := r.truckloads[id]
		result = append(result, &truckload)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DriverSettingsRepository provides in-memory driver settings
type DriverSettingsRepository struct {
	mu       sync.RWMutex
	settings map[entities.DriverID]entities.DriverSettings
}

// NewDriverSettingsRepository creates a new in-memory driver settings repository
func NewDriverSettingsRepository() *DriverSettingsRepository {
	return &DriverSettingsRepository{
		settings: make(map[entities.DriverID]entities.DriverSettings),
	}
}

var _ repositories.DriverSettingsRepository = (*DriverSettingsRepository)(nil)

// LoadSettings loads driver settings into the repository
func (r *DriverSettingsRepository) LoadSettings(settings []*entities.DriverSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range settings {
		r.settings[s.DriverID] = *s
	}
	return nil
}

// GetSettings returns a driver's settings, or nil when none are on file
func (r *DriverSettingsRepository) GetSettings(driverID entities.DriverID) (*entities.DriverSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.settings[driverID]
	if !exists {
		return nil, nil
	}
	return &s, nil
}

// GetAll returns all driver settings sorted by driver ID
func (r *DriverSettingsRepository) GetAll() ([]*entities.DriverSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.DriverSettings, 0, len(r.settings))
	for id := range r.settings {
		s := r.settings[id]
		result = append(result, &s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DriverID < result[j].DriverID })
	return result, nil
}
