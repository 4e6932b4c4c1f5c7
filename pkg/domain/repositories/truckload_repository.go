package repositories

import "github.com/vsinha/freightpay/pkg/domain/entities"

// TruckloadRepository provides access to truckload master data
type TruckloadRepository interface {
	GetTruckload(id entities.TruckloadID) (*entities.Truckload, error)
	GetAllTruckloads() ([]*entities.Truckload, error)
	LoadTruckloads(truckloads []*entities.Truckload) error
}

// DriverSettingsRepository provides per-driver payroll settings.
// GetSettings returns nil settings for a driver with none on file.
type DriverSettingsRepository interface {
	GetSettings(driverID entities.DriverID) (*entities.DriverSettings, error)
	GetAll() ([]*entities.DriverSettings, error)
	LoadSettings(settings []*entities.DriverSettings) error
}
