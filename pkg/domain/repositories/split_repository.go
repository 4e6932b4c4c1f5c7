package repositories

import "github.com/vsinha/freightpay/pkg/domain/entities"

// SplitConfigRepository stores split-load configurations by order.
// GetConfiguration returns nil for an order that is not split.
type SplitConfigRepository interface {
	GetConfiguration(orderID entities.OrderID) (*entities.SplitConfiguration, error)
	SaveConfiguration(cfg *entities.SplitConfiguration) error
	DeleteConfiguration(orderID entities.OrderID) error
	GetAll() ([]*entities.SplitConfiguration, error)
}

// SettlementRepository persists computed payroll statements
type SettlementRepository interface {
	SaveSnapshot(snapshot *entities.SettlementSnapshot) error
	GetSnapshot(truckloadID entities.TruckloadID) (*entities.SettlementSnapshot, error)
	GetAll() ([]*entities.SettlementSnapshot, error)
}
