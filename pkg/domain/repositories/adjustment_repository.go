package repositories

import "github.com/vsinha/freightpay/pkg/domain/entities"

// AdjustmentRepository stores deduction and addition records of all three categories
type AdjustmentRepository interface {
	ListByTruckload(truckloadID entities.TruckloadID, category entities.Category) ([]entities.Adjustment, error)
	ListByOrder(orderID entities.OrderID, category entities.Category) ([]entities.Adjustment, error)
	Create(adjustment entities.Adjustment) error
	Delete(id string) error
	GetAll() ([]entities.Adjustment, error)
	LoadAdjustments(adjustments []entities.Adjustment) error
}
