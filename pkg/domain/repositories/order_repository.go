package repositories

import "github.com/vsinha/freightpay/pkg/domain/entities"

// OrderRepository provides access to the assignment legs of orders
type OrderRepository interface {
	GetAssignmentsByTruckload(truckloadID entities.TruckloadID) ([]entities.AssignedOrder, error)
	GetAssignmentsByOrder(orderID entities.OrderID) ([]entities.AssignedOrder, error)
	GetAssignment(assignmentID string) (*entities.AssignedOrder, error)
	SaveAssignment(order *entities.AssignedOrder) error
	GetAllAssignments() ([]entities.AssignedOrder, error)
	LoadAssignments(orders []*entities.AssignedOrder) error
}
