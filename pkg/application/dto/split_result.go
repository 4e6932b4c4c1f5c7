package dto

import "github.com/vsinha/freightpay/pkg/domain/entities"

// SplitResult reports what a split-load operation did to an order
type SplitResult struct {
	OrderID       entities.OrderID             `json:"order_id"`
	State         entities.SplitState          `json:"state"`
	Configuration *entities.SplitConfiguration `json:"configuration,omitempty"`
	Changed       bool                         `json:"changed"`
	CreatedIDs    []string                     `json:"created_ids"`
	DeletedIDs    []string                     `json:"deleted_ids"`
	Warnings      []entities.Advisory          `json:"warnings"`
}
