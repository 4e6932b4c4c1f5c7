package entities

import "time"

// SettlementSnapshot is a computed breakdown frozen for a truckload's pay period
type SettlementSnapshot struct {
	ID          string           `json:"id"`
	TruckloadID TruckloadID      `json:"truckload_id"`
	DriverID    DriverID         `json:"driver_id"`
	Breakdown   PayrollBreakdown `json:"breakdown"`
	CreatedAt   time.Time        `json:"created_at"`
}
