package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLoadPercentage applies to drivers without a configured percentage
var DefaultLoadPercentage = decimal.RequireFromString("30.00")

// Truckload is a scheduled grouping of one driver's pickups and deliveries
type Truckload struct {
	ID         TruckloadID `json:"id"`
	DriverID   DriverID    `json:"driver_id"`
	DriverName string      `json:"driver_name"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
}

// NewTruckload creates a validated Truckload
func NewTruckload(id TruckloadID, driverID DriverID, driverName string, startDate, endDate time.Time) (*Truckload, error) {
	if id == "" {
		return nil, fmt.Errorf("truckload id cannot be empty")
	}
	if driverID == "" {
		return nil, fmt.Errorf("driver id cannot be empty")
	}
	if !startDate.IsZero() && !endDate.IsZero() && startDate.After(endDate) {
		return nil, fmt.Errorf("start date %s cannot be after end date %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	return &Truckload{
		ID:         id,
		DriverID:   driverID,
		DriverName: driverName,
		StartDate:  startDate,
		EndDate:    endDate,
	}, nil
}

// DriverSettings holds per-driver payroll configuration
type DriverSettings struct {
	DriverID       DriverID         `json:"driver_id"`
	LoadPercentage *decimal.Decimal `json:"load_percentage,omitempty"`
}

// EffectiveLoadPercentage returns the configured percentage or the fallback
func (s *DriverSettings) EffectiveLoadPercentage(fallback decimal.Decimal) decimal.Decimal {
	if s == nil || s.LoadPercentage == nil {
		return fallback
	}
	return *s.LoadPercentage
}
