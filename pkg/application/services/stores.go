package services

import "github.com/vsinha/freightpay/pkg/domain/repositories"

// Stores bundles the collaborators shared by the payroll and split-load services
type Stores struct {
	Orders      repositories.OrderRepository
	Adjustments repositories.AdjustmentRepository
	Truckloads  repositories.TruckloadRepository
	Drivers     repositories.DriverSettingsRepository
	Splits      repositories.SplitConfigRepository
	Settlements repositories.SettlementRepository
}
