package entities

// OrderID identifies a single freight movement
type OrderID string

// TruckloadID identifies one driver's scheduled run of pickups and deliveries
type TruckloadID string

// DriverID identifies a driver
type DriverID string
