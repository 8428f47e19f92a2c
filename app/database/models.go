package database

import (
	"time"
)

// Vehicle lifecycle statuses. AVAILABLE vehicles are offered by a seller,
// IN_STOCK vehicles belong to the dealership, SOLD vehicles carry the buyer.
const (
	VehicleStatusAvailable = "AVAILABLE"
	VehicleStatusInStock   = "IN_STOCK"
	VehicleStatusSold      = "SOLD"
)

// Reminder statuses, in display order.
const (
	ReminderStatusTodo      = "TODO"
	ReminderStatusPostponed = "POSTPONED"
	ReminderStatusDone      = "DONE"
)

// IsValidVehicleStatus reports whether status is a known vehicle status
func IsValidVehicleStatus(status string) bool {
	switch status {
	case VehicleStatusAvailable, VehicleStatusInStock, VehicleStatusSold:
		return true
	}
	return false
}

// IsValidReminderStatus reports whether status is a known reminder status
func IsValidReminderStatus(status string) bool {
	switch status {
	case ReminderStatusTodo, ReminderStatusPostponed, ReminderStatusDone:
		return true
	}
	return false
}

// Seller represents a seller record in the database
type Seller struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	IsPotential bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Buyer represents a buyer record in the database. VehicleInterest holds
// free-text keywords used to match available vehicles.
type Buyer struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string
	VehicleInterest string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Vehicle represents a vehicle record in the database. SellerID and BuyerID
// are empty when unassigned.
type Vehicle struct {
	ID           string
	SellerID     string
	BuyerID      string
	Make         string
	Model        string
	Year         int
	Mileage      int
	Price        int
	Fuel         string
	Transmission string
	Power        string
	Description  string
	ImageURL     string
	AdID         string
	Source       string
	SourceURL    string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Reminder represents a follow-up call reminder, attached to either a seller
// or a buyer.
type Reminder struct {
	ID        string
	SellerID  string
	BuyerID   string
	Date      time.Time
	Reason    string
	Notes     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interaction represents a logged contact with a seller or a buyer
type Interaction struct {
	ID        string
	SellerID  string
	BuyerID   string
	Notes     string
	Date      time.Time
	CreatedAt time.Time
}

// ImportedAd represents a duplicate-registry entry for an imported listing
type ImportedAd struct {
	ID         string
	AdID       string
	SourceURL  string
	Make       string
	Model      string
	ImportedAt time.Time
}

// DashboardStats aggregates the counters shown on the dashboard
type DashboardStats struct {
	PotentialClients int `json:"potentialClients"`
	VehiclesInStock  int `json:"vehiclesInStock"`
	ClientsToCall    int `json:"clientsToCall"`
	TotalClients     int `json:"totalClients"`
}
