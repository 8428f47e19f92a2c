package database

import (
	"time"
)

type SellerRepository interface {
	// CreateWithVehicle inserts a seller and its mandatory vehicle in one
	// transaction. The vehicle is linked to the new seller.
	CreateWithVehicle(seller Seller, vehicle Vehicle) (*Seller, *Vehicle, error)
	GetSeller(id string) (*Seller, error)
	GetAllSellers() ([]Seller, error)
	GetSellerCount() (int, error)
	GetPotentialSellerCount() (int, error)
}

type BuyerRepository interface {
	// CreateBuyer inserts a buyer, an optional initial interaction and an
	// optional link to an available vehicle, all in one transaction.
	CreateBuyer(buyer Buyer, initialNotes string, interestedVehicleID string) (*Buyer, error)
	GetBuyer(id string) (*Buyer, error)
	GetAllBuyers() ([]Buyer, error)
	GetBuyerCount() (int, error)
}

type VehicleRepository interface {
	CreateVehicle(vehicle Vehicle) (*Vehicle, error)
	GetVehicle(id string) (*Vehicle, error)
	GetAllVehicles() ([]Vehicle, error)
	GetVehiclesForSeller(sellerID string) ([]Vehicle, error)
	GetAvailableVehicles() ([]Vehicle, error)

	// FindMatching returns available vehicles whose make, model or
	// description contains any of the whitespace-separated keywords in
	// interest. A limit of 0 means no limit.
	FindMatching(interest string, limit int) ([]Vehicle, error)

	// FindByAdOrURL returns the vehicle already holding the given ad ID or
	// source URL, or nil when neither is present. Empty keys are ignored.
	FindByAdOrURL(adID, sourceURL string) (*Vehicle, error)

	UpdateVehicleStatus(id, status, buyerID string) (*Vehicle, error)
	DeleteVehicle(id string) error
	GetInStockCount() (int, error)
}

type ReminderRepository interface {
	CreateReminder(reminder Reminder) (*Reminder, error)
	GetAllReminders() ([]Reminder, error)
	GetRemindersForSeller(sellerID string) ([]Reminder, error)
	GetRemindersForBuyer(buyerID string) ([]Reminder, error)
	UpdateReminderStatus(id, status string) (*Reminder, error)
	GetTodoReminderCount() (int, error)

	// GetOverdueReminders returns TODO reminders due at or before the given
	// time, oldest first.
	GetOverdueReminders(now time.Time) ([]Reminder, error)
}

type InteractionRepository interface {
	AddInteraction(interaction Interaction) (*Interaction, error)
	GetInteractionsForSeller(sellerID string) ([]Interaction, error)
	GetInteractionsForBuyer(buyerID string) ([]Interaction, error)
}

type ImportRepository interface {
	// IsImported reports whether the registry already holds an entry with
	// the given ad ID or source URL. Empty keys are ignored.
	IsImported(adID, sourceURL string) (bool, error)

	// RecordImport appends a registry entry. Returns ErrAlreadyImported
	// when an entry with the same ad ID or source URL exists.
	RecordImport(ad ImportedAd) (*ImportedAd, error)

	GetImportedAdCount() (int, error)
}
