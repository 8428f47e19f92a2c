package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type buyerRepository struct {
	db *DB
}

// NewBuyerRepository creates a new buyer repository
func NewBuyerRepository(db *DB) BuyerRepository {
	return &buyerRepository{db: db}
}

func (r *buyerRepository) CreateBuyer(buyer Buyer, initialNotes string, interestedVehicleID string) (*Buyer, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	buyer.ID = uuid.NewString()
	buyer.CreatedAt = now
	buyer.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO buyers (id, first_name, last_name, email, phone, address, vehicle_interest, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, buyer.ID, buyer.FirstName, buyer.LastName, buyer.Email, buyer.Phone,
		buyer.Address, buyer.VehicleInterest, buyer.CreatedAt, buyer.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert buyer: %w", err)
	}

	if initialNotes != "" {
		if err := insertInteraction(tx, "", buyer.ID, initialNotes, now); err != nil {
			return nil, err
		}
	}

	if interestedVehicleID != "" {
		var make, model string
		var year int
		err := tx.QueryRow(`
			SELECT make, model, year FROM vehicles
			WHERE id = ? AND status = ?
		`, interestedVehicleID, VehicleStatusAvailable).Scan(&make, &model, &year)

		// A missing or unavailable vehicle is skipped, the buyer is still created
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to check interested vehicle: %w", err)
		}
		if err == nil {
			_, err = tx.Exec(`
				UPDATE vehicles SET buyer_id = ?, updated_at = ? WHERE id = ?
			`, buyer.ID, now, interestedVehicleID)
			if err != nil {
				return nil, fmt.Errorf("failed to link interested vehicle: %w", err)
			}

			notes := fmt.Sprintf("Intéressé par le véhicule: %s %s (%d)", make, model, year)
			if err := insertInteraction(tx, "", buyer.ID, notes, now); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &buyer, nil
}

func (r *buyerRepository) GetBuyer(id string) (*Buyer, error) {
	var buyer Buyer
	err := scanBuyer(r.db.QueryRow(`
		SELECT id, first_name, last_name, email, phone, address, vehicle_interest, created_at, updated_at
		FROM buyers
		WHERE id = ?
	`, id), &buyer)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}

	return &buyer, nil
}

func (r *buyerRepository) GetAllBuyers() ([]Buyer, error) {
	rows, err := r.db.Query(`
		SELECT id, first_name, last_name, email, phone, address, vehicle_interest, created_at, updated_at
		FROM buyers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyers: %w", err)
	}
	defer rows.Close()

	var buyers []Buyer
	for rows.Next() {
		var buyer Buyer
		if err := scanBuyer(rows, &buyer); err != nil {
			return nil, fmt.Errorf("failed to scan buyer row: %w", err)
		}
		buyers = append(buyers, buyer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buyer rows: %w", err)
	}

	return buyers, nil
}

func (r *buyerRepository) GetBuyerCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM buyers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get buyer count: %w", err)
	}
	return count, nil
}

func insertInteraction(tx *sql.Tx, sellerID, buyerID, notes string, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO interactions (id, seller_id, buyer_id, notes, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), nullIfEmpty(sellerID), nullIfEmpty(buyerID), notes, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

func scanBuyer(row rowScanner, buyer *Buyer) error {
	return row.Scan(
		&buyer.ID, &buyer.FirstName, &buyer.LastName, &buyer.Email, &buyer.Phone,
		&buyer.Address, &buyer.VehicleInterest, &buyer.CreatedAt, &buyer.UpdatedAt,
	)
}
