package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type sellerRepository struct {
	db *DB
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) CreateWithVehicle(seller Seller, vehicle Vehicle) (*Seller, *Vehicle, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	seller.ID = uuid.NewString()
	seller.CreatedAt = now
	seller.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO sellers (id, first_name, last_name, email, phone, address, is_potential, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, seller.ID, seller.FirstName, seller.LastName, seller.Email, seller.Phone,
		seller.Address, seller.IsPotential, seller.CreatedAt, seller.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert seller: %w", err)
	}

	vehicle.ID = uuid.NewString()
	vehicle.SellerID = seller.ID
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	if vehicle.Status == "" {
		vehicle.Status = VehicleStatusAvailable
	}

	_, err = tx.Exec(`
		INSERT INTO vehicles (id, seller_id, buyer_id, make, model, year, mileage, price,
		                      fuel, transmission, power, description, image_url,
		                      ad_id, source, source_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, vehicle.ID, vehicle.SellerID, nullIfEmpty(vehicle.BuyerID), vehicle.Make, vehicle.Model,
		vehicle.Year, vehicle.Mileage, vehicle.Price, vehicle.Fuel, vehicle.Transmission,
		vehicle.Power, vehicle.Description, vehicle.ImageURL, vehicle.AdID, vehicle.Source,
		vehicle.SourceURL, vehicle.Status, vehicle.CreatedAt, vehicle.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert vehicle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &seller, &vehicle, nil
}

func (r *sellerRepository) GetSeller(id string) (*Seller, error) {
	var seller Seller
	err := scanSeller(r.db.QueryRow(`
		SELECT id, first_name, last_name, email, phone, address, is_potential, created_at, updated_at
		FROM sellers
		WHERE id = ?
	`, id), &seller)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}

	return &seller, nil
}

func (r *sellerRepository) GetAllSellers() ([]Seller, error) {
	rows, err := r.db.Query(`
		SELECT id, first_name, last_name, email, phone, address, is_potential, created_at, updated_at
		FROM sellers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sellers: %w", err)
	}
	defer rows.Close()

	var sellers []Seller
	for rows.Next() {
		var seller Seller
		if err := scanSeller(rows, &seller); err != nil {
			return nil, fmt.Errorf("failed to scan seller row: %w", err)
		}
		sellers = append(sellers, seller)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller rows: %w", err)
	}

	return sellers, nil
}

func (r *sellerRepository) GetSellerCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sellers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get seller count: %w", err)
	}
	return count, nil
}

func (r *sellerRepository) GetPotentialSellerCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sellers WHERE is_potential = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get potential seller count: %w", err)
	}
	return count, nil
}

func scanSeller(row rowScanner, seller *Seller) error {
	return row.Scan(
		&seller.ID, &seller.FirstName, &seller.LastName, &seller.Email, &seller.Phone,
		&seller.Address, &seller.IsPotential, &seller.CreatedAt, &seller.UpdatedAt,
	)
}
