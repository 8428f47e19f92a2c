package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const vehicleColumns = `id, COALESCE(seller_id, ''), COALESCE(buyer_id, ''), make, model, year, mileage, price,
       fuel, transmission, power, description, image_url, ad_id, source, source_url, status, created_at, updated_at`

type vehicleRepository struct {
	db *DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) CreateVehicle(vehicle Vehicle) (*Vehicle, error) {
	now := time.Now().UTC()
	vehicle.ID = uuid.NewString()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	if vehicle.Status == "" {
		vehicle.Status = VehicleStatusAvailable
	}

	_, err := r.db.Exec(`
		INSERT INTO vehicles (id, seller_id, buyer_id, make, model, year, mileage, price,
		                      fuel, transmission, power, description, image_url,
		                      ad_id, source, source_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, vehicle.ID, nullIfEmpty(vehicle.SellerID), nullIfEmpty(vehicle.BuyerID), vehicle.Make,
		vehicle.Model, vehicle.Year, vehicle.Mileage, vehicle.Price, vehicle.Fuel,
		vehicle.Transmission, vehicle.Power, vehicle.Description, vehicle.ImageURL,
		vehicle.AdID, vehicle.Source, vehicle.SourceURL, vehicle.Status,
		vehicle.CreatedAt, vehicle.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetVehicle(id string) (*Vehicle, error) {
	var vehicle Vehicle
	err := scanVehicle(r.db.QueryRow(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = ?
	`, id), &vehicle)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetAllVehicles() ([]Vehicle, error) {
	return r.queryVehicles(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		ORDER BY created_at DESC
	`)
}

func (r *vehicleRepository) GetVehiclesForSeller(sellerID string) ([]Vehicle, error) {
	return r.queryVehicles(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE seller_id = ?
		ORDER BY created_at DESC
	`, sellerID)
}

func (r *vehicleRepository) GetAvailableVehicles() ([]Vehicle, error) {
	return r.queryVehicles(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE status = ?
		ORDER BY created_at DESC
	`, VehicleStatusAvailable)
}

func (r *vehicleRepository) FindMatching(interest string, limit int) ([]Vehicle, error) {
	keywords := strings.Fields(strings.ToLower(interest))
	if len(keywords) == 0 {
		return nil, nil
	}

	var conditions []string
	args := []any{VehicleStatusAvailable}
	for _, keyword := range keywords {
		pattern := "%" + keyword + "%"
		conditions = append(conditions,
			"(make LIKE ? COLLATE NOCASE OR model LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)")
		args = append(args, pattern, pattern, pattern)
	}

	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE status = ? AND (` + strings.Join(conditions, " OR ") + `)
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryVehicles(query, args...)
}

func (r *vehicleRepository) FindByAdOrURL(adID, sourceURL string) (*Vehicle, error) {
	var conditions []string
	var args []any
	if strings.TrimSpace(adID) != "" {
		conditions = append(conditions, "ad_id = ?")
		args = append(args, adID)
	}
	if strings.TrimSpace(sourceURL) != "" {
		conditions = append(conditions, "source_url = ?")
		args = append(args, sourceURL)
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	var vehicle Vehicle
	err := scanVehicle(r.db.QueryRow(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE `+strings.Join(conditions, " OR ")+`
		LIMIT 1
	`, args...), &vehicle)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle by ad keys: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) UpdateVehicleStatus(id, status, buyerID string) (*Vehicle, error) {
	if !IsValidVehicleStatus(status) {
		return nil, fmt.Errorf("invalid vehicle status: %s", status)
	}

	var err error
	if status == VehicleStatusSold && buyerID != "" {
		_, err = r.db.Exec(`
			UPDATE vehicles
			SET status = ?, buyer_id = ?, updated_at = ?
			WHERE id = ?
		`, status, buyerID, time.Now().UTC(), id)
	} else {
		_, err = r.db.Exec(`
			UPDATE vehicles
			SET status = ?, updated_at = ?
			WHERE id = ?
		`, status, time.Now().UTC(), id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update vehicle status: %w", err)
	}

	vehicle, err := r.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fmt.Errorf("vehicle not found: %s", id)
	}

	return vehicle, nil
}

func (r *vehicleRepository) DeleteVehicle(id string) error {
	result, err := r.db.Exec("DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vehicle not found: %s", id)
	}

	return nil
}

func (r *vehicleRepository) GetInStockCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM vehicles WHERE status = ?", VehicleStatusInStock).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get in-stock vehicle count: %w", err)
	}
	return count, nil
}

func (r *vehicleRepository) queryVehicles(query string, args ...any) ([]Vehicle, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var vehicle Vehicle
		if err := scanVehicle(rows, &vehicle); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", err)
	}

	return vehicles, nil
}

func scanVehicle(row rowScanner, vehicle *Vehicle) error {
	return row.Scan(
		&vehicle.ID, &vehicle.SellerID, &vehicle.BuyerID, &vehicle.Make, &vehicle.Model,
		&vehicle.Year, &vehicle.Mileage, &vehicle.Price, &vehicle.Fuel, &vehicle.Transmission,
		&vehicle.Power, &vehicle.Description, &vehicle.ImageURL, &vehicle.AdID,
		&vehicle.Source, &vehicle.SourceURL, &vehicle.Status,
		&vehicle.CreatedAt, &vehicle.UpdatedAt,
	)
}
