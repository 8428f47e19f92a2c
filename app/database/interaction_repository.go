package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type interactionRepository struct {
	db *DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) AddInteraction(interaction Interaction) (*Interaction, error) {
	now := time.Now().UTC()
	interaction.ID = uuid.NewString()
	interaction.CreatedAt = now
	if interaction.Date.IsZero() {
		interaction.Date = now
	}

	_, err := r.db.Exec(`
		INSERT INTO interactions (id, seller_id, buyer_id, notes, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, interaction.ID, nullIfEmpty(interaction.SellerID), nullIfEmpty(interaction.BuyerID),
		interaction.Notes, interaction.Date, interaction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w", err)
	}

	return &interaction, nil
}

func (r *interactionRepository) GetInteractionsForSeller(sellerID string) ([]Interaction, error) {
	return r.queryInteractions(`
		SELECT id, COALESCE(seller_id, ''), COALESCE(buyer_id, ''), notes, date, created_at
		FROM interactions
		WHERE seller_id = ?
		ORDER BY date DESC
	`, sellerID)
}

func (r *interactionRepository) GetInteractionsForBuyer(buyerID string) ([]Interaction, error) {
	return r.queryInteractions(`
		SELECT id, COALESCE(seller_id, ''), COALESCE(buyer_id, ''), notes, date, created_at
		FROM interactions
		WHERE buyer_id = ?
		ORDER BY date DESC
	`, buyerID)
}

func (r *interactionRepository) queryInteractions(query string, args ...any) ([]Interaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		var interaction Interaction
		err := rows.Scan(
			&interaction.ID, &interaction.SellerID, &interaction.BuyerID,
			&interaction.Notes, &interaction.Date, &interaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction row: %w", err)
		}
		interactions = append(interactions, interaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interaction rows: %w", err)
	}

	return interactions, nil
}
