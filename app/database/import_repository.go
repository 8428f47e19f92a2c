package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyImported is returned when the duplicate registry already holds an
// entry with the same ad ID or source URL.
var ErrAlreadyImported = errors.New("ad already imported")

type importRepository struct {
	db *DB
}

// NewImportRepository creates a new duplicate-registry repository
func NewImportRepository(db *DB) ImportRepository {
	return &importRepository{db: db}
}

func (r *importRepository) IsImported(adID, sourceURL string) (bool, error) {
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
		return false, nil
	}

	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM imported_ads WHERE `+strings.Join(conditions, " OR "),
		args...).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check imported ads: %w", err)
	}

	return count > 0, nil
}

func (r *importRepository) RecordImport(ad ImportedAd) (*ImportedAd, error) {
	if strings.TrimSpace(ad.AdID) == "" && strings.TrimSpace(ad.SourceURL) == "" {
		return nil, fmt.Errorf("either ad ID or source URL is required")
	}

	exists, err := r.IsImported(ad.AdID, ad.SourceURL)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyImported
	}

	ad.ID = uuid.NewString()
	ad.ImportedAt = time.Now().UTC()

	// The partial unique indexes back up the check above in case another
	// writer got in between.
	_, err = r.db.Exec(`
		INSERT INTO imported_ads (id, ad_id, source_url, make, model, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ad.ID, ad.AdID, ad.SourceURL, ad.Make, ad.Model, ad.ImportedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrAlreadyImported
		}
		return nil, fmt.Errorf("failed to record imported ad: %w", err)
	}

	return &ad, nil
}

func (r *importRepository) GetImportedAdCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM imported_ads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get imported ad count: %w", err)
	}
	return count, nil
}
