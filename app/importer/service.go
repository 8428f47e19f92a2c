package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fdubois/autodeal/app/database"
	"github.com/fdubois/autodeal/app/listing"
)

var (
	// ErrInvalidURL is returned when the URL does not point to AutoScout24
	ErrInvalidURL = errors.New("invalid autoscout24 url")
	// ErrRenderFailed is returned when the page could not be rendered
	ErrRenderFailed = errors.New("failed to render listing page")
	// ErrMissingKeys is returned when neither ad ID nor source URL is given
	ErrMissingKeys = errors.New("either ad ID or source URL is required")
)

// ErrAlreadyImported mirrors the registry sentinel for callers that only
// import this package.
var ErrAlreadyImported = database.ErrAlreadyImported

// Service coordinates the listing import flow: render the page, extract the
// record and keep the duplicate registry up to date.
type Service struct {
	renderer  Renderer
	extractor *listing.Extractor
	imports   database.ImportRepository
}

// NewService creates a new import service
func NewService(renderer Renderer, extractor *listing.Extractor, imports database.ImportRepository) *Service {
	return &Service{
		renderer:  renderer,
		extractor: extractor,
		imports:   imports,
	}
}

// Extract renders the listing at the given URL and runs the field extractors
// against the snapshot.
func (s *Service) Extract(ctx context.Context, url string) (*listing.Extraction, error) {
	if !strings.Contains(url, "autoscout24") {
		return nil, ErrInvalidURL
	}

	page, err := s.renderer.Render(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	result := s.extractor.Run(page)
	slog.Info("Extracted listing",
		"url", url,
		"make", result.Vehicle.Make,
		"model", result.Vehicle.Model,
		"price", result.Vehicle.Price,
		"ad_id", result.Vehicle.AdID)

	return result, nil
}

// CheckDuplicate reports whether the listing was already imported. A registry
// read failure is logged and treated as "not imported", so a broken registry
// degrades to duplicate imports instead of blocking imports entirely.
func (s *Service) CheckDuplicate(adID, sourceURL string) bool {
	exists, err := s.imports.IsImported(adID, sourceURL)
	if err != nil {
		slog.Error("Duplicate check failed, assuming not imported", "ad_id", adID, "source_url", sourceURL, "error", err)
		return false
	}
	return exists
}

// RecordImport registers the listing in the duplicate registry. Returns
// ErrAlreadyImported when an entry with the same keys exists and
// ErrMissingKeys when no key is given.
func (s *Service) RecordImport(adID, sourceURL, make, model string) (*database.ImportedAd, error) {
	if strings.TrimSpace(adID) == "" && strings.TrimSpace(sourceURL) == "" {
		return nil, ErrMissingKeys
	}

	ad, err := s.imports.RecordImport(database.ImportedAd{
		AdID:      adID,
		SourceURL: sourceURL,
		Make:      make,
		Model:     model,
	})
	if err != nil {
		if errors.Is(err, database.ErrAlreadyImported) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	slog.Info("Recorded imported listing", "ad_id", adID, "source_url", sourceURL)
	return ad, nil
}
