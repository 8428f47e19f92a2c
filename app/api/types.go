package api

import (
	"context"

	"github.com/fdubois/autodeal/app/database"
	"github.com/fdubois/autodeal/app/importer"
	"github.com/fdubois/autodeal/app/listing"
	"github.com/fdubois/autodeal/app/tasks"
)

type ImporterInterface interface {
	Extract(ctx context.Context, url string) (*listing.Extraction, error)
	CheckDuplicate(adID, sourceURL string) bool
	RecordImport(adID, sourceURL, make, model string) (*database.ImportedAd, error)
}

var _ ImporterInterface = (*importer.Service)(nil)

type Handler struct {
	sellerRepo      database.SellerRepository
	buyerRepo       database.BuyerRepository
	vehicleRepo     database.VehicleRepository
	reminderRepo    database.ReminderRepository
	interactionRepo database.InteractionRepository
	importRepo      database.ImportRepository
	importer        ImporterInterface
	scheduler       tasks.TaskSchedulerInterface
}
