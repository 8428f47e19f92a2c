package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdubois/autodeal/app/database"
)

// MatchBuyersTask walks all buyers with a stated vehicle interest and logs
// which available vehicles currently match their keywords. Triggered on
// demand through the API after new vehicles come in.
type MatchBuyersTask struct {
	Task
	buyerRepo   database.BuyerRepository
	vehicleRepo database.VehicleRepository
}

func NewMatchBuyersTask(buyerRepo database.BuyerRepository, vehicleRepo database.VehicleRepository) *MatchBuyersTask {
	return &MatchBuyersTask{
		Task:        NewTask(TaskTypeMatchBuyers),
		buyerRepo:   buyerRepo,
		vehicleRepo: vehicleRepo,
	}
}

func (t *MatchBuyersTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	buyers, err := t.buyerRepo.GetAllBuyers()
	if err != nil {
		return fmt.Errorf("failed to get buyers: %w", err)
	}

	matchedBuyers := 0
	errorCount := 0

	for _, buyer := range buyers {
		if buyer.VehicleInterest == "" {
			continue
		}

		matches, err := t.vehicleRepo.FindMatching(buyer.VehicleInterest, 3)
		if err != nil {
			slog.Error("Failed to match vehicles for buyer", "buyer_id", buyer.ID, "error", err)
			errorCount++
			continue
		}
		if len(matches) == 0 {
			continue
		}

		matchedBuyers++
		for _, vehicle := range matches {
			slog.Info("Vehicle match found",
				"buyer_id", buyer.ID,
				"buyer", buyer.FirstName+" "+buyer.LastName,
				"vehicle_id", vehicle.ID,
				"vehicle", vehicle.Make+" "+vehicle.Model,
				"price", vehicle.Price)
		}
	}

	slog.Info("Task completed",
		"type", "MatchBuyers",
		"duration", t.GetDuration(),
		"buyers", len(buyers),
		"matched", matchedBuyers,
		"errors", errorCount)

	return nil
}
