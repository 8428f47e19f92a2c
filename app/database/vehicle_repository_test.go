package database

import (
	"testing"
)

func TestCreateAndGetVehicle(t *testing.T) {
	repo := NewVehicleRepository(newTestDB(t))

	created, err := repo.CreateVehicle(Vehicle{
		Make:    "Volkswagen",
		Model:   "Golf 2.0 TDI",
		Year:    2019,
		Mileage: 45230,
		Price:   18500,
		Fuel:    "Diesel",
	})
	if err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected generated vehicle ID")
	}
	if created.Status != VehicleStatusAvailable {
		t.Errorf("Expected default status AVAILABLE, got '%s'", created.Status)
	}

	fetched, err := repo.GetVehicle(created.ID)
	if err != nil {
		t.Fatalf("Failed to get vehicle: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected vehicle, got nil")
	}
	if fetched.Make != "Volkswagen" || fetched.Model != "Golf 2.0 TDI" {
		t.Errorf("Unexpected vehicle data: %s %s", fetched.Make, fetched.Model)
	}

	missing, err := repo.GetVehicle("nonexistent")
	if err != nil {
		t.Fatalf("Failed to get missing vehicle: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing vehicle")
	}
}

func TestFindMatching(t *testing.T) {
	repo := NewVehicleRepository(newTestDB(t))

	vehicles := []Vehicle{
		{Make: "Volkswagen", Model: "Golf", Description: "Berline compacte"},
		{Make: "BMW", Model: "320d Touring", Description: "Break familial"},
		{Make: "Renault", Model: "Clio", Description: "Citadine"},
	}
	for _, v := range vehicles {
		if _, err := repo.CreateVehicle(v); err != nil {
			t.Fatalf("Failed to create vehicle: %v", err)
		}
	}

	// A sold vehicle never matches
	sold, err := repo.CreateVehicle(Vehicle{Make: "Volkswagen", Model: "Passat", Status: VehicleStatusSold})
	if err != nil {
		t.Fatalf("Failed to create sold vehicle: %v", err)
	}
	_ = sold

	matches, err := repo.FindMatching("volkswagen break", 3)
	if err != nil {
		t.Fatalf("Failed to find matching vehicles: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Model == "Passat" {
			t.Error("Expected sold vehicle to be excluded")
		}
	}

	matches, err = repo.FindMatching("golf", 0)
	if err != nil {
		t.Fatalf("Failed to find matching vehicles: %v", err)
	}
	if len(matches) != 1 || matches[0].Model != "Golf" {
		t.Errorf("Expected single Golf match, got %v", matches)
	}

	matches, err = repo.FindMatching("   ", 3)
	if err != nil {
		t.Fatalf("Failed to handle empty interest: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches for empty interest, got %d", len(matches))
	}
}

func TestFindByAdOrURL(t *testing.T) {
	repo := NewVehicleRepository(newTestDB(t))

	_, err := repo.CreateVehicle(Vehicle{
		Make:      "Volkswagen",
		Model:     "Golf",
		AdID:      "c7f1c0f7-9c7b-4f5e-9d5f-f2e9a0e9c7f1",
		SourceURL: "https://example.test/offres/golf",
	})
	if err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}

	found, err := repo.FindByAdOrURL("c7f1c0f7-9c7b-4f5e-9d5f-f2e9a0e9c7f1", "")
	if err != nil {
		t.Fatalf("Failed to find by ad ID: %v", err)
	}
	if found == nil {
		t.Fatal("Expected vehicle by ad ID")
	}

	found, err = repo.FindByAdOrURL("", "https://example.test/offres/golf")
	if err != nil {
		t.Fatalf("Failed to find by source URL: %v", err)
	}
	if found == nil {
		t.Fatal("Expected vehicle by source URL")
	}

	found, err = repo.FindByAdOrURL("", "")
	if err != nil {
		t.Fatalf("Failed to handle empty keys: %v", err)
	}
	if found != nil {
		t.Error("Expected nil for empty keys")
	}
}

func TestUpdateVehicleStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewVehicleRepository(db)
	buyerRepo := NewBuyerRepository(db)

	created, err := repo.CreateVehicle(Vehicle{Make: "Volkswagen", Model: "Golf"})
	if err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}

	buyer, err := buyerRepo.CreateBuyer(Buyer{FirstName: "Jean", LastName: "Dupont"}, "", "")
	if err != nil {
		t.Fatalf("Failed to create buyer: %v", err)
	}

	updated, err := repo.UpdateVehicleStatus(created.ID, VehicleStatusSold, buyer.ID)
	if err != nil {
		t.Fatalf("Failed to update vehicle status: %v", err)
	}
	if updated.Status != VehicleStatusSold {
		t.Errorf("Expected status SOLD, got '%s'", updated.Status)
	}
	if updated.BuyerID != buyer.ID {
		t.Errorf("Expected buyer to be linked on sale, got '%s'", updated.BuyerID)
	}

	if _, err := repo.UpdateVehicleStatus(created.ID, "SCRAPPED", ""); err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestDeleteVehicle(t *testing.T) {
	repo := NewVehicleRepository(newTestDB(t))

	created, err := repo.CreateVehicle(Vehicle{Make: "Volkswagen", Model: "Golf"})
	if err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}

	if err := repo.DeleteVehicle(created.ID); err != nil {
		t.Fatalf("Failed to delete vehicle: %v", err)
	}

	if err := repo.DeleteVehicle(created.ID); err == nil {
		t.Error("Expected error for already deleted vehicle")
	}
}
