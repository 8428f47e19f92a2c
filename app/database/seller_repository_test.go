package database

import (
	"testing"
)

func TestCreateSellerWithVehicle(t *testing.T) {
	db := newTestDB(t)
	repo := NewSellerRepository(db)
	vehicleRepo := NewVehicleRepository(db)

	seller, vehicle, err := repo.CreateWithVehicle(
		Seller{FirstName: "Jean", LastName: "Dupont", Phone: "+33612345678", IsPotential: true},
		Vehicle{Make: "Volkswagen", Model: "Golf", Year: 2019, Mileage: 45230, Price: 18500},
	)
	if err != nil {
		t.Fatalf("Failed to create seller with vehicle: %v", err)
	}
	if seller.ID == "" || vehicle.ID == "" {
		t.Fatal("Expected generated IDs for seller and vehicle")
	}
	if vehicle.SellerID != seller.ID {
		t.Errorf("Expected vehicle linked to seller, got '%s'", vehicle.SellerID)
	}
	if vehicle.Status != VehicleStatusAvailable {
		t.Errorf("Expected default status AVAILABLE, got '%s'", vehicle.Status)
	}

	sellerVehicles, err := vehicleRepo.GetVehiclesForSeller(seller.ID)
	if err != nil {
		t.Fatalf("Failed to get seller vehicles: %v", err)
	}
	if len(sellerVehicles) != 1 {
		t.Errorf("Expected 1 vehicle for seller, got %d", len(sellerVehicles))
	}

	fetched, err := repo.GetSeller(seller.ID)
	if err != nil {
		t.Fatalf("Failed to get seller: %v", err)
	}
	if fetched == nil || fetched.FirstName != "Jean" {
		t.Errorf("Unexpected seller: %+v", fetched)
	}
	if !fetched.IsPotential {
		t.Error("Expected seller to be flagged as potential")
	}
}

func TestSellerCounts(t *testing.T) {
	repo := NewSellerRepository(newTestDB(t))

	for _, potential := range []bool{true, true, false} {
		_, _, err := repo.CreateWithVehicle(
			Seller{LastName: "Dupont", IsPotential: potential},
			Vehicle{Make: "Renault", Model: "Clio"},
		)
		if err != nil {
			t.Fatalf("Failed to create seller: %v", err)
		}
	}

	total, err := repo.GetSellerCount()
	if err != nil {
		t.Fatalf("Failed to get seller count: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected 3 sellers, got %d", total)
	}

	potential, err := repo.GetPotentialSellerCount()
	if err != nil {
		t.Fatalf("Failed to get potential seller count: %v", err)
	}
	if potential != 2 {
		t.Errorf("Expected 2 potential sellers, got %d", potential)
	}
}
