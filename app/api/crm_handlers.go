package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fdubois/autodeal/app/database"
	"github.com/fdubois/autodeal/app/tasks"
)

type vehiclePayload struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Mileage      int    `json:"mileage"`
	Price        int    `json:"price"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`
	Power        string `json:"power"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	AdID         string `json:"adId"`
	Source       string `json:"source"`
	SourceURL    string `json:"sourceUrl"`
	InStock      bool   `json:"inStock"`
	SellerID     string `json:"sellerId"`
}

// CreateSeller creates a seller together with its mandatory vehicle. The
// vehicle is checked against already imported listings first.
func (h *Handler) CreateSeller(c *gin.Context) {
	var req struct {
		FirstName   string          `json:"firstName"`
		LastName    string          `json:"lastName"`
		Email       string          `json:"email"`
		Phone       string          `json:"phone"`
		Address     string          `json:"address"`
		IsPotential *bool           `json:"isPotential"`
		Vehicle     *vehiclePayload `json:"vehicle"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Vehicle == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les informations du véhicule sont requises"})
		return
	}

	if req.Vehicle.Make == "" || req.Vehicle.Model == "" || req.Vehicle.Mileage == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les informations du véhicule sont incomplètes (make, model, mileage requis)"})
		return
	}

	if strings.TrimSpace(req.Vehicle.AdID) != "" || strings.TrimSpace(req.Vehicle.SourceURL) != "" {
		existing, err := h.vehicleRepo.FindByAdOrURL(req.Vehicle.AdID, req.Vehicle.SourceURL)
		if err != nil {
			slog.Error("Database error", "operation", "find_by_ad_keys", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la création du vendeur"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cette annonce a déjà été importée dans la base de données."})
			return
		}
	}

	// Sellers created through a listing import are potential clients by default
	isPotential := true
	if req.IsPotential != nil {
		isPotential = *req.IsPotential
	}

	status := database.VehicleStatusAvailable
	if req.Vehicle.InStock {
		status = database.VehicleStatusInStock
	}

	source := req.Vehicle.Source
	if source == "" && strings.Contains(req.Vehicle.SourceURL, "autoscout24") {
		source = "autoscout24"
	}

	seller, vehicle, err := h.sellerRepo.CreateWithVehicle(
		database.Seller{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			IsPotential: isPotential,
		},
		database.Vehicle{
			Make:         req.Vehicle.Make,
			Model:        req.Vehicle.Model,
			Year:         req.Vehicle.Year,
			Mileage:      req.Vehicle.Mileage,
			Price:        req.Vehicle.Price,
			Fuel:         req.Vehicle.Fuel,
			Transmission: req.Vehicle.Transmission,
			Power:        req.Vehicle.Power,
			Description:  req.Vehicle.Description,
			ImageURL:     req.Vehicle.ImageURL,
			AdID:         req.Vehicle.AdID,
			Source:       source,
			SourceURL:    req.Vehicle.SourceURL,
			Status:       status,
		},
	)
	if err != nil {
		slog.Error("Failed to create seller", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la création du vendeur"})
		return
	}

	result := sellerJSON(*seller)
	result["vehicles"] = []gin.H{vehicleJSON(*vehicle)}

	c.JSON(http.StatusCreated, gin.H{"success": true, "seller": result})
}

func (h *Handler) ListSellers(c *gin.Context) {
	sellers, err := h.sellerRepo.GetAllSellers()
	if err != nil {
		slog.Error("Database error", "operation", "get_sellers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération des vendeurs"})
		return
	}

	result := make([]gin.H, 0, len(sellers))
	for _, seller := range sellers {
		entry := sellerJSON(seller)
		if vehicles, err := h.vehicleRepo.GetVehiclesForSeller(seller.ID); err == nil {
			entry["vehicles"] = vehiclesJSON(vehicles)
		}
		result = append(result, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sellers": result, "total": len(result)})
}

func (h *Handler) GetSeller(c *gin.Context) {
	seller, err := h.sellerRepo.GetSeller(c.Param("id"))
	if err != nil {
		slog.Error("Database error", "operation", "get_seller", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération du vendeur"})
		return
	}
	if seller == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendeur non trouvé"})
		return
	}

	result := sellerJSON(*seller)
	if vehicles, err := h.vehicleRepo.GetVehiclesForSeller(seller.ID); err == nil {
		result["vehicles"] = vehiclesJSON(vehicles)
	}
	if reminders, err := h.reminderRepo.GetRemindersForSeller(seller.ID); err == nil {
		result["reminders"] = remindersJSON(reminders)
	}
	if interactions, err := h.interactionRepo.GetInteractionsForSeller(seller.ID); err == nil {
		result["interactions"] = interactionsJSON(interactions)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "seller": result})
}

func (h *Handler) CreateBuyer(c *gin.Context) {
	var req struct {
		FirstName           string `json:"firstName"`
		LastName            string `json:"lastName"`
		Email               string `json:"email"`
		Phone               string `json:"phone"`
		Address             string `json:"address"`
		VehicleInterest     string `json:"vehicleInterest"`
		InitialNotes        string `json:"initialNotes"`
		InterestedVehicleID string `json:"interestedVehicleId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil ||
		req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs prénom, nom, email et téléphone sont obligatoires"})
		return
	}

	buyer, err := h.buyerRepo.CreateBuyer(database.Buyer{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		VehicleInterest: req.VehicleInterest,
	}, req.InitialNotes, req.InterestedVehicleID)
	if err != nil {
		slog.Error("Failed to create buyer", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la création de l'acheteur"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "buyer": buyerJSON(*buyer)})
}

// ListBuyers returns all buyers, each enriched with their two most recent
// interactions and up to three available vehicles matching their interest.
func (h *Handler) ListBuyers(c *gin.Context) {
	buyers, err := h.buyerRepo.GetAllBuyers()
	if err != nil {
		slog.Error("Database error", "operation", "get_buyers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération des acheteurs"})
		return
	}

	result := make([]gin.H, 0, len(buyers))
	for _, buyer := range buyers {
		entry := buyerJSON(buyer)

		if interactions, err := h.interactionRepo.GetInteractionsForBuyer(buyer.ID); err == nil {
			if len(interactions) > 2 {
				interactions = interactions[:2]
			}
			entry["interactions"] = interactionsJSON(interactions)
		}

		entry["matchingVehicles"] = []gin.H{}
		if buyer.VehicleInterest != "" {
			if matches, err := h.vehicleRepo.FindMatching(buyer.VehicleInterest, 3); err == nil {
				entry["matchingVehicles"] = vehiclesJSON(matches)
			}
		}

		result = append(result, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "buyers": result, "total": len(result)})
}

func (h *Handler) GetBuyer(c *gin.Context) {
	buyer, err := h.buyerRepo.GetBuyer(c.Param("id"))
	if err != nil {
		slog.Error("Database error", "operation", "get_buyer", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération de l'acheteur"})
		return
	}
	if buyer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Acheteur non trouvé"})
		return
	}

	result := buyerJSON(*buyer)
	result["matchingVehicles"] = []gin.H{}
	if buyer.VehicleInterest != "" {
		if matches, err := h.vehicleRepo.FindMatching(buyer.VehicleInterest, 0); err == nil {
			result["matchingVehicles"] = vehiclesJSON(matches)
		}
	}
	if reminders, err := h.reminderRepo.GetRemindersForBuyer(buyer.ID); err == nil {
		result["reminders"] = remindersJSON(reminders)
	}
	if interactions, err := h.interactionRepo.GetInteractionsForBuyer(buyer.ID); err == nil {
		result["interactions"] = interactionsJSON(interactions)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "buyer": result})
}

// TriggerBuyerMatching enqueues a background pass matching all buyers
// against the available vehicles.
func (h *Handler) TriggerBuyerMatching(c *gin.Context) {
	task := tasks.NewMatchBuyersTask(h.buyerRepo, h.vehicleRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue MatchBuyersTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Impossible de lancer la recherche de correspondances"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Recherche de correspondances lancée"})
}

func (h *Handler) CreateVehicle(c *gin.Context) {
	var req vehiclePayload

	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Make == "" || req.Model == "" || req.Year == 0 || req.Mileage == 0 || req.Price == 0 || req.SellerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tous les champs sont obligatoires"})
		return
	}

	vehicle, err := h.vehicleRepo.CreateVehicle(database.Vehicle{
		SellerID:    req.SellerID,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Mileage:     req.Mileage,
		Price:       req.Price,
		Description: req.Description,
		Status:      database.VehicleStatusAvailable,
	})
	if err != nil {
		slog.Error("Failed to create vehicle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la création du véhicule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "vehicle": vehicleJSON(*vehicle)})
}

func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.GetAllVehicles()
	if err != nil {
		slog.Error("Database error", "operation", "get_vehicles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération des véhicules"})
		return
	}

	result := make([]gin.H, 0, len(vehicles))
	for _, vehicle := range vehicles {
		entry := vehicleJSON(vehicle)
		if vehicle.SellerID != "" {
			if seller, err := h.sellerRepo.GetSeller(vehicle.SellerID); err == nil && seller != nil {
				entry["seller"] = sellerJSON(*seller)
			}
		}
		if vehicle.BuyerID != "" {
			if buyer, err := h.buyerRepo.GetBuyer(vehicle.BuyerID); err == nil && buyer != nil {
				entry["buyer"] = buyerJSON(*buyer)
			}
		}
		result = append(result, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": result, "total": len(result)})
}

func (h *Handler) ListAvailableVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.GetAvailableVehicles()
	if err != nil {
		slog.Error("Database error", "operation", "get_available_vehicles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération des véhicules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": vehiclesJSON(vehicles), "total": len(vehicles)})
}

func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleRepo.GetVehicle(c.Param("id"))
	if err != nil {
		slog.Error("Database error", "operation", "get_vehicle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération du véhicule"})
		return
	}
	if vehicle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Véhicule non trouvé"})
		return
	}

	result := vehicleJSON(*vehicle)
	if vehicle.SellerID != "" {
		if seller, err := h.sellerRepo.GetSeller(vehicle.SellerID); err == nil && seller != nil {
			result["seller"] = sellerJSON(*seller)
		}
	}
	if vehicle.BuyerID != "" {
		if buyer, err := h.buyerRepo.GetBuyer(vehicle.BuyerID); err == nil && buyer != nil {
			result["buyer"] = buyerJSON(*buyer)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicle": result})
}

// UpdateVehicleStatus updates the lifecycle status. Selling a vehicle links
// the buyer at the same time.
func (h *Handler) UpdateVehicleStatus(c *gin.Context) {
	var req struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		BuyerID string `json:"buyerId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'identifiant du véhicule et le statut sont obligatoires"})
		return
	}

	if !database.IsValidVehicleStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le statut fourni n'est pas valide"})
		return
	}

	vehicle, err := h.vehicleRepo.UpdateVehicleStatus(req.ID, req.Status, req.BuyerID)
	if err != nil {
		slog.Error("Failed to update vehicle status", "vehicle_id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la mise à jour du véhicule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicle": vehicleJSON(*vehicle)})
}

func (h *Handler) DeleteVehicle(c *gin.Context) {
	id := c.Param("id")

	vehicle, err := h.vehicleRepo.GetVehicle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_vehicle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la suppression du véhicule"})
		return
	}
	if vehicle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Véhicule non trouvé"})
		return
	}

	if err := h.vehicleRepo.DeleteVehicle(id); err != nil {
		slog.Error("Failed to delete vehicle", "vehicle_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la suppression du véhicule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicle": vehicleJSON(*vehicle)})
}

// ListReminders returns every reminder enriched with the client it points at
func (h *Handler) ListReminders(c *gin.Context) {
	reminders, err := h.reminderRepo.GetAllReminders()
	if err != nil {
		slog.Error("Database error", "operation", "get_reminders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la récupération des rappels"})
		return
	}

	result := make([]gin.H, 0, len(reminders))
	for _, reminder := range reminders {
		entry := reminderJSON(reminder)

		clientName := "Client inconnu"
		clientType := "buyer"
		clientID := reminder.BuyerID

		if reminder.SellerID != "" {
			clientType = "seller"
			clientID = reminder.SellerID
			if seller, err := h.sellerRepo.GetSeller(reminder.SellerID); err == nil && seller != nil {
				clientName = seller.FirstName + " " + seller.LastName
			}
		} else if reminder.BuyerID != "" {
			if buyer, err := h.buyerRepo.GetBuyer(reminder.BuyerID); err == nil && buyer != nil {
				clientName = buyer.FirstName + " " + buyer.LastName
			}
		}

		entry["clientName"] = strings.TrimSpace(clientName)
		entry["clientType"] = clientType
		entry["clientId"] = clientID

		result = append(result, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reminders": result, "total": len(result)})
}

func (h *Handler) CreateReminder(c *gin.Context) {
	var req struct {
		Date     string `json:"date"`
		Reason   string `json:"reason"`
		Notes    string `json:"notes"`
		SellerID string `json:"sellerId"`
		BuyerID  string `json:"buyerId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Date == "" || req.Reason == "" || (req.SellerID == "" && req.BuyerID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs date, motif et client sont obligatoires"})
		return
	}

	date, err := parseReminderDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs date, motif et client sont obligatoires"})
		return
	}

	// A reminder targets one client, the seller winning when both are sent
	sellerID := req.SellerID
	buyerID := req.BuyerID
	if sellerID != "" {
		buyerID = ""
	}

	reminder, err := h.reminderRepo.CreateReminder(database.Reminder{
		SellerID: sellerID,
		BuyerID:  buyerID,
		Date:     date,
		Reason:   req.Reason,
		Notes:    req.Notes,
		Status:   database.ReminderStatusTodo,
	})
	if err != nil {
		slog.Error("Failed to create reminder", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la création du rappel"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "reminder": reminderJSON(*reminder)})
}

func (h *Handler) UpdateReminderStatus(c *gin.Context) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'identifiant du rappel et le statut sont obligatoires"})
		return
	}

	if !database.IsValidReminderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le statut fourni n'est pas valide"})
		return
	}

	reminder, err := h.reminderRepo.UpdateReminderStatus(req.ID, req.Status)
	if err != nil {
		slog.Error("Failed to update reminder status", "reminder_id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de la mise à jour du rappel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reminder": reminderJSON(*reminder)})
}

func parseReminderDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}

func sellerJSON(seller database.Seller) gin.H {
	return gin.H{
		"id":          seller.ID,
		"firstName":   seller.FirstName,
		"lastName":    seller.LastName,
		"email":       seller.Email,
		"phone":       seller.Phone,
		"address":     seller.Address,
		"isPotential": seller.IsPotential,
		"createdAt":   seller.CreatedAt,
		"updatedAt":   seller.UpdatedAt,
	}
}

func buyerJSON(buyer database.Buyer) gin.H {
	return gin.H{
		"id":              buyer.ID,
		"firstName":       buyer.FirstName,
		"lastName":        buyer.LastName,
		"email":           buyer.Email,
		"phone":           buyer.Phone,
		"address":         buyer.Address,
		"vehicleInterest": buyer.VehicleInterest,
		"createdAt":       buyer.CreatedAt,
		"updatedAt":       buyer.UpdatedAt,
	}
}

func vehicleJSON(vehicle database.Vehicle) gin.H {
	return gin.H{
		"id":           vehicle.ID,
		"sellerId":     vehicle.SellerID,
		"buyerId":      vehicle.BuyerID,
		"make":         vehicle.Make,
		"model":        vehicle.Model,
		"year":         vehicle.Year,
		"mileage":      vehicle.Mileage,
		"price":        vehicle.Price,
		"fuel":         vehicle.Fuel,
		"transmission": vehicle.Transmission,
		"power":        vehicle.Power,
		"description":  vehicle.Description,
		"imageUrl":     vehicle.ImageURL,
		"adId":         vehicle.AdID,
		"source":       vehicle.Source,
		"sourceUrl":    vehicle.SourceURL,
		"status":       vehicle.Status,
		"createdAt":    vehicle.CreatedAt,
		"updatedAt":    vehicle.UpdatedAt,
	}
}

func vehiclesJSON(vehicles []database.Vehicle) []gin.H {
	result := make([]gin.H, 0, len(vehicles))
	for _, vehicle := range vehicles {
		result = append(result, vehicleJSON(vehicle))
	}
	return result
}

func reminderJSON(reminder database.Reminder) gin.H {
	return gin.H{
		"id":        reminder.ID,
		"sellerId":  reminder.SellerID,
		"buyerId":   reminder.BuyerID,
		"date":      reminder.Date,
		"reason":    reminder.Reason,
		"notes":     reminder.Notes,
		"status":    reminder.Status,
		"createdAt": reminder.CreatedAt,
	}
}

func remindersJSON(reminders []database.Reminder) []gin.H {
	result := make([]gin.H, 0, len(reminders))
	for _, reminder := range reminders {
		result = append(result, reminderJSON(reminder))
	}
	return result
}

func interactionJSON(interaction database.Interaction) gin.H {
	return gin.H{
		"id":       interaction.ID,
		"sellerId": interaction.SellerID,
		"buyerId":  interaction.BuyerID,
		"notes":    interaction.Notes,
		"date":     interaction.Date,
	}
}

func interactionsJSON(interactions []database.Interaction) []gin.H {
	result := make([]gin.H, 0, len(interactions))
	for _, interaction := range interactions {
		result = append(result, interactionJSON(interaction))
	}
	return result
}
