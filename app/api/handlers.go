package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fdubois/autodeal/app/cfg"
	"github.com/fdubois/autodeal/app/database"
	"github.com/fdubois/autodeal/app/importer"
	"github.com/fdubois/autodeal/app/tasks"
)

func NewHandler(sellerRepo database.SellerRepository, buyerRepo database.BuyerRepository,
	vehicleRepo database.VehicleRepository, reminderRepo database.ReminderRepository,
	interactionRepo database.InteractionRepository, importRepo database.ImportRepository,
	importerService ImporterInterface, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sellerRepo:      sellerRepo,
		buyerRepo:       buyerRepo,
		vehicleRepo:     vehicleRepo,
		reminderRepo:    reminderRepo,
		interactionRepo: interactionRepo,
		importRepo:      importRepo,
		importer:        importerService,
		scheduler:       scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	}

	if sellerCount, err := h.sellerRepo.GetSellerCount(); err == nil {
		health["sellers"] = sellerCount
	}
	if buyerCount, err := h.buyerRepo.GetBuyerCount(); err == nil {
		health["buyers"] = buyerCount
	}
	if importedCount, err := h.importRepo.GetImportedAdCount(); err == nil {
		health["imported_ads"] = importedCount
	}

	c.JSON(http.StatusOK, health)
}

// GetStats returns the dashboard counters. A failing counter is logged and
// reported as zero so the dashboard still renders.
func (h *Handler) GetStats(c *gin.Context) {
	var stats database.DashboardStats

	potential, err := h.sellerRepo.GetPotentialSellerCount()
	if err != nil {
		slog.Error("Database error", "operation", "potential_seller_count", "error", err)
	}
	stats.PotentialClients = potential

	inStock, err := h.vehicleRepo.GetInStockCount()
	if err != nil {
		slog.Error("Database error", "operation", "in_stock_count", "error", err)
	}
	stats.VehiclesInStock = inStock

	todo, err := h.reminderRepo.GetTodoReminderCount()
	if err != nil {
		slog.Error("Database error", "operation", "todo_reminder_count", "error", err)
	}
	stats.ClientsToCall = todo

	sellers, err := h.sellerRepo.GetSellerCount()
	if err != nil {
		slog.Error("Database error", "operation", "seller_count", "error", err)
	}
	buyers, err := h.buyerRepo.GetBuyerCount()
	if err != nil {
		slog.Error("Database error", "operation", "buyer_count", "error", err)
	}
	stats.TotalClients = sellers + buyers

	c.JSON(http.StatusOK, stats)
}

// ExtractListing renders an AutoScout24 listing page and returns the
// extracted vehicle and seller record.
func (h *Handler) ExtractListing(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL invalide. Veuillez fournir une URL AutoScout24 valide."})
		return
	}

	result, err := h.importer.Extract(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "URL invalide. Veuillez fournir une URL AutoScout24 valide."})
			return
		}

		slog.Error("Listing extraction failed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'extraire les données de l'annonce. Veuillez vérifier l'URL ou réessayer plus tard."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      result,
		"source":    req.URL,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckDuplicate reports whether a listing was already imported, keyed on ad
// ID or source URL.
func (h *Handler) CheckDuplicate(c *gin.Context) {
	adID := c.Query("adId")
	sourceURL := c.Query("sourceUrl")

	if adID == "" && sourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez fournir un adId ou une sourceUrl pour vérifier les doublons"})
		return
	}

	exists := h.importer.CheckDuplicate(adID, sourceURL)

	message := "Cette annonce n'a pas encore été importée"
	if exists {
		message = "Cette annonce a déjà été importée"
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":  exists,
		"message": message,
	})
}

// RecordImport registers a listing in the duplicate registry
func (h *Handler) RecordImport(c *gin.Context) {
	var req struct {
		AdID      string `json:"adId"`
		SourceURL string `json:"sourceUrl"`
		Make      string `json:"make"`
		Model     string `json:"model"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez fournir un adId ou une sourceUrl pour enregistrer l'annonce"})
		return
	}

	_, err := h.importer.RecordImport(req.AdID, req.SourceURL, req.Make, req.Model)
	if err != nil {
		if errors.Is(err, importer.ErrMissingKeys) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez fournir un adId ou une sourceUrl pour enregistrer l'annonce"})
			return
		}
		if errors.Is(err, importer.ErrAlreadyImported) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Cette annonce a déjà été importée",
			})
			return
		}

		slog.Error("Failed to record imported ad", "ad_id", req.AdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de l'enregistrement de l'annonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Annonce enregistrée avec succès",
	})
}
