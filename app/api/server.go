package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fdubois/autodeal/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Health and status endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	api := r.Group("/api")
	if apiAccessKey != "" {
		api.Use(authMiddleware(apiAccessKey))
		slog.Info("API authentication enabled")
	} else {
		slog.Info("API authentication disabled (API_ACCESS_KEY not set)")
	}
	{
		// Listing import
		api.POST("/extract", handler.ExtractListing)
		api.GET("/check-duplicate", handler.CheckDuplicate)
		api.POST("/check-duplicate", handler.RecordImport)

		// Sellers
		api.GET("/sellers", handler.ListSellers)
		api.POST("/sellers", handler.CreateSeller)
		api.GET("/sellers/:id", handler.GetSeller)

		// Buyers
		api.GET("/buyers", handler.ListBuyers)
		api.POST("/buyers", handler.CreateBuyer)
		api.GET("/buyers/:id", handler.GetBuyer)
		api.POST("/buyers/match", handler.TriggerBuyerMatching)

		// Vehicles
		api.GET("/vehicles", handler.ListVehicles)
		api.POST("/vehicles", handler.CreateVehicle)
		api.GET("/vehicles/available", handler.ListAvailableVehicles)
		api.GET("/vehicles/:id", handler.GetVehicle)
		api.PATCH("/vehicles", handler.UpdateVehicleStatus)
		api.DELETE("/vehicles/:id", handler.DeleteVehicle)

		// Reminders
		api.GET("/reminders", handler.ListReminders)
		api.POST("/reminders", handler.CreateReminder)
		api.PATCH("/reminders", handler.UpdateReminderStatus)
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "AutoDeal",
			"version":     cfg.GetVersion(),
			"description": "Dealership CRM with AutoScout24 listing import",
			"endpoints": map[string]string{
				"health":          "/health",
				"stats":           "/stats",
				"extract":         "/api/extract (POST)",
				"check_duplicate": "/api/check-duplicate (GET, POST)",
				"sellers":         "/api/sellers",
				"buyers":          "/api/buyers",
				"vehicles":        "/api/vehicles",
				"reminders":       "/api/reminders",
			},
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// Check if API key is provided and matches
		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		// Continue to next middleware/handler
		c.Next()
	}
}
