package routes

import (
	"net/http"

	"jobharvest/internal/api/handlers"
	"jobharvest/internal/api/middleware"
	"jobharvest/internal/background"
	"jobharvest/internal/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, taskManager background.TaskManager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(taskManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		harvest := v1.Group("/harvest")
		{
			harvest.POST("", handlers.HarvestHandler(cfg, taskManager))
			harvest.GET("", handlers.HarvestListHandler(taskManager))
			harvest.GET("/:id", handlers.HarvestStatusHandler(taskManager))
			harvest.GET("/:id/export", handlers.HarvestExportHandler(taskManager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Naukri Job Harvester",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
