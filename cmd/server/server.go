package server

import (
	"fmt"

	"bankrec/cmd/root"
	"bankrec/controllers"
	"bankrec/internal/config"
	"bankrec/internal/logger"
	"bankrec/internal/middleware"
	"bankrec/internal/store"
	"bankrec/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the recommendation HTTP service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	},
}

/**
 * Start the recommendation HTTP service
 * @returns {error} Returns error if model load or listening fails
 * @description
 * - Loads and validates the model artifact before accepting traffic
 * - Opens the prediction audit store; the service still runs if that fails
 * - Registers the API routes and the request instrumentation middleware
 */
func startServer() error {
	cfg := &config.Config

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	modelStore := services.NewModelStore()
	if err := modelStore.Load(cfg.Model.Path); err != nil {
		return fmt.Errorf("failed to load model: %v", err)
	}
	predictor := services.NewPredictor(modelStore, cfg.Model.DefaultTopK)

	audit, err := store.Open(cfg.Audit.Path)
	if err != nil {
		logger.Errorf("Failed to open audit store at %s: %v", cfg.Audit.Path, err)
		audit = nil
	}

	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	apiController := controllers.NewAPIController(modelStore, predictor, audit)
	apiController.RegisterRoutes(router)

	logger.Infof("Recommendation service listening on %s (model: %s, default top_k: %d)",
		cfg.Server.Address, cfg.Model.Path, cfg.Model.DefaultTopK)

	return router.Run(cfg.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
