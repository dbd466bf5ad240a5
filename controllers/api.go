package controllers

import (
	"strconv"
	"time"

	"bankrec/internal/logger"
	"bankrec/internal/models"
	"bankrec/internal/store"
	"bankrec/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	store     *services.ModelStore
	predictor *services.Predictor
	audit     *store.AuditStore
}

/**
 * Create new API controller instance
 * @param {*services.ModelStore} modelStore - Loaded model artifact store
 * @param {*services.Predictor} predictor - Inference pipeline
 * @param {*store.AuditStore} audit - Prediction audit log, may be nil
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(modelStore *services.ModelStore, predictor *services.Predictor, audit *store.AuditStore) *APIController {
	return &APIController{
		store:     modelStore,
		predictor: predictor,
		audit:     audit,
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Service health and model metadata
 *   - Prediction
 *   - Prometheus exposition
 *   - Drift summary over the audit log
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", a.Health)
	r.GET("/model/info", a.ModelInfo)
	r.POST("/predict", a.Predict)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/drift", a.Drift)
}

// @Summary Service health
// @Description Reports whether the model is loaded and its dimensions
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (a *APIController) Health(c *gin.Context) {
	if a.store == nil || !a.store.IsLoaded() {
		c.JSON(503, gin.H{
			"code":    "model.not_loaded",
			"message": "Service is not ready - model is not loaded",
		})
		return
	}

	c.JSON(200, models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		NModels:     a.store.NModels(),
		NFeatures:   a.store.NFeatures(),
		NProducts:   a.store.NProducts(),
	})
}

// @Summary Model information
// @Description Returns classifier count, feature list and product catalogue
// @Tags Model
// @Produce json
// @Success 200 {object} models.ModelInfoResponse
// @Failure 503 {object} map[string]interface{}
// @Router /model/info [get]
func (a *APIController) ModelInfo(c *gin.Context) {
	if a.store == nil || !a.store.IsLoaded() {
		c.JSON(503, gin.H{
			"code":    "model.not_loaded",
			"message": "Service is not ready - model is not loaded",
		})
		return
	}

	artifact := a.store.Artifact()
	c.JSON(200, models.ModelInfoResponse{
		NModels:      a.store.NModels(),
		FeatureCols:  artifact.FeatureCols,
		ProductCols:  artifact.ProductCols,
		ProductNames: artifact.ProductNames,
	})
}

// @Summary Product recommendations for a client
// @Description Scores the client against all product classifiers and returns
// @Description the top-k products the client does not hold yet, sorted by probability
// @Tags Prediction
// @Accept json
// @Produce json
// @Success 200 {object} models.PredictionResponse
// @Failure 400 {object} map[string]interface{} "malformed request body"
// @Failure 422 {object} map[string]interface{} "inference failure"
// @Failure 503 {object} map[string]interface{} "model not loaded"
// @Router /predict [post]
func (a *APIController) Predict(c *gin.Context) {
	if a.store == nil || !a.store.IsLoaded() {
		c.JSON(503, gin.H{
			"code":    "model.not_loaded",
			"message": "Service is not ready - model is not loaded",
		})
		return
	}

	var client models.ClientFeatures
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(400, gin.H{
			"code":    "request.invalid",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	response, err := a.predictor.Predict(&client)
	if err != nil {
		logger.Errorf("Inference failed: %v", err)
		c.JSON(422, gin.H{
			"code":    "prediction.failed",
			"message": "Prediction failed: " + err.Error(),
		})
		return
	}

	a.logPrediction(c, &client, response)

	c.JSON(200, response)
}

// logPrediction appends the served prediction to the audit log. Audit
// failures are logged and never fail the request.
func (a *APIController) logPrediction(c *gin.Context, client *models.ClientFeatures, response *models.PredictionResponse) {
	if a.audit == nil {
		return
	}

	rec := store.PredictionRecord{
		ClientAge:        0,
		TopK:             client.TopK,
		NCurrentProducts: response.NCurrentProducts,
		NRecommendations: len(response.Recommendations),
	}
	if client.Age != nil {
		rec.ClientAge = *client.Age
	}
	if len(response.Recommendations) > 0 {
		rec.TopProduct = response.Recommendations[0].ProductCol
		rec.TopProbability = response.Recommendations[0].Probability
	}

	if err := a.audit.Insert(c.Request.Context(), rec); err != nil {
		logger.Errorf("Failed to record prediction in audit store: %v", err)
	}
}

// @Summary Drift summary
// @Description Aggregates the prediction audit log over a trailing window.
// @Description Used as the input signal for the manual retraining decision.
// @Tags Model
// @Produce json
// @Param hours query int false "window size in hours" default(24)
// @Success 200 {object} store.DriftSummary
// @Failure 503 {object} map[string]interface{}
// @Router /drift [get]
func (a *APIController) Drift(c *gin.Context) {
	if a.audit == nil {
		c.JSON(503, gin.H{
			"code":    "audit.disabled",
			"message": "Prediction audit store is not configured",
		})
		return
	}

	hours := 24
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	summary, err := a.audit.Summary(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		logger.Errorf("Failed to summarize audit store: %v", err)
		c.JSON(500, gin.H{
			"code":    "audit.query_failed",
			"message": "Failed to summarize predictions: " + err.Error(),
		})
		return
	}

	c.JSON(200, summary)
}
