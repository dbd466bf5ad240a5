package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumentation points of the recommendation service. The alerting rules
// and dashboards live outside the service; everything here only exposes raw
// counters/histograms/gauges with the labels the scrape config expects.

var (
	// HTTP layer

	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request processing time in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"method", "endpoint"},
	)

	// Inference layer

	PredictionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Model inference time in seconds, excluding HTTP overhead",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	PredictionErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total inference errors",
		},
	)

	ModelLoadTime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_load_time_seconds",
			Help: "Model load time at startup in seconds",
		},
	)

	// Info-style metric: one series with static labels, value fixed at 1
	ModelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_info",
			Help: "Information about the loaded model",
		},
		[]string{"n_models", "n_features", "n_products", "path"},
	)

	// ML metrics

	PredictionProbability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_probability",
			Help:    "Distribution of predicted probabilities (P(1) across all products)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	Top1Probability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "top1_probability",
			Help:    "Probability of the top-1 recommendation (client maximum)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	RecommendationsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendations_count",
			Help:    "Number of recommendations returned (with P > 0)",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 10, 15, 22},
		},
	)

	// Business metrics

	RecommendedProduct = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommended_product_total",
			Help: "Times a product appeared in recommendations",
		},
		[]string{"product_col"},
	)

	ClientProductsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "client_products_count",
			Help:    "Number of products the client currently holds at request time",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10, 15, 22},
		},
	)

	ClientAge = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "client_age",
			Help:    "Distribution of client ages in requests",
			Buckets: []float64{18, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 80, 100},
		},
	)

	TopKRequested = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "top_k_requested",
			Help:    "Requested number of recommendations (top_k)",
			Buckets: []float64{1, 3, 5, 7, 10, 15, 22},
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		PredictionLatency,
		PredictionErrors,
		ModelLoadTime,
		ModelInfo,
		PredictionProbability,
		Top1Probability,
		RecommendationsCount,
		RecommendedProduct,
		ClientProductsCount,
		ClientAge,
		TopKRequested,
	)
}
