package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// The catalogue names are the scrape contract; a renamed metric silently
// breaks the alerting rules that reference it.
func TestCatalogueNames(t *testing.T) {
	cases := []struct {
		name      string
		collector prometheus.Collector
	}{
		{"prediction_duration_seconds", PredictionLatency},
		{"prediction_errors_total", PredictionErrors},
		{"model_load_time_seconds", ModelLoadTime},
		{"prediction_probability", PredictionProbability},
		{"top1_probability", Top1Probability},
		{"recommendations_count", RecommendationsCount},
		{"client_products_count", ClientProductsCount},
		{"client_age", ClientAge},
		{"top_k_requested", TopKRequested},
	}

	for _, tc := range cases {
		if got := testutil.CollectAndCount(tc.collector, tc.name); got != 1 {
			t.Errorf("metric %s: expected 1 series, got %d", tc.name, got)
		}
	}
}

func TestVectorLabels(t *testing.T) {
	RequestCount.WithLabelValues("GET", "/health", "200").Inc()
	if got := testutil.CollectAndCount(RequestCount, "http_requests_total"); got < 1 {
		t.Errorf("http_requests_total: expected at least 1 series, got %d", got)
	}

	RequestLatency.WithLabelValues("GET", "/health").Observe(0.01)
	if got := testutil.CollectAndCount(RequestLatency, "http_request_duration_seconds"); got < 1 {
		t.Errorf("http_request_duration_seconds: expected at least 1 series, got %d", got)
	}

	RecommendedProduct.WithLabelValues("ind_cco_fin_ult1").Inc()
	if got := testutil.CollectAndCount(RecommendedProduct, "recommended_product_total"); got < 1 {
		t.Errorf("recommended_product_total: expected at least 1 series, got %d", got)
	}

	ModelInfo.WithLabelValues("22", "44", "22", "models/model.json").Set(1)
	if got := testutil.CollectAndCount(ModelInfo, "model_info"); got < 1 {
		t.Errorf("model_info: expected at least 1 series, got %d", got)
	}
}
