package services

import (
	"math"
	"testing"

	"bankrec/internal/models"
)

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func loadedStore(t *testing.T) *ModelStore {
	t.Helper()
	store := NewModelStore()
	if err := store.Load(writeArtifact(t, testArtifact())); err != nil {
		t.Fatalf("failed to load test artifact: %v", err)
	}
	return store
}

func TestPredictOrdering(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	resp, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{},
		TopK:         3,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(resp.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(resp.Recommendations))
	}
	// Bias-only scorers: p1 > p2 > p3
	expected := []string{"p1", "p2", "p3"}
	for i, rec := range resp.Recommendations {
		if rec.ProductCol != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], rec.ProductCol)
		}
	}
	for i := 1; i < len(resp.Recommendations); i++ {
		if resp.Recommendations[i].Probability > resp.Recommendations[i-1].Probability {
			t.Error("recommendations are not sorted by probability")
		}
	}
	if resp.NCurrentProducts != 0 {
		t.Errorf("expected 0 current products, got %d", resp.NCurrentProducts)
	}
}

func TestPredictExcludesHeldProducts(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	resp, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{"p1": 1},
		TopK:         3,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for _, rec := range resp.Recommendations {
		if rec.ProductCol == "p1" {
			t.Error("held product p1 must not be recommended")
		}
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(resp.Recommendations))
	}
	if resp.NCurrentProducts != 1 {
		t.Errorf("expected 1 current product, got %d", resp.NCurrentProducts)
	}
	if resp.Recommendations[0].ProductCol != "p2" {
		t.Errorf("expected p2 on top, got %s", resp.Recommendations[0].ProductCol)
	}
}

// Held products get probability zero, and zero-probability entries are
// dropped even when top_k has room for them
func TestPredictPositiveProbabilityFilter(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	resp, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{"p1": 1, "p2": 1},
		TopK:         3,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(resp.Recommendations) != 1 {
		t.Fatalf("expected exactly 1 recommendation, got %d", len(resp.Recommendations))
	}
	if resp.Recommendations[0].ProductCol != "p3" {
		t.Errorf("expected p3, got %s", resp.Recommendations[0].ProductCol)
	}
	if resp.Recommendations[0].ProductName != "Pension Plan" {
		t.Errorf("unexpected product name: %s", resp.Recommendations[0].ProductName)
	}
}

func TestPredictTopKLimit(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	resp, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{},
		TopK:         1,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("expected 1 recommendation with top_k=1, got %d", len(resp.Recommendations))
	}
}

func TestPredictDefaultTopK(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 2)

	resp, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{},
		// TopK left unset
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("expected configured default of 2 recommendations, got %d", len(resp.Recommendations))
	}
}

func TestPredictNotLoaded(t *testing.T) {
	predictor := NewPredictor(NewModelStore(), 7)

	if _, err := predictor.Predict(&models.ClientFeatures{
		Age:          intPtr(35),
		PrevProducts: map[string]int{},
	}); err == nil {
		t.Fatal("expected error when the model is not loaded")
	}
}

func TestSafeLabelEncode(t *testing.T) {
	encoder := &LabelEncoder{Classes: []string{"A", "B", "nan"}}

	if code := safeLabelEncode(encoder, "B"); code != 1 {
		t.Errorf("known value: expected 1, got %d", code)
	}
	if code := safeLabelEncode(encoder, "unknown"); code != 2 {
		t.Errorf("unknown value should map to the nan class, got %d", code)
	}

	noNan := &LabelEncoder{Classes: []string{"A", "B"}}
	if code := safeLabelEncode(noNan, "unknown"); code != 0 {
		t.Errorf("unknown value without nan class should map to 0, got %d", code)
	}
	if code := safeLabelEncode(nil, "A"); code != 0 {
		t.Errorf("nil encoder should map to 0, got %d", code)
	}
}

/**
 * TestPreprocess verifies the feature pipeline against the training defaults
 * @description
 * - Age is clipped to [18, 100]
 * - Missing renta falls back to the segment median before log1p
 * - Previous products turn into prev_ lags and the n_products aggregate
 * - Calendar features derive from fecha_dato, months_since_start floors at 0
 */
func TestPreprocess(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	features := predictor.preprocess(&models.ClientFeatures{
		Age:            intPtr(130),
		Segmento:       strPtr("01 - TOP"),
		PaisResidencia: strPtr("ES"),
		PrevProducts:   map[string]int{"p1": 1, "p3": 1},
		ProductChanges: intPtr(2),
		FechaDato:      "2016-05-28",
	})

	if features["age"] != 100 {
		t.Errorf("age should clip to 100, got %v", features["age"])
	}
	want := math.Log1p(234340.0)
	if math.Abs(features["log_renta"]-want) > 1e-9 {
		t.Errorf("log_renta should use the TOP segment default, got %v want %v", features["log_renta"], want)
	}
	if features["antiguedad"] != 70 {
		t.Errorf("antiguedad should default to 70, got %v", features["antiguedad"])
	}
	if features["prev_p1"] != 1 || features["prev_p2"] != 0 || features["prev_p3"] != 1 {
		t.Errorf("unexpected prev product lags: %v %v %v",
			features["prev_p1"], features["prev_p2"], features["prev_p3"])
	}
	if features["n_products"] != 2 {
		t.Errorf("n_products should be 2, got %v", features["n_products"])
	}
	if features["product_changes"] != 2 {
		t.Errorf("product_changes should be 2, got %v", features["product_changes"])
	}
	if features["pais_residencia_enc"] != 1 {
		t.Errorf("ES residence should encode to 1, got %v", features["pais_residencia_enc"])
	}
	if features["month"] != 5 {
		t.Errorf("month should be 5, got %v", features["month"])
	}
	// 2015-02 -> 2016-05 is 15 months
	if features["months_since_start"] != 15 {
		t.Errorf("months_since_start should be 15, got %v", features["months_since_start"])
	}
}

func TestPreprocessMonthsSinceStartFloor(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	features := predictor.preprocess(&models.ClientFeatures{
		Age:          intPtr(40),
		PrevProducts: map[string]int{},
		FechaDato:    "2014-06-28",
	})

	if features["months_since_start"] != 0 {
		t.Errorf("months_since_start should floor at 0, got %v", features["months_since_start"])
	}
}

func TestPreprocessLowIncomeUsesDefault(t *testing.T) {
	predictor := NewPredictor(loadedStore(t), 7)

	features := predictor.preprocess(&models.ClientFeatures{
		Age:          intPtr(40),
		Renta:        floatPtr(-10),
		PrevProducts: map[string]int{},
	})

	want := math.Log1p(101850.0)
	if math.Abs(features["log_renta"]-want) > 1e-9 {
		t.Errorf("non-positive renta should use the global default, got %v want %v", features["log_renta"], want)
	}
}
