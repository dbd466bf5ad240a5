package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"bankrec/internal/logger"
	"bankrec/internal/metrics"
)

/**
 * Per-product logistic scorer
 * @property {map[string]float64} weights - Feature weights keyed by feature name
 * @property {float64} bias - Intercept term
 */
type ProductModel struct {
	Weights map[string]float64 `json:"weights"`
	Bias    float64            `json:"bias"`
}

// LabelEncoder maps category values to the integer codes used in training
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Encode returns the code of value and whether the value is a known class
func (e *LabelEncoder) Encode(value string) (int, bool) {
	for i, class := range e.Classes {
		if class == value {
			return i, true
		}
	}
	return 0, false
}

/**
 * Model artifact layout (model.json)
 * @property {[]string} feature_cols - Ordered model feature names
 * @property {[]string} product_cols - The 22 product columns, one scorer each
 * @property {[]string} target_cols - Training target columns
 * @property {map} product_names - Product column to display name
 * @property {map} models - Per-product logistic scorers
 * @property {map} label_encoders - Encoders for categorical columns
 * @property {[]string} top20_canal - Channels kept verbatim, rest become OTHER
 * @property {[]string} top20_prov - Provinces kept verbatim, rest become OTHER
 */
type ModelArtifact struct {
	FeatureCols   []string                 `json:"feature_cols"`
	ProductCols   []string                 `json:"product_cols"`
	TargetCols    []string                 `json:"target_cols"`
	ProductNames  map[string]string        `json:"product_names"`
	Models        map[string]*ProductModel `json:"models"`
	LabelEncoders map[string]*LabelEncoder `json:"label_encoders"`
	Top20Canal    []string                 `json:"top20_canal"`
	Top20Prov     []string                 `json:"top20_prov"`
}

// expected top-level keys of the model artifact
var expectedKeys = []string{
	"models", "feature_cols", "target_cols", "product_cols",
	"label_encoders", "product_names", "top20_canal", "top20_prov",
}

// ModelStore loads, validates and serves the model artifact
type ModelStore struct {
	mutex    sync.RWMutex
	artifact *ModelArtifact
	loaded   bool
	path     string
}

func NewModelStore() *ModelStore {
	return &ModelStore{}
}

/**
 * Load and validate the model artifact from a file
 * @param {string} path - Path to model.json
 * @returns {error} Returns error if the file is missing or the artifact is invalid
 * @description
 * - Reads and unmarshals the artifact
 * - Validates key presence and internal consistency
 * - Records model_load_time_seconds and model_info once on success
 */
func (s *ModelStore) Load(path string) error {
	logger.Infof("Loading model from %s", path)
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model artifact: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse model artifact: %v", err)
	}

	var artifact ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("failed to parse model artifact: %v", err)
	}

	if err := validateArtifact(raw, &artifact); err != nil {
		return fmt.Errorf("model validation failed: %v", err)
	}

	s.mutex.Lock()
	s.artifact = &artifact
	s.loaded = true
	s.path = path
	s.mutex.Unlock()

	loadTime := time.Since(start).Seconds()

	metrics.ModelLoadTime.Set(loadTime)
	metrics.ModelInfo.WithLabelValues(
		strconv.Itoa(s.NModels()),
		strconv.Itoa(s.NFeatures()),
		strconv.Itoa(s.NProducts()),
		path,
	).Set(1)

	logger.Infof("Model loaded in %.2fs: %d classifiers, %d features, %d products",
		loadTime, s.NModels(), s.NFeatures(), s.NProducts())
	return nil
}

// validateArtifact checks artifact structure the same way the training
// pipeline wrote it: all keys present, scorers matching product columns,
// non-empty encoders
func validateArtifact(raw map[string]json.RawMessage, artifact *ModelArtifact) error {
	var errs []string

	var missing []string
	for _, key := range expectedKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("missing keys: %v", missing))
	}

	if len(artifact.Models) == 0 {
		errs = append(errs, "models dictionary is empty")
	}

	if len(artifact.Models) > 0 && len(artifact.ProductCols) > 0 {
		var onlyModels, onlyProducts []string
		productSet := make(map[string]bool, len(artifact.ProductCols))
		for _, col := range artifact.ProductCols {
			productSet[col] = true
		}
		for col := range artifact.Models {
			if !productSet[col] {
				onlyModels = append(onlyModels, col)
			}
		}
		for _, col := range artifact.ProductCols {
			if _, ok := artifact.Models[col]; !ok {
				onlyProducts = append(onlyProducts, col)
			}
		}
		if len(onlyModels) > 0 || len(onlyProducts) > 0 {
			errs = append(errs, fmt.Sprintf(
				"product_cols and model keys mismatch: only in models=%v, only in product_cols=%v",
				onlyModels, onlyProducts))
		}
	}

	if len(artifact.LabelEncoders) == 0 {
		errs = append(errs, "label_encoders dictionary is empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// IsLoaded reports whether a valid artifact has been loaded
func (s *ModelStore) IsLoaded() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loaded
}

// Artifact returns the loaded artifact (nil before Load)
func (s *ModelStore) Artifact() *ModelArtifact {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.artifact
}

func (s *ModelStore) NModels() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.artifact == nil {
		return 0
	}
	return len(s.artifact.Models)
}

func (s *ModelStore) NFeatures() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.artifact == nil {
		return 0
	}
	return len(s.artifact.FeatureCols)
}

func (s *ModelStore) NProducts() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.artifact == nil {
		return 0
	}
	return len(s.artifact.ProductCols)
}
