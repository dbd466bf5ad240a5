package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bankrec/internal/metrics"
	"bankrec/internal/models"
)

// Default values (modes/medians from the training set)
var defaultRentaBySegment = map[string]float64{
	"01 - TOP":           234340.0,
	"02 - PARTICULARES":  101340.0,
	"03 - UNIVERSITARIO": 86200.0,
}

const (
	defaultRenta      = 101850.0
	defaultAge        = 40
	defaultAntiguedad = 70
)

// Reference date for the months_since_start feature
var datasetStart = time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)

/**
 * Predictor scores client features against the 22 per-product classifiers
 * @property {*ModelStore} store - Loaded model artifact
 * @property {int} defaultTopK - top_k applied when the request leaves it unset
 * @description
 * - Reproduces the training preprocessing pipeline: numeric clipping and
 *   defaults, label encoding with unknown-value fallback, top-20 bucketing
 *   for channel/province, previous-product lags, aggregates and calendar
 *   features
 * - Excludes products the client already holds and returns the top-k
 *   remaining products with positive probability
 */
type Predictor struct {
	store       *ModelStore
	defaultTopK int
}

func NewPredictor(store *ModelStore, defaultTopK int) *Predictor {
	return &Predictor{
		store:       store,
		defaultTopK: defaultTopK,
	}
}

// safeLabelEncode encodes value, falling back to the "nan" class for
// unknown values, then to 0
func safeLabelEncode(encoder *LabelEncoder, value string) int {
	if encoder == nil {
		return 0
	}
	if code, ok := encoder.Encode(value); ok {
		return code
	}
	if code, ok := encoder.Encode("nan"); ok {
		return code
	}
	return 0
}

func derefStr(v *string) string {
	if v == nil {
		return "nan"
	}
	return *v
}

// preprocess builds the feature vector in feature_cols order
func (p *Predictor) preprocess(client *models.ClientFeatures) map[string]float64 {
	artifact := p.store.Artifact()
	features := make(map[string]float64, len(artifact.FeatureCols))

	// --- Numeric features ---

	// age: clip [18, 100], default 40
	age := defaultAge
	if client.Age != nil {
		age = *client.Age
	}
	if age < 18 {
		age = 18
	}
	if age > 100 {
		age = 100
	}
	features["age"] = float64(age)

	// renta -> log1p, defaulted per segment
	var renta float64
	if client.Renta != nil {
		renta = *client.Renta
	}
	if renta <= 0 {
		renta = defaultRenta
		if client.Segmento != nil {
			if seg, ok := defaultRentaBySegment[*client.Segmento]; ok {
				renta = seg
			}
		}
	}
	features["log_renta"] = math.Log1p(renta)

	// antiguedad: default 70, -999999 is the dataset's missing marker
	antiguedad := defaultAntiguedad
	if client.Antiguedad != nil && *client.Antiguedad != -999999 {
		antiguedad = *client.Antiguedad
	}
	features["antiguedad"] = float64(antiguedad)

	// ind_nuevo: default 0 (mode)
	features["ind_nuevo"] = 0
	if client.IndNuevo != nil {
		features["ind_nuevo"] = float64(*client.IndNuevo)
	}

	// indrel: default 1 (mode)
	features["indrel"] = 1
	if client.Indrel != nil {
		features["indrel"] = float64(*client.Indrel)
	}

	// ind_actividad_cliente: default 1 (mode)
	features["ind_actividad_cliente"] = 1
	if client.IndActividadCliente != nil {
		features["ind_actividad_cliente"] = float64(*client.IndActividadCliente)
	}

	// cod_prov: default 28 (Madrid, mode)
	features["cod_prov"] = 28
	if client.CodProv != nil {
		features["cod_prov"] = float64(*client.CodProv)
	}

	// --- Low-cardinality categorical features ---

	lowCardFields := map[string]*string{
		"sexo":         client.Sexo,
		"ind_empleado": client.IndEmpleado,
		"tiprel_1mes":  client.TiprelUmes,
		"indresi":      client.Indresi,
		"indext":       client.Indext,
		"indfall":      client.Indfall,
		"segmento":     client.Segmento,
		"indrel_1mes":  client.IndrelUmes,
	}
	for col, value := range lowCardFields {
		enc := artifact.LabelEncoders[col]
		features[col+"_enc"] = float64(safeLabelEncode(enc, derefStr(value)))
	}

	// --- canal_entrada: top-20 + OTHER ---
	canal := "OTHER"
	if client.CanalEntrada != nil && contains(artifact.Top20Canal, *client.CanalEntrada) {
		canal = *client.CanalEntrada
	}
	features["canal_entrada_enc"] = float64(safeLabelEncode(artifact.LabelEncoders["canal_entrada"], canal))

	// --- pais_residencia: binary (ES=1) ---
	features["pais_residencia_enc"] = 0
	if client.PaisResidencia != nil && *client.PaisResidencia == "ES" {
		features["pais_residencia_enc"] = 1
	}

	// --- nomprov: top-20 + OTHER ---
	prov := "OTHER"
	if client.Nomprov != nil && contains(artifact.Top20Prov, *client.Nomprov) {
		prov = *client.Nomprov
	}
	features["nomprov_enc"] = float64(safeLabelEncode(artifact.LabelEncoders["nomprov"], prov))

	// --- Previous products (22 lag features) ---
	nProducts := 0
	for _, col := range artifact.ProductCols {
		val := 0
		if client.PrevProducts[col] != 0 {
			val = 1
		}
		features["prev_"+col] = float64(val)
		nProducts += val
	}

	// --- Aggregates ---
	features["n_products"] = float64(nProducts)
	features["product_changes"] = 0
	if client.ProductChanges != nil {
		features["product_changes"] = float64(*client.ProductChanges)
	}

	// --- Calendar features ---
	dt := time.Now()
	if client.FechaDato != "" {
		if parsed, err := time.Parse("2006-01-02", client.FechaDato); err == nil {
			dt = parsed
		}
	}
	features["month"] = float64(dt.Month())
	monthsSince := (dt.Year()-datasetStart.Year())*12 + int(dt.Month()) - int(datasetStart.Month())
	if monthsSince < 0 {
		monthsSince = 0
	}
	features["months_since_start"] = float64(monthsSince)

	return features
}

// score applies one logistic scorer to the feature vector
func score(model *ProductModel, featureCols []string, features map[string]float64) float64 {
	z := model.Bias
	for _, col := range featureCols {
		if w, ok := model.Weights[col]; ok {
			z += w * features[col]
		}
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

/**
 * Predict recommended products for a client
 * @param {*models.ClientFeatures} client - Validated client features
 * @returns {*models.PredictionResponse} Recommendations sorted by probability
 * @returns {error} Returns error if the model is not loaded
 * @description
 * - Scores all products, zeroes out products the client already holds,
 *   sorts by probability and keeps the top-k with P > 0
 * - Records inference latency, probability distributions and the
 *   business metrics on every call; failures bump prediction_errors_total
 */
func (p *Predictor) Predict(client *models.ClientFeatures) (*models.PredictionResponse, error) {
	start := time.Now()

	if !p.store.IsLoaded() {
		metrics.PredictionErrors.Inc()
		return nil, fmt.Errorf("model not loaded")
	}

	artifact := p.store.Artifact()

	features := p.preprocess(client)

	// 22 scorers -> 22 probabilities
	probabilities := make(map[string]float64, len(artifact.ProductCols))
	for _, col := range artifact.ProductCols {
		model, ok := artifact.Models[col]
		if !ok {
			metrics.PredictionErrors.Inc()
			return nil, fmt.Errorf("no model for product '%s'", col)
		}
		p1 := score(model, artifact.FeatureCols, features)
		probabilities[col] = p1
		metrics.PredictionProbability.Observe(p1)
	}

	// Zero out products the client already holds
	for _, col := range artifact.ProductCols {
		if client.PrevProducts[col] == 1 {
			probabilities[col] = 0
		}
	}

	// Sort by probability descending, keep product order for ties
	sorted := make([]string, len(artifact.ProductCols))
	copy(sorted, artifact.ProductCols)
	sort.SliceStable(sorted, func(i, j int) bool {
		return probabilities[sorted[i]] > probabilities[sorted[j]]
	})

	topK := client.TopK
	if topK <= 0 {
		topK = p.defaultTopK
	}
	if topK > len(sorted) {
		topK = len(sorted)
	}

	recommendations := make([]models.ProductRecommendation, 0, topK)
	for _, col := range sorted[:topK] {
		prob := probabilities[col]
		if prob <= 0 {
			continue
		}
		name, ok := artifact.ProductNames[col]
		if !ok {
			name = col
		}
		recommendations = append(recommendations, models.ProductRecommendation{
			ProductCol:  col,
			ProductName: name,
			Probability: round6(prob),
		})
	}

	nCurrent := 0
	for _, col := range artifact.ProductCols {
		if client.PrevProducts[col] == 1 {
			nCurrent++
		}
	}

	// --- Metrics ---
	metrics.PredictionLatency.Observe(time.Since(start).Seconds())

	if len(recommendations) > 0 {
		metrics.Top1Probability.Observe(recommendations[0].Probability)
	}
	metrics.RecommendationsCount.Observe(float64(len(recommendations)))
	metrics.ClientProductsCount.Observe(float64(nCurrent))
	if client.Age != nil {
		metrics.ClientAge.Observe(float64(*client.Age))
	}
	metrics.TopKRequested.Observe(float64(topK))

	for _, rec := range recommendations {
		metrics.RecommendedProduct.WithLabelValues(rec.ProductCol).Inc()
	}

	return &models.PredictionResponse{
		Recommendations:  recommendations,
		NCurrentProducts: nCurrent,
	}, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
