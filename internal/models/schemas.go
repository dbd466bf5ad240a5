package models

/**
 * Client features submitted for a recommendation request
 * @description
 * - age and prev_products are mandatory, everything else falls back to
 *   training-set defaults during preprocessing
 * - prev_products maps product column name to 0/1 ownership flags
 * - top_k of 0 means "use the configured default"
 */
type ClientFeatures struct {
	Age                 *int     `json:"age" binding:"required,gte=0,lte=150"` // client age
	Renta               *float64 `json:"renta"`                                // gross household income
	Antiguedad          *int     `json:"antiguedad"`                           // customer seniority in months
	Sexo                *string  `json:"sexo"`                                 // H / V
	Segmento            *string  `json:"segmento"`                             // 01 - TOP, 02 - PARTICULARES, 03 - UNIVERSITARIO
	CanalEntrada        *string  `json:"canal_entrada"`                        // acquisition channel
	PaisResidencia      *string  `json:"pais_residencia"`                      // country of residence
	Nomprov             *string  `json:"nomprov"`                              // province name
	IndEmpleado         *string  `json:"ind_empleado"`                         // employee index: A, B, F, N, S
	TiprelUmes          *string  `json:"tiprel_1mes"`                          // customer relation type: A/I/P/R
	Indresi             *string  `json:"indresi"`                              // residence index (S/N)
	Indext              *string  `json:"indext"`                               // foreigner index (S/N)
	Indfall             *string  `json:"indfall"`                              // deceased index (N/S)
	IndrelUmes          *string  `json:"indrel_1mes"`                          // customer type at month start: 1, 2, P, 3, 4
	IndNuevo            *int     `json:"ind_nuevo"`                            // 1 = registered in the last 6 months
	Indrel              *int     `json:"indrel"`                               // 1 = primary customer, 99 otherwise
	IndActividadCliente *int     `json:"ind_actividad_cliente"`                // activity index (1 = active)
	CodProv             *int     `json:"cod_prov"`                             // province code

	PrevProducts   map[string]int `json:"prev_products" binding:"required"` // currently held products {product_col: 0/1}
	ProductChanges *int           `json:"product_changes"`                  // product changes since last month
	FechaDato      string         `json:"fecha_dato"`                       // observation date (YYYY-MM-DD), today if empty
	TopK           int            `json:"top_k" binding:"omitempty,gte=1,lte=22"`
}

// ProductRecommendation is one recommended product
type ProductRecommendation struct {
	ProductCol  string  `json:"product_col"`
	ProductName string  `json:"product_name"`
	Probability float64 `json:"probability"`
}

// PredictionResponse is the /predict response body
type PredictionResponse struct {
	Recommendations  []ProductRecommendation `json:"recommendations"`
	NCurrentProducts int                     `json:"n_current_products"`
}

// HealthResponse is the /health response body
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded"`
	NModels     int    `json:"n_models"`
	NFeatures   int    `json:"n_features"`
	NProducts   int    `json:"n_products"`
}

// ModelInfoResponse is the /model/info response body
type ModelInfoResponse struct {
	NModels      int               `json:"n_models"`
	FeatureCols  []string          `json:"feature_cols"`
	ProductCols  []string          `json:"product_cols"`
	ProductNames map[string]string `json:"product_names"`
}
