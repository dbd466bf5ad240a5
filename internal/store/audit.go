package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// AuditStore keeps a local log of served predictions. The drift summary
// derived from it is the input of the manual retraining decision.
type AuditStore struct {
	db *sql.DB
}

// PredictionRecord is one served prediction
type PredictionRecord struct {
	CreatedAt        time.Time
	ClientAge        int
	TopK             int
	NCurrentProducts int
	NRecommendations int
	TopProduct       string
	TopProbability   float64
}

// DriftSummary aggregates the audit log over a trailing window
type DriftSummary struct {
	Window              string  `json:"window"`
	Predictions         int64   `json:"predictions"`
	MeanTopProbability  float64 `json:"mean_top_probability"`
	MeanRecommendations float64 `json:"mean_recommendations"`
	EmptyResponses      int64   `json:"empty_responses"`
}

// Open opens (creating if needed) the sqlite audit database
func Open(path string) (*AuditStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit store directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &AuditStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *AuditStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS predictions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_at DATETIME NOT NULL,
  client_age INTEGER NOT NULL,
  top_k INTEGER NOT NULL,
  n_current_products INTEGER NOT NULL,
  n_recommendations INTEGER NOT NULL,
  top_product TEXT NOT NULL DEFAULT '',
  top_probability REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
`)
	return err
}

// Insert appends one prediction record to the audit log
func (s *AuditStore) Insert(ctx context.Context, rec PredictionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions
		 (created_at, client_age, top_k, n_current_products, n_recommendations, top_product, top_probability)
		 VALUES (?, ?, ?, ?, ?, ?, ?);`,
		rec.CreatedAt, rec.ClientAge, rec.TopK, rec.NCurrentProducts,
		rec.NRecommendations, rec.TopProduct, rec.TopProbability)
	return err
}

/**
 * Summarize predictions over a trailing window
 * @param {context.Context} ctx - Context for query cancellation
 * @param {time.Duration} window - Trailing window size (e.g. 24h)
 * @returns {*DriftSummary} Aggregated prediction statistics
 * @returns {error} Returns error if the query fails
 * @description
 * - Counts predictions, empty responses, and averages of top-1
 *   probability and recommendation count since now-window
 */
func (s *AuditStore) Summary(ctx context.Context, window time.Duration) (*DriftSummary, error) {
	since := time.Now().UTC().Add(-window)

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(top_probability), 0),
		        COALESCE(AVG(n_recommendations), 0),
		        COALESCE(SUM(CASE WHEN n_recommendations = 0 THEN 1 ELSE 0 END), 0)
		 FROM predictions WHERE created_at >= ?;`, since)

	summary := &DriftSummary{Window: window.String()}
	if err := row.Scan(&summary.Predictions, &summary.MeanTopProbability,
		&summary.MeanRecommendations, &summary.EmptyResponses); err != nil {
		return nil, err
	}
	return summary, nil
}

// Close closes the underlying database
func (s *AuditStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
