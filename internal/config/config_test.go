package config

import (
	"testing"
)

func TestCollectConfigDefaults(t *testing.T) {
	var cfg AppConfig
	collectConfig(&cfg)

	if cfg.Server.Address != ":8000" {
		t.Errorf("expected default address :8000, got %s", cfg.Server.Address)
	}
	if cfg.Model.DefaultTopK != 7 {
		t.Errorf("expected default top_k 7, got %d", cfg.Model.DefaultTopK)
	}
	if cfg.Tracking.Host != "127.0.0.1" {
		t.Errorf("expected default tracking host 127.0.0.1, got %s", cfg.Tracking.Host)
	}
	if cfg.Tracking.Port != 5000 {
		t.Errorf("expected default tracking port 5000, got %d", cfg.Tracking.Port)
	}
	if cfg.Tracking.BackendStoreURI != "sqlite:///mlflow.db" {
		t.Errorf("unexpected backend store uri: %s", cfg.Tracking.BackendStoreURI)
	}
	if cfg.Tracking.ArtifactRoot != "mlruns" {
		t.Errorf("unexpected artifact root: %s", cfg.Tracking.ArtifactRoot)
	}
	if cfg.Tracking.PidFile == "" {
		t.Error("expected a default pid file path")
	}
	if cfg.Audit.Path == "" {
		t.Error("expected a default audit store path")
	}
}

func TestCollectConfigEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_PATH", "/srv/models/custom.json")
	t.Setenv("DEFAULT_TOP_K", "5")

	var cfg AppConfig
	collectConfig(&cfg)

	if cfg.Model.Path != "/srv/models/custom.json" {
		t.Errorf("MODEL_PATH override not applied, got %s", cfg.Model.Path)
	}
	if cfg.Model.DefaultTopK != 5 {
		t.Errorf("DEFAULT_TOP_K override not applied, got %d", cfg.Model.DefaultTopK)
	}
}

func TestCollectConfigTopKOutOfRange(t *testing.T) {
	var cfg AppConfig
	cfg.Model.DefaultTopK = 50
	collectConfig(&cfg)

	if cfg.Model.DefaultTopK != 7 {
		t.Errorf("out-of-range top_k should fall back to 7, got %d", cfg.Model.DefaultTopK)
	}
}
