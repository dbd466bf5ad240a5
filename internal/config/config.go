package config

import (
	"os"
	"path/filepath"
	"strconv"

	"bankrec/internal/env"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8000")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Model configuration
 * @property {string} path - Path to the model artifact (model.json)
 * @property {int} default_top_k - Default number of recommendations (1..22)
 */
type ModelConfig struct {
	Path        string `mapstructure:"path"`
	DefaultTopK int    `mapstructure:"default_top_k"`
}

/**
 * Prediction audit store configuration
 * @property {string} path - Path to the sqlite database file
 */
type AuditConfig struct {
	Path string `mapstructure:"path"`
}

/**
 * Tracking server launch configuration
 * @property {string} host - Host the tracking server binds to
 * @property {int} port - Port the tracking server binds to
 * @property {string} backend_store_uri - Backend store database URI
 * @property {string} artifact_root - Directory for experiment artifacts
 * @property {string} pid_file - File holding the pid of the launched server
 */
type TrackingConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	BackendStoreURI string `mapstructure:"backend_store_uri"`
	ArtifactRoot    string `mapstructure:"artifact_root"`
	PidFile         string `mapstructure:"pid_file"`
}

type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Model    ModelConfig    `mapstructure:"model"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

/**
 * Load application configuration from YAML file
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8000"
	}
	// MODEL_PATH/DEFAULT_TOP_K environment variables take precedence
	if path := os.Getenv("MODEL_PATH"); path != "" {
		cfg.Model.Path = path
	}
	if topK := os.Getenv("DEFAULT_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			cfg.Model.DefaultTopK = k
		}
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = filepath.Join("models", "model.json")
	}
	if cfg.Model.DefaultTopK <= 0 || cfg.Model.DefaultTopK > 22 {
		cfg.Model.DefaultTopK = 7
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = filepath.Join(env.BankrecDir, "predictions.db")
	}
	if cfg.Tracking.Host == "" {
		cfg.Tracking.Host = "127.0.0.1"
	}
	if cfg.Tracking.Port == 0 {
		cfg.Tracking.Port = 5000
	}
	if cfg.Tracking.BackendStoreURI == "" {
		cfg.Tracking.BackendStoreURI = "sqlite:///mlflow.db"
	}
	if cfg.Tracking.ArtifactRoot == "" {
		cfg.Tracking.ArtifactRoot = "mlruns"
	}
	if cfg.Tracking.PidFile == "" {
		cfg.Tracking.PidFile = filepath.Join(env.BankrecDir, "mlflow.pid")
	}
	return cfg
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
