// Package config handles application configuration loading from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	contextutils "vocabapp/internal/utils"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ClientConfig represents settings for the outbound API client and local state
type ClientConfig struct {
	// BaseURL is the root of the vocabulary backend API, e.g. "http://localhost:8000"
	BaseURL        string        `json:"base_url" yaml:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	// SessionFile is where the auth token / username / admin flag are persisted
	SessionFile string `json:"session_file" yaml:"session_file"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	Debug       bool   `json:"debug" yaml:"debug"`
	// LearnBatchLimit is the number of words requested per guided-learning batch
	LearnBatchLimit int `json:"learn_batch_limit" yaml:"learn_batch_limit" validate:"gte=1,lte=50"`
}

// OpenTelemetryConfig holds all OpenTelemetry-related configuration
type OpenTelemetryConfig struct {
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`
	Protocol       string            `json:"protocol" yaml:"protocol"`
	Insecure       bool              `json:"insecure" yaml:"insecure"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	ServiceName    string            `json:"service_name" yaml:"service_name"`
	ServiceVersion string            `json:"service_version" yaml:"service_version"`
	EnableTracing  bool              `json:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics  bool              `json:"enable_metrics" yaml:"enable_metrics"`
	EnableLogging  bool              `json:"enable_logging" yaml:"enable_logging"`
	SamplingRate   float64           `json:"sampling_rate" yaml:"sampling_rate"`
}

// Config holds all configuration for the application
type Config struct {
	Client        ClientConfig        `json:"client" yaml:"client"`
	OpenTelemetry OpenTelemetryConfig `json:"open_telemetry" yaml:"open_telemetry"`
}

// NewConfig loads configuration from the optional YAML file named by
// VOCAB_CONFIG_FILE, then applies environment variable overrides and defaults.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Client: ClientConfig{
			BaseURL:         "http://localhost:8000",
			RequestTimeout:  DefaultHTTPTimeout,
			SessionFile:     defaultSessionFile(),
			LogLevel:        "info",
			LearnBatchLimit: DefaultLearnBatchLimit,
		},
		OpenTelemetry: OpenTelemetryConfig{
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "vocab-client",
			ServiceVersion: "dev",
			SamplingRate:   1.0,
		},
	}

	if path := os.Getenv("VOCAB_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, contextutils.WrapError(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, contextutils.WrapError(err, "failed to parse config file")
		}
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg.Client); err != nil {
		return nil, contextutils.WrapError(err, "invalid client configuration")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOCAB_BASE_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv("VOCAB_SESSION_FILE"); v != "" {
		cfg.Client.SessionFile = v
	}
	if v := os.Getenv("VOCAB_LOG_LEVEL"); v != "" {
		cfg.Client.LogLevel = v
	}
	if v := os.Getenv("VOCAB_DEBUG"); v != "" {
		cfg.Client.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("VOCAB_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Client.RequestTimeout = d
		}
	}
	if v := os.Getenv("VOCAB_LEARN_BATCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Client.LearnBatchLimit = n
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OpenTelemetry.Endpoint = v
	}
	if v := os.Getenv("VOCAB_ENABLE_TRACING"); v != "" {
		cfg.OpenTelemetry.EnableTracing = v == "true" || v == "1"
	}
	if v := os.Getenv("VOCAB_ENABLE_LOGGING"); v != "" {
		cfg.OpenTelemetry.EnableLogging = v == "true" || v == "1"
	}
	if v := os.Getenv("VOCAB_ENABLE_METRICS"); v != "" {
		cfg.OpenTelemetry.EnableMetrics = v == "true" || v == "1"
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return SessionFileName
	}
	return filepath.Join(dir, "vocabapp", SessionFileName)
}
