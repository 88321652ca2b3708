package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	DataDir     string `yaml:"data_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`

	WorkerCount int `yaml:"worker_count"`
	QueueDepth  int `yaml:"queue_depth"`

	OCREnabled bool   `yaml:"ocr_enabled"`
	OCRBinary  string `yaml:"ocr_binary"`

	APIRateLimitRPS       int `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst     int `yaml:"api_rate_limit_burst"`
	APIMaxInFlight        int `yaml:"api_max_in_flight"`
	APIBackpressureWaitMS int `yaml:"api_backpressure_wait_ms"`
}

// Load builds the configuration from defaults, an optional YAML file named
// by DECKDOC_CONFIG, and environment variables, in increasing precedence.
// A .env file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("DECKDOC_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "config file %s ignored: %v\n", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		DataDir:     "./data/jobs",
		MaxUploadMB: 64,

		WorkerCount: 4,
		QueueDepth:  16,

		OCREnabled: true,
		OCRBinary:  "tesseract",

		APIRateLimitRPS:       0,
		APIRateLimitBurst:     0,
		APIMaxInFlight:        0,
		APIBackpressureWaitMS: 50,
	}
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, cfg)
}

func applyEnv(cfg *Config) {
	cfg.APIPort = envString("API_PORT", cfg.APIPort)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.MaxUploadMB = envInt("MAX_UPLOAD_MB", cfg.MaxUploadMB)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.QueueDepth = envInt("QUEUE_DEPTH", cfg.QueueDepth)

	cfg.OCREnabled = envBool("OCR_ENABLED", cfg.OCREnabled)
	cfg.OCRBinary = envString("OCR_BINARY", cfg.OCRBinary)

	cfg.APIRateLimitRPS = envInt("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS)
	cfg.APIRateLimitBurst = envInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst)
	cfg.APIMaxInFlight = envInt("API_MAX_IN_FLIGHT", cfg.APIMaxInFlight)
	cfg.APIBackpressureWaitMS = envInt("API_BACKPRESSURE_WAIT_MS", cfg.APIBackpressureWaitMS)
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
