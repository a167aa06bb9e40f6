// Package config loads application configuration from environment
// variables (with .env support) and the normalisation-table bundle shared
// by ingestion and structural validation.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration loaded from the process environment.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	PipelineWorkers int
	SourceRateLimit float64 // requests/sec, default per-source rate limit

	DocumentRoot    string
	SnapshotPath    string
	NormaliseTables string // path to normalisation YAML bundle
}

// Load reads .env (if present) and returns a populated Config, falling back
// to defaults for anything unset. Mirrors the teacher's config.Load shape.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// absence of a .env file is not an error outside containers/CI
		_ = err
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dealengine"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dealengine"),
		PostgresDB:       getEnv("POSTGRES_DB", "dealengine"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		PipelineWorkers: getEnvInt("PIPELINE_WORKERS", 8),
		SourceRateLimit: getEnvFloat("SOURCE_RATE_LIMIT", 5.0),

		DocumentRoot:    getEnv("DOCUMENT_ROOT", "./documents"),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", "./data/logbooks.snapshot.yaml"),
		NormaliseTables: getEnv("NORMALISE_TABLES", "./internal/config/normalise.yaml"),
	}
}

// DSN returns the PostgreSQL connection string for the comparable-sale
// repository.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

// NormaliseTables is the single, shared property-type/tenure synonym
// mapping used by the structural validator, through which both scraped
// listings and bridged submissions pass (spec.md §9 open question 4).
type NormaliseTables struct {
	PropertyType map[string]string `yaml:"property_type"`
	Tenure       map[string]string `yaml:"tenure"`
}

// LoadNormaliseTables reads the YAML synonym bundle from path.
func LoadNormaliseTables(path string) (*NormaliseTables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read normalise tables: %w", err)
	}

	var tables NormaliseTables
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("config: parse normalise tables: %w", err)
	}
	return &tables, nil
}

// DefaultNormaliseTables returns the built-in synonym tables, used when no
// YAML bundle is configured (e.g. in unit tests).
func DefaultNormaliseTables() *NormaliseTables {
	return &NormaliseTables{
		PropertyType: map[string]string{
			"flat":          "FLAT",
			"apartment":     "FLAT",
			"studio":        "FLAT",
			"maisonette":    "MAISONETTE",
			"terraced":      "TERRACED",
			"townhouse":     "TERRACED",
			"end terrace":   "TERRACED",
			"end-terrace":   "TERRACED",
			"semi-detached": "SEMI_DETACHED",
			"semi detached": "SEMI_DETACHED",
			"semi":          "SEMI_DETACHED",
			"detached":      "DETACHED",
			"bungalow":      "DETACHED",
			"cottage":       "DETACHED",
		},
		Tenure: map[string]string{
			"freehold":          "FREEHOLD",
			"leasehold":         "LEASEHOLD",
			"share of freehold": "FREEHOLD",
		},
	}
}
