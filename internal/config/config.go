package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"
)

// Config is the full server configuration.
// Values are resolved as defaults, then the YAML file, then environment variables.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Fallback FallbackConfig `yaml:"fallback"`
	Registry RegistryConfig `yaml:"registry"`
	Bulk     BulkConfig     `yaml:"bulk"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	LogLevel string         `yaml:"log_level"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Version        string `yaml:"version"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 = transport default
}

// Timeout returns the HTTP client timeout
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// FallbackConfig is the static credential pair used when the registry has no applicable entry
type FallbackConfig struct {
	APIKey     string `yaml:"api_key"`
	LocationID string `yaml:"location_id"`
}

type RegistryConfig struct {
	Path string `yaml:"path"`
}

type BulkConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Version: DefaultAPIVersion,
		},
		Registry: RegistryConfig{Path: defaultRegistryPath()},
		Bulk:     BulkConfig{Concurrency: 1},
		LogLevel: "info",
	}
}

func defaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "locations.db"
	}
	return filepath.Join(home, ".crmfields", "locations.db")
}

// Load reads the optional YAML file at path and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := MergeWithEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeWithEnv applies environment variables on top of cfg. Env wins over the file.
//
//	GHL_API_KEY, GHL_LOCATION_ID        fallback credential pair
//	GHL_API_BASE_URL, GHL_API_VERSION   upstream endpoint
//	CRMFIELDS_DB_PATH                   registry database
//	CRMFIELDS_HTTP_TIMEOUT_SECONDS      upstream client timeout
//	CRMFIELDS_BULK_CONCURRENCY          bulk worker pool size
//	CRMFIELDS_METRICS_ADDR              prometheus listener
//	CRMFIELDS_LOG_LEVEL                 zerolog level
func MergeWithEnv(cfg *Config) error {
	setString(&cfg.Fallback.APIKey, "GHL_API_KEY")
	setString(&cfg.Fallback.LocationID, "GHL_LOCATION_ID")
	setString(&cfg.API.BaseURL, "GHL_API_BASE_URL")
	setString(&cfg.API.Version, "GHL_API_VERSION")
	setString(&cfg.Registry.Path, "CRMFIELDS_DB_PATH")
	setString(&cfg.Metrics.Addr, "CRMFIELDS_METRICS_ADDR")
	setString(&cfg.LogLevel, "CRMFIELDS_LOG_LEVEL")

	if err := setInt(&cfg.API.TimeoutSeconds, "CRMFIELDS_HTTP_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Bulk.Concurrency, "CRMFIELDS_BULK_CONCURRENCY"); err != nil {
		return err
	}
	return nil
}

// Validate rejects values the server cannot run with
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0")
	}
	if c.Bulk.Concurrency < 1 {
		return fmt.Errorf("bulk.concurrency must be >= 1")
	}
	if strings.TrimSpace(c.Registry.Path) == "" {
		return fmt.Errorf("registry.path is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
