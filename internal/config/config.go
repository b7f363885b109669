package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type AppConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`

	// APIBaseURL is the weather service every page talks to.
	APIBaseURL    string `yaml:"api_base_url" validate:"required,url"`
	APIHealthPath string `yaml:"api_health_path" validate:"required,startswith=/"`

	// HTTPTimeout bounds outbound calls; 0 leaves the transport defaults.
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gte=0"`

	// Browser storage backend.
	StorageBackend string `yaml:"storage_backend" validate:"oneof=memory redis"`
	RedisURL       string `yaml:"redis_url" validate:"required_if=StorageBackend redis"`

	// ProbeInterval controls the upstream health probe (0 = disabled).
	ProbeInterval time.Duration `yaml:"probe_interval" validate:"gte=0"`

	CookieSecure bool `yaml:"cookie_secure"`

	// Coordinates the weather page opens with.
	DefaultLat string `yaml:"default_lat" validate:"required,latitude"`
	DefaultLon string `yaml:"default_lon" validate:"required,longitude"`
}

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		Port:           "8080",
		APIBaseURL:     "https://weather-project-fuwi.onrender.com",
		APIHealthPath:  "/health",
		StorageBackend: StorageMemory,
		ProbeInterval:  time.Minute,
		DefaultLat:     "24.71",
		DefaultLon:     "46.68",
	}
}

// Load reads configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.APIBaseURL = getenvDefault("API_BASE_URL", cfg.APIBaseURL)
	cfg.APIHealthPath = getenvDefault("API_HEALTH_PATH", cfg.APIHealthPath)
	cfg.StorageBackend = getenvDefault("STORAGE_BACKEND", cfg.StorageBackend)
	cfg.RedisURL = getenvDefault("REDIS_URL", cfg.RedisURL)
	cfg.DefaultLat = getenvDefault("DEFAULT_LAT", cfg.DefaultLat)
	cfg.DefaultLon = getenvDefault("DEFAULT_LON", cfg.DefaultLon)
	cfg.CookieSecure = getenvBool("COOKIE_SECURE", cfg.CookieSecure)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", cfg.ProbeInterval); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
