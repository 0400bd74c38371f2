package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`

	// Database settings
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/court_data.db"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	// Logging settings
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Cache settings
	CacheSize int           `env:"CACHE_SIZE" envDefault:"1000"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"30m"`

	// Fetcher settings
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FetchMode    string        `env:"FETCH_MODE" envDefault:"http"`
	UserAgent    string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
	HeadlessMode bool          `env:"HEADLESS_MODE" envDefault:"true"`
	BrowserPath  string        `env:"ROD_BROWSER_PATH"`

	// Court entry points
	DelhiHCURL     string `env:"DELHI_HC_URL" envDefault:"https://delhihighcourt.nic.in/"`
	FaridabadDCURL string `env:"FARIDABAD_DC_URL" envDefault:"https://faridabad.dcourts.gov.in/"`

	// API settings
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that the environment parser cannot.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER: %q", c.DatabaseDriver)
	}

	switch c.FetchMode {
	case "http", "browser":
	default:
		return fmt.Errorf("invalid FETCH_MODE: %q", c.FetchMode)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q", c.LogFormat)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive")
	}

	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
