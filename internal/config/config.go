package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Backend
	APIBase     string        `env:"NEOBANK_API_BASE" envDefault:"http://localhost:5000"`
	HTTPTimeout time.Duration `env:"NEOBANK_HTTP_TIMEOUT" envDefault:"10s"`

	// Local persistence
	DataDir          string        `env:"NEOBANK_DATA_DIR"`
	Storage          string        `env:"NEOBANK_STORAGE" envDefault:"file"`    // "file" or "sqlite"
	History          string        `env:"NEOBANK_HISTORY" envDefault:"sqlite"`  // "memory" or "sqlite"
	HistoryRetention time.Duration `env:"NEOBANK_HISTORY_RETENTION" envDefault:"720h"`

	// Client behaviour
	GamesConfig     string        `env:"NEOBANK_GAMES_CONFIG"`
	ToastLifetime   time.Duration `env:"NEOBANK_TOAST_LIFETIME" envDefault:"3s"`
	SearchDebounce  time.Duration `env:"NEOBANK_SEARCH_DEBOUNCE" envDefault:"500ms"`
	RefreshInterval time.Duration `env:"NEOBANK_REFRESH_INTERVAL" envDefault:"30s"`
	TransactionPage int           `env:"NEOBANK_TRANSACTION_LIMIT" envDefault:"10"`

	// Observability
	LogLevel    string `env:"NEOBANK_LOG_LEVEL" envDefault:"info"`
	MetricsAddr string `env:"NEOBANK_METRICS_ADDR"`

	// Optional integrations
	Elasticsearch ElasticsearchConfig `envPrefix:"ELASTICSEARCH_"`
	Discord       DiscordConfig       `envPrefix:"DISCORD_"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development" or "production"

	Games []GameConfig `env:"-"`
}

// ElasticsearchConfig enables round history indexing when URL is set
type ElasticsearchConfig struct {
	URL         string `env:"URL"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"neobank"`
}

// Enabled reports whether an Elasticsearch cluster is configured
func (c ElasticsearchConfig) Enabled() bool {
	return c.URL != ""
}

// DiscordConfig enables the win relay when both webhook fields are set
type DiscordConfig struct {
	WebhookID    string `env:"WEBHOOK_ID"`
	WebhookToken string `env:"WEBHOOK_TOKEN"`
}

// Enabled reports whether a Discord webhook is configured
func (c DiscordConfig) Enabled() bool {
	return c.WebhookID != "" && c.WebhookToken != ""
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if cfg.DataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.DataDir = filepath.Join(wd, "data")
	}

	games := DefaultGames()
	if cfg.GamesConfig != "" {
		loaded, err := LoadGames(cfg.GamesConfig)
		if err != nil {
			return nil, err
		}
		games = loaded
	}
	cfg.Games = games

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("NEOBANK_API_BASE is required")
	}
	if c.Storage != "file" && c.Storage != "sqlite" {
		return fmt.Errorf("NEOBANK_STORAGE must be file or sqlite, got %q", c.Storage)
	}
	if c.History != "memory" && c.History != "sqlite" {
		return fmt.Errorf("NEOBANK_HISTORY must be memory or sqlite, got %q", c.History)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("NEOBANK_HTTP_TIMEOUT must be positive")
	}
	if c.ToastLifetime <= 0 {
		return fmt.Errorf("NEOBANK_TOAST_LIFETIME must be positive")
	}
	if c.TransactionPage <= 0 {
		return fmt.Errorf("NEOBANK_TRANSACTION_LIMIT must be positive")
	}
	return ValidateGames(c.Games)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// StoragePath returns the file backing the credential store
func (c *Config) StoragePath() string {
	if c.Storage == "sqlite" {
		return filepath.Join(c.DataDir, "neobank.db")
	}
	return filepath.Join(c.DataDir, "session.json")
}

// HistoryPath returns the SQLite file used for round history
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Game returns the configuration for id
func (c *Config) Game(id string) (GameConfig, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return GameConfig{}, false
}
