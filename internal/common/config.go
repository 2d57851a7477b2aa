// Package common provides shared utilities for Coinfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Coinfolio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
	History     HistoryConfig `toml:"history"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration for the 2 storage areas.
type StorageConfig struct {
	Ledger AreaConfig `toml:"ledger"` // portfolios + transactions + users (BadgerHold)
	Cache  AreaConfig `toml:"cache"`  // derived result cache (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	RateLimit         int    `toml:"rate_limit"`
	QuoteTimeout      string `toml:"quote_timeout"`
	HistoricalTimeout string `toml:"historical_timeout"`
}

// GetQuoteTimeout parses and returns the current-quote timeout duration
func (c *CoinGeckoConfig) GetQuoteTimeout() time.Duration {
	d, err := time.ParseDuration(c.QuoteTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetHistoricalTimeout parses and returns the historical-batch timeout duration
func (c *CoinGeckoConfig) GetHistoricalTimeout() time.Duration {
	d, err := time.ParseDuration(c.HistoricalTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// HistoryConfig holds history reconstruction configuration.
type HistoryConfig struct {
	CacheTTL string `toml:"cache_ttl"` // duration string, default "600s"
}

// GetCacheTTL parses and returns the history result cache TTL.
func (c *HistoryConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 600 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Ledger: AreaConfig{Path: "data/ledger"},
			Cache:  AreaConfig{Path: "data/cache"},
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:           "https://api.coingecko.com/api/v3",
				RateLimit:         10,
				QuoteTimeout:      "10s",
				HistoricalTimeout: "30s",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		History: HistoryConfig{
			CacheTTL: "600s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COINFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("COINFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("COINFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("COINFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("COINFOLIO_DATA_PATH"); path != "" {
		config.Storage.Ledger.Path = path + "/ledger"
		config.Storage.Cache.Path = path + "/cache"
	}

	if v := os.Getenv("COINFOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("COINFOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		config.Clients.CoinGecko.APIKey = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
