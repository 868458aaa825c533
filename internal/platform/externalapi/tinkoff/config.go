// Package tinkoff provides a client for the invest REST API used as the
// market-data provider.
package tinkoff

import (
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the production endpoint of the invest REST API.
const DefaultBaseURL = "https://invest-public-api.tinkoff.ru/rest"

// Config holds configuration for the invest API client.
type Config struct {
	Token          string        // Bearer token for authentication
	BaseURL        string        // Base URL for the API
	Timeout        time.Duration // HTTP request timeout
	CallsPerMinute int           // Client-side quota guard
}

// LoadConfig loads provider configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		Token:          os.Getenv("TINKOFF_API_KEY"),
		BaseURL:        os.Getenv("TINKOFF_BASE_URL"),
		Timeout:        30 * time.Second,
		CallsPerMinute: 50,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("TINKOFF_CALLS_PER_MINUTE")); err == nil && v > 0 {
		cfg.CallsPerMinute = v
	}
	return cfg
}
