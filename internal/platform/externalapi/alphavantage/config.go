// Package alphavantage provides a client for the Alpha Vantage stock market API (U.S. market).
package alphavantage

import (
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the public Alpha Vantage endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// Config holds configuration for the Alpha Vantage client.
type Config struct {
	APIKey        string        // API key for authentication
	BaseURL       string        // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout       time.Duration // HTTP request timeout
	RatePerMinute int           // client-side call limit; 0 disables throttling
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	rpm, _ := strconv.Atoi(os.Getenv("ALPHA_VANTAGE_RATE_PER_MINUTE"))
	return Config{
		APIKey:        os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL:       base,
		Timeout:       15 * time.Second,
		RatePerMinute: rpm,
	}
}
