// Package datagokr provides a client for the data.go.kr stock securities
// price service (Korean market).
package datagokr

import (
	"os"
	"time"
)

// DefaultBaseURL is the public endpoint of GetStockSecuritiesInfoService.
const DefaultBaseURL = "http://apis.data.go.kr/1160100/service/GetStockSecuritiesInfoService"

// Config holds configuration for the data.go.kr client.
type Config struct {
	APIKey  string        // serviceKey issued by data.go.kr (already URL-encoded)
	BaseURL string        // service base URL without the operation name
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads data.go.kr configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("KOREA_STOCK_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("KOREA_STOCK_API_KEY"),
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}
