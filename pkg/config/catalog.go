package config

import (
	"fmt"
	"strings"
	"time"
)

// CatalogConfig holds the settings for the external food-product catalog lookup.
type CatalogConfig struct {
	BaseURL string               `koanf:"baseurl"`
	Timeout time.Duration        `koanf:"timeout"`
	Breaker CircuitBreakerConfig `koanf:"breaker"`
}

type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

// String returns a string representation of the catalog configuration.
func (c *CatalogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  baseurl: %s\n", c.BaseURL))
	b.WriteString(fmt.Sprintf("  timeout: %v\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  breaker.consecutivefailures: %d\n", c.Breaker.ConsecutiveFailures))
	b.WriteString(fmt.Sprintf("  breaker.opentimeout: %v\n", c.Breaker.OpenTimeout))
	return b.String()
}

func (c *CatalogConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("catalog base URL is not configured")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("catalog base URL must be an http(s) URL: %s", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog lookup timeout is not configured")
	}
	if c.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("catalog breaker consecutive failures must be greater than 0")
	}
	if c.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("catalog breaker open timeout must be greater than 0")
	}
	return nil
}
