package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings required by the given command mode:
// "scan", "serve" or "runs".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "scan":
		errs = append(errs, c.validateScan()...)
	case "serve":
		errs = append(errs, c.validateScan()...)
		errs = append(errs, c.validateServer()...)
		errs = append(errs, c.validateStore()...)
	case "runs":
		errs = append(errs, c.validateStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateScan() []string {
	var errs []string
	if c.Scan.Workers < 0 {
		errs = append(errs, "scan.workers must be >= 0")
	}
	if c.Scan.MaxListings < 0 {
		errs = append(errs, "scan.max_listings must be >= 0")
	}
	if c.Scan.TopN < 0 {
		errs = append(errs, "scan.top_n must be >= 0")
	}
	if c.Scan.MinListingsPerCompany < 0 {
		errs = append(errs, "scan.min_listings_per_company must be >= 0")
	}
	return errs
}

func (c *Config) validateServer() []string {
	var errs []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be > 0 and <= 65535")
	}
	if c.Server.RateLimitRPS <= 0 {
		errs = append(errs, "server.rate_limit_rps must be > 0")
	}
	if c.Server.RateLimitBurst <= 0 {
		errs = append(errs, "server.rate_limit_burst must be > 0")
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, "server.max_body_bytes must be > 0")
	}
	return errs
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Store.MaxConns < 0 || c.Store.MinConns < 0 {
		errs = append(errs, "store.max_conns and store.min_conns must be >= 0")
	}
	if c.Store.MaxConns > 0 && c.Store.MinConns > c.Store.MaxConns {
		errs = append(errs, "store.min_conns must be <= store.max_conns")
	}
	return errs
}
