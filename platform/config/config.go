// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// CacheConfig provides settings for the analysis cache.
type CacheConfig interface {
	GetCacheTTL() time.Duration
}

// CompanyProviderConfig provides settings for the firmographic provider.
// The provider is disabled (not constructed) when no API key is configured.
type CompanyProviderConfig interface {
	GetCompanyAPIKey() string
	IsCompanyProviderEnabled() bool
}

// SEOProviderConfig provides settings for the SEO metrics provider.
type SEOProviderConfig interface {
	GetSEOAPILogin() string
	GetSEOAPIPassword() string
	GetSEOLocationCode() int
	IsSEOProviderEnabled() bool
}

// TechProviderConfig provides settings for the technology detection provider.
type TechProviderConfig interface {
	GetTechAPIKey() string
	IsTechProviderEnabled() bool
}

// ProviderConfig combines the three provider configurations.
type ProviderConfig interface {
	CompanyProviderConfig
	SEOProviderConfig
	TechProviderConfig
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	CORSAllowAll    bool
	CORSOrigins     []string
	CacheTTL        time.Duration
	CompanyAPIKey   string
	SEOAPILogin     string
	SEOAPIPassword  string
	SEOLocationCode int
	TechAPIKey      string
}

// Load reads configuration from the environment, loading a .env file first
// when present. Missing provider credentials are not an error: the matching
// provider is simply not constructed.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CacheTTL:        mustDuration(getEnv("CACHE_TTL", "168h")),
		CompanyAPIKey:   getEnv("COMPANY_API_KEY", ""),
		SEOAPILogin:     getEnv("SEO_API_LOGIN", ""),
		SEOAPIPassword:  getEnv("SEO_API_PASSWORD", ""),
		SEOLocationCode: mustInt(getEnv("SEO_LOCATION_CODE", "2840")),
		TechAPIKey:      getEnv("TECH_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be a positive duration")
	}

	return cfg, nil
}

// GetDatabaseURL implements DatabaseConfig.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// GetHTTPAddr implements HTTPConfig.
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// GetCORSAllowAll implements HTTPConfig.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins implements HTTPConfig.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetCacheTTL implements CacheConfig.
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }

// GetCompanyAPIKey implements CompanyProviderConfig.
func (c *Config) GetCompanyAPIKey() string { return c.CompanyAPIKey }

// IsCompanyProviderEnabled implements CompanyProviderConfig.
func (c *Config) IsCompanyProviderEnabled() bool { return c.CompanyAPIKey != "" }

// GetSEOAPILogin implements SEOProviderConfig.
func (c *Config) GetSEOAPILogin() string { return c.SEOAPILogin }

// GetSEOAPIPassword implements SEOProviderConfig.
func (c *Config) GetSEOAPIPassword() string { return c.SEOAPIPassword }

// GetSEOLocationCode implements SEOProviderConfig.
func (c *Config) GetSEOLocationCode() int { return c.SEOLocationCode }

// IsSEOProviderEnabled implements SEOProviderConfig.
func (c *Config) IsSEOProviderEnabled() bool {
	return c.SEOAPILogin != "" && c.SEOAPIPassword != ""
}

// GetTechAPIKey implements TechProviderConfig.
func (c *Config) GetTechAPIKey() string { return c.TechAPIKey }

// IsTechProviderEnabled implements TechProviderConfig.
func (c *Config) IsTechProviderEnabled() bool { return c.TechAPIKey != "" }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
