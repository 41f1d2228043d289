package main

import (
	"os"
	"time"
)

// Config holds runtime settings for the tripshare server, satisfying
// tripshare.Config. Values are resolved once at startup: defaults first,
// then environment overrides.
type Config struct {
	Addr                  string
	DatabaseDSN           string
	SigningKey            string
	AdminEmail            string
	AdminPassword         string
	BaseURL               string
	Production            bool
	LegacySessionDeadline time.Time

	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "file:tripshare.db?_pragma=foreign_keys(1)"
	c.SigningKey = "dev-secret-change-in-production"
	c.BaseURL = "http://localhost:8080"
	c.SMTPFrom = "TripShare <no-reply@tripshare.local>"
}

// LoadConfig builds a Config by applying defaults and overlaying values from
// the process environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	overlay(&cfg.Addr, "TRIPSHARE_ADDR")
	overlay(&cfg.DatabaseDSN, "TRIPSHARE_DATABASE_DSN")
	overlay(&cfg.SigningKey, "SESSION_SECRET")
	overlay(&cfg.AdminEmail, "ADMIN_EMAIL")
	overlay(&cfg.AdminPassword, "ADMIN_PASSWORD")
	overlay(&cfg.BaseURL, "TRIPSHARE_BASE_URL")
	overlay(&cfg.SMTPAddr, "SMTP_ADDR")
	overlay(&cfg.SMTPFrom, "SMTP_FROM")
	overlay(&cfg.SMTPUsername, "SMTP_USERNAME")
	overlay(&cfg.SMTPPassword, "SMTP_PASSWORD")

	cfg.Production = os.Getenv("TRIPSHARE_ENV") == "production"

	// Unsigned pre-signature cookies are only honored during an explicit,
	// time-boxed migration window.
	if v := os.Getenv("TRIPSHARE_LEGACY_SESSION_DEADLINE"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			cfg.LegacySessionDeadline = t
		}
	}

	return cfg
}

func overlay(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func (c *Config) GetSigningKey() string               { return c.SigningKey }
func (c *Config) GetAdminEmail() string               { return c.AdminEmail }
func (c *Config) GetAdminPassword() string            { return c.AdminPassword }
func (c *Config) GetBaseURL() string                  { return c.BaseURL }
func (c *Config) GetLegacySessionDeadline() time.Time { return c.LegacySessionDeadline }
func (c *Config) IsProduction() bool                  { return c.Production }
