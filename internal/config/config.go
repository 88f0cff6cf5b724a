package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Supabase
	SupabaseURL            string `mapstructure:"SUPABASE_URL"`
	SupabasePublishableKey string `mapstructure:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseServiceKey     string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret      string `mapstructure:"SUPABASE_JWT_SECRET"`
	SupabaseStorageBucket  string `mapstructure:"SUPABASE_STORAGE_BUCKET"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Stripe
	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	DefaultCurrency     string `mapstructure:"DEFAULT_CURRENCY"`

	// Email
	PostmarkServerToken string `mapstructure:"POSTMARK_SERVER_TOKEN"`
	EmailFrom           string `mapstructure:"EMAIL_FROM"`

	// Geocoding
	GoogleMapsAPIKey  string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GeocodeAPIBaseURL string `mapstructure:"GEOCODE_API_BASE_URL"`
	GeocodeRegion     string `mapstructure:"GEOCODE_REGION"`

	// Cache
	ValkeyAddress string `mapstructure:"VALKEY_ADDRESS"`

	// Server
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	BaseURL     string `mapstructure:"BASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]string{
	"SUPABASE_URL":              "",
	"SUPABASE_PUBLISHABLE_KEY":  "",
	"SUPABASE_SERVICE_ROLE_KEY": "",
	"SUPABASE_JWT_SECRET":       "",
	"SUPABASE_STORAGE_BUCKET":   "room-photos",
	"DATABASE_URL":              "",
	"STRIPE_SECRET_KEY":         "",
	"STRIPE_WEBHOOK_SECRET":     "",
	"DEFAULT_CURRENCY":          "aud",
	"POSTMARK_SERVER_TOKEN":     "",
	"EMAIL_FROM":                "no-reply@homeclean.app",
	"GOOGLE_MAPS_API_KEY":       "",
	"GEOCODE_API_BASE_URL":      "https://maps.googleapis.com/maps/api/geocode/json",
	"GEOCODE_REGION":            "au",
	"VALKEY_ADDRESS":            "",
	"PORT":                      "8080",
	"ENVIRONMENT":               "development",
	"BASE_URL":                  "http://localhost:8080",
	"LOG_LEVEL":                 "info",
}

// Load reads configuration from the environment, falling back to a .env file
// in the working directory when one exists.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return errors.New("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return errors.New("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return errors.New("SUPABASE_JWT_SECRET is required")
	}
	if c.StripeSecretKey != "" && c.StripeWebhookSecret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is required when STRIPE_SECRET_KEY is set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// StorageKey prefers the service role key so uploads bypass storage policies.
func (c *Config) StorageKey() string {
	if c.SupabaseServiceKey != "" {
		return c.SupabaseServiceKey
	}
	return c.SupabasePublishableKey
}
