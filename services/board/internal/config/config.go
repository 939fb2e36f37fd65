package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the board service
type Config struct {
	// Port is the listen port (e.g., "50053")
	Port string

	// PublicURL is where browsers reach the page (e.g., "http://localhost:50053").
	// The identity provider redirects back to PublicURL + "/".
	PublicURL string

	// DBURL is the connection string of the managed Postgres holding entitlements
	DBURL string

	// SupabaseURL is the project URL of the identity provider
	SupabaseURL string

	// SupabaseAnonKey is the public API key sent with every identity request
	SupabaseAnonKey string

	// GeminiAPIKey authenticates generateContent calls
	GeminiAPIKey string

	// GeminiModel is the generative model name
	GeminiModel string

	// RazorpayKeyID and RazorpayKeySecret authenticate order creation and
	// signature verification
	RazorpayKeyID     string
	RazorpayKeySecret string

	// RequirePremium gates the solver behind the Premium plan
	RequirePremium bool

	// TabIdleTimeout is how long an untouched tab survives
	TabIdleTimeout time.Duration

	// JanitorInterval is the interval between idle tab sweeps
	JanitorInterval time.Duration

	// CanvasWidth and CanvasHeight are the rasterised canvas dimensions
	CanvasWidth  int
	CanvasHeight int

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment.
// A .env file in the working directory, if present, is loaded first and
// never overrides variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from a lookup function
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:              get("BOARD_PORT", "50053"),
		DBURL:             get("BOARD_DB_URL", ""),
		SupabaseURL:       strings.TrimRight(get("BOARD_SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:   get("BOARD_SUPABASE_ANON_KEY", ""),
		GeminiAPIKey:      get("BOARD_GEMINI_API_KEY", ""),
		GeminiModel:       get("BOARD_GEMINI_MODEL", "gemini-2.5-pro"),
		RazorpayKeyID:     get("BOARD_RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: get("BOARD_RAZORPAY_KEY_SECRET", ""),
		LogLevel:          get("BOARD_LOG_LEVEL", "info"),
		LogFormat:         get("BOARD_LOG_FORMAT", "json"),
	}
	cfg.PublicURL = strings.TrimRight(get("BOARD_PUBLIC_URL", "http://localhost:"+cfg.Port), "/")

	var err error
	if cfg.RequirePremium, err = strconv.ParseBool(get("BOARD_REQUIRE_PREMIUM", "true")); err != nil {
		return Config{}, fmt.Errorf("invalid BOARD_REQUIRE_PREMIUM: %w", err)
	}
	if cfg.TabIdleTimeout, err = time.ParseDuration(get("BOARD_TAB_IDLE_TIMEOUT", "12h")); err != nil {
		return Config{}, fmt.Errorf("invalid BOARD_TAB_IDLE_TIMEOUT: %w", err)
	}
	if cfg.JanitorInterval, err = time.ParseDuration(get("BOARD_JANITOR_INTERVAL", "5m")); err != nil {
		return Config{}, fmt.Errorf("invalid BOARD_JANITOR_INTERVAL: %w", err)
	}
	if cfg.CanvasWidth, err = strconv.Atoi(get("BOARD_CANVAS_WIDTH", "1280")); err != nil {
		return Config{}, fmt.Errorf("invalid BOARD_CANVAS_WIDTH: %w", err)
	}
	if cfg.CanvasHeight, err = strconv.Atoi(get("BOARD_CANVAS_HEIGHT", "720")); err != nil {
		return Config{}, fmt.Errorf("invalid BOARD_CANVAS_HEIGHT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"BOARD_DB_URL", c.DBURL},
		{"BOARD_SUPABASE_URL", c.SupabaseURL},
		{"BOARD_SUPABASE_ANON_KEY", c.SupabaseAnonKey},
		{"BOARD_GEMINI_API_KEY", c.GeminiAPIKey},
		{"BOARD_RAZORPAY_KEY_ID", c.RazorpayKeyID},
		{"BOARD_RAZORPAY_KEY_SECRET", c.RazorpayKeySecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s environment variable is required", r.key)
		}
	}

	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.TabIdleTimeout <= 0 || c.JanitorInterval <= 0 {
		return fmt.Errorf("tab idle timeout and janitor interval must be positive")
	}
	return nil
}
