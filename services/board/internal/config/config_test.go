package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"BOARD_DB_URL":              "postgres://localhost/board",
		"BOARD_SUPABASE_URL":        "https://project.supabase.co/",
		"BOARD_SUPABASE_ANON_KEY":   "anon",
		"BOARD_GEMINI_API_KEY":      "gemini",
		"BOARD_RAZORPAY_KEY_ID":     "rzp_test_key",
		"BOARD_RAZORPAY_KEY_SECRET": "secret",
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "50053", cfg.Port)
	assert.Equal(t, "http://localhost:50053", cfg.PublicURL)
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.True(t, cfg.RequirePremium)
	assert.Equal(t, 12*time.Hour, cfg.TabIdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.JanitorInterval)
	assert.Equal(t, 1280, cfg.CanvasWidth)
	assert.Equal(t, 720, cfg.CanvasHeight)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromLookup_Overrides(t *testing.T) {
	env := requiredEnv()
	env["BOARD_PORT"] = "8080"
	env["BOARD_PUBLIC_URL"] = "https://board.example.com/"
	env["BOARD_REQUIRE_PREMIUM"] = "false"
	env["BOARD_TAB_IDLE_TIMEOUT"] = "30m"

	cfg, err := FromLookup(lookupFrom(env))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://board.example.com", cfg.PublicURL)
	assert.False(t, cfg.RequirePremium)
	assert.Equal(t, 30*time.Minute, cfg.TabIdleTimeout)
}

func TestFromLookup_MissingRequired(t *testing.T) {
	env := requiredEnv()
	delete(env, "BOARD_GEMINI_API_KEY")

	_, err := FromLookup(lookupFrom(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOARD_GEMINI_API_KEY")
}

func TestFromLookup_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"BOARD_REQUIRE_PREMIUM":  "maybe",
		"BOARD_TAB_IDLE_TIMEOUT": "forever",
		"BOARD_CANVAS_WIDTH":     "wide",
		"BOARD_CANVAS_HEIGHT":    "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			env := requiredEnv()
			env[key] = value
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}
