package config

import (
	"bytes"
	"os"
	"testing"
	"time"
)

const testTokenKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func clearEnvironment(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"BOOKINGS_HTTP_PORT",
		"BOOKINGS_SQLITE_DSN",
		"BOOKINGS_SESSION_TTL",
		"BOOKINGS_TOKEN_KEY",
		"BOOKINGS_OAUTH_CLIENT_ID",
		"BOOKINGS_OAUTH_CLIENT_SECRET",
		"BOOKINGS_OAUTH_REDIRECT_URL",
		"BOOKINGS_ALLOWED_ORIGINS",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("BOOKINGS_TOKEN_KEY", testTokenKey)
	t.Setenv("BOOKINGS_OAUTH_CLIENT_ID", "client-id")
	t.Setenv("BOOKINGS_OAUTH_CLIENT_SECRET", "client-secret")
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 3333 {
			t.Fatalf("expected default HTTP port 3333, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:bookings.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 7*24*time.Hour {
			t.Fatalf("expected default session TTL of one week, got %s", cfg.SessionTTL)
		}
		if cfg.OAuthRedirectURL != "http://localhost:3333/auth/calendar/callback" {
			t.Fatalf("unexpected default redirect URL: %q", cfg.OAuthRedirectURL)
		}
		if len(cfg.TokenKey) != 32 {
			t.Fatalf("expected 32 byte token key, got %d bytes", len(cfg.TokenKey))
		}
		if bytes.Equal(cfg.TokenKey, make([]byte, 32)) {
			t.Fatal("expected token key to be decoded from hex, got zero bytes")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnvironment(t)

		_, err := Load()
		if err == nil {
			t.Fatal("expected error when required values are missing")
		}
		expected := "missing required environment variables: BOOKINGS_TOKEN_KEY, BOOKINGS_OAUTH_CLIENT_ID, BOOKINGS_OAUTH_CLIENT_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects malformed token keys", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)
		t.Setenv("BOOKINGS_TOKEN_KEY", "not-hex")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for malformed token key")
		}
		expected := "invalid environment variable values: BOOKINGS_TOKEN_KEY"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects token keys of the wrong length", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)
		t.Setenv("BOOKINGS_TOKEN_KEY", "0001020304")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for short token key")
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)
		t.Setenv("BOOKINGS_HTTP_PORT", "9090")
		t.Setenv("BOOKINGS_SQLITE_DSN", "file:/tmp/bookings.db")
		t.Setenv("BOOKINGS_SESSION_TTL", "24h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/bookings.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected session TTL 24h, got %s", cfg.SessionTTL)
		}
	})

	t.Run("reports invalid numeric values", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)
		t.Setenv("BOOKINGS_HTTP_PORT", "not-a-port")
		t.Setenv("BOOKINGS_SESSION_TTL", "-1h")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid environment variable values: BOOKINGS_HTTP_PORT, BOOKINGS_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("splits allowed origins on commas", func(t *testing.T) {
		clearEnvironment(t)
		setRequired(t)
		t.Setenv("BOOKINGS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if len(cfg.AllowedOrigins) != 2 {
			t.Fatalf("expected 2 origins, got %d: %v", len(cfg.AllowedOrigins), cfg.AllowedOrigins)
		}
		if cfg.AllowedOrigins[0] != "https://app.example.com" || cfg.AllowedOrigins[1] != "https://staging.example.com" {
			t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
		}
	})
}
