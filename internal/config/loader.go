package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	SessionTTL        time.Duration
	TokenKey          []byte
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
	AllowedOrigins    []string
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is read first when present so local
// development does not need exported variables.
//
// The loader applies defaults for optional fields while validating required
// values, reporting every missing or invalid entry at once.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:         3333,
		SQLiteDSN:        "file:bookings.db?_foreign_keys=on",
		SessionTTL:       7 * 24 * time.Hour,
		OAuthRedirectURL: "http://localhost:3333/auth/calendar/callback",
	}

	missing := make([]string, 0, 3)
	invalid := make([]string, 0, 3)

	if portValue := strings.TrimSpace(os.Getenv("BOOKINGS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKINGS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKINGS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKINGS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKINGS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if keyValue := strings.TrimSpace(os.Getenv("BOOKINGS_TOKEN_KEY")); keyValue == "" {
		missing = append(missing, "BOOKINGS_TOKEN_KEY")
	} else {
		key, err := hex.DecodeString(keyValue)
		if err != nil || len(key) != 32 {
			invalid = append(invalid, "BOOKINGS_TOKEN_KEY")
		} else {
			cfg.TokenKey = key
		}
	}

	if clientID := strings.TrimSpace(os.Getenv("BOOKINGS_OAUTH_CLIENT_ID")); clientID == "" {
		missing = append(missing, "BOOKINGS_OAUTH_CLIENT_ID")
	} else {
		cfg.OAuthClientID = clientID
	}

	if clientSecret := strings.TrimSpace(os.Getenv("BOOKINGS_OAUTH_CLIENT_SECRET")); clientSecret == "" {
		missing = append(missing, "BOOKINGS_OAUTH_CLIENT_SECRET")
	} else {
		cfg.OAuthClientSecret = clientSecret
	}

	if redirectURL := strings.TrimSpace(os.Getenv("BOOKINGS_OAUTH_REDIRECT_URL")); redirectURL != "" {
		cfg.OAuthRedirectURL = redirectURL
	}

	if origins := strings.TrimSpace(os.Getenv("BOOKINGS_ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
