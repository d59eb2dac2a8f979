// Package config loads and validates environment configuration.
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/filecoffee/signaling/internal/v1/logging"
	"go.uber.org/zap"
	"os"
)

// Config holds validated environment configuration.
type Config struct {
	// Server
	Port           int
	AllowedOrigins string

	// Rooms
	RoomTTLSeconds  int
	RoomMaxPeers    int
	SlugMaxAttempts int

	// WebSocket
	WsHeartbeatIntervalSecs int
	WsHeartbeatTimeoutSecs  int
	WsMaxMessageSize        int64

	// TURN. URL and Secret are both required for TURN issuance; either one
	// missing means STUN-only ICE config.
	TurnURL               string
	TurnSecret            string
	TurnRealm             string
	TurnCredentialTTLSecs int

	// Rate limiting
	RateLimitRPM int
	RateLimitAPI string

	// Ambient
	DevelopmentMode bool
}

// Load reads configuration from environment variables, applying defaults and
// returning an error listing every invalid value.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []string

	intVar := func(dst *int, name string, def int) {
		v := os.Getenv(name)
		if v == "" {
			*dst = def
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s must be a non-negative integer (got '%s')", name, v))
			return
		}
		*dst = n
	}

	intVar(&cfg.Port, "PORT", 3030)
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be between 1 and 65535 (got %d)", cfg.Port))
	}

	cfg.AllowedOrigins = getEnvOrDefault("ALLOWED_ORIGINS", "*")

	intVar(&cfg.RoomTTLSeconds, "ROOM_TTL_SECONDS", 3600)
	intVar(&cfg.RoomMaxPeers, "ROOM_MAX_PEERS", 2)
	if cfg.RoomMaxPeers < 1 {
		errs = append(errs, "ROOM_MAX_PEERS must be at least 1")
	}
	intVar(&cfg.SlugMaxAttempts, "SLUG_MAX_ATTEMPTS", 5)

	intVar(&cfg.WsHeartbeatIntervalSecs, "WS_HEARTBEAT_INTERVAL_SECS", 30)
	intVar(&cfg.WsHeartbeatTimeoutSecs, "WS_HEARTBEAT_TIMEOUT_SECS", 10)

	var maxMsg int
	intVar(&maxMsg, "WS_MAX_MESSAGE_SIZE", 64*1024)
	cfg.WsMaxMessageSize = int64(maxMsg)

	cfg.TurnURL = os.Getenv("TURN_URL")
	cfg.TurnSecret = os.Getenv("TURN_SECRET")
	cfg.TurnRealm = getEnvOrDefault("TURN_REALM", "localhost")
	intVar(&cfg.TurnCredentialTTLSecs, "TURN_CREDENTIAL_TTL_SECS", 7200)
	if cfg.TurnURL != "" && cfg.TurnSecret == "" {
		errs = append(errs, "TURN_SECRET is required when TURN_URL is set")
	}

	intVar(&cfg.RateLimitRPM, "RATE_LIMIT_RPM", 10)
	cfg.RateLimitAPI = getEnvOrDefault("RATE_LIMIT_API", "100-M")

	cfg.DevelopmentMode = os.Getenv("DEVELOPMENT_MODE") == "true"

	if len(errs) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	logValidated(cfg)

	return cfg, nil
}

// RoomTTL returns the room idle timeout as a Duration.
func (c *Config) RoomTTL() time.Duration {
	return time.Duration(c.RoomTTLSeconds) * time.Second
}

// HeartbeatInterval returns the WebSocket ping cadence.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.WsHeartbeatIntervalSecs) * time.Second
}

// HeartbeatTimeout returns the grace period after a ping before the
// connection is considered dead.
func (c *Config) HeartbeatTimeout() time.Duration {
	return time.Duration(c.WsHeartbeatTimeoutSecs) * time.Second
}

// TurnCredentialTTL returns the validity window of issued TURN credentials.
func (c *Config) TurnCredentialTTL() time.Duration {
	return time.Duration(c.TurnCredentialTTLSecs) * time.Second
}

// TurnEnabled reports whether ephemeral TURN credentials can be issued.
func (c *Config) TurnEnabled() bool {
	return c.TurnURL != "" && c.TurnSecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// logValidated logs the loaded configuration with the TURN secret redacted.
func logValidated(cfg *Config) {
	logging.Info(context.Background(), "configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("allowed_origins", cfg.AllowedOrigins),
		zap.Int("room_ttl_seconds", cfg.RoomTTLSeconds),
		zap.Int("room_max_peers", cfg.RoomMaxPeers),
		zap.Int("slug_max_attempts", cfg.SlugMaxAttempts),
		zap.Int64("ws_max_message_size", cfg.WsMaxMessageSize),
		zap.Bool("turn_enabled", cfg.TurnEnabled()),
		zap.String("turn_url", cfg.TurnURL),
		zap.String("turn_secret", redactSecret(cfg.TurnSecret)),
		zap.Int("rate_limit_rpm", cfg.RateLimitRPM),
		zap.Bool("development_mode", cfg.DevelopmentMode),
	)
}

// redactSecret shows only a short prefix of a secret.
func redactSecret(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***"
}
