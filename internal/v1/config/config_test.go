package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3030, cfg.Port)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.Equal(t, 3600, cfg.RoomTTLSeconds)
	assert.Equal(t, 2, cfg.RoomMaxPeers)
	assert.Equal(t, 5, cfg.SlugMaxAttempts)
	assert.Equal(t, 30, cfg.WsHeartbeatIntervalSecs)
	assert.Equal(t, 10, cfg.WsHeartbeatTimeoutSecs)
	assert.Equal(t, int64(64*1024), cfg.WsMaxMessageSize)
	assert.Equal(t, "localhost", cfg.TurnRealm)
	assert.Equal(t, 7200, cfg.TurnCredentialTTLSecs)
	assert.Equal(t, 10, cfg.RateLimitRPM)
	assert.False(t, cfg.TurnEnabled())
	assert.False(t, cfg.DevelopmentMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("ROOM_TTL_SECONDS", "60")
	t.Setenv("ROOM_MAX_PEERS", "4")
	t.Setenv("TURN_URL", "turn:turn.example.com:3478?transport=udp")
	t.Setenv("TURN_SECRET", "shared-secret")
	t.Setenv("TURN_CREDENTIAL_TTL_SECS", "600")
	t.Setenv("DEVELOPMENT_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://example.com", cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RoomTTL())
	assert.Equal(t, 4, cfg.RoomMaxPeers)
	assert.True(t, cfg.TurnEnabled())
	assert.Equal(t, 10*time.Minute, cfg.TurnCredentialTTL())
	assert.True(t, cfg.DevelopmentMode)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PortOutOfRange(t *testing.T) {
	t.Setenv("PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_TurnURLWithoutSecret(t *testing.T) {
	t.Setenv("TURN_URL", "turn:turn.example.com:3478")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ZeroMaxPeersRejected(t *testing.T) {
	t.Setenv("ROOM_MAX_PEERS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDurations(t *testing.T) {
	cfg := &Config{
		WsHeartbeatIntervalSecs: 30,
		WsHeartbeatTimeoutSecs:  10,
	}
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval())
	assert.Equal(t, 10*time.Second, cfg.HeartbeatTimeout())
}

func TestRedactSecret(t *testing.T) {
	assert.Equal(t, "***", redactSecret("short"))
	assert.Equal(t, "long***", redactSecret("long-shared-secret"))
}
