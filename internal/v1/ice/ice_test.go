package ice

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServers_StunOnly(t *testing.T) {
	p := NewProvider(&config.Config{})

	cfg := p.Servers()
	require.Len(t, cfg.IceServers, 1)
	assert.Equal(t, "stun:stun.l.google.com:19302", cfg.IceServers[0].URLs)
	assert.Empty(t, cfg.IceServers[0].Username)
	assert.Empty(t, cfg.IceServers[0].Credential)
}

func TestServers_TurnCredentials(t *testing.T) {
	p := NewProvider(&config.Config{
		TurnURL:               "turn:turn.example.com:3478?transport=udp",
		TurnSecret:            "north-remembers",
		TurnCredentialTTLSecs: 600,
	})
	p.now = func() time.Time { return time.Unix(1700000000, 0) }

	cfg := p.Servers()
	require.Len(t, cfg.IceServers, 2)

	turn := cfg.IceServers[1]
	assert.Equal(t, "turn:turn.example.com:3478?transport=udp", turn.URLs)

	// Username carries the expiry: issue time plus the credential TTL.
	assert.Equal(t, "1700000600:filecoffee", turn.Username)

	mac := hmac.New(sha1.New, []byte("north-remembers"))
	mac.Write([]byte("1700000600:filecoffee"))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), turn.Credential)

	// The credential is valid standard base64 of a SHA-1 sized digest.
	raw, err := base64.StdEncoding.DecodeString(turn.Credential)
	require.NoError(t, err)
	assert.Len(t, raw, sha1.Size)
}

func TestServers_CredentialsRotateWithTime(t *testing.T) {
	p := NewProvider(&config.Config{
		TurnURL:               "turn:turn.example.com:3478",
		TurnSecret:            "north-remembers",
		TurnCredentialTTLSecs: 600,
	})

	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	first := p.Servers().IceServers[1]

	p.now = func() time.Time { return time.Unix(1700005000, 0) }
	second := p.Servers().IceServers[1]

	assert.NotEqual(t, first.Username, second.Username)
	assert.NotEqual(t, first.Credential, second.Credential)
}

func TestConfig_JSONShape(t *testing.T) {
	p := NewProvider(&config.Config{})

	data, err := json.Marshal(p.Servers())
	require.NoError(t, err)

	// Browser RTCPeerConnection expects camelCase keys.
	assert.JSONEq(t, `{"iceServers":[{"urls":"stun:stun.l.google.com:19302"}]}`, string(data))
}
