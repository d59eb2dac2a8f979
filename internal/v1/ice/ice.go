// Package ice produces the STUN/TURN configuration advertised to clients.
//
// TURN credentials follow the TURN REST API scheme
// (draft-uberti-behave-turn-rest): the username is "<expiry>:<label>" and the
// credential is base64(HMAC-SHA1(secret, username)). Nothing is stored
// server-side; the TURN server recomputes the same HMAC.
package ice

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/filecoffee/signaling/internal/v1/config"
)

// credentialLabel is the fixed identifier baked into TURN usernames.
const credentialLabel = "filecoffee"

// stunURL is the baseline STUN server, always advertised.
const stunURL = "stun:stun.l.google.com:19302"

// Server is one ICE server entry, serialized camelCase for the browser's
// RTCPeerConnection configuration.
type Server struct {
	URLs       string `json:"urls"`
	Username   string `json:"username,omitempty"`
	Credential string `json:"credential,omitempty"`
}

// Config is the full ICE server list.
type Config struct {
	IceServers []Server `json:"iceServers"`
}

// Provider issues ICE configurations with short-lived TURN credentials.
type Provider struct {
	cfg *config.Config
	now func() time.Time
}

// NewProvider creates a provider over the application configuration.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg, now: time.Now}
}

// Servers returns the current ICE configuration. The baseline STUN entry is
// always present; a TURN entry with ephemeral credentials is appended when
// TURN is configured.
func (p *Provider) Servers() Config {
	servers := []Server{{URLs: stunURL}}

	if p.cfg.TurnEnabled() {
		expiry := p.now().Add(p.cfg.TurnCredentialTTL()).Unix()
		username := fmt.Sprintf("%d:%s", expiry, credentialLabel)

		mac := hmac.New(sha1.New, []byte(p.cfg.TurnSecret))
		mac.Write([]byte(username))
		credential := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		servers = append(servers, Server{
			URLs:       p.cfg.TurnURL,
			Username:   username,
			Credential: credential,
		})
	}

	return Config{IceServers: servers}
}
