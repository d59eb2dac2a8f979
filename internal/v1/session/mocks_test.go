package session

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/filecoffee/signaling/internal/v1/ratelimit"
	"github.com/filecoffee/signaling/internal/v1/service"
	"github.com/filecoffee/signaling/internal/v1/store"
	"github.com/filecoffee/signaling/internal/v1/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var errConnClosed = errors.New("use of closed connection")

type readResult struct {
	messageType int
	data        []byte
	err         error
}

// mockConn scripts the read side of a connection and records the write side.
type mockConn struct {
	reads chan readResult

	mu          sync.Mutex
	writes      [][]byte
	writeTypes  []int
	closed      bool
	pongHandler func(string) error
}

func newMockConn() *mockConn {
	return &mockConn{reads: make(chan readResult, 16)}
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	r, ok := <-m.reads
	if !ok {
		return 0, nil, errConnClosed
	}
	return r.messageType, r.data, r.err
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errConnClosed
	}
	m.writeTypes = append(m.writeTypes, messageType)
	m.writes = append(m.writes, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConn) writtenTypes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.writeTypes...)
}

func (m *mockConn) queueText(data []byte) {
	m.reads <- readResult{messageType: websocket.TextMessage, data: data}
}

func (m *mockConn) SetWriteDeadline(time.Time) error { return nil }
func (m *mockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConn) SetReadLimit(int64)               {}

func (m *mockConn) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pongHandler = h
}

func sessionTestConfig() *config.Config {
	return &config.Config{
		AllowedOrigins:          "*",
		RoomMaxPeers:            2,
		SlugMaxAttempts:         5,
		RoomTTLSeconds:          3600,
		WsHeartbeatIntervalSecs: 1,
		WsHeartbeatTimeoutSecs:  1,
		WsMaxMessageSize:        64 * 1024,
		RateLimitRPM:            100,
		RateLimitAPI:            "100-M",
	}
}

func newTestHandler(t *testing.T, cfg *config.Config) *Handler {
	t.Helper()
	if cfg == nil {
		cfg = sessionTestConfig()
	}

	limiter, err := ratelimit.NewLimiter(cfg)
	require.NoError(t, err)

	rooms := service.NewRoomService(store.NewInMemoryRoomStore(), cfg)
	return NewHandler(rooms, service.NewSignalingService(), limiter, cfg)
}

// newTestClient builds a registered client whose pumps are not running; tests
// dispatch frames directly and read the outbound queue.
func newTestClient(h *Handler) *Client {
	c := newClient(newMockConn(), h)
	h.register(c)
	return c
}

func recvFrame(t *testing.T, c *Client) types.ServerMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg types.ServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame on outbound queue")
		return types.ServerMessage{}
	}
}

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame on outbound queue: %s", data)
	default:
	}
}

func encodeClient(t *testing.T, msg types.ClientMessage) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}
