package session

import (
	"context"
	"sync"
	"time"

	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/metrics"
	"github.com/gorilla/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// writeWait is the time allowed to write one frame to the socket.
	writeWait = 10 * time.Second

	// sendQueueSize bounds the per-peer outbound queue. Frames to a full
	// queue are dropped; a slow client loses frames instead of stalling
	// the room, and the heartbeat reaps it if it is truly dead.
	sendQueueSize = 256
)

// wsConnection is the subset of *websocket.Conn the session uses. Tests
// substitute a mock.
type wsConnection interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
}

// peerContext is the per-connection binding to a room. The only transition
// is unbound -> bound on a successful create/join; a rebind goes through an
// explicit leave first.
type peerContext struct {
	mu     sync.RWMutex
	roomID string
	peerID uuid.UUID
	bound  bool
}

func (p *peerContext) bind(roomID string, peerID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roomID = roomID
	p.peerID = peerID
	p.bound = true
}

func (p *peerContext) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roomID = ""
	p.peerID = uuid.Nil
	p.bound = false
}

func (p *peerContext) get() (roomID string, peerID uuid.UUID, bound bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roomID, p.peerID, p.bound
}

// Client owns one WebSocket connection end to end: the outbound queue, the
// peer context, and the reader/forwarder tasks.
type Client struct {
	conn    wsConnection
	handler *Handler

	// connID keys the per-connection rate limiter. Distinct from the peer
	// ID, which only exists after a successful join.
	connID string

	ctx peerContext

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	send chan []byte
}

func newClient(conn wsConnection, handler *Handler) *Client {
	return &Client{
		conn:    conn,
		handler: handler,
		connID:  uuid.New().String(),
		send:    make(chan []byte, sendQueueSize),
	}
}

// Send pushes an encoded frame onto the outbound queue without blocking.
// It reports false when the frame was dropped. Satisfies room.Sender.
func (c *Client) Send(data []byte) bool {
	if data == nil {
		return false
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false
	}
	c.mu.RUnlock()

	// The queue may be closed between the check above and the send.
	defer func() {
		if r := recover(); r != nil {
			logging.GetLogger().Debug("send to closing client", zap.String("conn_id", c.connID))
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		logging.Warn(context.Background(), "client send queue full, dropping frame", zap.String("conn_id", c.connID))
		return false
	}
}

// Disconnect closes the outbound queue, which drives the forwarder to send
// a close frame and shut the socket.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump forwards frames from the outbound queue to the socket and sends
// protocol-level pings on the heartbeat cadence. Its exit is authoritative
// for connection death.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.handler.cfg.HeartbeatInterval())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client frames from the socket and dispatches them. When it
// exits, the cleanup path runs: leave the bound room and notify the rest.
func (c *Client) readPump() {
	defer func() {
		c.handler.handleDisconnect(c)
		c.Disconnect()
		_ = c.conn.Close()
		metrics.DecConnection()
	}()

	deadline := c.handler.cfg.HeartbeatInterval() + c.handler.cfg.HeartbeatTimeout()
	c.conn.SetReadLimit(c.handler.cfg.WsMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn(context.Background(), "websocket read error", zap.String("conn_id", c.connID), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		// Any client frame counts as read activity.
		_ = c.conn.SetReadDeadline(time.Now().Add(deadline))

		c.handler.dispatch(context.Background(), c, data)
	}
}
