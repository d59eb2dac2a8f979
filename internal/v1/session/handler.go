// Package session owns WebSocket connections: the upgrade path, the
// per-connection reader and forwarder tasks, frame dispatch, and the
// disconnect cleanup path.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/filecoffee/signaling/internal/v1/auth"
	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/metrics"
	"github.com/filecoffee/signaling/internal/v1/ratelimit"
	"github.com/filecoffee/signaling/internal/v1/service"
	"github.com/filecoffee/signaling/internal/v1/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler coordinates all WebSocket sessions.
type Handler struct {
	rooms   *service.RoomService
	signals *service.SignalingService
	limiter *ratelimit.Limiter
	cfg     *config.Config

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHandler creates the session handler and its WebSocket upgrader.
func NewHandler(rooms *service.RoomService, signals *service.SignalingService, limiter *ratelimit.Limiter, cfg *config.Config) *Handler {
	allowedOrigins := auth.ParseAllowedOrigins(cfg.AllowedOrigins)

	return &Handler{
		rooms:   rooms,
		signals: signals,
		limiter: limiter,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return auth.ValidateOrigin(r, allowedOrigins) == nil
			},
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeWs upgrades the HTTP request and starts the session tasks.
func (h *Handler) ServeWs(c *gin.Context) {
	if !h.limiter.CheckWebSocket(c) {
		return // response already written
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		logging.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn, h)
	h.register(client)
	metrics.IncConnection()

	logging.GetLogger().Debug("new websocket connection", zap.String("conn_id", client.connID))

	go client.writePump()
	go client.readPump()
}

func (h *Handler) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Handler) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Shutdown disconnects every active session. Frames queued at this point are
// flushed by each forwarder before its close frame.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Disconnect()
	}

	logging.Info(ctx, "all sessions disconnected", zap.Int("count", len(clients)))
	return nil
}

// dispatch decodes one client frame and routes it. Unknown or malformed
// frames elicit Error{INVALID_MESSAGE} and are otherwise ignored.
func (h *Handler) dispatch(ctx context.Context, c *Client, data []byte) {
	var msg types.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Warn(ctx, "failed to parse client frame", zap.String("conn_id", c.connID), zap.Error(err))
		metrics.Frames.WithLabelValues("unknown", "error").Inc()
		c.Send(types.NewError(types.CodeInvalidMessage, "invalid message format").Encode())
		return
	}

	start := time.Now()

	switch msg.Type {
	case types.ClientCreateRoom:
		h.handleCreateRoom(ctx, c, msg.Password)
	case types.ClientJoinRoom:
		h.handleJoinRoom(ctx, c, msg.RoomID, msg.Password)
	case types.ClientSignal:
		h.handleSignal(ctx, c, msg.Data)
	case types.ClientPing:
		c.Send(types.NewPong().Encode())
	default:
		logging.Warn(ctx, "unknown frame type", zap.String("conn_id", c.connID), zap.String("frame_type", msg.Type))
		metrics.Frames.WithLabelValues("unknown", "error").Inc()
		c.Send(types.NewError(types.CodeInvalidMessage, "invalid message format").Encode())
		return
	}

	metrics.Frames.WithLabelValues(msg.Type, "ok").Inc()
	metrics.FrameProcessingDuration.WithLabelValues(msg.Type).Observe(time.Since(start).Seconds())
}

// handleCreateRoom creates a room and joins the creator as its first peer.
// Only the creator is told the room ID.
func (h *Handler) handleCreateRoom(ctx context.Context, c *Client, password *string) {
	if !h.limiter.AllowRequest(ctx, c.connID) {
		c.Send(types.NewError(types.CodeRateLimited, "rate limit exceeded").Encode())
		return
	}

	// A create on an already-bound connection leaves the prior room first;
	// membership never dangles.
	h.leaveCurrentRoom(ctx, c)

	roomID, err := h.rooms.CreateRoom(ctx, password)
	if err != nil {
		logging.Error(ctx, "room creation failed", zap.Error(err))
		svcErr := service.AsError(err)
		c.Send(types.NewError(svcErr.Code, svcErr.Message).Encode())
		return
	}

	peerID, _, err := h.rooms.JoinRoom(ctx, roomID, password, c)
	if err != nil {
		svcErr := service.AsError(err)
		c.Send(types.NewError(svcErr.Code, svcErr.Message).Encode())
		return
	}

	c.ctx.bind(roomID, peerID)
	c.Send(types.NewRoomCreated(roomID).Encode())
}

// handleJoinRoom admits the connection into an existing room. Pre-existing
// peers receive PeerJoined before the joiner gets RoomJoined, so they hear
// about the peer before any Signal it can send.
func (h *Handler) handleJoinRoom(ctx context.Context, c *Client, roomID string, password *string) {
	if !h.limiter.AllowRequest(ctx, c.connID) {
		c.Send(types.NewError(types.CodeRateLimited, "rate limit exceeded").Encode())
		return
	}

	h.leaveCurrentRoom(ctx, c)

	peerID, peerCount, err := h.rooms.JoinRoom(ctx, roomID, password, c)
	if err != nil {
		svcErr := service.AsError(err)
		c.Send(types.NewError(svcErr.Code, svcErr.Message).Encode())
		return
	}

	c.ctx.bind(roomID, peerID)

	if r := h.rooms.GetRoom(roomID); r != nil {
		h.signals.BroadcastPeerJoined(r, peerID, peerCount)
	}

	c.Send(types.NewRoomJoined().Encode())
}

// handleSignal forwards an opaque payload to every other peer in the room.
func (h *Handler) handleSignal(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, peerID, bound := c.ctx.get()
	if !bound {
		c.Send(types.NewError(types.CodeNotInRoom, "not in a room").Encode())
		return
	}

	if r := h.rooms.GetRoom(roomID); r != nil {
		h.signals.BroadcastSignal(r, peerID, data)
	}
}

// handleDisconnect runs when the reader exits: leave the bound room and tell
// the remaining peers.
func (h *Handler) handleDisconnect(c *Client) {
	ctx := context.Background()
	h.leaveCurrentRoom(ctx, c)
	h.unregister(c)
}

// leaveCurrentRoom removes the connection's peer from its bound room, if
// any, broadcasting PeerLeft when the room survives. Safe to call when
// unbound; leave itself is idempotent.
func (h *Handler) leaveCurrentRoom(ctx context.Context, c *Client) {
	roomID, peerID, bound := c.ctx.get()
	if !bound {
		return
	}

	// Grab the handle before leaving; the leave may delete the store entry.
	r := h.rooms.GetRoom(roomID)

	deleted := h.rooms.LeaveRoom(ctx, roomID, peerID)
	if !deleted && r != nil {
		h.signals.BroadcastPeerLeft(r, r.PeerCount())
	}

	c.ctx.clear()
}
