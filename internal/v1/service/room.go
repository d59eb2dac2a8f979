// Package service contains the business logic of the signaling server: room
// lifecycle on one side, signaling fan-out on the other.
package service

import (
	"context"
	"fmt"

	"time"

	"github.com/filecoffee/signaling/internal/v1/auth"
	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/metrics"
	"github.com/filecoffee/signaling/internal/v1/room"
	"github.com/filecoffee/signaling/internal/v1/slug"
	"github.com/filecoffee/signaling/internal/v1/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomService owns all room-altering operations. Every mutation of store
// state goes through it.
type RoomService struct {
	store store.RoomStore
	cfg   *config.Config
}

// NewRoomService creates the service around a store and configuration.
func NewRoomService(st store.RoomStore, cfg *config.Config) *RoomService {
	return &RoomService{store: st, cfg: cfg}
}

// CreateRoom creates a room with an optional password and returns its ID.
// The caller is expected to follow up with JoinRoom immediately.
func (s *RoomService) CreateRoom(ctx context.Context, password *string) (string, error) {
	roomID := s.generateUniqueRoomID(ctx)

	// An empty password means an open room.
	var passwordHash string
	if password != nil && *password != "" {
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return "", fmt.Errorf("hash room password: %w", err)
		}
		passwordHash = hash
	}

	s.store.Insert(room.New(roomID, passwordHash))
	metrics.ActiveRooms.Set(float64(s.store.Count()))

	logging.Info(ctx, "room created",
		zap.String("room_id", roomID),
		zap.Bool("has_password", passwordHash != ""),
	)

	return roomID, nil
}

// generateUniqueRoomID draws slugs until one does not collide, falling back
// to a random UUID after SlugMaxAttempts. The probe-then-insert is not
// atomic; the ID space makes an overwrite astronomically rare and the store
// is single-process.
func (s *RoomService) generateUniqueRoomID(ctx context.Context) string {
	for i := 0; i < s.cfg.SlugMaxAttempts; i++ {
		candidate := slug.Generate()
		if s.store.Get(candidate) == nil {
			return candidate
		}
	}

	id := uuid.New().String()
	logging.Warn(ctx, "slug collision limit reached, using UUID", zap.String("room_id", id))
	return id
}

// JoinRoom admits a peer into a room, enforcing password and capacity.
// Returns the new peer's ID and the resulting peer count.
func (s *RoomService) JoinRoom(ctx context.Context, roomID string, password *string, sender room.Sender) (uuid.UUID, int, error) {
	if !validRoomID(roomID) {
		return uuid.Nil, 0, ErrRoomNotFound
	}

	r := s.store.Get(roomID)
	if r == nil {
		return uuid.Nil, 0, ErrRoomNotFound
	}

	if r.HasPassword() {
		var provided string
		if password != nil {
			provided = *password
		}
		if !auth.VerifyPassword(provided, r.PasswordHash()) {
			// Log without revealing anything the client does not know.
			logging.Warn(ctx, "invalid password attempt", zap.String("room_id", roomID))
			return uuid.Nil, 0, ErrInvalidPassword
		}
	}

	peer := room.NewPeer(sender)
	count, ok := r.TryAddPeer(peer, s.cfg.RoomMaxPeers)
	if !ok {
		logging.Warn(ctx, "room capacity exceeded", zap.String("room_id", roomID))
		return uuid.Nil, 0, ErrRoomFull
	}

	r.Touch()
	metrics.RoomPeers.WithLabelValues(roomID).Set(float64(count))

	logging.Info(ctx, "peer joined room",
		zap.String("room_id", roomID),
		zap.String("peer_id", peer.ID.String()),
		zap.Int("peer_count", count),
	)

	return peer.ID, count, nil
}

// LeaveRoom removes a peer from a room, deleting the room when it empties.
// Idempotent: leaving a gone room, or leaving twice, reports false without
// error. Returns whether the room was deleted.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID string, peerID uuid.UUID) bool {
	r := s.store.Get(roomID)
	if r == nil {
		return false // room already gone
	}

	remaining := r.RemovePeer(peerID)

	if remaining == 0 {
		s.store.Remove(roomID)
		metrics.ActiveRooms.Set(float64(s.store.Count()))
		metrics.RoomPeers.DeleteLabelValues(roomID)
		logging.Info(ctx, "room deleted (empty)", zap.String("room_id", roomID))
		return true
	}

	metrics.RoomPeers.WithLabelValues(roomID).Set(float64(remaining))
	logging.Info(ctx, "peer left room",
		zap.String("room_id", roomID),
		zap.String("peer_id", peerID.String()),
		zap.Int("remaining", remaining),
	)
	return false
}

// CleanupStaleRooms removes rooms idle for longer than maxAge and returns
// how many were removed. Remaining peers on a stale room are assumed dead;
// they observe the disconnect on the transport, not a PeerLeft frame.
func (s *RoomService) CleanupStaleRooms(ctx context.Context, maxAge time.Duration) int {
	staleIDs := s.store.StaleRoomIDs(maxAge)

	for _, roomID := range staleIDs {
		s.store.Remove(roomID)
		metrics.RoomPeers.DeleteLabelValues(roomID)
		metrics.ReapedRooms.Inc()
		logging.Info(ctx, "stale room cleaned up", zap.String("room_id", roomID))
	}

	metrics.ActiveRooms.Set(float64(s.store.Count()))
	return len(staleIDs)
}

// GetRoomInfo answers the read-only existence query. It never counts as
// room activity.
func (s *RoomService) GetRoomInfo(roomID string) (exists, hasPassword bool) {
	r := s.store.Get(roomID)
	if r == nil {
		return false, false
	}
	return true, r.HasPassword()
}

// GetRoom returns the live room handle for signaling operations, or nil.
func (s *RoomService) GetRoom(roomID string) *room.Room {
	return s.store.Get(roomID)
}

// validRoomID bounds room IDs to 3-64 printable ASCII characters. Slugs and
// UUIDs both fit; anything else cannot name a room.
func validRoomID(id string) bool {
	if len(id) < 3 || len(id) > 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
