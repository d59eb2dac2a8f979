package service

import (
	"encoding/json"

	"github.com/filecoffee/signaling/internal/v1/room"
	"github.com/filecoffee/signaling/internal/v1/types"
	"github.com/google/uuid"
)

// SignalingService fans server frames out to the peers of a room. Each
// broadcast serializes the frame once, snapshots the peer map under the read
// lock, and pushes the bytes onto each selected peer's outbound queue.
// Dropped sends (full or closed queues) are ignored; the disconnect path
// cleans those peers up.
type SignalingService struct{}

// NewSignalingService creates the (stateless) signaling service.
func NewSignalingService() *SignalingService {
	return &SignalingService{}
}

// BroadcastSignal sends an opaque Signal payload to every peer except the
// sender.
func (s *SignalingService) BroadcastSignal(r *room.Room, senderID uuid.UUID, data json.RawMessage) {
	frame := types.NewSignal(data).Encode()
	if frame == nil {
		return
	}

	for _, peer := range r.Peers() {
		if peer.ID != senderID {
			peer.Sender.Send(frame)
		}
	}
}

// BroadcastPeerJoined notifies everyone but the new peer that the room grew.
func (s *SignalingService) BroadcastPeerJoined(r *room.Room, newPeerID uuid.UUID, peerCount int) {
	frame := types.NewPeerJoined(peerCount).Encode()
	if frame == nil {
		return
	}

	for _, peer := range r.Peers() {
		if peer.ID != newPeerID {
			peer.Sender.Send(frame)
		}
	}
}

// BroadcastPeerLeft notifies every remaining peer that the room shrank.
func (s *SignalingService) BroadcastPeerLeft(r *room.Room, peerCount int) {
	frame := types.NewPeerLeft(peerCount).Encode()
	if frame == nil {
		return
	}

	for _, peer := range r.Peers() {
		peer.Sender.Send(frame)
	}
}
