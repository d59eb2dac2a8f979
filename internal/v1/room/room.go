// Package room holds the Room and Peer data model.
//
// A Room is shared between the store and every session that looked it up;
// its internal state is guarded by two reader-writer locks, one for the peer
// map and one for the activity clock. Lock order is peer map before activity.
package room

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender is the outbound write handle of a connected peer. Send must never
// block; it reports false when the frame was dropped (queue full or closed).
type Sender interface {
	Send(data []byte) bool
}

// Peer is one connected endpoint inside a room.
type Peer struct {
	ID       uuid.UUID
	Sender   Sender
	JoinedAt time.Time
}

// NewPeer creates a peer with a fresh random ID.
func NewPeer(sender Sender) *Peer {
	return &Peer{
		ID:       uuid.New(),
		Sender:   sender,
		JoinedAt: time.Now(),
	}
}

// Room is a named meeting point: a set of peers plus optional access control.
type Room struct {
	id           string
	passwordHash string // empty means no password

	mu    sync.RWMutex
	peers map[uuid.UUID]*Peer

	createdAt time.Time

	activityMu   sync.RWMutex
	lastActivity time.Time
}

// New creates an empty room. The password must already be hashed.
func New(id, passwordHash string) *Room {
	now := time.Now()
	return &Room{
		id:           id,
		passwordHash: passwordHash,
		peers:        make(map[uuid.UUID]*Peer),
		createdAt:    now,
		lastActivity: now,
	}
}

// ID returns the room identifier (slug or UUID).
func (r *Room) ID() string {
	return r.id
}

// PasswordHash returns the stored hash, or "" when the room is open.
func (r *Room) PasswordHash() string {
	return r.passwordHash
}

// HasPassword reports whether joining requires a password.
func (r *Room) HasPassword() bool {
	return r.passwordHash != ""
}

// CreatedAt returns the room creation time.
func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// TryAddPeer inserts peer if the room is below maxPeers. The capacity check
// and insert happen under one write lock, so the limit holds at every
// observable moment. Returns the new peer count and whether the peer was
// admitted.
func (r *Room) TryAddPeer(peer *Peer, maxPeers int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.peers) >= maxPeers {
		return len(r.peers), false
	}
	r.peers[peer.ID] = peer
	return len(r.peers), true
}

// RemovePeer deletes the peer by ID, a no-op when absent. Returns the
// remaining peer count.
func (r *Room) RemovePeer(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.peers, id)
	return len(r.peers)
}

// PeerCount returns the current number of peers.
func (r *Room) PeerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Peers returns a snapshot of the peer map taken under the read lock.
// Broadcasts iterate the snapshot so sends happen outside the lock.
func (r *Room) Peers() []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peers := make([]*Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	return peers
}

// Touch records activity now. The TTL reaper measures idleness from this.
func (r *Room) Touch() {
	r.activityMu.Lock()
	defer r.activityMu.Unlock()
	r.lastActivity = time.Now()
}

// LastActivity returns the most recent activity time.
func (r *Room) LastActivity() time.Time {
	r.activityMu.RLock()
	defer r.activityMu.RUnlock()
	return r.lastActivity
}
