// Package store defines room storage and its in-memory implementation.
package store

import (
	"time"

	"github.com/filecoffee/signaling/internal/v1/room"
)

// RoomStore is the storage abstraction for rooms keyed by ID.
type RoomStore interface {
	// Insert stores a room, overwriting any existing entry with the same ID.
	// Callers probe with Get before generating IDs, so overwrites do not
	// occur in practice.
	Insert(r *room.Room)

	// Get returns the live room, or nil when absent. The returned handle
	// stays usable even if the entry is removed afterwards; the store holds
	// one reference, callers hold another.
	Get(id string) *room.Room

	// Remove deletes the room by ID, a no-op when absent.
	Remove(id string)

	// StaleRoomIDs returns a snapshot of IDs whose last activity is older
	// than maxAge.
	StaleRoomIDs(maxAge time.Duration) []string

	// Count returns the number of stored rooms, for metrics.
	Count() int
}
