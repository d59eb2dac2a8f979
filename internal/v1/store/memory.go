package store

import (
	"sync"
	"time"

	"github.com/filecoffee/signaling/internal/v1/room"
)

// InMemoryRoomStore backs the store with a mutex-protected map. Rooms do not
// survive a restart; that is by contract for this implementation.
type InMemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

// NewInMemoryRoomStore creates an empty store.
func NewInMemoryRoomStore() *InMemoryRoomStore {
	return &InMemoryRoomStore{
		rooms: make(map[string]*room.Room),
	}
}

func (s *InMemoryRoomStore) Insert(r *room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID()] = r
}

func (s *InMemoryRoomStore) Get(id string) *room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[id]
}

func (s *InMemoryRoomStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// StaleRoomIDs snapshots the IDs of rooms idle for longer than maxAge. It
// holds the map read lock while probing each room's activity clock; both are
// short-held and never cross I/O.
func (s *InMemoryRoomStore) StaleRoomIDs(maxAge time.Duration) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var stale []string
	for id, r := range s.rooms {
		if now.Sub(r.LastActivity()) > maxAge {
			stale = append(stale, id)
		}
	}
	return stale
}

func (s *InMemoryRoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
