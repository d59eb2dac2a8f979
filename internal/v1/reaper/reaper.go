// Package reaper runs the periodic stale-room cleanup.
package reaper

import (
	"context"
	"time"

	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/service"
	"go.uber.org/zap"
)

// DefaultInterval is how often the reaper wakes up.
const DefaultInterval = 60 * time.Second

// Reaper drives RoomService.CleanupStaleRooms on a timer for the lifetime of
// the process.
type Reaper struct {
	rooms    *service.RoomService
	interval time.Duration
	maxAge   time.Duration
}

// New creates a reaper removing rooms idle for longer than maxAge.
func New(rooms *service.RoomService, interval, maxAge time.Duration) *Reaper {
	return &Reaper{rooms: rooms, interval: interval, maxAge: maxAge}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Callers run
// it in its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logging.Info(ctx, "room reaper started",
		zap.Duration("interval", r.interval),
		zap.Duration("room_ttl", r.maxAge),
	)

	for {
		select {
		case <-ctx.Done():
			logging.Info(ctx, "room reaper stopped")
			return
		case <-ticker.C:
			if reaped := r.rooms.CleanupStaleRooms(ctx, r.maxAge); reaped > 0 {
				logging.Info(ctx, "reaped stale rooms", zap.Int("count", reaped))
			}
		}
	}
}
