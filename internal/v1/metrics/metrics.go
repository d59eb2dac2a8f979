// Package metrics declares the Prometheus metrics for the signaling server.
//
// Naming convention: namespace_subsystem_name
//   - namespace: signaling
//   - subsystem: websocket, room
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks currently open WebSocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "signaling",
		Subsystem: "websocket",
		Name:      "connections_active",
		Help:      "Current number of active WebSocket connections",
	})

	// ActiveRooms tracks the number of live rooms in the store.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "signaling",
		Subsystem: "room",
		Name:      "rooms_active",
		Help:      "Current number of active rooms",
	})

	// RoomPeers tracks the peer count per room.
	RoomPeers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "signaling",
		Subsystem: "room",
		Name:      "peers_count",
		Help:      "Number of peers in each room",
	}, []string{"room_id"})

	// Frames counts processed client frames by type and outcome.
	Frames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signaling",
		Subsystem: "websocket",
		Name:      "frames_total",
		Help:      "Total client frames processed",
	}, []string{"frame_type", "status"})

	// FrameProcessingDuration measures time spent handling a client frame.
	FrameProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "signaling",
		Subsystem: "websocket",
		Name:      "frame_processing_seconds",
		Help:      "Time spent processing client frames",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"frame_type"})

	// RateLimited counts frames and connections rejected by rate limiting.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signaling",
		Subsystem: "websocket",
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by rate limiting",
	}, []string{"scope"})

	// ReapedRooms counts rooms removed by the TTL reaper.
	ReapedRooms = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "signaling",
		Subsystem: "room",
		Name:      "reaped_total",
		Help:      "Total stale rooms removed by the TTL reaper",
	})
)

func IncConnection() {
	ActiveConnections.Inc()
}

func DecConnection() {
	ActiveConnections.Dec()
}
