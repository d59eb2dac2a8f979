// Package api exposes the read-only HTTP endpoints: room existence, ICE
// server configuration, and the health check.
package api

import (
	"net/http"

	"github.com/filecoffee/signaling/internal/v1/ice"
	"github.com/filecoffee/signaling/internal/v1/service"
	"github.com/filecoffee/signaling/internal/v1/types"
	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API.
type Handler struct {
	rooms *service.RoomService
	ice   *ice.Provider
}

// NewHandler creates the API handler.
func NewHandler(rooms *service.RoomService, iceProvider *ice.Provider) *Handler {
	return &Handler{rooms: rooms, ice: iceProvider}
}

// GetRoom handles GET /api/rooms/:id. Existence checks are read-only and do
// not count as room activity.
func (h *Handler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")

	exists, hasPassword := h.rooms.GetRoomInfo(roomID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, types.NewRoomExists(true, hasPassword))
}

// GetIceServers handles GET /api/ice-servers.
func (h *Handler) GetIceServers(c *gin.Context) {
	c.JSON(http.StatusOK, h.ice.Servers())
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
