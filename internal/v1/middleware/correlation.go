// Package middleware contains Gin middleware for the application.
package middleware

import (
	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXCorrelationID is the header key for the correlation ID.
const HeaderXCorrelationID = "X-Correlation-ID"

// CorrelationID adds a correlation ID to the request context.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(HeaderXCorrelationID)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		// Echo it back so clients can report it.
		c.Header(HeaderXCorrelationID, correlationID)

		c.Set(string(logging.CorrelationIDKey), correlationID)

		c.Next()
	}
}
