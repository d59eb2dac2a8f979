// Package ratelimit implements rate limiting backed by an in-process store.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/metrics"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// Limiter holds the rate limiter instances. Three scopes:
//   - api: HTTP API requests per client IP
//   - wsConnect: WebSocket upgrades per client IP
//   - requests: room-mutating frames per connection
type Limiter struct {
	api       *limiter.Limiter
	wsConnect *limiter.Limiter
	requests  *limiter.Limiter
}

// NewLimiter builds the limiters from configuration, all sharing one
// in-memory store.
func NewLimiter(cfg *config.Config) (*Limiter, error) {
	apiRate, err := limiter.NewRateFromFormatted(cfg.RateLimitAPI)
	if err != nil {
		return nil, fmt.Errorf("invalid API rate: %w", err)
	}

	requestRate := limiter.Rate{
		Period: time.Minute,
		Limit:  int64(cfg.RateLimitRPM),
	}

	store := memory.NewStore()

	return &Limiter{
		api:       limiter.New(store, apiRate),
		wsConnect: limiter.New(store, apiRate),
		requests:  limiter.New(store, requestRate),
	}, nil
}

// APIMiddleware returns the stock gin middleware enforcing the API rate per
// client IP.
func (l *Limiter) APIMiddleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.api)
}

// CheckWebSocket reports whether a WebSocket upgrade from this client IP is
// allowed. On breach it writes the 429 response itself.
func (l *Limiter) CheckWebSocket(c *gin.Context) bool {
	ctx := c.Request.Context()

	ipContext, err := l.wsConnect.Get(ctx, c.ClientIP())
	if err != nil {
		// Fail open: availability over strictness.
		logging.Error(ctx, "rate limiter store failed", zap.Error(err))
		return true
	}

	if ipContext.Reached {
		metrics.RateLimited.WithLabelValues("ws_connect").Inc()
		c.Header("X-RateLimit-Retry-After", strconv.FormatInt(ipContext.Reset, 10))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connections from this IP"})
		return false
	}

	return true
}

// AllowRequest reports whether a room-mutating frame from the given
// connection is within the per-connection request budget.
func (l *Limiter) AllowRequest(ctx context.Context, connID string) bool {
	reqContext, err := l.requests.Get(ctx, connID)
	if err != nil {
		logging.Error(ctx, "rate limiter store failed", zap.Error(err))
		return true
	}

	if reqContext.Reached {
		metrics.RateLimited.WithLabelValues("request").Inc()
		return false
	}

	return true
}
