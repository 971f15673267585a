package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/logger"
	"github.com/stemsi/intake-backend/internal/response"
)

// Pinger is implemented by backends with a remote connection to check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler reports liveness and readiness.
type SystemHandler struct {
	store      any
	configured func() bool
	startTime  time.Time
	log        zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. store is checked for
// readiness when it implements Pinger; configured reports whether delivery
// credentials are present.
func NewSystemHandler(store any, configured func() bool, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		store:      store,
		configured: configured,
		startTime:  time.Now(),
		log:        logger.Component(log, "system_handler"),
	}
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.Success(c, http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     formatDuration(time.Since(h.startTime)),
		"goroutines": runtime.NumGoroutine(),
		"heap_alloc": mem.HeapAlloc,
		"go_version": runtime.Version(),
	})
}

// Ready godoc
// GET /ready
// Fails while the token store is unreachable or delivery is unconfigured.
func (h *SystemHandler) Ready(c *gin.Context) {
	if p, ok := h.store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Token store not reachable")
			response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
			return
		}
	}
	if h.configured != nil && !h.configured() {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNotConfigured)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ready"})
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
