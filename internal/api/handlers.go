package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/probe"
	"github.com/wellsgz/vigil/internal/report"
	"github.com/wellsgz/vigil/internal/stats"
	"github.com/wellsgz/vigil/internal/storage"
)

// Handler holds dependencies for API handlers
type Handler struct {
	cfg       *config.Config
	store     storage.Store
	startTime time.Time
}

// NewHandler creates a new Handler with the given configuration
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// SetStore wires in the result store backing the read endpoints.
func (h *Handler) SetStore(s storage.Store) {
	h.store = s
}

// StatusResponse represents the response for the status endpoint
type StatusResponse struct {
	Status      string  `json:"status"`
	Uptime      string  `json:"uptime"`
	UptimeSecs  float64 `json:"uptime_secs"`
	TargetCount int     `json:"target_count"`
	Version     string  `json:"version"`
}

// GetStatus returns the current system status
func (h *Handler) GetStatus(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, StatusResponse{
		Status:      "ok",
		Uptime:      uptime.Round(time.Second).String(),
		UptimeSecs:  uptime.Seconds(),
		TargetCount: len(h.cfg.Targets),
		Version:     report.Version,
	})
}

// TargetResponse represents a monitored target in API responses
type TargetResponse struct {
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Description string          `json:"description,omitempty"`
	Lifetime    *stats.Snapshot `json:"lifetime,omitempty"`
	Recent      *stats.Snapshot `json:"recent,omitempty"`
}

// GetTargets returns the list of all monitored targets with lifetime stats.
func (h *Handler) GetTargets(c *gin.Context) {
	targets := make([]TargetResponse, 0, len(h.cfg.Targets))

	for _, t := range h.cfg.Targets {
		tr := TargetResponse{Name: t.Name, URL: t.URL, Description: t.Description}
		if snap, ok := h.snapshotFor(c, t.Name, 0); ok {
			tr.Lifetime = &snap
		} else {
			return
		}
		targets = append(targets, tr)
	}

	c.JSON(http.StatusOK, targets)
}

// GetTarget returns details and both stats windows for a specific target.
func (h *Handler) GetTarget(c *gin.Context) {
	t, ok := h.findTarget(c)
	if !ok {
		return
	}

	tr := TargetResponse{Name: t.Name, URL: t.URL, Description: t.Description}
	if snap, ok := h.snapshotFor(c, t.Name, 0); ok {
		tr.Lifetime = &snap
	} else {
		return
	}
	if snap, ok := h.snapshotFor(c, t.Name, h.cfg.Global.Window); ok {
		tr.Recent = &snap
	} else {
		return
	}

	c.JSON(http.StatusOK, tr)
}

// GetTargetStats returns one stats window for a target.
// ?window=lifetime (default) or ?window=recent.
func (h *Handler) GetTargetStats(c *gin.Context) {
	t, ok := h.findTarget(c)
	if !ok {
		return
	}

	n := 0
	switch window := c.DefaultQuery("window", "lifetime"); window {
	case "lifetime":
	case "recent":
		n = h.cfg.Global.Window
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "window must be 'lifetime' or 'recent'",
		})
		return
	}

	if snap, ok := h.snapshotFor(c, t.Name, n); ok {
		c.JSON(http.StatusOK, snap)
	}
}

// GetTargetHistory returns the most recent measurements for a target.
// ?limit=N caps the result; 0 or absent returns the full history.
func (h *Handler) GetTargetHistory(c *gin.Context) {
	t, ok := h.findTarget(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	var (
		history any
		err     error
	)
	if limit > 0 {
		history, err = h.store.ReadTail(t.Name, limit)
	} else {
		history, err = h.store.ReadAll(t.Name)
	}
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// findTarget resolves the :name parameter, writing a 404 when unknown.
func (h *Handler) findTarget(c *gin.Context) (config.Target, bool) {
	name := c.Param("name")
	for _, t := range h.cfg.Targets {
		if t.Name == name {
			return t, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": "Target not found: " + name,
	})
	return config.Target{}, false
}

// snapshotFor computes a stats snapshot over the full log (n == 0) or the
// trailing n measurements. On store failure it writes the error response and
// returns ok == false.
func (h *Handler) snapshotFor(c *gin.Context, name string, n int) (stats.Snapshot, bool) {
	if h.store == nil {
		return stats.Snapshot{}, true
	}

	var (
		ms  []probe.Measurement
		err error
	)
	if n > 0 {
		ms, err = h.store.ReadTail(name, n)
	} else {
		ms, err = h.store.ReadAll(name)
	}
	if err != nil {
		h.storeError(c, err)
		return stats.Snapshot{}, false
	}

	return stats.Compute(ms), true
}

// storeError maps store failures to HTTP responses; corruption is surfaced
// explicitly, never masked as an empty history.
func (h *Handler) storeError(c *gin.Context, err error) {
	var corrupt *storage.CorruptError
	if errors.As(err, &corrupt) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Corrupt Result Log",
			"message": corrupt.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"message": err.Error(),
	})
}
