// Package health reports whether the service has data and how fresh it is.
package health

import (
	"time"

	"token-aggregator/core/aggregator"

	"github.com/gofiber/fiber/v2"
)

// StatusProvider exposes the aggregation status.
type StatusProvider interface {
	Status() aggregator.Status
}

// ClientCounter exposes the number of push subscribers.
type ClientCounter interface {
	ClientCount() int
}

// CacheProbe exposes distributed cache reachability.
type CacheProbe interface {
	Available() bool
}

// Report is the body of the health endpoints.
type Report struct {
	Success     bool              `json:"success"`
	Status      string            `json:"status"`
	Aggregation aggregator.Status `json:"aggregation"`
	Clients     int               `json:"clients"`
	Cache       CacheReport       `json:"cache"`
	Timestamp   string            `json:"timestamp"`
}

// CacheReport describes the cache tiers.
type CacheReport struct {
	Distributed bool `json:"distributed"`
}

// Handler serves health reports.
type Handler struct {
	status  StatusProvider
	clients ClientCounter
	cache   CacheProbe
	now     func() time.Time
}

// NewHandler creates a health handler. clients and cache may be nil.
func NewHandler(status StatusProvider, clients ClientCounter, cache CacheProbe) *Handler {
	return &Handler{status: status, clients: clients, cache: cache, now: time.Now}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/api/health", h.HandleHealth)
}

// HandleHealth returns the aggregation status.
// @Summary Health
// @Description Reports whether data is available (no_data), current (fresh) or served after a failed refresh (stale).
// @Tags health
// @Produce json
// @Success 200 {object} Report "Healthy or degraded"
// @Failure 503 {object} Report "No data after at least one attempt"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.Build()
	if !report.Success {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// Build assembles the current report.
func (h *Handler) Build() Report {
	st := h.status.Status()

	r := Report{
		Success:     true,
		Status:      "ok",
		Aggregation: st,
		Timestamp:   h.now().UTC().Format(time.RFC3339),
	}
	if h.clients != nil {
		r.Clients = h.clients.ClientCount()
	}
	if h.cache != nil {
		r.Cache.Distributed = h.cache.Available()
	}

	switch {
	case st.State == aggregator.StateNoData && st.Attempted():
		r.Success = false
		r.Status = "unavailable"
	case st.State == aggregator.StateNoData:
		r.Status = "starting"
	case st.State == aggregator.StateStale || !r.Cache.Distributed:
		r.Status = "degraded"
	}
	return r
}

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates a new health feature.
func NewFeature(status StatusProvider, clients ClientCounter, cache CacheProbe) *Feature {
	return &Feature{handler: NewHandler(status, clients, cache)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "health"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
