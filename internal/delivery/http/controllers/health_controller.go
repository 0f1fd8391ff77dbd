package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"passin/internal/delivery/http/helpers"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthStatus is the data payload for the health endpoints.
type HealthStatus struct {
	Status string `json:"status"`
}

type HealthController struct {
	Logger *slog.Logger
	DB     Pinger
}

func NewHealthController(logger *slog.Logger, db Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// Liveness godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Router /healthz [get]
func (c *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthStatus{Status: "ok"})
}

// Readiness godoc
// @Summary Readiness check
// @Description Reports ready once the event store answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ready"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /readyz [get]
func (c *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	if c.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := c.DB.PingContext(ctx); err != nil {
			c.Logger.WarnContext(r.Context(), "readiness check failed", "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unavailable")
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthStatus{Status: "ready"})
}
