// Package handler provides HTTP handlers for the WanderPlan API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/provider/resilience"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
	providers *resilience.Registry
	flags     *featureflags.Service
}

// NewOpsHandler creates a new OpsHandler. db and providers may be nil when
// the corresponding subsystem is not wired (in-memory mode, tests).
func NewOpsHandler(version, buildTime string, db Pinger, providers *resilience.Registry, flags *featureflags.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		db:        db,
		providers: providers,
		flags:     flags,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Fails when
// the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
// A provider with an open circuit degrades the overall status, it does not
// fail it.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.db != nil {
		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := h.db.Ping(ctx); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			status.Status = models.HealthStatusFail
		}
		cancel()
		status.Subsystems = append(status.Subsystems, dbStatus)
	}

	if h.providers != nil {
		for _, p := range h.providers.Health() {
			providerStatus := models.ProviderStatus{
				Provider: p.Name,
				Status:   models.HealthStatusOK,
			}
			if !p.Healthy() {
				msg := "circuit " + p.CircuitState.String()
				providerStatus.Status = models.HealthStatusDegraded
				providerStatus.Message = &msg
				if status.Status == models.HealthStatusOK {
					status.Status = models.HealthStatusDegraded
				}
			}
			status.Providers = append(status.Providers, providerStatus)
		}
	}

	if h.flags != nil {
		if h.flags.IsAssistantDisabled(r.Context()) {
			status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, featureflags.FlagDisableAssistant)
		}
		if h.flags.IsCachedOnlyWeather(r.Context()) {
			status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, featureflags.FlagCachedOnlyWeather)
		}
		if h.flags.IsTripSharingDisabled(r.Context()) {
			status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, featureflags.FlagDisableTripSharing)
		}
		if len(status.ActiveDegradationFlags) > 0 && status.Status == models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
		}
	}

	code := http.StatusOK
	if status.Status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, status)
}
