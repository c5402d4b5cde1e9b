package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/models/entities"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(checks map[string]HealthCheck, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus, len(checks))
		overallStatus := "ok"
		for name, check := range checks {
			status := entities.ServiceStatus{Status: "ok", Details: "connected"}
			if err := check(ctx); err != nil {
				status = entities.ServiceStatus{Status: "down", Details: err.Error()}
				overallStatus = "down"
			}
			services[name] = status
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, resp)
	}
}
