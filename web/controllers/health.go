package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func writeHealth(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sinta-Env", cfg.App.Env)
		writeHealth(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness: the session store must answer.
func HealthReady(cfg *config.Config, store pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sinta-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if store != nil {
			if err := store.Ping(ctx); err != nil {
				writeHealth(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"redis":  err.Error(),
				})
				return
			}
		}
		writeHealth(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
