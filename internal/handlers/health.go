package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse describes health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Check is a dependency probe used by the readiness endpoint.
type Check func(ctx context.Context) error

// HealthHandler returns OK response with metadata.
func HealthHandler(service string) http.HandlerFunc {
	return ReadyHandler(service)
}

// ReadyHandler runs every check and answers 503 on the first failure.
func ReadyHandler(service string, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Service:   service,
			Timestamp: time.Now().UTC(),
		}
		status := http.StatusOK
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				resp.Status = "unavailable"
				resp.Error = err.Error()
				status = http.StatusServiceUnavailable
				break
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
