package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler("pwned")(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != "ok" || resp.Service != "pwned" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestReadyHandlerFailingCheck(t *testing.T) {
	failing := func(ctx context.Context) error { return errors.New("redis down") }
	rec := httptest.NewRecorder()
	ReadyHandler("pwned", failing)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable || resp.Error != "redis down" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}
