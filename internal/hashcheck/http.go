package hashcheck

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pwned/internal/checker"
	"pwned/internal/digest"
)

const maxRequestBytes = 4 << 10

type hashReq struct {
	Hash string `json:"hash"`
}

type passwordReq struct {
	Password string `json:"password"`
}

// RegisterRoutes mounts the check endpoints (under /api).
func RegisterRoutes(r chi.Router, svc *Service, logger zerolog.Logger) {
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Post("/check/hash", func(w http.ResponseWriter, req *http.Request) {
		var body hashReq
		if err := decode(w, req, &body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		resp, err := svc.CheckHash(req.Context(), body.Hash)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeJSON(w, resp, http.StatusOK)
	})

	r.Post("/check/password", func(w http.ResponseWriter, req *http.Request) {
		var body passwordReq
		if err := decode(w, req, &body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		resp, err := svc.CheckPassword(req.Context(), body.Password)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeJSON(w, resp, http.StatusOK)
	})
}

func decode(w http.ResponseWriter, req *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBytes)).Decode(dst)
}

func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, digest.ErrInvalidHash):
		http.Error(w, "Invalid SHA1 hash", http.StatusBadRequest)
	case errors.Is(err, ErrEmptyPassword):
		http.Error(w, "Password not provided", http.StatusBadRequest)
	default:
		logger.Error().Err(err).Msg("check failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, payload checker.CheckResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
