package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// CheckHashPath is the lookup service endpoint for digests.
const CheckHashPath = "/api/check/hash"

const maxBodyBytes = 64 << 10

// HTTPLookup calls a breach lookup service over HTTP.
type HTTPLookup struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPLookup points at baseURL. A nil client means http.DefaultClient,
// so the transport decides timeouts.
func NewHTTPLookup(baseURL string, client *http.Client, logger zerolog.Logger) *HTTPLookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLookup{
		url:    strings.TrimRight(baseURL, "/") + CheckHashPath,
		client: client,
		logger: logger,
	}
}

// CheckHash makes exactly one POST with {"hash": hash}. A 2xx payload with an
// "error" field comes back as *ServiceError.
func (l *HTTPLookup) CheckHash(ctx context.Context, hash string) (CheckResponse, error) {
	buf, err := json.Marshal(CheckRequest{Hash: hash})
	if err != nil {
		return CheckResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(buf))
	if err != nil {
		return CheckResponse{}, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return CheckResponse{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return CheckResponse{}, &TransportError{Err: err}
		}
		l.logger.Debug().Int("status", resp.StatusCode).Msg("lookup service rejected request")
		// http.Error appends a newline; the message is rendered on one line.
		return CheckResponse{}, &HTTPError{Status: resp.StatusCode, Body: strings.TrimRight(string(body), "\r\n")}
	}

	var parsed CheckResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&parsed); err != nil {
		return CheckResponse{}, fmt.Errorf("decode lookup response: %w", err)
	}
	if parsed.Error != "" {
		return parsed, &ServiceError{Message: parsed.Error}
	}
	return parsed, nil
}
