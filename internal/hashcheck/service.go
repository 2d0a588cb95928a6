package hashcheck

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"pwned/internal/checker"
	"pwned/internal/digest"
	"pwned/internal/observability"
)

var ErrEmptyPassword = errors.New("password not provided")

// Counter reports breach occurrences for a digest.
type Counter interface {
	Count(ctx context.Context, hash string) (int, error)
}

// Service answers breach checks. It satisfies checker.Lookup so the web page
// can run the same flow in-process.
type Service struct {
	counter Counter
	logger  zerolog.Logger
}

func NewService(counter Counter, logger zerolog.Logger) *Service {
	return &Service{counter: counter, logger: logger}
}

// CheckHash looks up a digest. Only malformed input is returned as an error;
// an upstream failure is reported in the response's Error field.
func (s *Service) CheckHash(ctx context.Context, hash string) (checker.CheckResponse, error) {
	return s.check(ctx, "hash", hash)
}

// CheckPassword hashes password and looks it up.
func (s *Service) CheckPassword(ctx context.Context, password string) (checker.CheckResponse, error) {
	if password == "" {
		observability.ChecksTotal.WithLabelValues("password", "invalid").Inc()
		return checker.CheckResponse{}, ErrEmptyPassword
	}
	return s.check(ctx, "password", digest.SHA1Hex(password))
}

func (s *Service) check(ctx context.Context, endpoint, hash string) (checker.CheckResponse, error) {
	hash, err := digest.Normalize(hash)
	if err != nil {
		observability.ChecksTotal.WithLabelValues(endpoint, "invalid").Inc()
		return checker.CheckResponse{}, err
	}
	prefix, _ := digest.Split(hash)
	resp := checker.CheckResponse{Prefix: prefix}

	count, err := s.counter.Count(ctx, hash)
	if err != nil {
		s.logger.Warn().Err(err).Str("prefix", prefix).Msg("range lookup failed")
		observability.ChecksTotal.WithLabelValues(endpoint, "upstream_error").Inc()
		resp.Error = err.Error()
		return resp, nil
	}
	resp.Found = count > 0
	resp.Count = count
	outcome := "not_found"
	if resp.Found {
		outcome = "found"
	}
	observability.ChecksTotal.WithLabelValues(endpoint, outcome).Inc()
	return resp, nil
}
