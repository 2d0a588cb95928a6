package pwned

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"pwned/internal/config"
	"pwned/internal/digest"
	"pwned/internal/observability"
)

const maxRangeBytes = 4 << 20

// RangeCache stores raw range bodies by prefix.
type RangeCache interface {
	Get(ctx context.Context, prefix string) (string, bool, error)
	Set(ctx context.Context, prefix, body string) error
}

// StatusError is a non-200 answer from the range API.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client queries the Pwned Passwords k-anonymity range API.
type Client struct {
	baseURL    string
	userAgent  string
	padding    bool
	maxRetries uint64
	retryBase  time.Duration
	client     *http.Client
	cache      RangeCache
	group      singleflight.Group
	logger     zerolog.Logger
}

// NewClient builds a range client. cache may be nil.
func NewClient(cfg config.PwnedConfig, cache RangeCache, logger zerolog.Logger) (*Client, error) {
	transport, err := newTransport(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		userAgent:  cfg.UserAgent,
		padding:    cfg.Padding,
		maxRetries: cfg.MaxRetries,
		retryBase:  200 * time.Millisecond,
		client:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		cache:      cache,
		logger:     logger,
	}, nil
}

// Count returns how many times hash appears in the breach corpus. Only the
// first five hex chars leave the process.
func (c *Client) Count(ctx context.Context, hash string) (int, error) {
	hash, err := digest.Normalize(hash)
	if err != nil {
		return 0, err
	}
	prefix, suffix := digest.Split(hash)
	body, err := c.rangeBody(ctx, prefix)
	if err != nil {
		return 0, err
	}
	return parseRange(body, suffix)
}

func (c *Client) rangeBody(ctx context.Context, prefix string) (string, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, prefix)
		switch {
		case err != nil:
			observability.RangeCacheTotal.WithLabelValues("error").Inc()
			c.logger.Warn().Err(err).Str("prefix", prefix).Msg("range cache read failed")
		case ok:
			observability.RangeCacheTotal.WithLabelValues("hit").Inc()
			return body, nil
		default:
			observability.RangeCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	// One upstream fetch per prefix; it outlives a caller that gives up.
	ch := c.group.DoChan(prefix, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		body, err := c.fetch(fetchCtx, prefix)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			if err := c.cache.Set(fetchCtx, prefix, body); err != nil {
				c.logger.Warn().Err(err).Str("prefix", prefix).Msg("range cache write failed")
			}
		}
		return body, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) fetch(ctx context.Context, prefix string) (string, error) {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.WithCappedDuration(2*time.Second, retry.NewFibonacci(c.retryBase)))
	var body string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx, prefix)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		c.logger.Debug().Err(err).Str("prefix", prefix).Msg("range request failed, retrying")
		return retry.RetryableError(err)
	})
	return body, err
}

func (c *Client) get(ctx context.Context, prefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observability.UpstreamDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	observability.UpstreamDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRangeBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// parseRange finds suffix in SUFFIX:COUNT lines. Padding rows carry a zero count.
func parseRange(body, suffix string) (int, error) {
	for _, line := range strings.Split(body, "\n") {
		candidate, count, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok || !strings.EqualFold(candidate, suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return 0, fmt.Errorf("parse count %q: %w", count, err)
		}
		return n, nil
	}
	return 0, nil
}
