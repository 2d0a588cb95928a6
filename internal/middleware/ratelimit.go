package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const rateWindow = time.Minute

// RateLimiter limits requests per minute per IP+path using Redis INCR with TTL.
// A Redis outage lets traffic through.
func RateLimiter(rdb *redis.Client, requestsPerMinute int, logger zerolog.Logger) func(http.Handler) http.Handler {
	limit := int64(requestsPerMinute)
	if limit <= 0 {
		limit = 60
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil || ip == "" {
				ip = r.RemoteAddr
			}
			key := "pwned:rl:" + r.URL.Path + ":" + ip
			pipe := rdb.TxPipeline()
			incr := pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, rateWindow)
			if _, err := pipe.Exec(r.Context()); err != nil {
				logger.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			remaining := limit - incr.Val()
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if incr.Val() > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
