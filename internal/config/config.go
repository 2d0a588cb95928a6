package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// HTTPConfig describes HTTP server settings.
type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// PwnedConfig configures the upstream Pwned Passwords range API.
type PwnedConfig struct {
	URL        string        `env:"PWNED_URL" envDefault:"https://api.pwnedpasswords.com"`
	Timeout    time.Duration `env:"PWNED_TIMEOUT" envDefault:"10s"`
	MaxRetries uint64        `env:"PWNED_MAX_RETRIES" envDefault:"2"`
	CacheTTL   time.Duration `env:"PWNED_CACHE_TTL" envDefault:"6h"`
	ProxyURL   string        `env:"PWNED_PROXY_URL" envDefault:""` // http|https|socks5
	UserAgent  string        `env:"PWNED_USER_AGENT" envDefault:"selfhosted-pwned"`
	Padding    bool          `env:"PWNED_ADD_PADDING" envDefault:"true"`
}

// CheckerConfig points the CLI at a breach lookup service.
type CheckerConfig struct {
	APIURL  string        `env:"CHECKER_API_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"CHECKER_TIMEOUT" envDefault:"0s"`
}

// SecurityConfig sets security-related toggles.
type SecurityConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	EnableHSTS     bool   `env:"ENABLE_HSTS" envDefault:"false"`
}

// MetricsConfig controls the metrics listener.
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// RateLimitConfig controls request limits per minute.
type RateLimitConfig struct {
	RequestsPerMinute int `env:"RATE_LIMIT_RPM" envDefault:"60"`
}

// ServiceConfig is the shared config across binaries.
type ServiceConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"pwned"`
	Environment string `env:"ENV" envDefault:"dev"`
	HTTP        HTTPConfig
	Redis       RedisConfig
	Pwned       PwnedConfig
	Checker     CheckerConfig
	Security    SecurityConfig
	Metrics     MetricsConfig
	RateLimit   RateLimitConfig
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadService parses environment variables, letting prefixed keys (e.g. SERVER_HTTP_ADDR)
// override the shared ones (HTTP_ADDR).
func LoadService(prefix string) (ServiceConfig, error) {
	return loadFrom(os.Environ(), prefix)
}

func loadFrom(environ []string, prefix string) (ServiceConfig, error) {
	vars := env.ToMap(environ)
	if prefix != "" {
		overrides := make(map[string]string)
		for key, value := range vars {
			if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
				overrides[name] = value
			}
		}
		for name, value := range overrides {
			vars[name] = value
		}
	}
	var cfg ServiceConfig
	err := env.ParseWithOptions(&cfg, env.Options{Environment: vars})
	return cfg, err
}
