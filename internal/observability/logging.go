package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger configures zerolog with service metadata, writing to stdout.
func NewLogger(service, level string, pretty bool) zerolog.Logger {
	return NewLoggerTo(os.Stdout, service, level, pretty)
}

// NewLoggerTo is NewLogger with an explicit sink. The CLI logs to stderr so
// results on stdout stay clean.
func NewLoggerTo(out io.Writer, service, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var writer zerolog.Logger
	if pretty {
		console := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
		writer = zerolog.New(console)
	} else {
		writer = zerolog.New(out)
	}

	return writer.Level(lvl).With().Timestamp().Str("service", service).Logger()
}

// HashField returns the loggable form of a SHA1 digest: only its range prefix.
func HashField(hash string) string {
	if len(hash) <= 5 {
		return hash
	}
	return hash[:5] + "…"
}
