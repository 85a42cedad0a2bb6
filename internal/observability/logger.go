// Package observability provides the process-wide logger setup.
package observability

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger with console output and
// returns it tagged with the application name. The level can be overridden
// through ETHERIAL_LOG_LEVEL; unknown values keep the info default.
func InitLogger(app string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("ETHERIAL_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
