package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer and debug level.
func NewLogger(env string) zerolog.Logger {
	return NewLoggerTo(env, os.Stdout)
}

func NewLoggerTo(env string, w io.Writer) zerolog.Logger {
	if isDev(env) {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

func isDev(env string) bool { return env == "dev" || env == "development" }
