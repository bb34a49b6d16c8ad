package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	APP    = "APP"
	CLIENT = "CLIENT"
	CONFIG = "CONFIG"
)

// Init configures the global zerolog logger. An empty level falls back to LOG_LEVEL,
// and pretty selects the human readable console writer over JSON lines.
func Init(level string, pretty bool) {
	InitWithWriter(os.Stderr, level, pretty)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, level string, pretty bool) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	zerolog.SetGlobalLevel(parseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child of the global logger tagged with namespace.
func Component(namespace string) zerolog.Logger {
	return log.With().Str("component", strings.ToLower(namespace)).Logger()
}

func Debug(namespace, format string, v ...interface{}) {
	l := Component(namespace)
	l.Debug().Msg(fmt.Sprintf(format, v...))
}

func Info(namespace, format string, v ...interface{}) {
	l := Component(namespace)
	l.Info().Msg(fmt.Sprintf(format, v...))
}

func Warn(namespace, format string, v ...interface{}) {
	l := Component(namespace)
	l.Warn().Msg(fmt.Sprintf(format, v...))
}

func Error(namespace, format string, v ...interface{}) {
	l := Component(namespace)
	l.Error().Msg(fmt.Sprintf(format, v...))
}
