// slog.go configures the process-wide structured logger. Handlers, jobs, and
// middleware all log through slog.Default, so this is called once at startup
// and again whenever the config watcher reloads the logging section.
package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// serviceAttr is stamped on every record so aggregated logs from several
// deployments can be filtered to this service.
const serviceAttr = "roomreserve"

// SetupLogger installs the configured logger as the slog default.
//
// format "json" selects the JSON handler, anything else the text handler.
// level is one of "debug", "info", "warn", "error" (case-insensitive);
// unknown values fall back to "info". Debug level also records source
// positions, which is too expensive to leave on in production.
func SetupLogger(format, level string) {
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, format, level)))
	slog.Info("logger initialised", "format", format, "level", level)
}

// NewLogHandler builds the handler SetupLogger installs. Split out so tests
// can capture output without redirecting os.Stdout.
func NewLogHandler(w io.Writer, format, level string) slog.Handler {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return handler.WithAttrs([]slog.Attr{slog.String("service", serviceAttr)})
}
