package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/smithy-go/logging"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps a --log-level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", level)
	}
}

// NewHandler returns a tint handler writing to w. Color is dropped when w is
// not a terminal or noColor is set.
func NewHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

// ConsoleLogger installs and returns the stderr logger.
func ConsoleLogger(level slog.Level, noColor bool) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, level, noColor))
	slog.SetDefault(logger)
	return logger
}

// AwsLogger forwards AWS SDK client logging into the default slog logger.
// Warnings stay warnings; everything else is debug.
func AwsLogger() logging.Logger {
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		switch classification {
		case logging.Warn:
			slog.Warn(msg, "source", "aws-sdk")
		default:
			slog.Debug(msg, "source", "aws-sdk")
		}
	})
}
