package utils

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogHandlerType string

const (
	HandlerTypeText LogHandlerType = "text"
	HandlerTypeJSON LogHandlerType = "json"
)

type LogLevel string

const (
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

var (
	handlerTypeFlag = flag.String("log_handler_type", string(HandlerTypeJSON), "Log handler type: json/text")
	logLevelFlag    = flag.String("log_level", string(LogLevelInfo), "Log level: debug/info/warn/error")
)

// slogLevel maps the given `logLevel` to its slog counterpart; unknown levels fall back to info.
func slogLevel(logLevel LogLevel) slog.Level {
	switch logLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		RaiseInvariant("log", "unsupported_log_level", "Got an unsupported log level.",
			"logLevel", logLevel)
		return slog.LevelInfo
	}
}

// newLogHandler builds a handler of `handlerType` writing to `out`.
func newLogHandler(out io.Writer, handlerType LogHandlerType, logLevel LogLevel) slog.Handler {
	handlerOptions := slog.HandlerOptions{Level: slogLevel(logLevel)}
	switch handlerType {
	case HandlerTypeJSON:
		return slog.NewJSONHandler(out, &handlerOptions)
	case HandlerTypeText:
		return slog.NewTextHandler(out, &handlerOptions)
	default:
		RaiseInvariant("log", "unsupported_handler_type", "Got an unsupported handler type.",
			"handlerType", handlerType)
		return slog.NewJSONHandler(out, &handlerOptions)
	}
}

// InitLogging configures default logger of slog. Note that this method must be called after flag.Parse().
func InitLogging() {
	handlerType := LogHandlerType(strings.ToLower(*handlerTypeFlag))
	logLevel := LogLevel(strings.ToLower(*logLevelFlag))
	// `SetDefault` happens atomically and doesn't panic when called in multiple goroutines.
	slog.SetDefault(slog.New(newLogHandler(os.Stdout, handlerType, logLevel)))
	slog.Debug("Log handler configured successfully.", "type", handlerType, "logLevel", logLevel)
}
