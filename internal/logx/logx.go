package logx

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the process-wide logger. Safe to call more than once; only
// the first call takes effect.
func Init(level string) {
	once.Do(func() {
		var l slog.Level
		switch level {
		case "debug":
			l = slog.LevelDebug
		case "warn":
			l = slog.LevelWarn
		case "error":
			l = slog.LevelError
		default:
			l = slog.LevelInfo
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	})
}

// L returns the process logger, initializing it at info level if Init was
// never called.
func L() *slog.Logger {
	Init("info")
	return logger
}
