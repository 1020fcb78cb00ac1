package veritumnode

import (
	"log/slog"
	"os"
	"strings"
)

// Logger builds a level-controlled *slog.Logger from cfg.LogLevel (matched
// case-insensitively, as ValidateConfig does), writing human-readable text
// to stderr. Components that are not handed a logger use slog.Default().
func Logger(cfg Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
