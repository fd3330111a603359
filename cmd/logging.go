package cmd

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	configadapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/config"
)

// appLogger couples the slog logger with its rotating file sink so serve
// can close the sink on shutdown.
type appLogger struct {
	*slog.Logger
	sink *lumberjack.Logger
}

func newAppLogger(cfg configadapter.Log) *appLogger {
	sink := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &appLogger{Logger: slog.New(handler), sink: sink}
}

func (l *appLogger) Close() error {
	return l.sink.Close()
}
