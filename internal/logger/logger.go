package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is usable before Init; Init only swaps in the configured handler.
var Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func Init(debug bool) {
	InitWriter(os.Stdout, debug)
}

// InitWriter points the process logger at w. Tests use it to capture output.
func InitWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// With returns a child logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
