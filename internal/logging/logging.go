// Package logging sets up the structured log written by every command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a slog.Logger writing to a rotated file.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time

	w io.Closer
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
}

// DefaultDir is the log directory used when none is configured.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v\n", err)
		dir = "."
	}
	return filepath.Join(dir, "countdown")
}

// New opens countdown.slog under dir, rotating at 16 MB and keeping two old
// files. An invalid level is reported on stderr and treated as info.
func New(level, dir string) *Logger {
	if dir == "" {
		dir = DefaultDir()
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "countdown.slog"),
		MaxSize:    16, // MB
		MaxBackups: 2,
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		LogFile: w.Filename,
		Start:   time.Now(),
		w:       w,
	}

	attrs := []any{
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		attrs = append(attrs, slog.String("go", bi.GoVersion), slog.String("path", bi.Path))
	}
	l.Info("starting", attrs...)

	return l
}

// Close flushes and closes the log file. It is safe on a nil Logger.
func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// Slog returns the underlying logger, or a discarding one for a nil Logger.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l.Logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
