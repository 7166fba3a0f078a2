package vecclust

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with vecclust-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// defaultLogger forwards to the process-wide slog default.
func defaultLogger() *Logger {
	return &Logger{
		Logger: slog.Default(),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogValidation logs a rejected call. check names the failed precondition.
func (l *Logger) LogValidation(check string, err error) {
	l.Warn("validation failed",
		"check", check,
		"error", err,
	)
}

// LogRun logs the outcome of a clustering run.
func (l *Logger) LogRun(report Report, duration time.Duration, err error) {
	if err != nil {
		l.Error("clustering failed",
			"duration", duration,
			"error", err,
		)
		return
	}

	switch report.Stop {
	case StopIterationCap:
		l.Info("iteration limit reached",
			"iterations", report.Iterations,
			"max_movement", report.MaxMovement,
			"duration", duration,
		)
	default:
		l.Info("centers moved less than epsilon",
			"iterations", report.Iterations,
			"max_movement", report.MaxMovement,
			"duration", duration,
		)
	}
}

// iterationLogger returns a per-run callback that logs iteration progress at
// debug level. The first three iterations are always logged, later ones at
// most once per second.
func (l *Logger) iterationLogger() func(iteration int, movement float32, elapsed time.Duration) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return nil
	}

	every := &rate.Sometimes{First: 3, Interval: time.Second}
	return func(iteration int, movement float32, elapsed time.Duration) {
		every.Do(func() {
			l.LogIteration(iteration, movement, elapsed)
		})
	}
}

// LogIteration logs the progress of a single refinement iteration.
func (l *Logger) LogIteration(iteration int, movement float32, elapsed time.Duration) {
	l.Debug("iteration completed",
		"iteration", iteration,
		"max_movement", movement,
		"elapsed", elapsed,
	)
}
