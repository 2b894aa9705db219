// Package zlog provides zerolog-backed logging for retry runs:
// constructors for the loggers the examples use and ready-made
// callbacks that plug straight into a Retrier.
package zlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/utkarsh5026/retryme/retry"
)

// New returns a JSON logger writing to w with timestamps. A nil w
// defaults to stdout.
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewConsole returns a colored, human-readable logger for CLI use.
func NewConsole() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}).With().
		Timestamp().
		Logger()
}

// WithLevel returns log restricted to the named level: "trace", "debug",
// "info", "warn", "error", "fatal" or "panic".
func WithLevel(log zerolog.Logger, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return log, err
	}
	return log.Level(lvl), nil
}

// Success returns an OnSuccess callback logging the accepted attempt.
func Success(log zerolog.Logger) func(*retry.Attempt) {
	return func(a *retry.Attempt) {
		log.Info().
			Int("attempt", a.Number).
			Dur("delay", a.Delay).
			Dur("took", a.Duration()).
			Interface("value", a.Value).
			Msg("retry succeeded")
	}
}

// Failure returns an OnFailure callback logging the run's last error and
// how many attempts were spent.
func Failure(log zerolog.Logger) func(error, []*retry.Attempt) {
	return func(err error, logs []*retry.Attempt) {
		log.Error().
			Err(err).
			Int("attempts", len(logs)).
			Msg("retry exhausted")
	}
}

// InvalidResult returns an OnInvalidResult callback logging each
// rejected value and whether another attempt follows.
func InvalidResult(log zerolog.Logger) func(*retry.Attempt, bool) {
	return func(a *retry.Attempt, willRetry bool) {
		log.Warn().
			Int("attempt", a.Number).
			Interface("value", a.Value).
			Bool("will_retry", willRetry).
			Msg("result rejected")
	}
}

// Finally returns an OnFinally callback summarizing the run.
func Finally(log zerolog.Logger) func([]*retry.Attempt) {
	return func(logs []*retry.Attempt) {
		ev := log.Info().Int("attempts", len(logs))
		if n := len(logs); n > 0 {
			last := logs[n-1]
			ev = ev.Bool("succeeded", last.Success()).
				Dur("last_delay", last.Delay)
		}
		ev.Msg("retry run finished")
	}
}

// Attach registers the full callback set on r and returns r.
func Attach[T any](r *retry.Retrier[T], log zerolog.Logger) *retry.Retrier[T] {
	return r.
		OnSuccess(Success(log)).
		OnFailure(Failure(log)).
		OnInvalidResult(InvalidResult(log)).
		OnFinally(Finally(log))
}
