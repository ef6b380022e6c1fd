package timer

import (
	"time"

	"go.uber.org/zap"
)

// Track returns a function that, when executed, logs the duration at debug
// level. Usage: defer timer.Track(log, "OrgService.Create")()
func Track(log *zap.Logger, name string) func() {
	start := time.Now()
	return func() {
		log.Debug("timing", zap.String("op", name), zap.Duration("took", time.Since(start)))
	}
}

// Stopwatch measures several steps within one function.
type Stopwatch struct {
	log   *zap.Logger
	start time.Time
	last  time.Time
}

// NewStopwatch starts the clock.
func NewStopwatch(log *zap.Logger) *Stopwatch {
	now := time.Now()
	return &Stopwatch{log: log, start: now, last: now}
}

// Lap logs the time taken since the last Lap call and returns it.
func (s *Stopwatch) Lap(step string) time.Duration {
	now := time.Now()
	elapsed := now.Sub(s.last)
	s.last = now
	s.log.Debug("timing step",
		zap.String("step", step),
		zap.Duration("took", elapsed),
		zap.Duration("total", now.Sub(s.start)))
	return elapsed
}

// Total returns the time since the stopwatch started.
func (s *Stopwatch) Total() time.Duration {
	return time.Since(s.start)
}
