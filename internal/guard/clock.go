// Package guard implements the session activity guard: a per-session state
// machine that logs an authenticated client out after a window of inactivity
// and keeps the server-side session honest with periodic liveness pings.
package guard

import "time"

// Clock abstracts wall-clock reads so tests can control time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Timer abstracts a single scheduled callback, mirroring time.Timer created
// via AfterFunc.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the timer was
	// still pending.
	Stop() bool

	// Reset reschedules the timer to fire after d. It reports whether the
	// timer was still pending.
	Reset(d time.Duration) bool
}

// TimerFactory creates timers. Production code uses the real time package;
// tests inject a fake so no wall-clock sleeps are needed.
type TimerFactory interface {
	// AfterFunc schedules fn to run after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// systemClock reads the real wall clock.
type systemClock struct{}

// Now returns the current time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// systemTimerFactory creates real time.Timer instances.
type systemTimerFactory struct{}

// AfterFunc schedules fn on a real timer.
func (systemTimerFactory) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemTimers returns a TimerFactory backed by time.AfterFunc.
func SystemTimers() TimerFactory {
	return systemTimerFactory{}
}
