package autosave

import "time"

// Timer is a cancellable deferred task.
type Timer interface {
	// Stop cancels the timer. Reports whether the timer was stopped
	// before firing, matching time.Timer semantics.
	Stop() bool
}

// Clock schedules deferred work and reads the current time. Production
// code uses the wall clock; tests inject a virtual clock so debounce
// behavior is checked without real waits.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// NewClock returns a Clock backed by the runtime timers.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
