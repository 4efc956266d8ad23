package delivery

import "time"

// Clock abstracts time for the scheduler and processors so the due
// computations are testable at fixed instants.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewClock returns the wall clock.
func NewClock() Clock { return realClock{} }
