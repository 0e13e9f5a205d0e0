// Package clock provides an injectable time source.
// The session idle watchdog is driven by a Clock rather than time.Now so
// timeout behavior is testable at exact boundaries
package clock

import (
	"sync"
	"time"
)

// Clock is the minimal time surface the engine needs
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now() }

// Fake is a manually advanced clock for tests
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

// NewFake returns a Fake pinned to t
func NewFake(t time.Time) *Fake { return &Fake{t: t} }

// Now implements Clock
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance moves the fake clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Set pins the fake clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}
