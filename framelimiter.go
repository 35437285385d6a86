package winmux

import "time"

// DefaultFPS is the frame limiter's default redraw rate.
const DefaultFPS = 144

// FrameLimiter coalesces redraw requests down to a fixed target rate.
// Any number of ScheduleRedraw calls between two frames results in at
// most one redraw per window per interval; requests are coalesced, not
// queued.
//
// The limiter is driven by the multiplexer: Due drains the requests
// whose interval has elapsed, NextDeadline bounds how long the platform
// wait may sleep.
type FrameLimiter struct {
	interval time.Duration
	pending  map[WindowID]struct{}
	last     map[WindowID]time.Time
}

// NewFrameLimiter creates a limiter targeting fps redraws per second
// per window. Zero selects DefaultFPS.
func NewFrameLimiter(fps uint) *FrameLimiter {
	if fps == 0 {
		fps = DefaultFPS
	}
	return &FrameLimiter{
		interval: time.Second / time.Duration(fps),
		pending:  make(map[WindowID]struct{}),
		last:     make(map[WindowID]time.Time),
	}
}

// Interval returns the pacing interval between redraws of one window.
func (f *FrameLimiter) Interval() time.Duration {
	return f.interval
}

// ScheduleRedraw requests a redraw for id. Idempotent within a frame.
func (f *FrameLimiter) ScheduleRedraw(id WindowID) {
	f.pending[id] = struct{}{}
}

// Due drains and returns the windows whose redraw interval has elapsed
// as of now. Windows scheduled again after this call start a new
// interval from now.
func (f *FrameLimiter) Due(now time.Time) []WindowID {
	var due []WindowID
	for id := range f.pending {
		if now.Sub(f.last[id]) >= f.interval {
			due = append(due, id)
			f.last[id] = now
			delete(f.pending, id)
		}
	}
	return due
}

// NextDeadline returns the earliest instant a pending redraw becomes
// due, and false when nothing is pending.
func (f *FrameLimiter) NextDeadline(now time.Time) (time.Time, bool) {
	var deadline time.Time
	found := false
	for id := range f.pending {
		d := f.last[id].Add(f.interval)
		if d.Before(now) {
			d = now
		}
		if !found || d.Before(deadline) {
			deadline = d
			found = true
		}
	}
	return deadline, found
}

// Forget drops pacing state for a retired window.
func (f *FrameLimiter) Forget(id WindowID) {
	delete(f.pending, id)
	delete(f.last, id)
}
