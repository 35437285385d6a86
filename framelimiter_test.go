package winmux

import (
	"testing"
	"time"
)

func TestFrameLimiterCoalesces(t *testing.T) {
	f := NewFrameLimiter(100)
	now := time.Now()

	for i := 0; i < 10; i++ {
		f.ScheduleRedraw(1)
	}
	due := f.Due(now)
	if len(due) != 1 || due[0] != 1 {
		t.Fatalf("Due = %v, want [1]", due)
	}
	if len(f.Due(now)) != 0 {
		t.Error("drained request delivered twice")
	}
}

func TestFrameLimiterPacing(t *testing.T) {
	f := NewFrameLimiter(100) // 10ms interval
	start := time.Now()

	f.ScheduleRedraw(1)
	if got := f.Due(start); len(got) != 1 {
		t.Fatalf("first request not due immediately: %v", got)
	}

	// Re-scheduled inside the interval: not due yet.
	f.ScheduleRedraw(1)
	if got := f.Due(start.Add(5 * time.Millisecond)); len(got) != 0 {
		t.Errorf("request due mid-interval: %v", got)
	}
	if got := f.Due(start.Add(10 * time.Millisecond)); len(got) != 1 {
		t.Errorf("request not due after interval: %v", got)
	}
}

func TestFrameLimiterNextDeadline(t *testing.T) {
	f := NewFrameLimiter(100)
	start := time.Now()

	if _, ok := f.NextDeadline(start); ok {
		t.Error("deadline reported with nothing pending")
	}

	f.ScheduleRedraw(1)
	f.Due(start) // deliver, starting a fresh interval
	f.ScheduleRedraw(1)

	deadline, ok := f.NextDeadline(start)
	if !ok {
		t.Fatal("no deadline with a pending request")
	}
	if want := start.Add(f.Interval()); !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestFrameLimiterForget(t *testing.T) {
	f := NewFrameLimiter(100)
	f.ScheduleRedraw(1)
	f.Forget(1)
	if got := f.Due(time.Now().Add(time.Second)); len(got) != 0 {
		t.Errorf("forgotten window still due: %v", got)
	}
}

func TestFrameLimiterZeroFPSDefaults(t *testing.T) {
	f := NewFrameLimiter(0)
	if f.Interval() != time.Second/DefaultFPS {
		t.Errorf("interval = %v, want %v", f.Interval(), time.Second/DefaultFPS)
	}
}
