package linkframe

import (
	"testing"
	"time"
)

// fakeClock is a settable Clock for tests.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 { return c.now }

func TestSchedulerFiresInOrder(t *testing.T) {
	s := NewScheduler(0)
	var got []string
	s.At(30, func() { got = append(got, "c") })
	s.At(10, func() { got = append(got, "a") })
	s.At(10, func() { got = append(got, "b") })
	s.At(50, func() { got = append(got, "late") })

	s.Advance(30)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fired[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(0)
	fired := false
	tm := s.AfterFunc(100*time.Millisecond, func() { fired = true })
	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	s.Advance(1000)
	if fired {
		t.Error("stopped timer fired")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}

	var nilTimer *Timer
	if nilTimer.Stop() {
		t.Error("nil Stop should report false")
	}
}

func TestSchedulerStopAfterFire(t *testing.T) {
	s := NewScheduler(0)
	tm := s.At(5, func() {})
	s.Advance(5)
	if tm.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestSchedulerReentrant(t *testing.T) {
	s := NewScheduler(0)
	var got []int
	s.At(10, func() {
		got = append(got, 1)
		s.At(10, func() { got = append(got, 2) })
		s.At(99, func() { got = append(got, 3) })
	})
	s.Advance(20)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("fired %v, want [1 2]", got)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
}

func TestSchedulerTimeNeverRewinds(t *testing.T) {
	s := NewScheduler(100)
	s.Advance(50)
	if s.Now() != 100 {
		t.Errorf("Now = %d, want 100", s.Now())
	}
	fired := false
	s.AfterFunc(10*time.Millisecond, func() { fired = true })
	s.Advance(109)
	if fired {
		t.Error("fired before due")
	}
	s.Advance(110)
	if !fired {
		t.Error("did not fire when due")
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	c := SystemClock()
	a := c.Now()
	b := c.Now()
	if b < a {
		t.Errorf("clock went backwards: %d then %d", a, b)
	}
	if a <= 0 {
		t.Errorf("Now = %d, want epoch milliseconds", a)
	}
}
