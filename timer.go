package linkframe

import "time"

// Clock returns monotonic wall time in milliseconds.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() int64

// Now calls f.
func (f ClockFunc) Now() int64 { return f() }

type systemClock struct {
	base       time.Time
	baseMillis int64
}

// SystemClock returns a Clock anchored at the Unix epoch that advances with
// the monotonic clock, so wall-clock adjustments never move it backwards.
func SystemClock() Clock {
	now := time.Now()
	return &systemClock{base: now, baseMillis: now.UnixMilli()}
}

func (c *systemClock) Now() int64 {
	return c.baseMillis + time.Since(c.base).Milliseconds()
}

// Timer is a callback scheduled on a Scheduler.
type Timer struct {
	at      int64
	seq     uint64
	fn      func()
	s       *Scheduler
	stopped bool
	fired   bool
}

// Stop cancels the timer. It reports whether the call prevented the callback
// from running. Stopping a nil, fired, or stopped timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.s.remove(t)
	return true
}

// Scheduler runs timer callbacks from Advance, on the goroutine that drives
// the frame loop. Nothing fires between calls to Advance.
type Scheduler struct {
	now    int64
	seq    uint64
	timers []*Timer
}

// NewScheduler returns a scheduler whose current time is now.
func NewScheduler(now int64) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the time passed to the latest Advance.
func (s *Scheduler) Now() int64 {
	return s.now
}

// At schedules fn to run on the first Advance at or after when.
func (s *Scheduler) At(when int64, fn func()) *Timer {
	s.seq++
	t := &Timer{at: when, seq: s.seq, fn: fn, s: s}
	s.timers = append(s.timers, t)
	return t
}

// AfterFunc schedules fn to run d after the scheduler's current time.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	return s.At(s.now+d.Milliseconds(), fn)
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock to now and fires every due timer in deadline
// order. Callbacks may schedule or stop other timers; a timer scheduled at or
// before now by a callback fires in the same call.
func (s *Scheduler) Advance(now int64) {
	if now > s.now {
		s.now = now
	}
	for {
		next := s.nextDue()
		if next == nil {
			return
		}
		s.remove(next)
		next.fired = true
		next.fn()
	}
}

func (s *Scheduler) nextDue() *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.at > s.now {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) remove(t *Timer) {
	for i, cur := range s.timers {
		if cur == t {
			copy(s.timers[i:], s.timers[i+1:])
			s.timers[len(s.timers)-1] = nil
			s.timers = s.timers[:len(s.timers)-1]
			return
		}
	}
}
