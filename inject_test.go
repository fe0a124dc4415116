package linkframe

import "testing"

func TestInjectTap(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	var kinds []PointerKind
	s.adapter.OnEvent(func(ev PointerEvent) { kinds = append(kinds, ev.Kind) })

	s.InjectTap(50, 50)
	if s.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.PendingInjections())
	}

	// Frame 1: press
	s.Update(100)
	if s.PendingInjections() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.PendingInjections())
	}
	if len(kinds) != 1 || kinds[0] != PointerStart {
		t.Errorf("frame 1 kinds = %v, want [start]", kinds)
	}

	// Frame 2: release
	s.Update(116)
	if s.PendingInjections() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", s.PendingInjections())
	}
	if len(kinds) != 2 || kinds[1] != PointerEnd {
		t.Errorf("frame 2 kinds = %v, want [start end]", kinds)
	}
}

func TestInjectSwipeInterpolates(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	var xs []float64
	s.adapter.OnEvent(func(ev PointerEvent) { xs = append(xs, ev.X) })

	// frame 0: press at 400
	// frames 1-3: moves at 300, 200, 100
	// frame 4: release at 0
	s.InjectSwipe(400, 10, 0, 10, 5)
	if s.PendingInjections() != 5 {
		t.Fatalf("expected 5 queued events, got %d", s.PendingInjections())
	}
	runFrames(s, 100, 16)

	want := []float64{400, 300, 200, 100, 0}
	if len(xs) != len(want) {
		t.Fatalf("xs = %v, want %v", xs, want)
	}
	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("xs[%d] = %v, want %v", i, xs[i], want[i])
		}
	}
}

func TestInjectSwipe_MinFrames(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	s.InjectSwipe(0, 0, 100, 100, 1)
	if s.PendingInjections() != 2 {
		t.Errorf("expected minimum 2 events, got %d", s.PendingInjections())
	}
}

func TestInjectStampsFrameTime(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	var times []int64
	s.adapter.OnEvent(func(ev PointerEvent) { times = append(times, ev.Time) })

	s.InjectPress(0, 0)
	s.InjectDevice(DeviceEvent{Type: MouseUp, Time: 42})
	s.Update(300)
	s.Update(316)

	if len(times) != 2 || times[0] != 300 || times[1] != 42 {
		t.Errorf("times = %v, want [300 42]", times)
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	s.InjectKey(KeyArrowRight)
	s.InjectHostEvent(HostEvent{Type: HostFrameRemoved})
	s.InjectKey(KeyEnter)

	s.Update(10)
	if s.Snapshot().CurrentView != ViewRecent {
		t.Fatalf("after key: view = %v, want recent", s.Snapshot().CurrentView)
	}
	s.Update(20)
	if s.Snapshot().CurrentView != ViewMain || s.Snapshot().LastInteraction != 20 {
		t.Fatalf("after host event: state = %+v", s.Snapshot())
	}
	s.Update(30)
	if s.Snapshot().CurrentView != ViewDetail {
		t.Errorf("after enter: view = %v, want detail", s.Snapshot().CurrentView)
	}
}

func TestProcessInjected_EmptyQueue(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	if s.processInjected(0) {
		t.Error("empty queue reported an event")
	}
}
