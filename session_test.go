package linkframe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestSession(t *testing.T, clock *fakeClock, links ...Link) *Session {
	t.Helper()
	ls := NewMemoryLinkStore()
	for _, l := range links {
		if err := ls.PutLink(l); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewSession(SessionConfig{Clock: clock, Links: ls, Width: 400})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

var (
	linkOld = Link{URL: "https://old.example", Title: "Old", Timestamp: 100}
	linkNew = Link{URL: "https://new.example", Title: "New", Timestamp: 200}
)

// runFrames calls Update at start, start+step, ... until the inject queue
// drains, and returns the next frame time.
func runFrames(s *Session, start, step int64) int64 {
	now := start
	for s.PendingInjections() > 0 {
		s.Update(now)
		now += step
	}
	return now
}

func TestSessionSwipeCommitsAndAnimates(t *testing.T) {
	clock := &fakeClock{now: 1000}
	s := newTestSession(t, clock)

	s.InjectSwipe(300, 100, 100, 100, 2)
	next := runFrames(s, 1000, 100)

	got := s.Snapshot()
	if got.CurrentView != ViewRecent || got.TransitionDirection != DirectionForward {
		t.Fatalf("state = %+v, want recent/forward", got)
	}
	if got.LastInteraction != 1100 {
		t.Errorf("lastInteraction = %d, want 1100 (release time)", got.LastInteraction)
	}
	if off := s.SlideOffset(); off <= 0 || off > 1 {
		t.Errorf("slide offset = %v, want in (0, 1]", off)
	}

	s.Update(next + 300)
	if off := s.SlideOffset(); off != 0 {
		t.Errorf("slide offset after animation = %v, want 0", off)
	}
}

func TestSessionVerticalDragIgnored(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000})
	before := s.Snapshot()
	s.InjectSwipe(100, 300, 110, 20, 3)
	runFrames(s, 1000, 16)
	if s.Snapshot() != before {
		t.Errorf("state = %+v, want unchanged", s.Snapshot())
	}
}

func TestSessionProgressDuringDrag(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000})
	s.InjectPress(300, 0)
	s.InjectMove(200, 0)
	s.Update(1000)
	s.Update(1016)
	if p := s.Progress(); p != -0.25 {
		t.Errorf("progress = %v, want -0.25", p)
	}
	s.InjectRelease(200, 0)
	s.Update(1032)
	if p := s.Progress(); p != 0 {
		t.Errorf("progress after release = %v, want 0", p)
	}
}

func TestSessionMainShowsPinnedThenRecent(t *testing.T) {
	pinned := Link{URL: "https://pinned.example", Title: "Pinned", Timestamp: 50, Pinned: true}
	s := newTestSession(t, &fakeClock{now: 1000}, linkOld, linkNew, pinned)

	got := s.VisibleLinks()
	want := []Link{pinned, linkNew, linkOld}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("main links (-want +got):\n%s", diff)
	}

	s.HandleKey(KeyArrowRight)
	want = []Link{linkNew, linkOld, pinned}
	if diff := cmp.Diff(want, s.VisibleLinks()); diff != "" {
		t.Errorf("recent links (-want +got):\n%s", diff)
	}
}

func TestSessionSelectionKeys(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000}, linkOld, linkNew)
	if consumed := s.HandleKey(KeyArrowDown); consumed {
		t.Error("ArrowDown should not be consumed")
	}
	if s.Selected() != 1 {
		t.Errorf("selected = %d, want 1", s.Selected())
	}
	s.HandleKey(KeyArrowDown)
	if s.Selected() != 1 {
		t.Errorf("selected = %d, want clamp at 1", s.Selected())
	}
	s.HandleKey(KeyArrowUp)
	s.HandleKey(KeyArrowUp)
	if s.Selected() != 0 {
		t.Errorf("selected = %d, want 0", s.Selected())
	}
}

func TestSessionEnterOpensDetailAndRecordsVisit(t *testing.T) {
	clock := &fakeClock{now: 5000}
	s := newTestSession(t, clock, linkOld, linkNew)
	s.MoveSelection(1) // linkOld

	if !s.HandleKey(KeyEnter) {
		t.Fatal("Enter on main should be consumed")
	}
	if s.Snapshot().CurrentView != ViewDetail {
		t.Fatalf("view = %v, want detail", s.Snapshot().CurrentView)
	}
	want := []Link{{URL: linkOld.URL, Title: linkOld.Title, Timestamp: 5000}}
	if diff := cmp.Diff(want, s.VisibleLinks()); diff != "" {
		t.Errorf("detail links (-want +got):\n%s", diff)
	}
	if recent := s.Lists().Recent; len(recent) == 0 || recent[0].URL != linkOld.URL {
		t.Errorf("recent = %v, want visited link first", recent)
	}

	clock.now = 6000
	if !s.HandleKey(KeyEscape) {
		t.Fatal("Escape in detail should be consumed")
	}
	if s.Snapshot().CurrentView != ViewMain {
		t.Errorf("view = %v, want main", s.Snapshot().CurrentView)
	}
	if s.Snapshot().LastInteraction != 6000 {
		t.Errorf("lastInteraction = %d, want 6000", s.Snapshot().LastInteraction)
	}
}

func TestSessionLongPressTogglesPin(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000}, linkOld, linkNew)

	s.InjectPress(50, 50)
	s.Update(1000)
	s.Update(1499)
	if len(s.Lists().Pinned) != 0 {
		t.Fatal("pinned before long-press elapsed")
	}
	s.Update(1500)
	pinned := s.Lists().Pinned
	if len(pinned) != 1 || pinned[0].URL != linkNew.URL {
		t.Fatalf("pinned = %v, want %s", pinned, linkNew.URL)
	}
	before := s.Snapshot()

	s.InjectRelease(50, 50)
	s.Update(1600)
	if s.Snapshot() != before {
		t.Error("release after long-press changed the view")
	}
	if len(s.Lists().Pinned) != 1 {
		t.Error("release after long-press toggled again")
	}
}

func TestSessionLongPressReleasedInSameFrame(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000}, linkOld, linkNew)
	var kinds []PointerKind
	s.adapter.OnEvent(func(ev PointerEvent) { kinds = append(kinds, ev.Kind) })

	s.InjectDevice(DeviceEvent{Type: MouseDown, X: 50, Y: 50, Time: 1000})
	s.Update(1000)
	s.InjectDevice(DeviceEvent{Type: MouseUp, X: 50, Y: 50, Time: 1600})
	s.Update(1600)

	if diff := cmp.Diff([]PointerKind{PointerStart, PointerLongPress}, kinds); diff != "" {
		t.Errorf("pointer kinds (-want +got):\n%s", diff)
	}
	if pinned := s.Lists().Pinned; len(pinned) != 1 || pinned[0].URL != linkNew.URL {
		t.Errorf("pinned = %v, want %s", pinned, linkNew.URL)
	}
	if got := s.Snapshot().CurrentView; got != ViewMain {
		t.Errorf("view = %v, want main", got)
	}
}

func TestSessionHandleKeyAtStampsEventTime(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 9000})
	if !s.HandleKeyAt(KeyArrowRight, 1234) {
		t.Fatal("ArrowRight should be consumed")
	}
	if got := s.Snapshot().LastInteraction; got != 1234 {
		t.Errorf("lastInteraction = %d, want 1234", got)
	}

	s.InjectKey(KeyArrowLeft)
	s.Update(2000)
	if got := s.Snapshot().LastInteraction; got != 2000 {
		t.Errorf("lastInteraction after injected key = %d, want 2000", got)
	}
}

func TestSessionHostEvents(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1000})
	ch := make(chan HostEvent, 4)
	s.SetHostEvents(ch)

	s.HandleKey(KeyArrowRight)
	ch <- HostEvent{Type: HostFrameAdded}
	ch <- HostEvent{Type: HostFrameRemoved}
	ch <- HostEvent{Type: "bogus"}
	ch <- HostEvent{Type: HostNotificationsEnabled, Notification: &NotificationDetails{URL: "https://api.example/notify", Token: "t"}}
	s.Update(2000)

	got := s.Snapshot()
	want := ViewState{CurrentView: ViewMain, PreviousView: ViewRecent, TransitionDirection: DirectionBack, LastInteraction: 2000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	host := s.Host()
	if host.Added {
		t.Error("frame should be removed")
	}
	if !host.NotificationsEnabled || host.Notification == nil || host.Notification.Token != "t" {
		t.Errorf("host = %+v, want notifications enabled", host)
	}

	close(ch)
	s.Update(2016)
	s.Update(2032)
}

func TestSessionRehydratesFromStore(t *testing.T) {
	store := NewMemoryStore()
	first, err := NewSession(SessionConfig{Clock: &fakeClock{now: 10}, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	first.HandleKey(KeyArrowRight)
	first.Close()

	second, err := NewSession(SessionConfig{Clock: &fakeClock{now: 99}, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	if diff := cmp.Diff(first.Snapshot(), second.Snapshot()); diff != "" {
		t.Errorf("rehydrated (-want +got):\n%s", diff)
	}

	second.Reset()
	if second.Snapshot() != DefaultViewState(99) {
		t.Errorf("after reset = %+v", second.Snapshot())
	}
}

func TestSessionRequestSwipe(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 77})
	tr := s.RequestSwipe(DirectionForward)
	if tr.Cause != CauseRequest || tr.To.CurrentView != ViewRecent || tr.To.LastInteraction != 77 {
		t.Errorf("transition = %+v", tr)
	}
}

func TestSessionScreenshotQueue(t *testing.T) {
	s := newTestSession(t, &fakeClock{now: 1})
	if got := s.TakeScreenshots(); got != nil {
		t.Errorf("empty queue = %v", got)
	}
	s.Screenshot("a")
	s.Screenshot("b")
	if diff := cmp.Diff([]string{"a", "b"}, s.TakeScreenshots()); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if got := s.TakeScreenshots(); got != nil {
		t.Errorf("queue not cleared: %v", got)
	}
}
