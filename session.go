package linkframe

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// SessionConfig configures NewSession. Every field is optional.
type SessionConfig struct {
	Gesture       GestureConfig
	Store         Store     // view state; defaults to a MemoryStore
	Links         LinkStore // defaults to a MemoryLinkStore
	RecentLimit   int
	Clock         Clock
	Logger        *zap.Logger
	Width         float64 // interactive surface width in px
	SlideDuration time.Duration
	Sink          TransitionSink
}

// Session is the top-level object that owns the view state machine, the
// input pipeline, the link book, and per-frame timers. Front-ends feed it
// device events through Target, keys through HandleKey, and call Update once
// per frame from a single goroutine.
type Session struct {
	cfg   SessionConfig
	log   *zap.Logger
	clock Clock

	timers  *Scheduler
	target  *EventTarget
	adapter *InputAdapter
	detach  func()
	swipe   *SwipeRecognizer
	machine *Machine
	book    *LinkBook

	lists    LinkLists
	selected int
	detail   *Link

	hostEvents <-chan HostEvent
	host       HostStatus

	slide      *SlideTween
	lastUpdate int64

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string
}

// NewSession wires a session from cfg.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Links == nil {
		cfg.Links = NewMemoryLinkStore()
	}
	if cfg.SlideDuration <= 0 {
		cfg.SlideDuration = DefaultSlideDuration
	}
	cfg.Gesture = cfg.Gesture.withDefaults()

	s := &Session{
		cfg:    cfg,
		log:    cfg.Logger,
		clock:  cfg.Clock,
		timers: NewScheduler(cfg.Clock.Now()),
		target: NewEventTarget(),
	}

	s.machine = NewMachine(cfg.Store, cfg.Clock, cfg.Logger.Named("view"))
	s.machine.SetSink(cfg.Sink)
	s.machine.OnChange(s.onTransition)

	s.swipe = NewSwipeRecognizer(cfg.Gesture, s.machine)
	s.swipe.SetWidth(cfg.Width)

	s.adapter = NewInputAdapter(cfg.Gesture, s.timers, cfg.Logger.Named("input"))
	s.adapter.OnEvent(s.handlePointer)
	detach, err := s.adapter.Attach(s.target)
	if err != nil {
		return nil, fmt.Errorf("attach input: %w", err)
	}
	s.detach = detach

	s.book = NewLinkBook(cfg.Links, cfg.RecentLimit)
	s.refreshLinks()
	return s, nil
}

// Close detaches the input pipeline and closes the event target.
func (s *Session) Close() {
	if s.detach != nil {
		s.detach()
	}
	s.target.Close()
}

// Target returns the event target front-ends dispatch device events into.
func (s *Session) Target() *EventTarget { return s.target }

// Machine returns the view state machine.
func (s *Session) Machine() *Machine { return s.machine }

// Links returns the link book.
func (s *Session) Links() *LinkBook { return s.book }

// Now returns the session clock's current time.
func (s *Session) Now() int64 { return s.clock.Now() }

// Snapshot returns a copy of the current view state.
func (s *Session) Snapshot() ViewState { return s.machine.Snapshot() }

// Host returns the host lifecycle status.
func (s *Session) Host() HostStatus { return s.host }

// Progress returns the in-flight swipe progress in [-1, 1].
func (s *Session) Progress() float64 { return s.swipe.Progress() }

// SlideOffset returns the current slide-in offset as a fraction of the
// surface width, or 0 when no transition animation is running.
func (s *Session) SlideOffset() float64 {
	if s.slide == nil {
		return 0
	}
	return s.slide.Offset
}

// SetSurfaceWidth updates the width used by the swipe threshold.
func (s *Session) SetSurfaceWidth(w float64) { s.swipe.SetWidth(w) }

// SetHostEvents sets the channel host lifecycle events arrive on. Update
// drains it without blocking.
func (s *Session) SetHostEvents(ch <-chan HostEvent) { s.hostEvents = ch }

// Update advances the session by one frame: scripted steps, one injected
// event, pending host events, due timers, then animations.
func (s *Session) Update(now int64) {
	var dt float32
	if s.lastUpdate != 0 && now > s.lastUpdate {
		dt = float32(now-s.lastUpdate) / 1000
	}
	s.lastUpdate = now

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjected(now)
	s.drainHostEvents(now)
	s.timers.Advance(now)

	if s.slide != nil {
		s.slide.Update(dt)
		if s.slide.Done {
			s.slide = nil
		}
	}
}

// HandleKey routes a key press stamped with the session clock. See
// HandleKeyAt.
func (s *Session) HandleKey(key Key) bool {
	return s.HandleKeyAt(key, s.clock.Now())
}

// HandleKeyAt routes a key press that happened at t. It reports whether the
// view machine consumed the key; consumed keys get no default behaviour. Up
// and Down are not consumed and move the list selection.
func (s *Session) HandleKeyAt(key Key, t int64) bool {
	if _, consumed := s.machine.HandleKey(key, t); consumed {
		return true
	}
	switch key {
	case KeyArrowUp:
		s.MoveSelection(-1)
	case KeyArrowDown:
		s.MoveSelection(1)
	}
	return false
}

// RequestSwipe applies a swipe affordance from the UI.
func (s *Session) RequestSwipe(dir Direction) Transition {
	return s.machine.Request(dir)
}

// Reset returns the session to the default view state.
func (s *Session) Reset() Transition {
	return s.machine.Reset()
}

func (s *Session) handlePointer(ev PointerEvent) {
	if _, committed := s.swipe.Handle(ev); committed {
		return
	}
	if ev.Kind == PointerLongPress {
		s.TogglePinSelected()
	}
}

func (s *Session) onTransition(tr Transition) {
	if !tr.ViewChanged() {
		return
	}
	s.slide = NewSlideTween(tr.To.TransitionDirection, s.cfg.SlideDuration, ease.OutCubic)
	if tr.To.CurrentView == ViewDetail {
		s.openDetail(tr.From.CurrentView, tr.To.LastInteraction)
	} else {
		s.detail = nil
	}
	s.selected = 0
}

// openDetail shows the selected link of view and records the visit.
func (s *Session) openDetail(from View, t int64) {
	list := s.linksFor(from)
	if s.selected < 0 || s.selected >= len(list) {
		s.detail = nil
		return
	}
	l := list[s.selected]
	visited, err := s.book.Visit(l.URL, l.Title, t)
	if err != nil {
		s.log.Warn("recording visit", zap.String("url", l.URL), zap.Error(err))
		visited = l
	}
	s.detail = &visited
	s.refreshLinks()
}

// --- links ---

// Lists returns the cached pinned and recent lists.
func (s *Session) Lists() LinkLists { return s.lists }

// VisibleLinks returns the links the current view displays: pinned then
// unpinned recent links on main, all recent links on recent, and the opened
// link on detail.
func (s *Session) VisibleLinks() []Link {
	return s.linksFor(s.machine.Snapshot().CurrentView)
}

func (s *Session) linksFor(v View) []Link {
	switch v {
	case ViewMain:
		out := make([]Link, 0, len(s.lists.Pinned)+len(s.lists.Recent))
		out = append(out, s.lists.Pinned...)
		for _, l := range s.lists.Recent {
			if !l.Pinned {
				out = append(out, l)
			}
		}
		return out
	case ViewRecent:
		return s.lists.Recent
	case ViewDetail:
		if s.detail != nil {
			return []Link{*s.detail}
		}
	}
	return nil
}

// Selected returns the selection index within VisibleLinks.
func (s *Session) Selected() int { return s.selected }

// SelectedLink returns the selected link, if any.
func (s *Session) SelectedLink() (Link, bool) {
	list := s.VisibleLinks()
	if s.selected < 0 || s.selected >= len(list) {
		return Link{}, false
	}
	return list[s.selected], true
}

// MoveSelection moves the selection by delta, clamped to the visible list.
func (s *Session) MoveSelection(delta int) {
	s.selected += delta
	s.clampSelection()
}

func (s *Session) clampSelection() {
	n := len(s.VisibleLinks())
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// Visit records a visit to rawURL now.
func (s *Session) Visit(rawURL, title string) (Link, error) {
	l, err := s.book.Visit(rawURL, title, s.clock.Now())
	if err != nil {
		return Link{}, err
	}
	s.refreshLinks()
	return l, nil
}

// TogglePinSelected pins or unpins the selected link. Failures are logged.
func (s *Session) TogglePinSelected() {
	l, ok := s.SelectedLink()
	if !ok {
		return
	}
	updated, err := s.book.TogglePin(l.URL)
	if err != nil {
		s.log.Warn("toggling pin", zap.String("url", l.URL), zap.Error(err))
		return
	}
	if s.detail != nil && s.detail.URL == updated.URL {
		s.detail = &updated
	}
	s.refreshLinks()
}

func (s *Session) refreshLinks() {
	lists, err := s.book.Lists()
	if err != nil {
		s.log.Warn("loading links", zap.Error(err))
		return
	}
	s.lists = lists
	s.clampSelection()
}

// --- host events ---

func (s *Session) drainHostEvents(now int64) {
	if s.hostEvents == nil {
		return
	}
	for {
		select {
		case ev, ok := <-s.hostEvents:
			if !ok {
				s.hostEvents = nil
				return
			}
			s.applyHostEvent(ev, now)
		default:
			return
		}
	}
}

func (s *Session) applyHostEvent(ev HostEvent, now int64) {
	if !ev.Type.Valid() {
		s.log.Warn("ignoring unknown host event", zap.String("event", string(ev.Type)))
		return
	}
	s.log.Info("host event", zap.String("event", string(ev.Type)))
	s.host.apply(ev)
	s.machine.HandleHostEvent(ev, now)
}

// --- screenshots ---

// Screenshot queues a labeled screenshot for the renderer to capture at the
// end of its next Draw.
func (s *Session) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// TakeScreenshots returns and clears the queued screenshot labels.
func (s *Session) TakeScreenshots() []string {
	if len(s.screenshotQueue) == 0 {
		return nil
	}
	out := s.screenshotQueue
	s.screenshotQueue = nil
	return out
}
