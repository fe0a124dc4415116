package linkframe

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidState is returned when a persisted ViewState fails to decode or
// validate.
var ErrInvalidState = errors.New("linkframe: invalid view state")

// StorageKey is the Store key the view state is persisted under.
const StorageKey = "viewState"

// ViewState is the session's navigation state.
type ViewState struct {
	CurrentView         View      `json:"currentView"`
	PreviousView        View      `json:"previousView,omitempty"`
	TransitionDirection Direction `json:"transitionDirection,omitempty"`
	LastInteraction     int64     `json:"lastInteraction"`
}

// DefaultViewState is the state a fresh session starts in.
func DefaultViewState(now int64) ViewState {
	return ViewState{
		CurrentView:         ViewMain,
		TransitionDirection: DirectionForward,
		LastInteraction:     now,
	}
}

// Validate reports whether s is a well-formed state.
func (s ViewState) Validate() error {
	if !s.CurrentView.Valid() {
		return fmt.Errorf("%w: current view %q", ErrInvalidState, s.CurrentView)
	}
	if s.PreviousView != ViewNone && !s.PreviousView.Valid() {
		return fmt.Errorf("%w: previous view %q", ErrInvalidState, s.PreviousView)
	}
	if s.TransitionDirection > DirectionBack {
		return fmt.Errorf("%w: direction %d", ErrInvalidState, uint8(s.TransitionDirection))
	}
	if s.LastInteraction < 0 {
		return fmt.Errorf("%w: negative lastInteraction %d", ErrInvalidState, s.LastInteraction)
	}
	return nil
}

// EncodeViewState serializes a valid state to JSON.
func EncodeViewState(s ViewState) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// DecodeViewState parses and validates a JSON state.
func DecodeViewState(data []byte) (ViewState, error) {
	var s ViewState
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return ViewState{}, err
		}
		return ViewState{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.Validate(); err != nil {
		return ViewState{}, err
	}
	return s, nil
}

// Transition describes one mutation of the view state.
type Transition struct {
	From  ViewState
	To    ViewState
	Cause Cause
}

// ViewChanged reports whether the transition moved to a different view.
func (t Transition) ViewChanged() bool {
	return t.From.CurrentView != t.To.CurrentView
}

// TransitionSink receives every transition, for example to forward it into an
// ECS world. It is optional.
type TransitionSink interface {
	EmitTransition(Transition)
}

// Machine owns the authoritative ViewState. All mutations go through its
// methods, each of which persists the full state before notifying listeners.
type Machine struct {
	state     ViewState
	store     Store
	clock     Clock
	log       *zap.Logger
	listeners callbackRegistry[Transition]
	sink      TransitionSink
}

// NewMachine creates a machine, rehydrating from store when it holds a valid
// state. A missing, unreadable, or invalid stored value falls back to
// DefaultViewState. store may be nil.
func NewMachine(store Store, clock Clock, logger *zap.Logger) *Machine {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Machine{store: store, clock: clock, log: logger}
	m.state = m.load()
	return m
}

func (m *Machine) load() ViewState {
	fallback := DefaultViewState(m.clock.Now())
	if m.store == nil {
		return fallback
	}
	data, ok, err := m.store.Load(StorageKey)
	if err != nil {
		m.log.Warn("loading view state", zap.Error(err))
		return fallback
	}
	if !ok {
		return fallback
	}
	s, err := DecodeViewState(data)
	if err != nil {
		m.log.Warn("discarding persisted view state", zap.Error(err))
		return fallback
	}
	return s
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() ViewState {
	return m.state
}

// OnChange registers a listener for every transition.
func (m *Machine) OnChange(fn func(Transition)) CallbackHandle {
	return m.listeners.add(fn)
}

// SetSink sets the optional transition sink.
func (m *Machine) SetSink(sink TransitionSink) {
	m.sink = sink
}

// Swipe commits a recognized swipe. Back returns from recent to main and
// forward moves from main to recent; from any other view the view is kept
// but the commit still records direction and time.
func (m *Machine) Swipe(dir Direction, t int64) Transition {
	return m.commit(swipeTarget(m.state.CurrentView, dir), dir, t, CauseGesture)
}

// Request applies a UI swipe affordance with the same rules as Swipe.
func (m *Machine) Request(dir Direction) Transition {
	return m.commit(swipeTarget(m.state.CurrentView, dir), dir, m.clock.Now(), CauseRequest)
}

func swipeTarget(cur View, dir Direction) View {
	switch {
	case dir == DirectionBack && cur == ViewRecent:
		return ViewMain
	case dir == DirectionForward && cur == ViewMain:
		return ViewRecent
	default:
		return cur
	}
}

// HandleKey applies keyboard navigation. consumed reports whether the key
// belongs to the machine; the caller must then skip the key's default
// behaviour (such as scrolling).
func (m *Machine) HandleKey(key Key, t int64) (tr Transition, consumed bool) {
	switch key {
	case KeyArrowLeft:
		return m.commit(ViewMain, DirectionBack, t, CauseKey), true
	case KeyArrowRight:
		return m.commit(ViewRecent, DirectionForward, t, CauseKey), true
	case KeyEnter:
		if m.state.CurrentView == ViewMain {
			return m.commit(ViewDetail, DirectionForward, t, CauseKey), true
		}
		return m.touch(t, CauseKey), true
	case KeyEscape:
		if m.state.CurrentView != ViewDetail {
			return Transition{}, false
		}
		back := m.state.PreviousView
		if !back.Valid() || back == ViewDetail {
			back = ViewMain
		}
		return m.commit(back, DirectionBack, t, CauseKey), true
	}
	return Transition{}, false
}

// HandleHostEvent reacts to host lifecycle events. Only frame removal
// affects the view: it forces main regardless of the current state.
func (m *Machine) HandleHostEvent(ev HostEvent, t int64) (Transition, bool) {
	if ev.Type != HostFrameRemoved {
		return Transition{}, false
	}
	return m.commit(ViewMain, DirectionBack, t, CauseHost), true
}

// Reset discards the persisted state and starts over from the default.
func (m *Machine) Reset() Transition {
	if m.store != nil {
		if err := m.store.Clear(StorageKey); err != nil {
			m.log.Warn("clearing view state", zap.Error(err))
		}
	}
	from := m.state
	m.state = DefaultViewState(m.clock.Now())
	return m.apply(from, CauseReset)
}

func (m *Machine) commit(target View, dir Direction, t int64, cause Cause) Transition {
	from := m.state
	m.state = ViewState{
		CurrentView:         target,
		PreviousView:        from.CurrentView,
		TransitionDirection: dir,
		LastInteraction:     t,
	}
	return m.apply(from, cause)
}

// touch only stamps the interaction time.
func (m *Machine) touch(t int64, cause Cause) Transition {
	from := m.state
	m.state.LastInteraction = t
	return m.apply(from, cause)
}

func (m *Machine) apply(from ViewState, cause Cause) Transition {
	m.persist()
	tr := Transition{From: from, To: m.state, Cause: cause}
	for _, l := range m.listeners.snapshot() {
		l.fn(tr)
	}
	if m.sink != nil {
		m.sink.EmitTransition(tr)
	}
	m.log.Debug("view transition",
		zap.Stringer("from", from.CurrentView),
		zap.Stringer("to", m.state.CurrentView),
		zap.Stringer("direction", m.state.TransitionDirection),
		zap.Stringer("cause", cause))
	return tr
}

func (m *Machine) persist() {
	if m.store == nil {
		return
	}
	data, err := EncodeViewState(m.state)
	if err != nil {
		m.log.Error("encoding view state", zap.Error(err))
		return
	}
	if err := m.store.Save(StorageKey, data); err != nil {
		m.log.Warn("saving view state", zap.Error(err))
	}
}
