package linkframe

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

var errNoTouch = errors.New("touch event without touch points")

// PointerEvent is a normalized sample of one interaction. Velocity is only
// meaningful when HasVelocity is set, which happens on PointerEnd.
type PointerEvent struct {
	Kind        PointerKind
	X, Y        float64
	Time        int64
	Device      Device
	Velocity    Vec2
	HasVelocity bool
}

// Velocity returns displacement over elapsed milliseconds. A zero or negative
// dt yields zero rather than NaN or Inf.
func Velocity(dx, dy float64, dt int64) Vec2 {
	if dt <= 0 {
		return Vec2{}
	}
	return Vec2{X: dx / float64(dt), Y: dy / float64(dt)}
}

// InputAdapter merges touch and mouse device events into one pointer stream.
//
// For every interaction it emits one PointerStart, any number of
// PointerMove, and exactly one terminal event (PointerEnd, PointerCancel or
// PointerLongPress). Only the primary touch point is tracked.
type InputAdapter struct {
	cfg    GestureConfig
	timers *Scheduler
	log    *zap.Logger

	handlers callbackRegistry[PointerEvent]
	attachN  int

	// Interaction-local state.
	active    bool
	spent     bool // long-press fired; swallow the rest until release
	owner     int  // attach generation that started the interaction
	device    Device
	touchID   int
	startX    float64
	startY    float64
	startTime int64
	lastX     float64
	lastY     float64
	longPress *Timer
}

// NewInputAdapter creates an adapter. Long-press timers are scheduled on
// timers; a nil scheduler disables long-press detection.
func NewInputAdapter(cfg GestureConfig, timers *Scheduler, logger *zap.Logger) *InputAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InputAdapter{cfg: cfg.withDefaults(), timers: timers, log: logger}
}

// OnEvent registers a callback for every normalized pointer event. Callbacks
// run synchronously inside the device listener that produced the event.
func (a *InputAdapter) OnEvent(fn func(PointerEvent)) CallbackHandle {
	return a.handlers.add(fn)
}

// Active reports whether an interaction is in progress.
func (a *InputAdapter) Active() bool {
	return a.active
}

// Attach registers the adapter's device listeners on target. A registration
// failure is returned and leaves no listeners behind. The returned detach
// function removes the listeners once; later calls do nothing.
func (a *InputAdapter) Attach(target Target) (detach func(), err error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	a.attachN++
	gen := a.attachN

	bindings := []struct {
		typ DeviceEventType
		fn  func(DeviceEvent) error
	}{
		{TouchStart, func(ev DeviceEvent) error { return a.touchStart(gen, ev) }},
		{TouchMove, a.touchMove},
		{TouchEnd, a.touchEnd},
		{TouchCancel, a.touchCancel},
		{MouseDown, func(ev DeviceEvent) error { return a.mouseDown(gen, ev) }},
		{MouseMove, a.mouseMove},
		{MouseUp, a.mouseUp},
		{MouseLeave, a.mouseUp},
	}

	ids := make([]ListenerID, 0, len(bindings))
	for _, b := range bindings {
		id, err := target.AddListener(b.typ, a.guard(b.typ, b.fn))
		if err != nil {
			for _, registered := range ids {
				target.RemoveListener(registered)
			}
			return nil, fmt.Errorf("attach %s listener: %w", b.typ, err)
		}
		ids = append(ids, id)
	}

	var once sync.Once
	detach = func() {
		once.Do(func() {
			for _, id := range ids {
				target.RemoveListener(id)
			}
			if a.owner == gen {
				a.cancel(a.lastTime())
				a.spent = false
			}
		})
	}
	return detach, nil
}

// guard wraps a listener so nothing escapes into the platform's dispatch.
// Timers due at the event's time fire first, so a release that arrives after
// the long-press deadline belongs to the already-finished interaction.
func (a *InputAdapter) guard(typ DeviceEventType, fn func(DeviceEvent) error) func(DeviceEvent) {
	return func(ev DeviceEvent) {
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("pointer listener panicked",
					zap.Stringer("event", typ), zap.Any("panic", r))
				a.abort(ev.Time)
			}
		}()
		if a.timers != nil {
			a.timers.Advance(ev.Time)
		}
		if err := fn(ev); err != nil {
			a.log.Warn("dropping device event",
				zap.Stringer("event", typ), zap.Error(err))
		}
	}
}

// abort terminates whatever interaction is in flight after an internal
// failure. It must not panic itself.
func (a *InputAdapter) abort(t int64) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("pointer abort panicked", zap.Any("panic", r))
			a.reset()
		}
	}()
	a.spent = false
	a.cancel(t)
}

// --- device listeners ---

func (a *InputAdapter) touchStart(gen int, ev DeviceEvent) error {
	if len(ev.Touches) == 0 {
		return errNoTouch
	}
	p := ev.Touches[0]
	a.begin(gen, DeviceTouch, p.ID, p.X, p.Y, ev.Time)
	return nil
}

func (a *InputAdapter) touchMove(ev DeviceEvent) error {
	if !a.tracking(DeviceTouch) {
		return nil
	}
	if len(ev.Touches) == 0 {
		return errNoTouch
	}
	p, ok := findTouch(ev.Touches, a.touchID)
	if !ok {
		return nil
	}
	a.move(p.X, p.Y, ev.Time)
	return nil
}

func (a *InputAdapter) touchEnd(ev DeviceEvent) error {
	if a.spent && a.device == DeviceTouch {
		if _, ok := findTouch(ev.Touches, a.touchID); !ok {
			a.spent = false
		}
		return nil
	}
	if !a.tracking(DeviceTouch) {
		return nil
	}
	x, y := a.lastX, a.lastY
	if len(ev.Changed) > 0 {
		p, ok := findTouch(ev.Changed, a.touchID)
		if !ok {
			// A secondary finger lifted.
			return nil
		}
		x, y = p.X, p.Y
	}
	a.end(x, y, ev.Time)
	return nil
}

func (a *InputAdapter) touchCancel(ev DeviceEvent) error {
	if a.device != DeviceTouch {
		return nil
	}
	a.spent = false
	a.cancel(ev.Time)
	return nil
}

func (a *InputAdapter) mouseDown(gen int, ev DeviceEvent) error {
	a.begin(gen, DeviceMouse, 0, ev.X, ev.Y, ev.Time)
	return nil
}

func (a *InputAdapter) mouseMove(ev DeviceEvent) error {
	if !a.tracking(DeviceMouse) {
		return nil // hover
	}
	a.move(ev.X, ev.Y, ev.Time)
	return nil
}

func (a *InputAdapter) mouseUp(ev DeviceEvent) error {
	if a.spent && a.device == DeviceMouse {
		a.spent = false
		return nil
	}
	if !a.tracking(DeviceMouse) {
		return nil
	}
	a.end(ev.X, ev.Y, ev.Time)
	return nil
}

// --- interaction state machine ---

func (a *InputAdapter) tracking(dev Device) bool {
	return a.active && a.device == dev
}

func (a *InputAdapter) begin(gen int, dev Device, touchID int, x, y float64, t int64) {
	if a.active || a.spent {
		if dev == DeviceTouch && a.device == DeviceTouch {
			return // additional finger
		}
		// The previous interaction never saw its release.
		a.spent = false
		a.cancel(t)
	}

	a.active = true
	a.owner = gen
	a.device = dev
	a.touchID = touchID
	a.startX, a.startY = x, y
	a.lastX, a.lastY = x, y
	a.startTime = t

	if a.timers != nil && a.cfg.LongPress > 0 {
		a.longPress = a.timers.At(t+a.cfg.LongPress.Milliseconds(), a.fireLongPress)
	}

	a.emit(PointerEvent{Kind: PointerStart, X: x, Y: y, Time: t, Device: dev})
}

func (a *InputAdapter) move(x, y float64, t int64) {
	a.lastX, a.lastY = x, y
	if a.longPress != nil && a.displacement() > a.cfg.MoveTolerance {
		a.longPress.Stop()
		a.longPress = nil
	}
	a.emit(PointerEvent{Kind: PointerMove, X: x, Y: y, Time: t, Device: a.device})
}

func (a *InputAdapter) end(x, y float64, t int64) {
	dev := a.device
	v := Velocity(x-a.startX, y-a.startY, t-a.startTime)
	a.reset()
	a.emit(PointerEvent{
		Kind: PointerEnd, X: x, Y: y, Time: t, Device: dev,
		Velocity: v, HasVelocity: true,
	})
}

func (a *InputAdapter) cancel(t int64) {
	if !a.active {
		a.reset()
		return
	}
	dev, x, y := a.device, a.lastX, a.lastY
	a.reset()
	a.emit(PointerEvent{Kind: PointerCancel, X: x, Y: y, Time: t, Device: dev})
}

func (a *InputAdapter) fireLongPress() {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("long-press callback panicked", zap.Any("panic", r))
			a.reset()
		}
	}()
	a.longPress = nil
	if !a.active || a.displacement() > a.cfg.MoveTolerance {
		return
	}
	dev, x, y := a.device, a.lastX, a.lastY
	t := a.startTime + a.cfg.LongPress.Milliseconds()
	a.reset()
	a.spent = true
	a.emit(PointerEvent{Kind: PointerLongPress, X: x, Y: y, Time: t, Device: dev})
}

// reset clears interaction-local tracking and stops a pending long-press.
// The device field survives so a spent interaction can match its release.
func (a *InputAdapter) reset() {
	if a.longPress != nil {
		a.longPress.Stop()
		a.longPress = nil
	}
	a.active = false
	a.owner = 0
}

func (a *InputAdapter) displacement() float64 {
	return math.Hypot(a.lastX-a.startX, a.lastY-a.startY)
}

func (a *InputAdapter) lastTime() int64 {
	if a.timers != nil {
		return a.timers.Now()
	}
	return a.startTime
}

// emit delivers ev to every callback. A panicking callback is logged and
// does not prevent delivery to the rest.
func (a *InputAdapter) emit(ev PointerEvent) {
	for _, h := range a.handlers.snapshot() {
		a.call(h.fn, ev)
	}
}

func (a *InputAdapter) call(fn func(PointerEvent), ev PointerEvent) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("pointer callback panicked",
				zap.Stringer("kind", ev.Kind), zap.Any("panic", r))
		}
	}()
	fn(ev)
}

func findTouch(points []TouchPoint, id int) (TouchPoint, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return TouchPoint{}, false
}
