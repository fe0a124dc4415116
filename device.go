package linkframe

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTarget is returned when attaching to a nil Target.
	ErrNilTarget = errors.New("linkframe: nil event target")
	// ErrTargetClosed is returned when registering on a closed EventTarget.
	ErrTargetClosed = errors.New("linkframe: event target closed")
)

// DeviceEventType identifies a raw device event family member.
type DeviceEventType uint8

const (
	TouchStart  DeviceEventType = iota // a finger touched the surface
	TouchMove                          // one or more fingers moved
	TouchEnd                           // a finger lifted
	TouchCancel                        // the system interrupted the touch sequence
	MouseDown                          // primary button pressed
	MouseMove                          // cursor moved (pressed or hovering)
	MouseUp                            // primary button released
	MouseLeave                         // cursor left the surface
	numDeviceEventTypes
)

var deviceEventNames = [...]string{
	"touchstart", "touchmove", "touchend", "touchcancel",
	"mousedown", "mousemove", "mouseup", "mouseleave",
}

func (t DeviceEventType) String() string {
	if t < numDeviceEventTypes {
		return deviceEventNames[t]
	}
	return fmt.Sprintf("DeviceEventType(%d)", uint8(t))
}

// TouchPoint is one finger on the surface.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// DeviceEvent is a raw touch or mouse sample as delivered by a platform.
// Mouse events use X and Y. Touch events use Touches (fingers still on the
// surface) and Changed (fingers that changed in this event).
type DeviceEvent struct {
	Type    DeviceEventType
	Time    int64 // monotonic milliseconds
	X, Y    float64
	Touches []TouchPoint
	Changed []TouchPoint
}

// ListenerID identifies a registered device listener.
type ListenerID uint32

// Target is anything device listeners can be registered on.
type Target interface {
	AddListener(typ DeviceEventType, fn func(DeviceEvent)) (ListenerID, error)
	RemoveListener(id ListenerID)
}

type deviceListener struct {
	id ListenerID
	fn func(DeviceEvent)
}

// EventTarget is an in-process Target. Platforms translate their native
// input into DeviceEvents and call Dispatch.
type EventTarget struct {
	listeners [numDeviceEventTypes][]deviceListener
	nextID    ListenerID
	closed    bool
}

// NewEventTarget returns an empty, open target.
func NewEventTarget() *EventTarget {
	return &EventTarget{}
}

// AddListener registers fn for events of type typ.
func (t *EventTarget) AddListener(typ DeviceEventType, fn func(DeviceEvent)) (ListenerID, error) {
	if t == nil {
		return 0, ErrNilTarget
	}
	if t.closed {
		return 0, ErrTargetClosed
	}
	if typ >= numDeviceEventTypes {
		return 0, fmt.Errorf("linkframe: unknown device event type %d", uint8(typ))
	}
	if fn == nil {
		return 0, fmt.Errorf("linkframe: nil %s listener", typ)
	}
	t.nextID++
	id := t.nextID
	t.listeners[typ] = append(t.listeners[typ], deviceListener{id: id, fn: fn})
	return id, nil
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (t *EventTarget) RemoveListener(id ListenerID) {
	if t == nil {
		return
	}
	for typ := range t.listeners {
		ls := t.listeners[typ]
		for i := range ls {
			if ls[i].id == id {
				copy(ls[i:], ls[i+1:])
				ls[len(ls)-1] = deviceListener{}
				t.listeners[typ] = ls[:len(ls)-1]
				return
			}
		}
	}
}

// Dispatch delivers ev to every listener of its type in registration order,
// synchronously on the caller's goroutine.
func (t *EventTarget) Dispatch(ev DeviceEvent) {
	if t == nil || ev.Type >= numDeviceEventTypes {
		return
	}
	ls := t.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]deviceListener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// ListenerCount returns the number of registered listeners.
func (t *EventTarget) ListenerCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for typ := range t.listeners {
		n += len(t.listeners[typ])
	}
	return n
}

// Close drops all listeners and rejects further registrations.
func (t *EventTarget) Close() {
	if t == nil {
		return
	}
	t.closed = true
	for typ := range t.listeners {
		t.listeners[typ] = nil
	}
}
