package linkframe

import "fmt"

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X, Y float64
}

// View identifies one of the mutually exclusive screens a session can show.
// The zero value ViewNone means "no view" and is only valid for
// ViewState.PreviousView.
type View uint8

const (
	ViewNone   View = iota // absent (optional fields only)
	ViewMain               // pinned links
	ViewRecent             // recently visited links
	ViewDetail             // the selected link
)

var viewNames = [...]string{"", "main", "recent", "detail"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return fmt.Sprintf("View(%d)", uint8(v))
}

// Valid reports whether v is one of the named views.
func (v View) Valid() bool {
	return v >= ViewMain && v <= ViewDetail
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	if int(v) >= len(viewNames) {
		return nil, fmt.Errorf("%w: view %d", ErrInvalidState, uint8(v))
	}
	return []byte(viewNames[v]), nil
}

// UnmarshalText decodes a view name. The empty string decodes to ViewNone.
func (v *View) UnmarshalText(b []byte) error {
	for i, name := range viewNames {
		if name == string(b) {
			*v = View(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown view %q", ErrInvalidState, b)
}

// Direction describes how the last transition was reached. Renderers use it
// to pick the slide direction.
type Direction uint8

const (
	DirectionNone    Direction = iota // absent
	DirectionForward                  // deeper into the view stack
	DirectionBack                     // toward main
)

var directionNames = [...]string{"", "forward", "back"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidState, uint8(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction name. The empty string decodes to
// DirectionNone.
func (d *Direction) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if name == string(b) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown direction %q", ErrInvalidState, b)
}

// PointerKind identifies a normalized pointer event.
type PointerKind uint8

const (
	PointerStart     PointerKind = iota // pointer went down
	PointerMove                         // pointer moved while down
	PointerEnd                          // pointer released; carries velocity
	PointerCancel                       // interaction interrupted; no velocity
	PointerLongPress                    // held in place past the long-press duration
)

var pointerKindNames = [...]string{"start", "move", "end", "cancel", "longpress"}

func (k PointerKind) String() string {
	if int(k) < len(pointerKindNames) {
		return pointerKindNames[k]
	}
	return fmt.Sprintf("PointerKind(%d)", uint8(k))
}

// Terminal reports whether k ends an interaction.
func (k PointerKind) Terminal() bool {
	return k == PointerEnd || k == PointerCancel || k == PointerLongPress
}

// Device identifies the device family that produced a pointer event.
type Device uint8

const (
	DeviceMouse Device = iota // single cursor
	DeviceTouch               // primary touch point
)

func (d Device) String() string {
	switch d {
	case DeviceMouse:
		return "mouse"
	case DeviceTouch:
		return "touch"
	default:
		return fmt.Sprintf("Device(%d)", uint8(d))
	}
}

// Key identifies a navigation key.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyEnter
	KeyEscape
)

var keyNames = [...]string{"", "ArrowLeft", "ArrowRight", "ArrowUp", "ArrowDown", "Enter", "Escape"}

func (k Key) String() string {
	if int(k) < len(keyNames) && k != KeyUnknown {
		return keyNames[k]
	}
	return "Unknown"
}

// ParseKey returns the Key for a DOM-style key name such as "ArrowLeft".
func ParseKey(name string) (Key, error) {
	for i, n := range keyNames {
		if i > 0 && n == name {
			return Key(i), nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// Cause records what triggered a view transition.
type Cause uint8

const (
	CauseGesture Cause = iota // committed swipe
	CauseKey                  // keyboard navigation
	CauseHost                 // host lifecycle event
	CauseRequest              // explicit UI affordance
	CauseReset                // Machine.Reset
)

var causeNames = [...]string{"gesture", "key", "host", "request", "reset"}

func (c Cause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return fmt.Sprintf("Cause(%d)", uint8(c))
}
