package linkframe

import (
	"math"
	"time"
)

// Gesture defaults.
const (
	DefaultLongPress     = 500 * time.Millisecond
	DefaultMoveTolerance = 10.0 // px
	DefaultSwipeVelocity = 0.5  // px/ms
	DefaultSwipeFraction = 0.5  // of surface width
)

// GestureConfig holds the thresholds used by InputAdapter and
// SwipeRecognizer. Zero fields take the defaults above.
type GestureConfig struct {
	LongPress     time.Duration
	MoveTolerance float64
	SwipeVelocity float64
	SwipeFraction float64
}

// DefaultGestureConfig returns the default thresholds.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{}.withDefaults()
}

func (c GestureConfig) withDefaults() GestureConfig {
	if c.LongPress <= 0 {
		c.LongPress = DefaultLongPress
	}
	if c.MoveTolerance <= 0 {
		c.MoveTolerance = DefaultMoveTolerance
	}
	if c.SwipeVelocity <= 0 {
		c.SwipeVelocity = DefaultSwipeVelocity
	}
	if c.SwipeFraction <= 0 {
		c.SwipeFraction = DefaultSwipeFraction
	}
	return c
}

// SwipeRecognizer turns pointer interactions into committed swipes.
//
// A terminal PointerEnd whose horizontal displacement dominates commits a
// swipe when |dx|/dt exceeds SwipeVelocity, or when some move during the
// interaction travelled further than SwipeFraction of the surface width.
// Anything else, including cancel and long-press, resets without a commit.
type SwipeRecognizer struct {
	cfg     GestureConfig
	machine *Machine
	width   float64

	tracking  bool
	startX    float64
	startY    float64
	startTime int64
	progress  float64
	// exceeded is the sign of the displacement that passed the threshold,
	// or 0. Crossing back over the start point clears it.
	exceeded  float64
}

// NewSwipeRecognizer creates a recognizer committing into m.
func NewSwipeRecognizer(cfg GestureConfig, m *Machine) *SwipeRecognizer {
	return &SwipeRecognizer{cfg: cfg.withDefaults(), machine: m}
}

// SetWidth sets the interactive surface width used for the displacement
// threshold and the progress value. A non-positive width disables both.
func (r *SwipeRecognizer) SetWidth(w float64) {
	r.width = w
}

// Width returns the surface width.
func (r *SwipeRecognizer) Width() float64 {
	return r.width
}

// Progress returns the in-flight horizontal displacement as a fraction of the
// surface width in [-1, 1]. It is zero whenever no swipe is in progress.
func (r *SwipeRecognizer) Progress() float64 {
	return r.progress
}

// Handle consumes one pointer event. It returns the committed transition and
// true when ev completed a swipe.
func (r *SwipeRecognizer) Handle(ev PointerEvent) (Transition, bool) {
	switch ev.Kind {
	case PointerStart:
		r.tracking = true
		r.startX, r.startY = ev.X, ev.Y
		r.startTime = ev.Time
		r.progress = 0
		r.exceeded = 0
	case PointerMove:
		if !r.tracking {
			return Transition{}, false
		}
		dx := ev.X - r.startX
		if r.width > 0 {
			r.progress = math.Max(-1, math.Min(1, dx/r.width))
			if math.Abs(dx) > r.cfg.SwipeFraction*r.width {
				r.exceeded = sign(dx)
			} else if sign(dx) != r.exceeded {
				r.exceeded = 0
			}
		}
	case PointerEnd:
		if !r.tracking {
			return Transition{}, false
		}
		defer r.reset()
		dir, ok := r.classify(ev)
		if !ok {
			return Transition{}, false
		}
		return r.machine.Swipe(dir, ev.Time), true
	case PointerCancel, PointerLongPress:
		r.reset()
	}
	return Transition{}, false
}

// classify applies the dominant-axis and threshold checks to a release.
func (r *SwipeRecognizer) classify(ev PointerEvent) (Direction, bool) {
	dx := ev.X - r.startX
	dy := ev.Y - r.startY
	if math.Abs(dx) <= math.Abs(dy) {
		return DirectionNone, false
	}
	speed := math.Abs(Velocity(dx, dy, ev.Time-r.startTime).X)
	if speed <= r.cfg.SwipeVelocity && (r.exceeded == 0 || sign(dx) != r.exceeded) {
		return DirectionNone, false
	}
	if dx < 0 {
		return DirectionForward, true
	}
	return DirectionBack, true
}

func (r *SwipeRecognizer) reset() {
	r.tracking = false
	r.progress = 0
	r.exceeded = 0
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
