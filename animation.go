package linkframe

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultSlideDuration is how long a view slides in after a transition.
const DefaultSlideDuration = 250 * time.Millisecond

// SlideTween animates the incoming view's horizontal offset, expressed as a
// fraction of the surface width. Forward transitions slide in from the right
// (+1), back transitions from the left (-1). Offset reaches 0 when Done.
//
// There is no global animation manager; the session calls Update each frame.
type SlideTween struct {
	tween  *gween.Tween
	Offset float64
	Done   bool
}

// NewSlideTween creates a tween for a transition in direction dir.
func NewSlideTween(dir Direction, duration time.Duration, fn ease.TweenFunc) *SlideTween {
	from := float32(1)
	if dir == DirectionBack {
		from = -1
	}
	if fn == nil {
		fn = ease.OutCubic
	}
	return &SlideTween{
		tween:  gween.New(from, 0, float32(duration.Seconds()), fn),
		Offset: float64(from),
	}
}

// Update advances the tween by dt seconds.
func (s *SlideTween) Update(dt float32) {
	if s == nil || s.Done {
		return
	}
	val, finished := s.tween.Update(dt)
	s.Offset = float64(val)
	if finished {
		s.Offset = 0
		s.Done = true
	}
}
