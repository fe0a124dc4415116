package ebitenui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/linkframe"
)

// reader is the slice of ebiten's input API the Source polls each tick.
type reader interface {
	CursorPosition() (int, int)
	MousePressed() bool
	AppendTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID
	AppendJustPressedTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID
	AppendJustReleasedTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID
	TouchPosition(id ebiten.TouchID) (int, int)
	PreviousTouchPosition(id ebiten.TouchID) (int, int)
	KeyJustPressed(k ebiten.Key) bool
}

// ebitenReader reads live input through ebiten and inpututil.
type ebitenReader struct{}

func (ebitenReader) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenReader) MousePressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (ebitenReader) AppendTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID {
	return ebiten.AppendTouchIDs(dst)
}

func (ebitenReader) AppendJustPressedTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(dst)
}

func (ebitenReader) AppendJustReleasedTouchIDs(dst []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustReleasedTouchIDs(dst)
}

func (ebitenReader) TouchPosition(id ebiten.TouchID) (int, int) { return ebiten.TouchPosition(id) }

func (ebitenReader) PreviousTouchPosition(id ebiten.TouchID) (int, int) {
	return inpututil.TouchPositionInPreviousTick(id)
}

func (ebitenReader) KeyJustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// keyMap translates ebiten keys into navigation keys.
var keyMap = []struct {
	ebiten ebiten.Key
	key    linkframe.Key
}{
	{ebiten.KeyArrowLeft, linkframe.KeyArrowLeft},
	{ebiten.KeyArrowRight, linkframe.KeyArrowRight},
	{ebiten.KeyArrowUp, linkframe.KeyArrowUp},
	{ebiten.KeyArrowDown, linkframe.KeyArrowDown},
	{ebiten.KeyEnter, linkframe.KeyEnter},
	{ebiten.KeyNumpadEnter, linkframe.KeyEnter},
	{ebiten.KeyEscape, linkframe.KeyEscape},
}

// actionMap binds keys to session actions that have no navigation key.
var actionMap = []struct {
	ebiten ebiten.Key
	run    func(*linkframe.Session)
}{
	{ebiten.KeyBracketLeft, func(s *linkframe.Session) { s.RequestSwipe(linkframe.DirectionBack) }},
	{ebiten.KeyBracketRight, func(s *linkframe.Session) { s.RequestSwipe(linkframe.DirectionForward) }},
	{ebiten.KeyP, (*linkframe.Session).TogglePinSelected},
	{ebiten.KeyF12, func(s *linkframe.Session) { s.Screenshot("manual") }},
}

// Source polls mouse, touch, and keyboard state once per tick and feeds
// the session: device events go to its EventTarget, keys to HandleKey.
type Source struct {
	sess   *linkframe.Session
	in     reader
	width  int
	height int

	mouseDown bool
	mouseGone bool // left the window while pressed; wait for release
	mouseX    int
	mouseY    int

	touches  map[ebiten.TouchID]linkframe.TouchPoint
	ids      []ebiten.TouchID
	pressed  []ebiten.TouchID
	released []ebiten.TouchID
}

// NewSource creates a Source reading live ebiten input.
func NewSource(sess *linkframe.Session, width, height int) *Source {
	return newSource(sess, ebitenReader{}, width, height)
}

func newSource(sess *linkframe.Session, in reader, width, height int) *Source {
	return &Source{
		sess:    sess,
		in:      in,
		width:   width,
		height:  height,
		touches: make(map[ebiten.TouchID]linkframe.TouchPoint),
	}
}

// SetBounds updates the window size used to detect the cursor leaving.
func (s *Source) SetBounds(width, height int) {
	s.width, s.height = width, height
}

// Poll reads this tick's input, stamping device events with now, and
// returns the keys pressed this tick after routing them to the session.
func (s *Source) Poll(now int64) []linkframe.Key {
	target := s.sess.Target()
	s.pollTouches(target, now)
	if len(s.touches) == 0 && len(s.released) == 0 {
		s.pollMouse(target, now)
	}

	var keys []linkframe.Key
	for _, m := range keyMap {
		if s.in.KeyJustPressed(m.ebiten) {
			s.sess.HandleKeyAt(m.key, now)
			keys = append(keys, m.key)
		}
	}
	for _, a := range actionMap {
		if s.in.KeyJustPressed(a.ebiten) {
			a.run(s.sess)
		}
	}
	return keys
}

func (s *Source) pollMouse(target *linkframe.EventTarget, now int64) {
	x, y := s.in.CursorPosition()
	pressed := s.in.MousePressed()
	fx, fy := float64(x), float64(y)

	switch {
	case s.mouseGone:
		if !pressed {
			s.mouseGone = false
		}
	case pressed && !s.mouseDown:
		s.mouseDown = true
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.MouseDown, Time: now, X: fx, Y: fy})
	case pressed && s.outside(x, y):
		s.mouseDown = false
		s.mouseGone = true
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.MouseLeave, Time: now, X: fx, Y: fy})
	case pressed && (x != s.mouseX || y != s.mouseY):
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.MouseMove, Time: now, X: fx, Y: fy})
	case !pressed && s.mouseDown:
		s.mouseDown = false
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.MouseUp, Time: now, X: fx, Y: fy})
	}
	s.mouseX, s.mouseY = x, y
}

func (s *Source) outside(x, y int) bool {
	if s.width <= 0 || s.height <= 0 {
		return false
	}
	return x < 0 || y < 0 || x >= s.width || y >= s.height
}

func (s *Source) pollTouches(target *linkframe.EventTarget, now int64) {
	s.ids = s.in.AppendTouchIDs(s.ids[:0])
	s.pressed = s.in.AppendJustPressedTouchIDs(s.pressed[:0])
	s.released = s.in.AppendJustReleasedTouchIDs(s.released[:0])

	current := make([]linkframe.TouchPoint, 0, len(s.ids))
	moved := false
	for _, id := range s.ids {
		x, y := s.in.TouchPosition(id)
		p := linkframe.TouchPoint{ID: int(id), X: float64(x), Y: float64(y)}
		if last, ok := s.touches[id]; ok && (last.X != p.X || last.Y != p.Y) {
			moved = true
		}
		s.touches[id] = p
		current = append(current, p)
	}

	if moved {
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.TouchMove, Time: now, Touches: current})
	}
	for _, id := range s.released {
		x, y := s.in.PreviousTouchPosition(id)
		delete(s.touches, id)
		target.Dispatch(linkframe.DeviceEvent{
			Type:    linkframe.TouchEnd,
			Time:    now,
			Touches: current,
			Changed: []linkframe.TouchPoint{{ID: int(id), X: float64(x), Y: float64(y)}},
		})
	}
	for range s.pressed {
		target.Dispatch(linkframe.DeviceEvent{Type: linkframe.TouchStart, Time: now, Touches: current})
	}
}
