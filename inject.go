package linkframe

// syntheticEvent is a single queued input: exactly one field is set.
type syntheticEvent struct {
	device *DeviceEvent
	key    Key
	host   *HostEvent
}

// InjectDevice queues a raw device event. A zero Time is replaced by the
// frame time when the event is consumed.
func (s *Session) InjectDevice(ev DeviceEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{device: &ev})
}

// InjectPress queues a mouse press at (x, y). Queued events are consumed one
// per Update.
func (s *Session) InjectPress(x, y float64) {
	s.InjectDevice(DeviceEvent{Type: MouseDown, X: x, Y: y})
}

// InjectMove queues a mouse move at (x, y). Between InjectPress and
// InjectRelease it drags.
func (s *Session) InjectMove(x, y float64) {
	s.InjectDevice(DeviceEvent{Type: MouseMove, X: x, Y: y})
}

// InjectRelease queues a mouse release at (x, y).
func (s *Session) InjectRelease(x, y float64) {
	s.InjectDevice(DeviceEvent{Type: MouseUp, X: x, Y: y})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Session) InjectTap(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectSwipe queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (s *Session) InjectSwipe(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectTouchCancel queues a system touch cancellation.
func (s *Session) InjectTouchCancel() {
	s.InjectDevice(DeviceEvent{Type: TouchCancel})
}

// InjectKey queues a key press.
func (s *Session) InjectKey(k Key) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{key: k})
}

// InjectHostEvent queues a host lifecycle event.
func (s *Session) InjectHostEvent(ev HostEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{host: &ev})
}

// PendingInjections returns the number of queued synthetic events.
func (s *Session) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjected pops one synthetic event and routes it exactly like real
// input. It reports whether an event was consumed.
func (s *Session) processInjected(now int64) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue[len(s.injectQueue)-1] = syntheticEvent{}
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch {
	case evt.device != nil:
		ev := *evt.device
		if ev.Time == 0 {
			ev.Time = now
		}
		s.target.Dispatch(ev)
	case evt.host != nil:
		s.applyHostEvent(*evt.host, now)
	case evt.key != KeyUnknown:
		s.HandleKeyAt(evt.key, now)
	}
	return true
}
