package ecs

import (
	"github.com/phanxgames/linkframe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransitionEventType is the Donburi event type for view transitions.
// Events are queued; call ProcessEvents (or events.ProcessAllEvents) from a
// system to deliver them.
var TransitionEventType = events.NewEventType[linkframe.Transition]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a TransitionSink backed by a Donburi world.
func NewDonburiSink(world donburi.World) linkframe.TransitionSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitTransition(tr linkframe.Transition) {
	TransitionEventType.Publish(s.world, tr)
}
