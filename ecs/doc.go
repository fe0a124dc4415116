// Package ecs bridges linkframe view transitions into a [Donburi] world.
//
// [NewDonburiSink] returns a [linkframe.TransitionSink] that publishes every
// transition to [TransitionEventType]. Subscribe to it in your ECS systems:
//
//	sink := ecs.NewDonburiSink(world)
//	sess, err := linkframe.NewSession(linkframe.SessionConfig{Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
