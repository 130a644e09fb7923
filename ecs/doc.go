// Package ecs provides ECS adapters for vision's animation events.
//
// The primary adapter is [NewDonburiListener], which forwards animation
// events (frame changes, completions, sprite swaps) from a sprite drawer into
// a [Donburi] world as typed events. Subscribe to [AnimationEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	l := ecs.NewDonburiListener(world, vision.SelectOnly(vision.AnimationCompleted))
//	handle := drawer.Listeners().Add(l)
//	defer handle.Remove()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
