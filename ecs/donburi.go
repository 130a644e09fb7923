package ecs

import (
	"github.com/phanxgames/vision"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType is the Donburi event type for vision animation events.
var AnimationEventType = events.NewEventType[vision.AnimationEvent]()

// DonburiListener publishes the animation events it selects into a world.
// Events are queued until ProcessEvents runs.
type DonburiListener struct {
	world    donburi.World
	selector vision.Selector
}

// NewDonburiListener creates a listener that publishes events accepted by
// selector to world.
func NewDonburiListener(world donburi.World, selector vision.Selector) *DonburiListener {
	return &DonburiListener{world: world, selector: selector}
}

// AnimationEventSelector implements vision.Listener.
func (l *DonburiListener) AnimationEventSelector() vision.Selector { return l.selector }

// OnAnimationEvent implements vision.Listener.
func (l *DonburiListener) OnAnimationEvent(e vision.AnimationEvent) {
	AnimationEventType.Publish(l.world, e)
}
