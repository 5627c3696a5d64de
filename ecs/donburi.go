package ecs

import (
	"github.com/phanxgames/cityscape"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// HoverEventType is the Donburi event type for cityscape hover events.
var HoverEventType = events.NewEventType[cityscape.HoverEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Hover events are published to HoverEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) cityscape.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event cityscape.HoverEvent) {
	HoverEventType.Publish(s.world, event)
}
