package ecs

import (
	"testing"

	"github.com/phanxgames/cityscape"

	"github.com/yohamta/donburi"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []cityscape.HoverEvent
	HoverEventType.Subscribe(world, func(w donburi.World, e cityscape.HoverEvent) {
		received = append(received, e)
	})

	store.EmitEvent(cityscape.HoverEvent{
		Type:     cityscape.EventHoverEnter,
		EntityID: 42,
		ScreenX:  100,
		ScreenY:  200,
		Active:   true,
	})
	store.EmitEvent(cityscape.HoverEvent{
		Type:     cityscape.EventHoverLeave,
		EntityID: 42,
	})

	// Events are queued until processed.
	HoverEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != cityscape.EventHoverEnter || e0.EntityID != 42 || !e0.Active {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.ScreenX != 100 || e0.ScreenY != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.ScreenX, e0.ScreenY)
	}
	if received[1].Type != cityscape.EventHoverLeave {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_FromScene(t *testing.T) {
	world := donburi.NewWorld()
	var count int
	HoverEventType.Subscribe(world, func(w donburi.World, e cityscape.HoverEvent) {
		count++
	})

	scene := cityscape.NewScene(cityscape.Rect{Width: 64, Height: 64})
	scene.SetEntityStore(NewDonburiStore(world))
	cam := scene.Camera()
	cam.Distance = 100
	cam.Orbit(90, 0)

	b := cityscape.NewBuilding("b", cityscape.Vec3{X: -10, Z: -10}, cityscape.Vec3{X: 10, Y: 5, Z: 10}, nil)
	b.EntityID = 7
	scene.Root().AddChild(b)

	scene.InjectMove(32, 32)
	scene.Update()
	scene.InjectMove(1, 1)
	scene.Update()
	HoverEventType.ProcessEvents(world)

	if count != 2 {
		t.Errorf("received %d events, want 2 (enter and leave)", count)
	}
}
