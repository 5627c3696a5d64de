// Package ecs provides ECS adapters for cityscape's hover events.
//
// The primary adapter is [NewDonburiStore], which bridges hover enter and
// leave events into a [Donburi] world as typed events. Subscribe to
// [HoverEventType] in your ECS systems to receive them. Only buildings with
// a nonzero EntityID produce events.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
