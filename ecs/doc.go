// Package ecs bridges board zone changes into a [Donburi] world.
//
// The board publishes one [ZoneChange] per successful transition through an
// [EventStore]. [NewDonburiStore] queues them as typed donburi events;
// subscribers receive them when the store is processed, once per tick.
//
// Usage:
//
//	store := ecs.NewDonburiStore(donburi.NewWorld())
//	store.Subscribe(func(e ecs.ZoneChange) { log.Println(e) })
//	board.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
