package ecs

import (
	"fmt"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ZoneChange describes one card moving between board zones.
type ZoneChange struct {
	Card   string // board key of the card
	CardID string // passcode, empty for tokens
	From   string
	To     string
	FaceUp bool
}

// String renders the change for the action log.
func (e ZoneChange) String() string {
	name := e.CardID
	if name == "" {
		name = e.Card
	}
	if e.To == "" {
		return fmt.Sprintf("%s removed from %s", name, e.From)
	}
	face := ""
	if !e.FaceUp {
		face = " (face-down)"
	}
	return fmt.Sprintf("%s: %s -> %s%s", name, e.From, e.To, face)
}

// ZoneChangeEventType is the donburi event type zone changes are published to.
var ZoneChangeEventType = events.NewEventType[ZoneChange]()

// EventStore receives zone changes from the board.
type EventStore interface {
	Publish(e ZoneChange)
	Subscribe(fn func(e ZoneChange))
	// Process delivers queued events to subscribers.
	Process()
}

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a donburi world. Published
// changes are queued until Process.
func NewDonburiStore(world donburi.World) EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) Publish(e ZoneChange) {
	ZoneChangeEventType.Publish(s.world, e)
}

func (s *donburiStore) Subscribe(fn func(e ZoneChange)) {
	ZoneChangeEventType.Subscribe(s.world, func(_ donburi.World, e ZoneChange) {
		fn(e)
	})
}

func (s *donburiStore) Process() {
	ZoneChangeEventType.ProcessEvents(s.world)
}
