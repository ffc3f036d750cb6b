package playtest

// Zone is one of the six places a card can be.
type Zone string

const (
	MainDeck  Zone = "main_deck"
	ExtraDeck Zone = "extra_deck"
	Hand      Zone = "hand"
	Field     Zone = "field"
	Graveyard Zone = "graveyard"
	Banished  Zone = "banished"
)

// Zones lists every zone in a fixed order.
var Zones = []Zone{MainDeck, ExtraDeck, Hand, Field, Graveyard, Banished}

// Title is the zone name shown in grid headers.
func (z Zone) Title() string {
	switch z {
	case MainDeck:
		return "Deck"
	case ExtraDeck:
		return "Extra Deck"
	case Hand:
		return "Hand"
	case Field:
		return "Field"
	case Graveyard:
		return "Graveyard"
	case Banished:
		return "Banished"
	}
	return string(z)
}

// pile reports whether cards in z are stacked out of sight.
func (z Zone) pile() bool {
	return z != Hand && z != Field
}
