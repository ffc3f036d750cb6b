package playtest

import (
	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/deck"
)

const (
	cardZ     = 10.0
	cardZStep = 0.05
)

// Card is a draggable card on a Board. Its parent is the board; all zone
// changes go through the board's transitions.
type Card struct {
	tabletop.MobileButton

	Key  string // unique on the board: m00, e03, t1...
	ID   string // passcode, empty for tokens
	Type deck.CardType

	location Zone
	faceUp   bool
	art      tabletop.Handle
	back     tabletop.Handle
}

func newCard(key, id string, t deck.CardType, art, back tabletop.Handle, r tabletop.Rect) *Card {
	c := &Card{Key: key, ID: id, Type: t, art: art, back: back}
	tabletop.InitMobileButton(&c.MobileButton, c, "card-"+key, r, cardZ, tabletop.ButtonConfig{
		LeftClick:   c.selected,
		RightClick:  c.openLocationOverlay,
		HoldOutside: true,
	})
	c.Opaque = true
	c.Image = back
	return c
}

// Board returns the owning board, or nil once the card was removed.
func (c *Card) Board() *Board {
	b, _ := c.Parent().(*Board)
	return b
}

// Location returns the zone holding the card.
func (c *Card) Location() Zone { return c.location }

// FaceUp reports whether the card shows its art.
func (c *Card) FaceUp() bool { return c.faceUp }

// Art returns the handle of the card's source art.
func (c *Card) Art() tabletop.Handle { return c.art }

// IsToken reports whether the card was spawned during play.
func (c *Card) IsToken() bool { return c.Type == deck.Token }

// StartingZone is the deck the card belongs to.
func (c *Card) StartingZone() Zone {
	if c.Type.StartsInExtraDeck() {
		return ExtraDeck
	}
	return MainDeck
}

// CanFlip reports whether the card may be turned over where it is. Field and
// banished cards can; extra-deck cards only when they are pendulums from the
// main deck.
func (c *Card) CanFlip() bool {
	if c.IsToken() {
		return false
	}
	switch c.location {
	case Field, Banished:
		return true
	case ExtraDeck:
		return c.Type.IsPendulum() && c.StartingZone() == MainDeck
	}
	return false
}

// Process runs the drag and then the zone collision rules.
func (c *Card) Process() {
	wasMoving := c.Moving
	c.MobileButton.Process()
	if c.Destroyed() {
		return
	}
	b := c.Board()
	if b == nil {
		return
	}
	if wasMoving && !c.Moving && c.location == Hand {
		b.handDirty = true
	}
	c.collide(b)
}

// collide applies the zone rules against the board geometry. Tokens never
// leave the field this way.
func (c *Card) collide(b *Board) {
	l := b.layout
	if c.location == Hand && !c.Rect().Intersects(l.HandBox) {
		b.MoveToField(c, Hand)
	}
	if c.location != Hand && c.location != Field {
		return
	}
	start := c.StartingZone()
	if !c.IsToken() {
		if c.location == Field && c.Moving && start == MainDeck && c.Rect().Intersects(l.HandBox) {
			if c.Rotation() != 0 {
				c.rotateTo(0)
			}
			if c.Rect().Intersects(l.HandBox) {
				b.AddToHand(c, Field)
			}
		}
		if start == MainDeck && c.Rect().Intersects(l.MainDeck) {
			b.AddToDeck(c, c.location)
			return
		}
		if start == ExtraDeck && c.Rect().Intersects(l.ExtraDeck) {
			b.AddToExtraDeck(c, c.location, false)
			return
		}
	}
	if c.location == Field && !c.Moving {
		r := c.Rect()
		if cl := r.Clamp(l.Field); cl != r {
			c.SetPos(cl.X, cl.Y)
		}
	}
}

func (c *Card) selected() {
	b := c.Board()
	if b == nil {
		return
	}
	b.Bump(c)
	if b.preview != nil {
		b.preview.Show(c)
	}
}

func (c *Card) openLocationOverlay() {
	if b := c.Board(); b != nil {
		b.OpenLocationOverlay(c, c.Rect())
	}
}

func (c *Card) setFaceUp(up bool) {
	c.faceUp = up
	if up {
		c.Image = c.art
	} else {
		c.Image = c.back
	}
}

// Turn rotates a field card a quarter turn, or back to upright when it is
// already sideways. Cards elsewhere never rotate.
func (c *Card) Turn() {
	if c.location != Field || c.Destroyed() {
		return
	}
	if c.Rotation() == 0 {
		c.rotateTo(90)
	} else {
		c.rotateTo(0)
	}
}

func (c *Card) rotateTo(r tabletop.Rotation) {
	if d := int(r) - int(c.Rotation()); d != 0 {
		c.Rotate(d)
		c.Border.Process()
	}
}

// park rests the card, upright, on a pile's button.
func (c *Card) park(r tabletop.Rect) {
	c.rotateTo(0)
	c.SetRect(r)
	c.Border.Process()
}

// setZ sets the depth of the card and its outline.
func (c *Card) setZ(z float64) {
	c.Z = z
	c.Border.Z = z + 0.01
	for _, s := range c.Border.Sides() {
		s.Z = z + 0.01
	}
}
