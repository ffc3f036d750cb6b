package playtest

import (
	"github.com/phanxgames/tabletop"
)

const (
	locationZ       = 200.0
	locationWidth   = 220.0
	locationButtonH = 30.0
	locationGap     = 4.0
)

// destination is one button of the location overlay.
type destination struct {
	label  string
	key    string
	zone   Zone
	faceUp bool
	move   func(b *Board, c *Card)
}

// destinations lists where c can be sent from its current zone. The entry
// matching the card's current state is left out; Flip is offered where
// flipping is allowed. Tokens can only be removed.
func destinations(c *Card) []destination {
	if c.IsToken() {
		return []destination{{label: "Remove", move: func(b *Board, c *Card) { b.RemoveToken(c) }}}
	}
	from := c.location
	var all []destination
	if c.StartingZone() == MainDeck {
		all = append(all, destination{label: "Hand", key: "h", zone: Hand, faceUp: true,
			move: func(b *Board, c *Card) { b.AddToHand(c, from) }})
	}
	all = append(all,
		destination{label: "Field", key: "f", zone: Field, faceUp: true,
			move: func(b *Board, c *Card) { b.MoveToField(c, from) }},
		destination{label: "Graveyard", key: "g", zone: Graveyard, faceUp: true,
			move: func(b *Board, c *Card) { b.SendToGraveyard(c, from) }},
		destination{label: "Banish", key: "b", zone: Banished, faceUp: true,
			move: func(b *Board, c *Card) { b.Banish(c, from, true) }},
		destination{label: "Banish face-down", zone: Banished,
			move: func(b *Board, c *Card) { b.Banish(c, from, false) }},
	)
	if c.StartingZone() == MainDeck {
		all = append(all, destination{label: "Deck", key: "d", zone: MainDeck,
			move: func(b *Board, c *Card) { b.AddToDeck(c, from) }})
	} else {
		all = append(all, destination{label: "Extra deck", key: "d", zone: ExtraDeck,
			move: func(b *Board, c *Card) { b.AddToExtraDeck(c, from, false) }})
	}
	if c.Type.IsPendulum() {
		all = append(all, destination{label: "Extra deck face-up", zone: ExtraDeck, faceUp: true,
			move: func(b *Board, c *Card) { b.AddToExtraDeck(c, from, true) }})
	}

	var out []destination
	for _, d := range all {
		if d.zone == from && (!hasFaces(from) || d.faceUp == c.faceUp) {
			continue
		}
		out = append(out, d)
	}
	if c.CanFlip() {
		out = append(out, destination{label: "Flip", move: func(b *Board, c *Card) { b.Flip(c) }})
	}
	return out
}

// hasFaces reports whether a zone keeps face-up and face-down cards apart as
// distinct destinations.
func hasFaces(z Zone) bool {
	return z == Banished || z == ExtraDeck
}

// LocationOverlay lists the destinations of one card. Clicking a button, or
// pressing its shortcut, moves the card and closes the overlay.
type LocationOverlay struct {
	tabletop.Overlay

	CardKey string
	Header  *tabletop.Box
	Buttons []*tabletop.Button
}

func newLocationOverlay(b *Board, c *Card, anchor tabletop.Rect) *LocationOverlay {
	dests := destinations(c)
	top := float64(tabletop.CloseButtonSize + 8)
	h := top + float64(len(dests))*(locationButtonH+locationGap) + locationGap

	r := tabletop.Rect{X: anchor.Right() + 8, Y: anchor.Y, W: locationWidth, H: h}
	if r.Right() > b.layout.Screen.Right() {
		r.X = anchor.X - 8 - locationWidth
	}
	r = r.Clamp(b.layout.Screen)

	o := &LocationOverlay{CardKey: c.Key}
	tabletop.InitOverlay(&o.Overlay, o, "location", r, locationZ, b.assets.Close)
	o.DestroyOnExternalClicks(func() []tabletop.Rect { return []tabletop.Rect{anchor} })
	o.OnClose = func() { b.locationClosed(o.Rect()) }

	title := c.ID
	if c.IsToken() {
		title = "Token"
	}
	o.Header = tabletop.NewTextBox("location/header", tabletop.Rect{X: r.X + 8, Y: r.Y + 4, W: r.W - tabletop.CloseButtonSize - 16, H: tabletop.CloseButtonSize}, locationZ+1, title, 16)
	o.Header.TextLeft = true
	o.AddChild(o.Header)

	y := r.Y + top
	for _, d := range dests {
		cfg := tabletop.ButtonConfig{
			LeftClick: func() {
				if card := b.CardByKey(o.CardKey); card != nil {
					d.move(b, card)
				}
				o.Dismiss()
			},
		}
		if d.key != "" {
			cfg.LeftTriggerKeys = []string{d.key}
		}
		btn := tabletop.NewButton("location/"+d.label, tabletop.Rect{X: r.X + 8, Y: y, W: r.W - 16, H: locationButtonH}, locationZ+1, d.label, cfg)
		btn.TextSize = 16
		o.AddChild(btn)
		o.Buttons = append(o.Buttons, btn)
		y += locationButtonH + locationGap
	}
	return o
}

// Labels returns the button labels in display order.
func (o *LocationOverlay) Labels() []string {
	out := make([]string, len(o.Buttons))
	for i, b := range o.Buttons {
		out[i] = b.Text
	}
	return out
}
