package playtest

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/deck"
	"github.com/phanxgames/tabletop/ecs"
)

// Board owns the six zone lists and every card as a child. Transitions are
// total: a card that is not in the stated previous zone is left alone.
//
// The processing list holds the cards that take part in the tick (field
// cards and the visible hand window). Later entries are processed first and
// drawn on top.
type Board struct {
	tabletop.Node

	layout Layout
	assets Assets
	cache  *tabletop.Cache
	rng    *rand.Rand
	events ecs.EventStore

	zones      map[Zone][]*Card
	cards      map[string]*Card
	processing []*Card
	handStart  int
	handDirty  bool

	tokenSeq int
	tokenArt tabletop.Handle

	preview  *LargeCardPreview
	grid     *CardGridOverlay
	location *LocationOverlay
	// lastLocation is the rect of a location overlay closed during tick
	// lastLocationTick; the grid treats clicks there as internal.
	lastLocation     tabletop.Rect
	lastLocationTick uint64
}

// NewBoard creates an empty board. rng drives shuffles; cache provides token
// art.
func NewBoard(l Layout, assets Assets, cache *tabletop.Cache, rng *rand.Rand) *Board {
	b := &Board{
		layout: l,
		assets: assets,
		cache:  cache,
		rng:    rng,
		zones:  make(map[Zone][]*Card, len(Zones)),
		cards:  make(map[string]*Card),
	}
	b.Init(b, "board", l.Screen, cardZ)
	b.Static = true
	return b
}

// SetEventStore routes zone changes to s. nil disables publishing.
func (b *Board) SetEventStore(s ecs.EventStore) { b.events = s }

// Layout returns the screen layout the board was built for.
func (b *Board) Layout() Layout { return b.layout }

// Cards returns the cards in z, head first. The slice MUST NOT be mutated.
func (b *Board) Cards(z Zone) []*Card { return b.zones[z] }

// CardByKey resolves a weak card reference. It returns nil once the card is
// gone.
func (b *Board) CardByKey(key string) *Card {
	c := b.cards[key]
	if c == nil || c.Destroyed() {
		return nil
	}
	return c
}

// Processing returns the processed cards, back to front.
func (b *Board) Processing() []*Card { return b.processing }

// Preview returns the large-card preview, or nil before the scene wires it.
func (b *Board) Preview() *LargeCardPreview { return b.preview }

// Grid returns the open grid overlay, or nil.
func (b *Board) Grid() *CardGridOverlay {
	if b.grid == nil || b.grid.Destroyed() {
		return nil
	}
	return b.grid
}

// LocationOverlay returns the open location overlay, or nil.
func (b *Board) LocationOverlay() *LocationOverlay {
	if b.location == nil || b.location.Destroyed() {
		return nil
	}
	return b.location
}

// --- Hand window ---

// HandSlots is how many hand cards are shown at once.
func (b *Board) HandSlots() int { return b.layout.HandSlots() }

// HandStart is the index of the first visible hand card.
func (b *Board) HandStart() int { return b.handStart }

// VisibleHand returns the hand window.
func (b *Board) VisibleHand() []*Card {
	hand := b.zones[Hand]
	start := min(b.handStart, len(hand))
	end := min(start+b.HandSlots(), len(hand))
	return hand[start:end]
}

// ScrollHand shifts the hand window by delta cards.
func (b *Board) ScrollHand(delta int) {
	b.handStart += delta
	b.refresh()
}

func (b *Board) clampHandStart() {
	b.handStart = min(max(b.handStart, 0), max(0, len(b.zones[Hand])-b.HandSlots()))
}

// sortVisibleHand orders the window by x once a drag inside it settles.
func (b *Board) sortVisibleHand() {
	slices.SortStableFunc(b.VisibleHand(), func(a, c *Card) int {
		switch {
		case a.X() < c.X():
			return -1
		case a.X() > c.X():
			return 1
		}
		return 0
	})
}

// handInsertIndex is where a card dragged into the hand lands, from the
// slot under its center. It always falls inside the window.
func (b *Board) handInsertIndex(c *Card) int {
	cx, _ := c.Rect().Center()
	slot := int(math.Floor((cx - b.layout.HandBox.X) / (b.layout.CardW + b.layout.Spacing)))
	slot = min(max(slot, 0), len(b.VisibleHand()), b.HandSlots()-1)
	return min(b.handStart+slot, len(b.zones[Hand]))
}

// refresh restores the processing invariants after any change: the hand
// window is clamped, processing holds exactly the field and visible hand
// cards, card depth follows processing order, and resting hand cards sit in
// their slots.
func (b *Board) refresh() {
	b.clampHandStart()
	visible := b.VisibleHand()
	active := make(map[*Card]bool, len(b.zones[Field])+len(visible))
	for _, c := range b.zones[Field] {
		active[c] = true
	}
	for _, c := range visible {
		active[c] = true
	}

	kept := make([]*Card, 0, len(b.processing)+len(active))
	for _, c := range b.processing {
		if active[c] {
			kept = append(kept, c)
			delete(active, c)
		} else {
			c.setZ(cardZ)
		}
	}
	for _, group := range [][]*Card{b.zones[Field], visible} {
		for _, c := range group {
			if active[c] {
				kept = append(kept, c)
				delete(active, c)
			}
		}
	}
	b.processing = kept

	for i, c := range b.processing {
		c.setZ(cardZ + float64(i+1)*cardZStep)
	}
	for i, c := range visible {
		if !c.Moving {
			c.SetRect(b.layout.HandSlot(i))
		}
	}
}

// Bump moves c to the end of the processing list so it is handled first and
// drawn on top.
func (b *Board) Bump(c *Card) {
	i := slices.Index(b.processing, c)
	if i < 0 || i == len(b.processing)-1 {
		return
	}
	b.processing = append(slices.Delete(b.processing, i, i+1), c)
	for j, pc := range b.processing {
		pc.setZ(cardZ + float64(j+1)*cardZStep)
	}
}

// --- Object ---

// ScheduleProcessing lists the processed cards in order, then the board.
func (b *Board) ScheduleProcessing() []tabletop.Object {
	var order []tabletop.Object
	for _, c := range b.processing {
		if !c.Destroyed() {
			order = append(order, c.ScheduleProcessing()...)
		}
	}
	return append(order, b)
}

// Process settles the hand after a drag, re-lays out the board and delivers
// queued zone-change events.
func (b *Board) Process() {
	if b.handDirty {
		b.sortVisibleHand()
		b.handDirty = false
	}
	b.refresh()
	if b.events != nil {
		b.events.Process()
	}
}

// Displayables draws only the processed cards; piles and the hidden part of
// the hand stay off screen.
func (b *Board) Displayables() []*tabletop.Box {
	var out []*tabletop.Box
	for _, c := range b.processing {
		if !c.Destroyed() {
			out = append(out, c.Displayables()...)
		}
	}
	return out
}

// --- Cards ---

// place adds a card to the tail of z without publishing. Used while building
// or restoring the board.
func (b *Board) place(c *Card, z Zone) {
	b.AddChild(c)
	b.cards[c.Key] = c
	b.zones[z] = append(b.zones[z], c)
	c.location = z
	if z.pile() {
		c.park(b.layout.ZoneRect(z))
	}
}

// take removes c from from. It reports false, changing nothing, when c is
// not there.
func (b *Board) take(c *Card, from Zone) bool {
	if c == nil || c.Destroyed() || c.location != from {
		return false
	}
	i := slices.Index(b.zones[from], c)
	if i < 0 {
		return false
	}
	b.zones[from] = slices.Delete(b.zones[from], i, i+1)
	return true
}

// land finishes a transition into to.
func (b *Board) land(c *Card, from, to Zone, faceUp bool) {
	c.location = to
	c.setFaceUp(faceUp)
	if to != Field && c.Rotation() != 0 {
		c.rotateTo(0)
	}
	if to.pile() {
		c.StopMovement()
		c.park(b.layout.ZoneRect(to))
	}
	b.publish(c, string(from), string(to))
	b.refresh()
}

func (b *Board) publish(c *Card, from, to string) {
	if b.events == nil {
		return
	}
	b.events.Publish(ecs.ZoneChange{Card: c.Key, CardID: c.ID, From: from, To: to, FaceUp: c.faceUp})
}

func (b *Board) prepend(z Zone, c *Card) {
	b.zones[z] = slices.Insert(b.zones[z], 0, c)
}

// Draw moves the head of the main deck to the hand. No-op on an empty deck.
func (b *Board) Draw() {
	if deck := b.zones[MainDeck]; len(deck) > 0 {
		b.AddToHand(deck[0], MainDeck)
	}
}

// AddToHand moves c into the hand face-up. A card being dragged is inserted
// at the slot under it; otherwise it is appended.
func (b *Board) AddToHand(c *Card, from Zone) {
	if !b.take(c, from) {
		return
	}
	idx := len(b.zones[Hand])
	if c.Moving {
		idx = b.handInsertIndex(c)
	}
	b.zones[Hand] = slices.Insert(b.zones[Hand], idx, c)
	b.land(c, from, Hand, true)
}

// MoveToField appends c to the field face-up. Cards coming from a pile
// appear in the middle of the field.
func (b *Board) MoveToField(c *Card, from Zone) {
	if !b.take(c, from) {
		return
	}
	b.zones[Field] = append(b.zones[Field], c)
	if from.pile() {
		c.SetRect(centered(b.layout.Field, b.layout.CardW, b.layout.CardH))
	}
	b.land(c, from, Field, true)
}

// SendToGraveyard puts c face-up on top of the graveyard.
func (b *Board) SendToGraveyard(c *Card, from Zone) {
	if !b.take(c, from) {
		return
	}
	b.prepend(Graveyard, c)
	b.land(c, from, Graveyard, true)
}

// Banish puts c on top of the banished pile.
func (b *Board) Banish(c *Card, from Zone, faceUp bool) {
	if !b.take(c, from) {
		return
	}
	b.prepend(Banished, c)
	b.land(c, from, Banished, faceUp)
}

// AddToDeck puts c face-down on top of the main deck.
func (b *Board) AddToDeck(c *Card, from Zone) {
	if !b.take(c, from) {
		return
	}
	b.prepend(MainDeck, c)
	b.land(c, from, MainDeck, false)
}

// AddToExtraDeck puts c on top of the extra deck.
func (b *Board) AddToExtraDeck(c *Card, from Zone, faceUp bool) {
	if !b.take(c, from) {
		return
	}
	b.prepend(ExtraDeck, c)
	b.land(c, from, ExtraDeck, faceUp)
}

// Shuffle permutes the main deck uniformly.
func (b *Board) Shuffle() {
	deck := b.zones[MainDeck]
	b.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// Flip turns c over where that is allowed.
func (b *Board) Flip(c *Card) {
	if c == nil || c.Destroyed() || !c.CanFlip() {
		return
	}
	c.setFaceUp(!c.faceUp)
	b.publish(c, string(c.location), string(c.location))
}

// SpawnToken creates a token in the middle of the field.
func (b *Board) SpawnToken() *Card {
	if b.tokenArt == tabletop.NoHandle || !b.cache.Has(b.tokenArt) {
		w, h := int(b.layout.CardW), int(b.layout.CardH)
		b.tokenArt = b.cache.SetImage(deck.FrameArt(deck.Token, w, h), tabletop.NoHandle)
	}
	b.tokenSeq++
	key := fmt.Sprintf("t%d", b.tokenSeq)
	c := newCard(key, "", deck.Token, b.tokenArt, b.assets.CardBack,
		centered(b.layout.Field, b.layout.CardW, b.layout.CardH))
	b.place(c, Field)
	c.setFaceUp(true)
	b.publish(c, "", string(Field))
	b.refresh()
	return c
}

// RemoveToken destroys a token. Other cards are never removed.
func (b *Board) RemoveToken(c *Card) {
	if c == nil || !c.IsToken() || !b.take(c, c.location) {
		return
	}
	delete(b.cards, c.Key)
	b.publish(c, string(c.location), "")
	c.Destroy()
	b.refresh()
}

// --- Overlays ---

// OpenGrid shows the contents of z. Opening the zone already shown closes it;
// any other open grid is closed first.
func (b *Board) OpenGrid(z Zone) {
	if g := b.Grid(); g != nil {
		g.Dismiss()
		if g.Zone == z {
			return
		}
	}
	s := b.Scene()
	if s == nil {
		return
	}
	b.grid = newCardGridOverlay(b, z)
	s.Add(b.grid)
}

// OpenLocationOverlay shows the destinations for c next to anchor, replacing
// any location overlay already open.
func (b *Board) OpenLocationOverlay(c *Card, anchor tabletop.Rect) {
	if o := b.LocationOverlay(); o != nil {
		o.Dismiss()
	}
	s := b.Scene()
	if s == nil || c == nil || c.Destroyed() {
		return
	}
	b.location = newLocationOverlay(b, c, anchor)
	s.Add(b.location)
}

// overlayRects are the rectangles whose clicks do not close the grid.
func (b *Board) overlayRects() []tabletop.Rect {
	l := b.layout
	rects := []tabletop.Rect{l.ExtraDeck, l.Graveyard, l.Banished, l.MainDeck, l.Preview}
	if o := b.LocationOverlay(); o != nil {
		rects = append(rects, o.Rect())
	}
	if s := b.Scene(); s != nil && b.lastLocationTick == s.Manager().Ticks() {
		rects = append(rects, b.lastLocation)
	}
	return rects
}

func (b *Board) locationClosed(r tabletop.Rect) {
	b.lastLocation = r
	if s := b.Scene(); s != nil {
		b.lastLocationTick = s.Manager().Ticks()
	}
}

func centered(area tabletop.Rect, w, h float64) tabletop.Rect {
	cx, cy := area.Center()
	return tabletop.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}
