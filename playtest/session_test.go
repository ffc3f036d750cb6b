package playtest

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameDealsStartingHand(t *testing.T) {
	g := newGame(t)
	b := g.board()

	assert.Len(t, b.Cards(MainDeck), 35)
	assert.Len(t, b.Cards(ExtraDeck), len(extraCards))
	require.Len(t, b.Cards(Hand), 5)
	for _, z := range []Zone{Field, Graveyard, Banished} {
		assert.Empty(t, b.Cards(z), z)
	}
	for _, c := range b.Cards(Hand) {
		assert.True(t, c.FaceUp(), c.Key)
		assert.Zero(t, c.Rotation(), c.Key)
	}
	for _, c := range b.Cards(MainDeck) {
		assert.False(t, c.FaceUp(), c.Key)
	}
	assert.ElementsMatch(t, keys(b.Cards(Hand)), keys(b.Processing()))
	checkInvariants(t, b)
}

func TestNewGameWithoutStartingHand(t *testing.T) {
	fsys := testFiles(t, 40)
	m := tabletop.NewManager(screenW, screenH, fsys, tabletop.NewScriptedInput())
	opts := testOptions(t, fsys)
	none := 0
	opts.Board.StartingHand = &none
	Register(m, opts)
	require.NoError(t, m.ChangeScene(tabletop.ScenePlaytesting, nil, "test"))

	b := SessionOf(m.Current()).Board
	assert.Empty(t, b.Cards(Hand))
	assert.Len(t, b.Cards(MainDeck), 40)
	checkInvariants(t, b)
}

func TestNewGameClassifiesArt(t *testing.T) {
	g := newGame(t)
	b := g.board()
	for i, want := range []deck.CardType{deck.Effect, deck.Normal, deck.Spell, deck.Trap, deck.EffectPendulum} {
		c := b.CardByKey(fmt.Sprintf("m%02d", i))
		require.NotNil(t, c)
		assert.Equal(t, want, c.Type, c.Key)
		assert.Equal(t, mainID(i), c.ID)
	}
	for i, e := range extraCards {
		c := b.Cards(ExtraDeck)[i]
		assert.Equal(t, e.id, c.ID)
		assert.Equal(t, e.t, c.Type)
		assert.Equal(t, ExtraDeck, c.StartingZone())
	}
}

func TestNewGameMissingArtFails(t *testing.T) {
	fsys := testFiles(t, 40)
	delete(fsys, CardArtPath("Images", mainID(3)))
	m := tabletop.NewManager(screenW, screenH, fsys, tabletop.NewScriptedInput())
	Register(m, testOptions(t, fsys))
	err := m.ChangeScene(tabletop.ScenePlaytesting, nil, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), mainID(3))
}

func TestNewGameFromDeckValue(t *testing.T) {
	fsys := testFiles(t, 10)
	m := tabletop.NewManager(screenW, screenH, fsys, tabletop.NewScriptedInput())
	Register(m, testOptions(t, fsys))
	d := &deck.Deck{Name: "inline", Main: []string{mainID(0), mainID(1), mainID(2)}}
	require.NoError(t, m.ChangeScene(tabletop.ScenePlaytesting, nil, d))

	b := SessionOf(m.Current()).Board
	assert.Empty(t, b.Cards(MainDeck))
	assert.Len(t, b.Cards(Hand), 3)
	assert.Empty(t, b.Cards(ExtraDeck))
}

func TestDragHandCardToField(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[0]

	g.dragTo(t, c, 600, 250)

	assert.Equal(t, Field, c.Location())
	assert.True(t, c.FaceUp())
	assert.Len(t, b.Cards(Hand), 4)
	assert.Equal(t, []*Card{c}, b.Cards(Field))
	assert.Same(t, c, b.Processing()[len(b.Processing())-1], "dragged card should be on top")
	x, y := c.Rect().Center()
	assert.InDelta(t, 600, x, 0.001)
	assert.InDelta(t, 250, y, 0.001)
	assert.Contains(t, g.sess().LastLog(), "hand -> field")
	checkInvariants(t, b)
}

func TestRotateWithPreviewKey(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[0]
	g.dragTo(t, c, 600, 250)
	require.Same(t, c, g.sess().Preview.Card())

	g.key(t, "r")
	assert.Equal(t, tabletop.Rotation(90), c.Rotation())
	assert.Equal(t, 125.0, c.W())
	x, y := c.Rect().Center()
	assert.InDelta(t, 600, x, 0.001)
	assert.InDelta(t, 250, y, 0.001)

	g.key(t, "r")
	assert.Zero(t, c.Rotation())

	g.key(t, "r")
	require.Equal(t, tabletop.Rotation(90), c.Rotation())
	g.dragTo(t, c, 600, 640)
	assert.Equal(t, Hand, c.Location())
	assert.Zero(t, c.Rotation())
	assert.Len(t, b.Cards(Hand), 5)
	checkInvariants(t, b)
}

func TestRotateKeyIgnoresHandCards(t *testing.T) {
	g := newGame(t)
	c := g.board().Cards(Hand)[1]
	g.click(t, c.Rect())
	require.Same(t, c, g.sess().Preview.Card())
	g.key(t, "r")
	assert.Zero(t, c.Rotation())
}

func TestDragFieldCardToDeck(t *testing.T) {
	g := newGame(t)
	b := g.board()
	var c *Card
	for _, hc := range b.Cards(Hand) {
		if hc.StartingZone() == MainDeck {
			c = hc
			break
		}
	}
	require.NotNil(t, c)
	g.dragTo(t, c, 600, 250)
	require.Equal(t, Field, c.Location())

	// Straight onto the pile, without crossing the hand.
	dx, dy := b.Layout().MainDeck.Center()
	cx, cy := c.Rect().Center()
	g.in.Drag(cx, cy, dx, dy, 2)
	g.drain(t)
	assert.Equal(t, MainDeck, c.Location())
	assert.Same(t, c, b.Cards(MainDeck)[0])
	assert.False(t, c.FaceUp())
	assert.False(t, c.Moving)
	assert.Equal(t, b.Layout().MainDeck, c.Rect())
	checkInvariants(t, b)
}

func TestFieldCardIsClampedIntoField(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[0]
	g.dragTo(t, c, 600, 250)
	// Over the side box, far from any pile.
	g.dragTo(t, c, 100, 100)
	require.Equal(t, Field, c.Location())
	assert.Equal(t, b.Layout().Field.X, c.X())
}

func TestDrawButton(t *testing.T) {
	g := newGame(t)
	b := g.board()
	top := b.Cards(MainDeck)[0]
	g.click(t, g.sess().DrawButton.Rect())
	assert.Len(t, b.Cards(Hand), 6)
	assert.Same(t, top, b.Cards(Hand)[5])
	assert.Len(t, b.Cards(MainDeck), 34)
	assert.Contains(t, g.sess().LastLog(), top.ID+": main_deck -> hand")
}

func TestDrawFromEmptyDeckIsNoop(t *testing.T) {
	fsys := testFiles(t, 4)
	g := newGameWith(t, fsys)
	b := g.board()
	require.Empty(t, b.Cards(MainDeck))
	b.Draw()
	assert.Len(t, b.Cards(Hand), 4)
	checkInvariants(t, b)
}

func TestGraveyardGrid(t *testing.T) {
	g := newGame(t)
	b := g.board()
	sess := g.sess()

	g.click(t, sess.GraveyardButton.Rect())
	grid := b.Grid()
	require.NotNil(t, grid)
	assert.Equal(t, Graveyard, grid.Zone)
	assert.Empty(t, grid.Tiles())
	assert.Equal(t, "Graveyard (0)", grid.Title.UpdateText())

	g.click(t, grid.Close.Rect())
	assert.True(t, grid.Destroyed())
	assert.Nil(t, b.Grid())

	first, second := b.Cards(Hand)[0], b.Cards(Hand)[1]
	b.SendToGraveyard(first, Hand)
	b.SendToGraveyard(second, Hand)
	g.click(t, sess.GraveyardButton.Rect())
	grid = b.Grid()
	require.NotNil(t, grid)
	require.Len(t, grid.Tiles(), 2)
	assert.Equal(t, second.Key, grid.Tiles()[0].CardKey)
	assert.Equal(t, first.Key, grid.Tiles()[1].CardKey)
	assert.True(t, grid.Tiles()[0].Marker.Hidden, "face-up cards carry no marker")

	// The zone button toggles the grid.
	g.click(t, sess.GraveyardButton.Rect())
	assert.Nil(t, b.Grid())
}

func TestGridSwitchesZone(t *testing.T) {
	g := newGame(t)
	b := g.board()
	g.click(t, g.sess().GraveyardButton.Rect())
	first := b.Grid()
	require.NotNil(t, first)
	g.click(t, g.sess().ExtraDeckButton.Rect())
	require.NotNil(t, b.Grid())
	assert.True(t, first.Destroyed())
	assert.Equal(t, ExtraDeck, b.Grid().Zone)
	require.Len(t, b.Grid().Tiles(), len(extraCards))
	assert.False(t, b.Grid().Tiles()[0].Marker.Hidden, "face-down cards are marked")
}

func TestGridClosesOnOutsideClick(t *testing.T) {
	g := newGame(t)
	b := g.board()
	g.click(t, g.sess().BanishedButton.Rect())
	require.NotNil(t, b.Grid())
	g.click(t, tabletop.Rect{X: 1150, Y: 450, W: 1, H: 1})
	assert.Nil(t, b.Grid())
}

func TestMainDeckGridScrolls(t *testing.T) {
	g := newGame(t)
	b := g.board()
	g.rightClick(t, g.sess().DrawButton.Rect())
	grid := b.Grid()
	require.NotNil(t, grid)
	require.Equal(t, MainDeck, grid.Zone)
	page := grid.PageSize()
	require.Equal(t, 15, page)
	require.Len(t, grid.Tiles(), page)
	assert.Equal(t, b.Cards(MainDeck)[0].Key, grid.Tiles()[0].CardKey)

	g.key(t, "arrowdown")
	assert.Equal(t, 5, grid.Start)
	assert.Equal(t, b.Cards(MainDeck)[5].Key, grid.Tiles()[0].CardKey)

	// 35 cards: the last page starts at row 6.
	for range 10 {
		grid.Scroll(1)
	}
	assert.Equal(t, 30, grid.Start)
	assert.Len(t, grid.Tiles(), 5)

	g.click(t, grid.Up.Rect())
	assert.Equal(t, 25, grid.Start)
	assert.Len(t, grid.Tiles(), 10)
}

func TestGridTileOpensLocationOverlay(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[0]
	b.SendToGraveyard(c, Hand)
	g.click(t, g.sess().GraveyardButton.Rect())
	grid := b.Grid()
	require.NotNil(t, grid)
	require.Len(t, grid.Tiles(), 1)

	g.click(t, grid.Tiles()[0].Rect())
	assert.Same(t, c, g.sess().Preview.Card())

	g.rightClick(t, grid.Tiles()[0].Rect())
	o := b.LocationOverlay()
	require.NotNil(t, o)
	assert.Equal(t, c.Key, o.CardKey)
	assert.NotContains(t, o.Labels(), "Graveyard")

	i := slices.Index(o.Labels(), "Hand")
	require.GreaterOrEqual(t, i, 0)
	g.click(t, o.Buttons[i].Rect())
	assert.Equal(t, Hand, c.Location())
	assert.Nil(t, b.LocationOverlay())
	assert.NotNil(t, b.Grid(), "the grid stays open")
	assert.Empty(t, b.Grid().Tiles())
}

func TestTokenOffersOnlyRemove(t *testing.T) {
	g := newGame(t)
	b := g.board()
	g.click(t, g.sess().TokenButton.Rect())
	require.Len(t, b.Cards(Field), 1)
	tok := b.Cards(Field)[0]
	assert.True(t, tok.IsToken())
	assert.True(t, tok.FaceUp())
	assert.False(t, tok.CanFlip())

	g.rightClick(t, tok.Rect())
	o := b.LocationOverlay()
	require.NotNil(t, o)
	assert.Equal(t, []string{"Remove"}, o.Labels())

	g.click(t, o.Buttons[0].Rect())
	assert.True(t, tok.Destroyed())
	assert.Empty(t, b.Cards(Field))
	assert.Nil(t, b.CardByKey(tok.Key))
	assert.Equal(t, tok.Key+" removed from field", g.sess().LastLog())
	checkInvariants(t, b)
}

func TestTokenStaysOnFieldOverPiles(t *testing.T) {
	g := newGame(t)
	b := g.board()
	tok := b.SpawnToken()
	g.tick(t, 1)
	x, y := b.Layout().MainDeck.Center()
	g.dragTo(t, tok, x, y)
	assert.Equal(t, Field, tok.Location())
	assert.False(t, tok.Destroyed())
}

func TestLocationOverlayMovesCard(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[2]
	g.rightClick(t, c.Rect())
	o := b.LocationOverlay()
	require.NotNil(t, o)
	assert.Equal(t, c.Rect().Right()+8, o.X())

	g.key(t, "g")
	assert.Equal(t, Graveyard, c.Location())
	assert.Nil(t, b.LocationOverlay())
	checkInvariants(t, b)
}

func TestLocationOverlayClosesOnOutsideClick(t *testing.T) {
	g := newGame(t)
	b := g.board()
	c := b.Cards(Hand)[0]
	g.rightClick(t, c.Rect())
	require.NotNil(t, b.LocationOverlay())
	g.click(t, tabletop.Rect{X: 600, Y: 100, W: 1, H: 1})
	assert.Nil(t, b.LocationOverlay())
	assert.Equal(t, Hand, c.Location())
}

func TestHandScrolling(t *testing.T) {
	g := newGame(t)
	b := g.board()
	sess := g.sess()
	for range 5 {
		b.Draw()
	}
	require.Len(t, b.Cards(Hand), 10)
	require.Equal(t, 8, b.HandSlots())
	assert.Len(t, b.VisibleHand(), 8)

	b.ScrollHand(5)
	assert.Equal(t, 2, b.HandStart())
	assert.Equal(t, b.Cards(Hand)[2:], b.VisibleHand())
	checkInvariants(t, b)

	g.click(t, sess.HandLeft.Rect())
	assert.Equal(t, 1, b.HandStart())
	g.key(t, "arrowleft")
	assert.Equal(t, 0, b.HandStart())
	g.key(t, "arrowleft")
	assert.Equal(t, 0, b.HandStart())
	g.click(t, sess.HandRight.Rect())
	g.key(t, "arrowright")
	assert.Equal(t, 2, b.HandStart())

	// Shrinking the hand pulls the window back.
	b.SendToGraveyard(b.Cards(Hand)[0], Hand)
	assert.Equal(t, 1, b.HandStart())
	for i, c := range b.VisibleHand() {
		assert.Equal(t, b.Layout().HandSlot(i), c.Rect(), c.Key)
	}
	checkInvariants(t, b)
}

func TestHandReordersByPosition(t *testing.T) {
	g := newGame(t)
	b := g.board()
	first := b.Cards(Hand)[0]
	slot := b.Layout().HandSlot(3)
	// Drop between the third and fourth card.
	g.dragTo(t, first, slot.X+10, slot.Y+slot.H/2)
	assert.Equal(t, Hand, first.Location())
	assert.Same(t, first, b.Cards(Hand)[2])
	assert.Equal(t, b.Layout().HandSlot(2), first.Rect())
}

func TestLifeCounter(t *testing.T) {
	g := newGame(t)
	life := g.sess().Life[0]
	require.Equal(t, 8000, life.Value())

	g.click(t, life.Input.Rect())
	for _, k := range []string{"5", "0", "0"} {
		g.key(t, k)
	}
	g.click(t, life.Minus.Rect())
	assert.Equal(t, 7500, life.Value())
	assert.Empty(t, life.Input.Value())
	assert.Greater(t, life.Shown(), 7500, "the label counts down")
	g.tick(t, 40)
	assert.Equal(t, 7500, life.Shown())

	g.click(t, life.Input.Rect())
	for _, k := range []string{"3", "0", "0", "enter"} {
		g.key(t, k)
	}
	assert.Equal(t, 7200, life.Value())

	g.click(t, life.Input.Rect())
	for _, k := range []string{"2", "0", "0"} {
		g.key(t, k)
	}
	g.click(t, life.Plus.Rect())
	assert.Equal(t, 7400, life.Value())
	assert.Equal(t, 8000, g.sess().Life[1].Value())
}

func TestLifeCounterNeverNegative(t *testing.T) {
	l := NewLifeCounter("life", tabletop.Rect{W: 200, H: 64}, 0, "You", 100)
	l.Add(-500)
	assert.Equal(t, 0, l.Value())
	l.Set(-3)
	assert.Equal(t, 0, l.Value())
	assert.Equal(t, 0, l.Shown())
}

func TestTypingDoesNotTriggerHotkeys(t *testing.T) {
	g := newGame(t)
	life := g.sess().Life[0]
	g.click(t, life.Input.Rect())
	g.key(t, "s")
	g.tick(t, 1)
	_, err := os.Stat(g.opts.SavePath(1))
	assert.True(t, os.IsNotExist(err), "typing must not save")
}

func TestDiceRoll(t *testing.T) {
	g := newGame(t)
	dice := g.sess().Dice
	assert.Zero(t, dice.Value())
	assert.Empty(t, dice.UpdateText())

	g.click(t, dice.Rect())
	v := dice.Value()
	assert.GreaterOrEqual(t, v, 1)
	assert.LessOrEqual(t, v, 6)
	assert.True(t, dice.Rolling())

	g.tick(t, 60)
	assert.False(t, dice.Rolling())
	assert.Equal(t, v, dice.Value())
	assert.Equal(t, strconv.Itoa(v), dice.UpdateText())
}

func TestSaveHotkeyWritesSlot(t *testing.T) {
	g := newGame(t)
	g.key(t, "s")
	_, err := os.Stat(g.opts.SavePath(1))
	require.NoError(t, err)
}

func TestLoadHotkeyAsksFirst(t *testing.T) {
	g := newGame(t)
	g.key(t, "s")
	g.board().Draw()
	require.Len(t, g.board().Cards(Hand), 6)

	g.key(t, "l")
	confirm := g.sess().confirm
	require.NotNil(t, confirm)
	g.key(t, "l")
	assert.Same(t, confirm, g.sess().confirm, "one confirmation at a time")

	g.click(t, confirm.Yes.Rect())
	g.tick(t, 1)
	assert.Len(t, g.board().Cards(Hand), 5)
}

func TestEscapeReturnsToMenu(t *testing.T) {
	g := newGame(t)
	g.key(t, "escape")
	confirm := g.sess().confirm
	require.NotNil(t, confirm)

	g.key(t, "escape")
	assert.True(t, confirm.Destroyed())
	assert.Equal(t, tabletop.ScenePlaytesting, g.m.CurrentName())

	g.key(t, "escape")
	g.click(t, g.sess().confirm.Yes.Rect())
	g.tick(t, 1)
	assert.Equal(t, tabletop.SceneMainMenu, g.m.CurrentName())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := newGame(t)
	b := g.board()
	hand := b.Cards(Hand)
	onField, banished, grave := hand[0], hand[1], hand[2]

	g.dragTo(t, onField, 600, 250)
	g.key(t, "r")
	b.Banish(banished, Hand, false)
	b.SendToGraveyard(grave, Hand)
	tok := b.SpawnToken()
	b.ScrollHand(1)
	g.sess().Life[1].Set(6100)
	g.click(t, g.sess().Dice.Rect())
	g.tick(t, 60)
	require.Equal(t, tabletop.Rotation(90), onField.Rotation())

	var buf bytes.Buffer
	require.NoError(t, g.m.Save(&buf))
	first, err := g.m.Snapshot()
	require.NoError(t, err)

	zones := map[Zone][]string{}
	for _, z := range Zones {
		zones[z] = keys(b.Cards(z))
	}
	dice := g.sess().Dice.Value()
	log := g.sess().LastLog()

	require.NoError(t, g.m.ChangeScene(tabletop.SceneMainMenu, nil))
	require.NoError(t, g.m.Load(&buf))

	second, err := g.m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, first.Tree, second.Tree)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Cache, second.Cache)

	require.Equal(t, tabletop.ScenePlaytesting, g.m.CurrentName())
	rb := g.board()
	require.NotSame(t, b, rb)
	for _, z := range Zones {
		assert.Equal(t, zones[z], keys(rb.Cards(z)), z)
	}
	assert.Equal(t, tabletop.Rotation(90), rb.CardByKey(onField.Key).Rotation())
	assert.False(t, rb.CardByKey(banished.Key).FaceUp())
	assert.True(t, rb.CardByKey(grave.Key).FaceUp())
	assert.True(t, rb.CardByKey(tok.Key).IsToken())
	assert.Equal(t, tok.Art(), rb.CardByKey(tok.Key).Art())
	assert.Equal(t, 6100, g.sess().Life[1].Value())
	assert.Equal(t, dice, g.sess().Dice.Value())
	assert.Equal(t, log, g.sess().LastLog())
	checkInvariants(t, rb)

	// The restored game keeps playing.
	g.key(t, "r")
	assert.Zero(t, rb.CardByKey(onField.Key).Rotation())
	next := rb.SpawnToken()
	assert.NotEqual(t, tok.Key, next.Key)
}

func TestLoadCorruptStateKeepsGame(t *testing.T) {
	g := newGame(t)
	before := g.m.Current()
	snap, err := g.m.Snapshot()
	require.NoError(t, err)
	snap.State = []byte("garbage")
	require.Error(t, g.m.Restore(snap))
	assert.Same(t, before, g.m.Current())
}

func TestFactoryRejectsUnknownDeck(t *testing.T) {
	fsys := fstest.MapFS{}
	m := tabletop.NewManager(screenW, screenH, fsys, tabletop.NewScriptedInput())
	Register(m, testOptions(t, fsys))
	assert.Error(t, m.ChangeScene(tabletop.ScenePlaytesting, nil, "missing"))
	assert.Error(t, m.ChangeScene(tabletop.ScenePlaytesting, nil))
	assert.Error(t, m.ChangeScene(tabletop.ScenePlaytesting, nil, 42))
}
