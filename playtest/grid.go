package playtest

import (
	"fmt"

	"github.com/phanxgames/tabletop"
)

const (
	gridZ      = 100.0
	gridGap    = 8.0
	gridHeader = 40.0
)

// CardGridOverlay pages through the cards of one zone. Every tick it
// re-reads the zone, so tiles follow cards moved while it is open.
type CardGridOverlay struct {
	tabletop.Overlay

	Zone  Zone
	Start int
	Title *tabletop.Box
	Up    *tabletop.Button
	Down  *tabletop.Button

	board      *Board
	area       tabletop.Rect
	cols, rows int
	tiles      []*GridTile
}

func newCardGridOverlay(b *Board, z Zone) *CardGridOverlay {
	l := b.layout
	r := l.Grid
	g := &CardGridOverlay{
		Zone:  z,
		board: b,
		cols:  max(l.GridCols, 1),
		rows:  max(l.GridRows, 1),
		area:  tabletop.Rect{X: r.X, Y: r.Y + gridHeader, W: r.W - iconSize - gridGap, H: r.H - gridHeader},
	}
	tabletop.InitOverlay(&g.Overlay, g, "grid", r, gridZ, b.assets.Close)
	g.DestroyOnExternalClicks(b.overlayRects)

	g.Title = tabletop.NewTextBox("grid/title", tabletop.Rect{X: r.X + gridGap, Y: r.Y + 4, W: r.W / 2, H: gridHeader - 8}, gridZ+1, "", 20)
	g.Title.TextLeft = true
	g.Title.UpdateText = func() string { return fmt.Sprintf("%s (%d)", z.Title(), len(b.Cards(z))) }
	g.AddChild(g.Title)

	ax := r.Right() - iconSize - gridGap/2
	g.Up = tabletop.NewImageButton("grid/up", tabletop.Rect{X: ax, Y: g.area.Y + gridGap, W: iconSize, H: iconSize}, gridZ+1, b.assets.UpArrow, tabletop.ButtonConfig{
		LeftClick:       func() { g.Scroll(-1) },
		LeftTriggerKeys: []string{"arrowup"},
	})
	g.Down = tabletop.NewImageButton("grid/down", tabletop.Rect{X: ax, Y: g.area.Bottom() - iconSize - gridGap, W: iconSize, H: iconSize}, gridZ+1, b.assets.DownArrow, tabletop.ButtonConfig{
		LeftClick:       func() { g.Scroll(1) },
		LeftTriggerKeys: []string{"arrowdown"},
	})
	g.AddChild(g.Up)
	g.AddChild(g.Down)
	g.sync()
	return g
}

// Cards returns the zone being shown.
func (g *CardGridOverlay) Cards() []*Card { return g.board.Cards(g.Zone) }

// Tiles returns the tiles of the current page.
func (g *CardGridOverlay) Tiles() []*GridTile { return g.tiles }

// PageSize is the number of tiles on one page.
func (g *CardGridOverlay) PageSize() int { return g.cols * g.rows }

// Scroll moves the page by whole rows.
func (g *CardGridOverlay) Scroll(rows int) {
	g.Start += rows * g.cols
	g.sync()
}

// maxStart keeps at least one card on the last page.
func (g *CardGridOverlay) maxStart(n int) int {
	if n == 0 {
		return 0
	}
	return (n - 1) / g.cols * g.cols
}

// tileRect fits card-shaped tiles into the grid area.
func (g *CardGridOverlay) tileRect(i int) tabletop.Rect {
	l := g.board.layout
	cols, rows := float64(g.cols), float64(g.rows)
	tw := (g.area.W - (cols+1)*gridGap) / cols
	th := tw * l.CardH / l.CardW
	if maxH := (g.area.H - (rows+1)*gridGap) / rows; th > maxH {
		th = maxH
		tw = th * l.CardW / l.CardH
	}
	col, row := float64(i%g.cols), float64(i/g.cols)
	return tabletop.Rect{
		X: g.area.X + gridGap + col*(tw+gridGap),
		Y: g.area.Y + gridGap + row*(th+gridGap),
		W: tw,
		H: th,
	}
}

// sync rebinds the tiles to the current page of the zone.
func (g *CardGridOverlay) sync() {
	cards := g.Cards()
	g.Start = min(max(g.Start, 0), g.maxStart(len(cards)))
	page := cards[g.Start:min(g.Start+g.PageSize(), len(cards))]
	for i, c := range page {
		if i < len(g.tiles) {
			g.tiles[i].show(c)
			continue
		}
		t := newGridTile(g, i, c)
		g.AddChild(t)
		g.tiles = append(g.tiles, t)
	}
	for _, t := range g.tiles[len(page):] {
		t.Destroy()
	}
	clear(g.tiles[len(page):])
	g.tiles = g.tiles[:len(page)]
}

// Process runs the overlay and then resynchronises the page.
func (g *CardGridOverlay) Process() {
	g.Overlay.Process()
	if g.Destroyed() {
		return
	}
	g.sync()
}

// GridTile shows one card of a grid page. It refers to the card by key; the
// card itself stays where the board keeps it.
type GridTile struct {
	tabletop.Button

	CardKey string
	Marker  *tabletop.Box

	grid *CardGridOverlay
}

func newGridTile(g *CardGridOverlay, i int, c *Card) *GridTile {
	r := g.tileRect(i)
	t := &GridTile{grid: g}
	name := fmt.Sprintf("grid/tile%02d", i)
	tabletop.InitButton(&t.Button, t, name, r, gridZ+1, tabletop.ButtonConfig{
		LeftClick:  t.preview,
		RightClick: t.locate,
	})
	side := min(r.W, r.H) / 3
	t.Marker = tabletop.NewImageBox(name+"/face-down", tabletop.Rect{X: r.Right() - side - 2, Y: r.Bottom() - side - 2, W: side, H: side}, gridZ+2, g.board.assets.FaceDown)
	t.AddChild(t.Marker)
	t.show(c)
	return t
}

func (t *GridTile) show(c *Card) {
	t.CardKey = c.Key
	t.Image = c.art
	t.Marker.Hidden = c.faceUp
}

// Card returns the card shown, or nil.
func (t *GridTile) Card() *Card { return t.grid.board.CardByKey(t.CardKey) }

func (t *GridTile) preview() {
	if p := t.grid.board.preview; p != nil {
		p.Show(t.Card())
	}
}

func (t *GridTile) locate() {
	if c := t.Card(); c != nil {
		t.grid.board.OpenLocationOverlay(c, t.Rect())
	}
}
