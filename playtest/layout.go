package playtest

import (
	"math"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
)

const (
	arrowWidth = 32
	iconSize   = 40
)

// Layout holds the rectangles of the playtesting screen. The side box takes
// the left fifth, the right column the last 15%, and the rest is split
// between the field (top three quarters) and the hand strip.
type Layout struct {
	Screen tabletop.Rect
	Side   tabletop.Rect
	Field  tabletop.Rect
	// HandBox is the strip between the two hand arrows.
	HandBox    tabletop.Rect
	LeftArrow  tabletop.Rect
	RightArrow tabletop.Rect
	Column     tabletop.Rect

	ExtraDeck    tabletop.Rect
	Graveyard    tabletop.Rect
	Banished     tabletop.Rect
	MainDeck     tabletop.Rect
	Shuffle      tabletop.Rect
	ExtraOptions tabletop.Rect

	Preview tabletop.Rect
	Life    [2]tabletop.Rect
	Dice    tabletop.Rect
	Log     tabletop.Rect
	Grid    tabletop.Rect

	CardW, CardH, Spacing float64
	GridCols, GridRows    int
}

// NewLayout computes the layout for a screen.
func NewLayout(screen tabletop.Rect, cfg config.BoardConfig) Layout {
	w, h := screen.W, screen.H
	cw, ch, sp := float64(cfg.CardWidth), float64(cfg.CardHeight), float64(cfg.Spacing)
	l := Layout{Screen: screen, CardW: cw, CardH: ch, Spacing: sp, GridCols: cfg.GridColumns, GridRows: cfg.GridRows}

	l.Side = tabletop.Rect{X: screen.X, Y: screen.Y, W: 0.2 * w, H: h}
	l.Field = tabletop.Rect{X: screen.X + 0.2*w, Y: screen.Y, W: 0.65 * w, H: 0.75 * h}
	strip := tabletop.Rect{X: l.Field.X, Y: l.Field.Bottom(), W: l.Field.W, H: h - l.Field.H}
	l.LeftArrow = tabletop.Rect{X: strip.X, Y: strip.Y + (strip.H-ch)/2, W: arrowWidth, H: ch}
	l.RightArrow = tabletop.Rect{X: strip.Right() - arrowWidth, Y: l.LeftArrow.Y, W: arrowWidth, H: ch}
	l.HandBox = tabletop.Rect{X: strip.X + arrowWidth, Y: strip.Y, W: strip.W - 2*arrowWidth, H: strip.H}

	l.Column = tabletop.Rect{X: l.Field.Right(), Y: screen.Y, W: screen.Right() - l.Field.Right(), H: h}
	cx := l.Column.X + (l.Column.W-cw)/2
	l.ExtraDeck = tabletop.Rect{X: cx, Y: screen.Y + sp, W: cw, H: ch}
	l.Graveyard = tabletop.Rect{X: cx, Y: l.ExtraDeck.Bottom() + sp, W: cw, H: ch}
	l.Banished = tabletop.Rect{X: cx, Y: l.Graveyard.Bottom() + sp, W: cw, H: ch}
	l.MainDeck = tabletop.Rect{X: cx, Y: screen.Bottom() - ch - sp, W: cw, H: ch}
	l.Shuffle = tabletop.Rect{X: cx, Y: l.MainDeck.Y - iconSize - sp, W: iconSize, H: iconSize}
	l.ExtraOptions = tabletop.Rect{X: cx + cw - iconSize, Y: l.Shuffle.Y, W: iconSize, H: iconSize}

	pw := l.Side.W - 2*sp
	ph := math.Min(pw*ch/cw, 0.5*h)
	l.Preview = tabletop.Rect{X: l.Side.X + sp, Y: l.Side.Y + sp, W: pw, H: ph}
	y := l.Preview.Bottom() + sp
	for i := range l.Life {
		l.Life[i] = tabletop.Rect{X: l.Side.X + sp, Y: y, W: pw, H: 64}
		y = l.Life[i].Bottom() + sp
	}
	l.Dice = tabletop.Rect{X: l.Side.X + sp, Y: y, W: iconSize + 8, H: iconSize + 8}
	l.Log = tabletop.Rect{X: l.Dice.Right() + sp, Y: y, W: pw - l.Dice.W - sp, H: l.Dice.H}
	l.Grid = l.Field.Inset(16)
	return l
}

// HandSlots is how many cards the hand box shows at once.
func (l Layout) HandSlots() int {
	return max(1, int(l.HandBox.W/(l.CardW+l.Spacing)))
}

// HandSlot returns the rectangle of the i-th visible hand position.
func (l Layout) HandSlot(i int) tabletop.Rect {
	return tabletop.Rect{
		X: l.HandBox.X + l.Spacing/2 + float64(i)*(l.CardW+l.Spacing),
		Y: l.HandBox.Y + (l.HandBox.H-l.CardH)/2,
		W: l.CardW,
		H: l.CardH,
	}
}

// ZoneRect returns where cards in a pile zone rest: on their zone button.
func (l Layout) ZoneRect(z Zone) tabletop.Rect {
	switch z {
	case MainDeck:
		return l.MainDeck
	case ExtraDeck:
		return l.ExtraDeck
	case Graveyard:
		return l.Graveyard
	case Banished:
		return l.Banished
	}
	return tabletop.Rect{}
}
