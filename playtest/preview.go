package playtest

import "github.com/phanxgames/tabletop"

const sideZ = 5.0

// LargeCardPreview shows the last selected card at full size in the side
// box. It refers to the card by key and falls back to the placeholder once
// the card is gone. The r key turns the previewed card when it is on the
// field.
type LargeCardPreview struct {
	tabletop.Button

	board       *Board
	cardKey     string
	placeholder tabletop.Handle
}

func newLargeCardPreview(b *Board, r tabletop.Rect, placeholder tabletop.Handle) *LargeCardPreview {
	p := &LargeCardPreview{board: b, placeholder: placeholder}
	tabletop.InitButton(&p.Button, p, "preview", r, sideZ, tabletop.ButtonConfig{
		KeyFunctions: map[string]func(){"r": p.turnCard},
	})
	p.Static = true
	p.Image = placeholder
	b.preview = p
	return p
}

// Show previews c.
func (p *LargeCardPreview) Show(c *Card) {
	if c == nil {
		return
	}
	p.cardKey = c.Key
	p.Image = c.art
}

// Card returns the previewed card, or nil.
func (p *LargeCardPreview) Card() *Card {
	if p.cardKey == "" {
		return nil
	}
	return p.board.CardByKey(p.cardKey)
}

func (p *LargeCardPreview) turnCard() {
	if c := p.Card(); c != nil {
		c.Turn()
	}
}

// Process drops the reference to a removed card.
func (p *LargeCardPreview) Process() {
	p.Button.Process()
	if p.cardKey != "" && p.Card() == nil {
		p.cardKey = ""
		p.Image = p.placeholder
	}
}
