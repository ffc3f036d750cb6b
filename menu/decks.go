package menu

import (
	"fmt"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/deck"
)

const decksPerPage = 8

// DeckSelection lists the decks in DecksDir, one button each. Choosing a
// deck starts a playtesting game with it. The arrow keys page through long
// lists.
func DeckSelection(opts Options) tabletop.Factory {
	return func(m *tabletop.Manager, _ ...any) (*tabletop.Scene, error) {
		names, err := deck.List(opts.Files, opts.DecksDir)
		if err != nil {
			return nil, fmt.Errorf("menu: %w", err)
		}
		s := tabletop.NewScene(m, tabletop.SceneDeckSelection)
		s.Background = Background
		s.Add(backButton(m))
		s.Add(newDeckList(m, names))
		return s, nil
	}
}

// DeckList pages through the deck buttons.
type DeckList struct {
	tabletop.Node

	Names   []string
	Page    int
	Header  *tabletop.Box
	Prev    *tabletop.Button
	Next    *tabletop.Button
	Buttons []*tabletop.Button

	m *tabletop.Manager
}

func newDeckList(m *tabletop.Manager, names []string) *DeckList {
	screen := m.Screen()
	l := &DeckList{Names: names, m: m}
	l.Init(l, "decks", screen, 0)
	l.Static = true

	l.Header = tabletop.NewTextBox("decks/header", tabletop.Rect{X: screen.X, Y: screen.Y + 24, W: screen.W, H: 40}, 1, "", 28)
	l.Header.UpdateText = l.header
	l.AddChild(l.Header)

	bottom := column(screen, screen.Y+96, decksPerPage)
	l.Prev = tabletop.NewButton("decks/prev", tabletop.Rect{X: bottom.X, Y: bottom.Y, W: buttonW/2 - buttonGap/2, H: buttonH}, 1, "<", tabletop.ButtonConfig{
		LeftClick:       func() { l.Turn(-1) },
		LeftTriggerKeys: []string{"arrowleft"},
	})
	l.Next = tabletop.NewButton("decks/next", tabletop.Rect{X: bottom.X + buttonW/2 + buttonGap/2, Y: bottom.Y, W: buttonW/2 - buttonGap/2, H: buttonH}, 1, ">", tabletop.ButtonConfig{
		LeftClick:       func() { l.Turn(1) },
		LeftTriggerKeys: []string{"arrowright"},
	})
	l.AddChild(l.Prev)
	l.AddChild(l.Next)
	l.layout()
	return l
}

func (l *DeckList) header() string {
	if len(l.Names) == 0 {
		return "No decks found"
	}
	return fmt.Sprintf("Choose a deck (%d/%d)", l.Page+1, l.pages())
}

func (l *DeckList) pages() int {
	return max(1, (len(l.Names)+decksPerPage-1)/decksPerPage)
}

// Turn moves by delta pages, staying within the list.
func (l *DeckList) Turn(delta int) {
	page := min(max(l.Page+delta, 0), l.pages()-1)
	if page == l.Page {
		return
	}
	l.Page = page
	l.layout()
}

// layout rebuilds the buttons of the current page.
func (l *DeckList) layout() {
	for _, b := range l.Buttons {
		b.Destroy()
	}
	l.Buttons = l.Buttons[:0]
	screen := l.m.Screen()
	start := l.Page * decksPerPage
	for i, name := range l.Names[start:min(start+decksPerPage, len(l.Names))] {
		b := tabletop.NewButton("decks/"+name, column(screen, screen.Y+96, i), 1, name, tabletop.ButtonConfig{
			LeftClick: goTo(l.m, tabletop.ScenePlaytesting, name),
		})
		b.Static = true
		l.AddChild(b)
		l.Buttons = append(l.Buttons, b)
	}
	l.Prev.Hidden = l.Page == 0
	l.Prev.Border.Hidden = l.Prev.Hidden
	l.Next.Hidden = l.Page == l.pages()-1
	l.Next.Border.Hidden = l.Next.Hidden
}
