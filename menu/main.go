package menu

import (
	"fmt"
	"path"

	"github.com/phanxgames/tabletop"
)

// MainMenu builds the persistent start screen: the eye emblem, a title and
// buttons to pick a deck, continue the saved game, open the widget gallery or
// quit. Enter starts deck selection.
func MainMenu(opts Options) tabletop.Factory {
	return func(m *tabletop.Manager, _ ...any) (*tabletop.Scene, error) {
		eye, err := m.Cache().LoadImage(path.Join(opts.ImagesDir, "millennium_eye.png"))
		if err != nil {
			return nil, fmt.Errorf("menu: %w", err)
		}
		screen := m.Screen()
		s := tabletop.NewScene(m, tabletop.SceneMainMenu)
		s.Persistent = true
		s.Background = Background

		side := min(screen.W, screen.H) / 3
		emblem := tabletop.NewImageBox("emblem", tabletop.Rect{X: screen.X + (screen.W-side)/2, Y: screen.Y + 32, W: side, H: side}, 0, eye)
		emblem.Static = true
		s.Add(emblem)

		title := tabletop.NewTextBox("title", tabletop.Rect{X: screen.X, Y: emblem.Rect().Bottom() + 8, W: screen.W, H: 48}, 0, "Tabletop", 36)
		title.Static = true
		s.Add(title)

		top := title.Rect().Bottom() + 24
		for i, b := range []struct {
			name, label string
			click       func()
			keys        []string
		}{
			{"play", "Playtest a deck", goTo(m, tabletop.SceneDeckSelection), []string{"enter"}},
			{"continue", "Continue saved game", func() { m.ScheduleLoad(opts.SavePath) }, []string{"l"}},
			{"gallery", "Widget gallery", goTo(m, tabletop.SceneTest), nil},
			{"quit", "Quit", m.Quit, nil},
		} {
			btn := tabletop.NewButton(b.name, column(screen, top, i), 1, b.label, tabletop.ButtonConfig{
				LeftClick:       b.click,
				LeftTriggerKeys: b.keys,
			})
			btn.Static = true
			s.Add(btn)
		}
		return s, nil
	}
}
