// Package menu holds the scenes around a game: the main menu, the deck
// picker and a gallery of every widget kind.
package menu

import (
	"image/color"
	"io/fs"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
	"github.com/phanxgames/tabletop/playtest"
)

// Background is the menu backdrop.
var Background = color.NRGBA{R: 0x14, G: 0x12, B: 0x1c, A: 0xff}

const (
	buttonW   = 260.0
	buttonH   = 44.0
	buttonGap = 12.0
)

// Options configures the menu scenes.
type Options struct {
	// Files holds the deck lists.
	Files     fs.FS
	DecksDir  string
	ImagesDir string
	// SavePath is the slot the main menu continues from.
	SavePath string
}

// OptionsFromConfig derives the menu options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, files fs.FS) Options {
	return Options{
		Files:     files,
		DecksDir:  cfg.Assets.DecksDir,
		ImagesDir: cfg.Assets.ImagesDir,
		SavePath:  playtest.OptionsFromConfig(cfg, files).SavePath(1),
	}
}

// Register installs the main menu, deck selection and widget gallery.
func Register(m *tabletop.Manager, opts Options) {
	m.Register(tabletop.SceneMainMenu, MainMenu(opts), nil)
	m.Register(tabletop.SceneDeckSelection, DeckSelection(opts), nil)
	m.Register(tabletop.SceneTest, Gallery(opts), nil)
}

// column lays out buttons of equal size in a centered column starting at y.
func column(screen tabletop.Rect, y float64, i int) tabletop.Rect {
	return tabletop.Rect{
		X: screen.X + (screen.W-buttonW)/2,
		Y: y + float64(i)*(buttonH+buttonGap),
		W: buttonW,
		H: buttonH,
	}
}

// goTo returns a click handler switching to scene name.
func goTo(m *tabletop.Manager, name string, args ...any) func() {
	return func() { m.ScheduleSceneChange(name, nil, args...) }
}

// backButton returns to the main menu; escape triggers it.
func backButton(m *tabletop.Manager) *tabletop.Button {
	b := tabletop.NewButton("back", tabletop.Rect{X: 16, Y: 16, W: 120, H: 36}, 1, "Back", tabletop.ButtonConfig{
		LeftClick:       goTo(m, tabletop.SceneMainMenu),
		LeftTriggerKeys: []string{"escape"},
	})
	b.Static = true
	return b
}
