// Command tabletop opens the playtesting window.
//
// Paths in the configuration are relative to the working directory. A JSON
// input script (see tabletop.LoadInputScript) replaces the mouse and keyboard
// for automated runs.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
	"github.com/phanxgames/tabletop/menu"
	"github.com/phanxgames/tabletop/playtest"
)

func main() {
	cfgPath := flag.String("config", "tabletop.yaml", "configuration file")
	script := flag.String("script", "", "replay input from a JSON script instead of the devices")
	deckName := flag.String("deck", "", "skip the menus and playtest this deck")
	gallery := flag.Bool("gallery", false, "start in the widget gallery")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	var input tabletop.InputSource = &tabletop.EbitenInput{}
	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatal(err)
		}
		if input, err = tabletop.LoadInputScript(data); err != nil {
			log.Fatal(err)
		}
	}

	files := os.DirFS(".")
	m := tabletop.NewManager(cfg.Window.Width, cfg.Window.Height, files, input)
	m.SetDebugMode(cfg.Debug)
	menu.Register(m, menu.OptionsFromConfig(cfg, files))
	playtest.Register(m, playtest.OptionsFromConfig(cfg, files))

	if err := m.ChangeScene(tabletop.SceneMainMenu, nil); err != nil {
		log.Fatal(err)
	}
	switch {
	case *deckName != "":
		err = m.ChangeScene(tabletop.ScenePlaytesting, nil, *deckName)
	case *gallery:
		err = m.ChangeScene(tabletop.SceneTest, nil)
	}
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	if err := ebiten.RunGame(m); err != nil {
		log.Fatal(err)
	}
}
