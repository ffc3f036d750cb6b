// Package config loads the sandbox settings from tabletop.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the content of tabletop.yaml. Missing keys take the defaults
// of ApplyDefaults.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Assets AssetsConfig `yaml:"assets"`
	Board  BoardConfig  `yaml:"board"`
	Debug  bool         `yaml:"debug"`
}

// WindowConfig sizes the window. Width and Height are also the virtual
// screen every scene lays itself out in.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

// AssetsConfig locates the card art and chrome, the deck lists and the save
// slots, relative to the working directory.
type AssetsConfig struct {
	ImagesDir string `yaml:"images_dir"`
	DecksDir  string `yaml:"decks_dir"`
	SavesDir  string `yaml:"saves_dir"`
}

// BoardConfig holds the card geometry and game setup of a playtest.
type BoardConfig struct {
	CardWidth    int `yaml:"card_width"`
	CardHeight   int `yaml:"card_height"`
	Spacing      int `yaml:"spacing"`
	// StartingHand is the number of cards drawn when a game starts. Unlike
	// the other fields an explicit 0 is kept, so it is nil only when unset.
	StartingHand *int `yaml:"starting_hand"`
	LifePoints   int `yaml:"life_points"`
	GridColumns  int `yaml:"grid_columns"`
	GridRows     int `yaml:"grid_rows"`
}

// ApplyDefaults fills zero fields with a 1600x900 window at 60 ticks per
// second.
func (w *WindowConfig) ApplyDefaults() {
	if w.Title == "" {
		w.Title = "Tabletop"
	}
	if w.Width == 0 {
		w.Width = 1600
	}
	if w.Height == 0 {
		w.Height = 900
	}
	if w.TPS == 0 {
		w.TPS = 60
	}
}

// ApplyDefaults fills empty directories with Images, Decks and the working
// directory for saves.
func (a *AssetsConfig) ApplyDefaults() {
	if a.ImagesDir == "" {
		a.ImagesDir = "Images"
	}
	if a.DecksDir == "" {
		a.DecksDir = "Decks"
	}
	if a.SavesDir == "" {
		a.SavesDir = "."
	}
}

// ApplyDefaults fills zero fields with the standard card size, a five card
// starting hand, 8000 life points and a 5x3 grid.
func (b *BoardConfig) ApplyDefaults() {
	if b.CardWidth == 0 {
		b.CardWidth = 86
	}
	if b.CardHeight == 0 {
		b.CardHeight = 125
	}
	if b.Spacing == 0 {
		b.Spacing = 8
	}
	if b.StartingHand == nil {
		n := 5
		b.StartingHand = &n
	}
	if b.LifePoints == 0 {
		b.LifePoints = 8000
	}
	if b.GridColumns == 0 {
		b.GridColumns = 5
	}
	if b.GridRows == 0 {
		b.GridRows = 3
	}
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.Window.ApplyDefaults()
	c.Assets.ApplyDefaults()
	c.Board.ApplyDefaults()
}

// Validate rejects settings the board layout cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width < 640 || c.Window.Height < 360 {
		return fmt.Errorf("config: window %dx%d is smaller than 640x360", c.Window.Width, c.Window.Height)
	}
	if c.Board.CardWidth < 0 || c.Board.CardHeight < 0 || c.Board.Spacing < 0 {
		return fmt.Errorf("config: negative card geometry")
	}
	if c.Board.StartingHand != nil && *c.Board.StartingHand < 0 {
		return fmt.Errorf("config: starting_hand %d is negative", *c.Board.StartingHand)
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML and fills unset fields with defaults.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
