package playtest

import (
	"fmt"
	"path"

	"github.com/phanxgames/tabletop"
)

// Assets holds the handles of the UI chrome images.
type Assets struct {
	CardBack     tabletop.Handle
	Eye          tabletop.Handle
	Shuffle      tabletop.Handle
	Graveyard    tabletop.Handle
	Banished     tabletop.Handle
	ExtraOptions tabletop.Handle
	Dice         tabletop.Handle
	UpArrow      tabletop.Handle
	DownArrow    tabletop.Handle
	LeftArrow    tabletop.Handle
	RightArrow   tabletop.Handle
	Close        tabletop.Handle
	FaceDown     tabletop.Handle
	Transparent  tabletop.Handle
}

// ChromeFiles lists the image files LoadAssets reads, without extension.
var ChromeFiles = []string{
	"card_back", "millennium_eye", "shuffle", "graveyard_icon", "banished_icon",
	"extra_options", "dice", "up_arrow", "down_arrow", "left_arrow",
	"right_arrow", "close_button", "face_down_marker", "transparent_card",
}

// LoadAssets loads every chrome image from dir. A missing file is an error.
func LoadAssets(c *tabletop.Cache, dir string) (Assets, error) {
	var a Assets
	targets := []*tabletop.Handle{
		&a.CardBack, &a.Eye, &a.Shuffle, &a.Graveyard, &a.Banished,
		&a.ExtraOptions, &a.Dice, &a.UpArrow, &a.DownArrow, &a.LeftArrow,
		&a.RightArrow, &a.Close, &a.FaceDown, &a.Transparent,
	}
	for i, name := range ChromeFiles {
		h, err := c.LoadImage(path.Join(dir, name+".png"))
		if err != nil {
			return Assets{}, fmt.Errorf("playtest: assets: %w", err)
		}
		*targets[i] = h
	}
	return a, nil
}

// CardArtPath is where the art of a card id lives.
func CardArtPath(dir, id string) string {
	return path.Join(dir, id+".jpg")
}
