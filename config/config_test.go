package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "tabletop.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 8000, c.Board.LifePoints)
	assert.Equal(t, 5, c.Board.GridColumns)
	assert.Equal(t, 3, c.Board.GridRows)
	assert.False(t, c.Debug)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabletop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  title: Playtest
  width: 1280
  height: 720
board:
  life_points: 4000
debug: true
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Playtest", c.Window.Title)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, 60, c.Window.TPS)
	assert.Equal(t, 4000, c.Board.LifePoints)
	require.NotNil(t, c.Board.StartingHand)
	assert.Equal(t, 5, *c.Board.StartingHand)
	assert.Equal(t, "Decks", c.Assets.DecksDir)
	assert.True(t, c.Debug)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("window: [oops"))
	assert.Error(t, err)

	_, err = Parse([]byte("window:\n  width: 100\n  height: 100\n"))
	assert.Error(t, err)
}

func TestParse_ZeroStartingHandKept(t *testing.T) {
	c, err := Parse([]byte("board:\n  starting_hand: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, c.Board.StartingHand)
	assert.Zero(t, *c.Board.StartingHand)
	assert.Equal(t, 8000, c.Board.LifePoints)

	c.Board.ApplyDefaults()
	assert.Zero(t, *c.Board.StartingHand, "defaults leave an explicit zero alone")
}

func TestParse_NegativeStartingHand(t *testing.T) {
	_, err := Parse([]byte("board:\n  starting_hand: -1\n"))
	assert.Error(t, err)
}
