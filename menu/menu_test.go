package menu

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFiles(t *testing.T, decks ...string) fstest.MapFS {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	fsys := fstest.MapFS{
		"Images/millennium_eye.png": {Data: buf.Bytes()},
		"Images/card_back.png":      {Data: buf.Bytes()},
		"Images/close_button.png":   {Data: buf.Bytes()},
		"Decks/readme.txt":          {Data: []byte("not a deck")},
	}
	for _, d := range decks {
		fsys["Decks/"+d+".ydk"] = &fstest.MapFile{Data: []byte("#main\n1000\n")}
	}
	return fsys
}

type harness struct {
	m  *tabletop.Manager
	in *tabletop.ScriptedInput
	// started records the arguments of playtesting scene changes.
	started  [][]any
	restored int
	save     string
}

func newHarness(t *testing.T, fsys fstest.MapFS) *harness {
	t.Helper()
	h := &harness{in: tabletop.NewScriptedInput()}
	h.m = tabletop.NewManager(800, 600, fsys, h.in)
	cfg := config.Default()
	cfg.Assets.SavesDir = t.TempDir()
	opts := OptionsFromConfig(cfg, fsys)
	h.save = opts.SavePath
	Register(h.m, opts)
	h.m.Register(tabletop.ScenePlaytesting, func(m *tabletop.Manager, args ...any) (*tabletop.Scene, error) {
		h.started = append(h.started, args)
		return tabletop.NewScene(m, tabletop.ScenePlaytesting), nil
	}, func(m *tabletop.Manager, _ []byte) (*tabletop.Scene, error) {
		h.restored++
		return tabletop.NewScene(m, tabletop.ScenePlaytesting), nil
	})
	require.NoError(t, h.m.ChangeScene(tabletop.SceneMainMenu, nil))
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	for h.in.Pending() > 0 {
		require.NoError(t, h.m.Tick())
	}
	require.NoError(t, h.m.Tick())
}

func (h *harness) click(t *testing.T, name string) {
	t.Helper()
	obj := h.m.Current().Find(name)
	require.NotNil(t, obj, "no object %q in %s", name, h.m.CurrentName())
	x, y := obj.Base().Rect().Center()
	h.in.Click(x, y)
	h.run(t)
}

func (h *harness) key(t *testing.T, k string) {
	t.Helper()
	h.in.Key(k)
	h.run(t)
}

func TestMainMenuNavigation(t *testing.T) {
	h := newHarness(t, testFiles(t, "alpha"))
	menu := h.m.Current()
	assert.True(t, menu.Persistent)
	require.NotNil(t, menu.Find("emblem"))

	h.click(t, "play")
	assert.Equal(t, tabletop.SceneDeckSelection, h.m.CurrentName())

	h.click(t, "back")
	assert.Equal(t, tabletop.SceneMainMenu, h.m.CurrentName())
	assert.Same(t, menu, h.m.Current(), "the main menu is kept")

	h.key(t, "enter")
	assert.Equal(t, tabletop.SceneDeckSelection, h.m.CurrentName())
	h.key(t, "escape")
	assert.Equal(t, tabletop.SceneMainMenu, h.m.CurrentName())

	h.click(t, "gallery")
	assert.Equal(t, tabletop.SceneTest, h.m.CurrentName())
}

func TestMainMenuQuit(t *testing.T) {
	h := newHarness(t, testFiles(t))
	obj := h.m.Current().Find("quit")
	require.NotNil(t, obj)
	x, y := obj.Base().Rect().Center()
	h.in.Click(x, y)
	assert.ErrorIs(t, h.m.Tick(), ebiten.Termination)
}

func TestMainMenuContinue(t *testing.T) {
	h := newHarness(t, testFiles(t))
	assert.Equal(t, "save1.txt", filepath.Base(h.save))

	h.click(t, "continue")
	assert.Equal(t, tabletop.SceneMainMenu, h.m.CurrentName(), "no save yet")
	assert.Zero(t, h.restored)

	require.NoError(t, h.m.ChangeScene(tabletop.ScenePlaytesting, nil, "alpha"))
	require.NoError(t, h.m.SaveFile(h.save))
	require.NoError(t, h.m.ChangeScene(tabletop.SceneMainMenu, nil))

	h.key(t, "l")
	assert.Equal(t, tabletop.ScenePlaytesting, h.m.CurrentName())
	assert.Equal(t, 1, h.restored)
	assert.Len(t, h.started, 1, "the game was restored, not rebuilt")
}

func TestMainMenuMissingEmblem(t *testing.T) {
	fsys := testFiles(t)
	delete(fsys, "Images/millennium_eye.png")
	m := tabletop.NewManager(800, 600, fsys, tabletop.NewScriptedInput())
	Register(m, OptionsFromConfig(config.Default(), fsys))
	assert.Error(t, m.ChangeScene(tabletop.SceneMainMenu, nil))
}

func TestDeckSelectionStartsGame(t *testing.T) {
	h := newHarness(t, testFiles(t, "beta", "alpha"))
	h.click(t, "play")
	list, ok := h.m.Current().Find("decks").(*DeckList)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, list.Names)
	assert.Equal(t, "Choose a deck (1/1)", list.Header.UpdateText())

	h.click(t, "decks/beta")
	assert.Equal(t, tabletop.ScenePlaytesting, h.m.CurrentName())
	require.Len(t, h.started, 1)
	assert.Equal(t, []any{"beta"}, h.started[0])
}

func TestDeckSelectionEmpty(t *testing.T) {
	h := newHarness(t, testFiles(t))
	h.click(t, "play")
	list := h.m.Current().Find("decks").(*DeckList)
	assert.Empty(t, list.Buttons)
	assert.Equal(t, "No decks found", list.Header.UpdateText())
	assert.True(t, list.Prev.Hidden)
	assert.True(t, list.Next.Hidden)
}

func TestDeckSelectionPages(t *testing.T) {
	names := []string{"d01", "d02", "d03", "d04", "d05", "d06", "d07", "d08", "d09", "d10"}
	h := newHarness(t, testFiles(t, names...))
	h.click(t, "play")
	list := h.m.Current().Find("decks").(*DeckList)
	require.Len(t, list.Buttons, decksPerPage)
	assert.False(t, list.Next.Hidden)

	h.key(t, "arrowright")
	assert.Equal(t, 1, list.Page)
	require.Len(t, list.Buttons, 2)
	assert.Equal(t, "d09", list.Buttons[0].Text)
	assert.Equal(t, "Choose a deck (2/2)", list.Header.UpdateText())
	assert.True(t, list.Next.Hidden)

	h.key(t, "arrowright")
	assert.Equal(t, 1, list.Page)
	h.key(t, "arrowleft")
	assert.Equal(t, 0, list.Page)
	assert.Len(t, list.Buttons, decksPerPage)
}

func TestDeckSelectionMissingDir(t *testing.T) {
	fsys := testFiles(t)
	delete(fsys, "Decks/readme.txt")
	m := tabletop.NewManager(800, 600, fsys, tabletop.NewScriptedInput())
	Register(m, OptionsFromConfig(config.Default(), fsys))
	assert.Error(t, m.ChangeScene(tabletop.SceneDeckSelection, nil))
}

func TestGallery(t *testing.T) {
	h := newHarness(t, testFiles(t))
	h.click(t, "gallery")
	w, ok := h.m.Current().Find("widgets").(*Widgets)
	require.True(t, ok)

	h.click(t, "widgets/counter")
	h.key(t, "c")
	assert.Equal(t, 2, w.Clicks)
	assert.Equal(t, "Clicked 2 times", w.Counter.UpdateText())
	h.key(t, "x")
	assert.Zero(t, w.Clicks)

	h.click(t, "widgets/input")
	h.in.Type("Nice catch!")
	h.key(t, "enter")
	assert.Equal(t, "Nice catch!", w.Echo.Text)
	assert.Zero(t, w.Clicks, "c typed into the field is not a hotkey")

	h.click(t, "widgets/confirm")
	require.NotNil(t, h.m.Current().Find("widgets/confirmation"))
	h.key(t, "y")
	assert.Equal(t, 1, w.Confirmed)
	assert.Nil(t, h.m.Current().Find("widgets/confirmation"))

	h.click(t, "widgets/open")
	require.NotNil(t, h.m.Current().Find("widgets/overlay"))
	h.key(t, "escape")
	assert.Nil(t, h.m.Current().Find("widgets/overlay"))
	assert.Equal(t, tabletop.SceneTest, h.m.CurrentName(), "escape closed only the overlay")

	x, y := w.Card.Rect().Center()
	h.in.Drag(x, y, x-100, y+50, 4)
	h.run(t)
	assert.InDelta(t, x-100, w.Card.Rect().X+w.Card.W()/2, 0.001)

	start := w.Slider.X()
	for range 30 {
		require.NoError(t, h.m.Tick())
	}
	assert.NotEqual(t, start, w.Slider.X(), "the marker slides")
}

func TestGalleryFromScript(t *testing.T) {
	h := newHarness(t, testFiles(t))
	h.click(t, "gallery")
	w := h.m.Current().Find("widgets").(*Widgets)
	cx, cy := w.Counter.Rect().Center()

	script := fmt.Appendf(nil, `{"steps": [
		{"action": "click", "x": %g, "y": %g},
		{"action": "key", "key": "c"},
		{"action": "wait", "frames": 2}
	]}`, cx, cy)
	in, err := tabletop.LoadInputScript(script)
	require.NoError(t, err)
	for in.Pending() > 0 {
		h.in.Push(in.Poll())
	}
	h.run(t)
	assert.Equal(t, 2, w.Clicks)
}
