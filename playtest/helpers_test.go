package playtest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"path"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
	"github.com/phanxgames/tabletop/deck"
	"github.com/stretchr/testify/require"
)

const (
	screenW = 1280
	screenH = 720
)

// mainTypes cycles over the main deck; every fifth card is a pendulum.
var mainTypes = []deck.CardType{deck.Effect, deck.Normal, deck.Spell, deck.Trap, deck.EffectPendulum}

// extraCards are the extra deck of the test deck, by id.
var extraCards = []struct {
	id string
	t  deck.CardType
}{
	{"2000", deck.Xyz},
	{"2001", deck.Fusion},
	{"2002", deck.SynchroPendulum},
	{"2003", deck.Link},
}

func mainID(i int) string { return fmt.Sprintf("1%03d", i) }

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// cardJPEG paints card art whose halves line up with the encoder's blocks,
// so the sampled frame colors survive compression.
func cardJPEG(t *testing.T, ct deck.CardType) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, deck.FrameArt(ct, 48, 64), &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// testFiles holds the chrome, the art of every test card and the deck list
// "test" with mainCount main and four extra cards.
func testFiles(t *testing.T, mainCount int) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	chrome := encodePNG(t, solid(16, 16, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}))
	for _, name := range ChromeFiles {
		fsys[path.Join("Images", name+".png")] = &fstest.MapFile{Data: chrome}
	}

	var ydk strings.Builder
	ydk.WriteString("#created by tests\n#main\n")
	for i := 0; i < mainCount; i++ {
		id := mainID(i)
		ydk.WriteString(id + "\n")
		fsys[CardArtPath("Images", id)] = &fstest.MapFile{Data: cardJPEG(t, mainTypes[i%len(mainTypes)])}
	}
	ydk.WriteString("#extra\n")
	for _, e := range extraCards {
		ydk.WriteString(e.id + "\n")
		fsys[CardArtPath("Images", e.id)] = &fstest.MapFile{Data: cardJPEG(t, e.t)}
	}
	ydk.WriteString("!side\n1999\n")
	fsys["Decks/test.ydk"] = &fstest.MapFile{Data: []byte(ydk.String())}
	return fsys
}

// game is a running playtesting scene driven by scripted input.
type game struct {
	m    *tabletop.Manager
	in   *tabletop.ScriptedInput
	opts Options
}

func (g *game) sess() *Session { return SessionOf(g.m.Current()) }

func (g *game) board() *Board { return g.sess().Board }

func testOptions(t *testing.T, fsys fstest.MapFS) Options {
	t.Helper()
	board := config.BoardConfig{}
	board.ApplyDefaults()
	return Options{
		Board:     board,
		Files:     fsys,
		DecksDir:  "Decks",
		ImagesDir: "Images",
		SavesDir:  t.TempDir(),
		NewRand:   func() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) },
	}
}

// newGame starts a 40-card game and a placeholder main menu to return to.
func newGame(t *testing.T) *game {
	t.Helper()
	return newGameWith(t, testFiles(t, 40))
}

func newGameWith(t *testing.T, fsys fstest.MapFS) *game {
	t.Helper()
	in := tabletop.NewScriptedInput()
	m := tabletop.NewManager(screenW, screenH, fsys, in)
	opts := testOptions(t, fsys)
	Register(m, opts)
	m.Register(tabletop.SceneMainMenu, func(m *tabletop.Manager, _ ...any) (*tabletop.Scene, error) {
		s := tabletop.NewScene(m, tabletop.SceneMainMenu)
		s.Persistent = true
		return s, nil
	}, nil)
	require.NoError(t, m.ChangeScene(tabletop.ScenePlaytesting, nil, "test"))
	require.NotNil(t, SessionOf(m.Current()))
	return &game{m: m, in: in, opts: opts}
}

func (g *game) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, g.m.Tick(), "tick %d", i)
	}
}

// drain ticks until the scripted input runs out.
func (g *game) drain(t *testing.T) {
	t.Helper()
	for g.in.Pending() > 0 {
		g.tick(t, 1)
	}
}

func (g *game) click(t *testing.T, r tabletop.Rect) {
	t.Helper()
	x, y := r.Center()
	g.in.Click(x, y)
	g.drain(t)
}

func (g *game) rightClick(t *testing.T, r tabletop.Rect) {
	t.Helper()
	x, y := r.Center()
	g.in.RightClick(x, y)
	g.drain(t)
}

func (g *game) key(t *testing.T, name string) {
	t.Helper()
	g.in.Key(name)
	g.drain(t)
}

// dragTo drags c by its center to (x, y).
func (g *game) dragTo(t *testing.T, c *Card, x, y float64) {
	t.Helper()
	cx, cy := c.Rect().Center()
	g.in.Drag(cx, cy, x, y, 5)
	g.drain(t)
}

func keys(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Key
	}
	return out
}

// checkInvariants verifies the board bookkeeping: every card sits in exactly
// the zone it reports, the hand window is in range, processing holds exactly
// the field and visible hand, and only field cards are rotated.
func checkInvariants(t *testing.T, b *Board) {
	t.Helper()
	seen := map[string]Zone{}
	for _, z := range Zones {
		for _, c := range b.Cards(z) {
			prev, dup := seen[c.Key]
			require.False(t, dup, "card %s in %s and %s", c.Key, prev, z)
			seen[c.Key] = z
			require.Equal(t, z, c.Location(), "card %s", c.Key)
			require.False(t, c.Destroyed(), "destroyed card %s still listed", c.Key)
			if z != Field {
				require.Zero(t, c.Rotation(), "card %s rotated in %s", c.Key, z)
			}
		}
	}
	for key, c := range b.cards {
		require.Contains(t, seen, key, "card %s (%s) not in any zone", key, c.Location())
	}
	require.Len(t, seen, len(b.cards))

	hand := len(b.Cards(Hand))
	require.GreaterOrEqual(t, b.HandStart(), 0)
	require.LessOrEqual(t, b.HandStart(), max(0, hand-b.HandSlots()))

	want := map[string]bool{}
	for _, c := range b.Cards(Field) {
		want[c.Key] = true
	}
	for _, c := range b.VisibleHand() {
		want[c.Key] = true
	}
	got := map[string]bool{}
	for _, c := range b.Processing() {
		require.False(t, got[c.Key], "card %s processed twice", c.Key)
		got[c.Key] = true
	}
	require.Equal(t, want, got)
}
