package playtest

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"time"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/config"
	"github.com/phanxgames/tabletop/deck"
	"github.com/phanxgames/tabletop/ecs"
	"github.com/yohamta/donburi"
)

const confirmZ = 300.0

// Background is the table color.
var Background = color.NRGBA{R: 0x1b, G: 0x3b, B: 0x2c, A: 0xff}

// Options configures the playtesting scene.
type Options struct {
	Board config.BoardConfig
	// Files holds the deck lists. Card art is read through the manager's
	// cache.
	Files     fs.FS
	DecksDir  string
	ImagesDir string
	SavesDir  string
	// NewRand returns the source for shuffles and dice. nil seeds one from
	// the clock.
	NewRand func() *rand.Rand
}

// OptionsFromConfig derives the scene options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, files fs.FS) Options {
	return Options{
		Board:     cfg.Board,
		Files:     files,
		DecksDir:  cfg.Assets.DecksDir,
		ImagesDir: cfg.Assets.ImagesDir,
		SavesDir:  cfg.Assets.SavesDir,
	}
}

func (o Options) rand() *rand.Rand {
	if o.NewRand != nil {
		return o.NewRand()
	}
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// SavePath returns the file of save slot n.
func (o Options) SavePath(n int) string {
	return filepath.Join(o.SavesDir, "save"+strconv.Itoa(n)+".txt")
}

func (o Options) deckArg(args []any) (*deck.Deck, error) {
	if len(args) == 0 {
		return nil, errors.New("playtest: no deck given")
	}
	switch v := args[0].(type) {
	case *deck.Deck:
		return v, nil
	case string:
		return deck.Load(o.Files, deck.FilePath(o.DecksDir, v))
	}
	return nil, fmt.Errorf("playtest: unsupported deck argument %T", args[0])
}

// Register installs the playtesting factory and restorer on m.
func Register(m *tabletop.Manager, opts Options) {
	m.Register(tabletop.ScenePlaytesting, Factory(opts), Restorer(opts))
}

// Factory builds a new game. The first argument is a deck name in DecksDir or
// a *deck.Deck. The main deck is shuffled and the starting hand drawn.
func Factory(opts Options) tabletop.Factory {
	return func(m *tabletop.Manager, args ...any) (*tabletop.Scene, error) {
		d, err := opts.deckArg(args)
		if err != nil {
			return nil, err
		}
		sess, err := newSession(m, opts, d)
		if err != nil {
			return nil, err
		}
		if err := sess.deal(); err != nil {
			return nil, err
		}
		return sess.Scene, nil
	}
}

// Restorer rebuilds a saved game.
func Restorer(opts Options) tabletop.Restorer {
	return func(m *tabletop.Manager, state []byte) (*tabletop.Scene, error) {
		st, err := decodeState(state)
		if err != nil {
			return nil, err
		}
		sess, err := newSession(m, opts, &st.Deck)
		if err != nil {
			return nil, err
		}
		if err := sess.apply(st); err != nil {
			return nil, err
		}
		return sess.Scene, nil
	}
}

// Session is the playtesting scene's state: the board and the widgets around
// it. It is the scene's Snapshotter.
type Session struct {
	Scene   *tabletop.Scene
	Board   *Board
	Preview *LargeCardPreview
	Life    [2]*LifeCounter
	Dice    *Dice
	Log     *tabletop.Box

	DrawButton      *tabletop.Button
	ExtraDeckButton *tabletop.Button
	GraveyardButton *tabletop.Button
	BanishedButton  *tabletop.Button
	ShuffleButton   *tabletop.Button
	TokenButton     *tabletop.Button
	HandLeft        *tabletop.Button
	HandRight       *tabletop.Button
	Hotkeys         *tabletop.Button

	deck    *deck.Deck
	opts    Options
	m       *tabletop.Manager
	types   map[string]deck.CardType
	lastLog string
	confirm *tabletop.ConfirmationOverlay
}

// SessionOf returns the session behind a playtesting scene, or nil.
func SessionOf(s *tabletop.Scene) *Session {
	if s == nil {
		return nil
	}
	sess, _ := s.State.(*Session)
	return sess
}

// newSession builds the scene around an empty board.
func newSession(m *tabletop.Manager, opts Options, d *deck.Deck) (*Session, error) {
	opts.Board.ApplyDefaults()
	cache := m.Cache()
	assets, err := LoadAssets(cache, opts.ImagesDir)
	if err != nil {
		return nil, err
	}
	l := NewLayout(m.Screen(), opts.Board)
	rng := opts.rand()

	s := tabletop.NewScene(m, tabletop.ScenePlaytesting)
	s.Background = Background
	sess := &Session{Scene: s, deck: d, opts: opts, m: m, types: make(map[string]deck.CardType)}
	s.State = sess

	b := NewBoard(l, assets, cache, rng)
	store := ecs.NewDonburiStore(donburi.NewWorld())
	store.Subscribe(func(e ecs.ZoneChange) { sess.lastLog = e.String() })
	b.SetEventStore(store)
	sess.Board = b

	field := tabletop.NewBox("table/field", l.Field, 0, color.NRGBA{R: 0x24, G: 0x4a, B: 0x37, A: 0xff})
	hand := tabletop.NewBox("table/hand", l.HandBox, 0, color.NRGBA{R: 0x16, G: 0x30, B: 0x24, A: 0xff})
	side := tabletop.NewBox("table/side", l.Side, 0, tabletop.ColorPanel)
	for _, bg := range []*tabletop.Box{field, hand, side} {
		bg.Static = true
		s.Add(bg)
	}

	count := func(z Zone) func() string {
		return func() string { return strconv.Itoa(len(b.Cards(z))) }
	}
	zoneButton := func(name string, r tabletop.Rect, img tabletop.Handle, z Zone, cfg tabletop.ButtonConfig) *tabletop.Button {
		btn := tabletop.NewImageButton(name, r, sideZ, img, cfg)
		btn.Static = true
		btn.UpdateText = count(z)
		btn.TextSize = 24
		s.Add(btn)
		return btn
	}
	sess.ExtraDeckButton = zoneButton("zone/extra_deck", l.ExtraDeck, assets.CardBack, ExtraDeck, tabletop.ButtonConfig{
		LeftClick: func() { b.OpenGrid(ExtraDeck) },
	})
	sess.GraveyardButton = zoneButton("zone/graveyard", l.Graveyard, assets.Graveyard, Graveyard, tabletop.ButtonConfig{
		LeftClick: func() { b.OpenGrid(Graveyard) },
	})
	sess.BanishedButton = zoneButton("zone/banished", l.Banished, assets.Banished, Banished, tabletop.ButtonConfig{
		LeftClick: func() { b.OpenGrid(Banished) },
	})
	sess.DrawButton = zoneButton("zone/main_deck", l.MainDeck, assets.CardBack, MainDeck, tabletop.ButtonConfig{
		LeftClick:  b.Draw,
		RightClick: func() { b.OpenGrid(MainDeck) },
	})

	iconButton := func(name string, r tabletop.Rect, img tabletop.Handle, cfg tabletop.ButtonConfig) *tabletop.Button {
		btn := tabletop.NewImageButton(name, r, sideZ, img, cfg)
		btn.Static = true
		s.Add(btn)
		return btn
	}
	sess.ShuffleButton = iconButton("zone/shuffle", l.Shuffle, assets.Shuffle, tabletop.ButtonConfig{LeftClick: b.Shuffle})
	sess.TokenButton = iconButton("zone/extra_options", l.ExtraOptions, assets.ExtraOptions, tabletop.ButtonConfig{
		LeftClick: func() { b.SpawnToken() },
	})
	sess.HandLeft = iconButton("hand/left", l.LeftArrow, assets.LeftArrow, tabletop.ButtonConfig{
		LeftClick:       func() { b.ScrollHand(-1) },
		LeftTriggerKeys: []string{"arrowleft"},
	})
	sess.HandRight = iconButton("hand/right", l.RightArrow, assets.RightArrow, tabletop.ButtonConfig{
		LeftClick:       func() { b.ScrollHand(1) },
		LeftTriggerKeys: []string{"arrowright"},
	})

	sess.Preview = newLargeCardPreview(b, l.Preview, assets.Transparent)
	s.Add(sess.Preview)
	sess.Life[0] = NewLifeCounter("life/player", l.Life[0], sideZ+1, "You", opts.Board.LifePoints)
	sess.Life[1] = NewLifeCounter("life/opponent", l.Life[1], sideZ+1, "Opponent", opts.Board.LifePoints)
	s.Add(sess.Life[0])
	s.Add(sess.Life[1])
	sess.Dice = NewDice("dice", l.Dice, sideZ, assets.Dice, rng)
	s.Add(sess.Dice)
	sess.Log = tabletop.NewTextBox("log", l.Log, sideZ, "", 14)
	sess.Log.Static = true
	sess.Log.TextLeft = true
	sess.Log.UpdateText = func() string { return sess.lastLog }
	s.Add(sess.Log)

	sess.Hotkeys = tabletop.NewButton("hotkeys", tabletop.Rect{}, 0, "", tabletop.ButtonConfig{
		KeyFunctions: map[string]func(){
			"s":      sess.save,
			"l":      sess.askLoad,
			"escape": sess.askQuit,
		},
	})
	sess.Hotkeys.Static = true
	sess.Hotkeys.Hidden = true
	sess.Hotkeys.Border.Hidden = true
	s.Add(sess.Hotkeys)

	s.Add(b)
	return sess, nil
}

// cardArt loads the art of id and classifies it once per id.
func (sess *Session) cardArt(id string) (tabletop.Handle, deck.CardType, error) {
	cache := sess.m.Cache()
	h, err := cache.LoadImage(CardArtPath(sess.opts.ImagesDir, id))
	if err != nil {
		return tabletop.NoHandle, "", fmt.Errorf("playtest: card %s: %w", id, err)
	}
	if t, ok := sess.types[id]; ok {
		return h, t, nil
	}
	t, err := deck.Classify(cache.FetchImage(h))
	if err != nil {
		return tabletop.NoHandle, "", fmt.Errorf("playtest: card %s: %w", id, err)
	}
	sess.types[id] = t
	return h, t, nil
}

// deal puts the deck on the board, shuffles the main deck and draws the
// starting hand.
func (sess *Session) deal() error {
	b := sess.Board
	for _, section := range []struct {
		prefix string
		ids    []string
		zone   Zone
	}{{"m", sess.deck.Main, MainDeck}, {"e", sess.deck.Extra, ExtraDeck}} {
		for i, id := range section.ids {
			art, t, err := sess.cardArt(id)
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%02d", section.prefix, i)
			c := newCard(key, id, t, art, b.assets.CardBack, b.layout.ZoneRect(section.zone))
			b.place(c, section.zone)
			c.setFaceUp(false)
		}
	}
	b.Shuffle()
	for range *sess.opts.Board.StartingHand {
		b.Draw()
	}
	b.refresh()
	return nil
}

// --- Hotkeys ---

func (sess *Session) save() {
	sess.m.ScheduleSave(sess.opts.SavePath(1))
}

func (sess *Session) askLoad() {
	sess.ask("Load save 1?", func() { sess.m.ScheduleLoad(sess.opts.SavePath(1)) })
}

func (sess *Session) askQuit() {
	sess.ask("Return to the main menu?", func() {
		sess.m.ScheduleSceneChange(tabletop.SceneMainMenu, nil)
	})
}

// ask shows a confirmation unless one is already open.
func (sess *Session) ask(prompt string, action func()) {
	if sess.confirm != nil && !sess.confirm.Destroyed() {
		return
	}
	sess.confirm = tabletop.NewConfirmationOverlay("confirm", sess.m.Screen(), confirmZ, prompt, action)
	sess.Scene.Add(sess.confirm)
}

// LastLog returns the most recent action log line.
func (sess *Session) LastLog() string { return sess.lastLog }
