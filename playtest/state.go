package playtest

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/phanxgames/tabletop"
	"github.com/phanxgames/tabletop/deck"
)

// cardState is the saved form of one card.
type cardState struct {
	Key      string
	ID       string
	Type     deck.CardType
	Zone     Zone
	FaceUp   bool
	Rotation tabletop.Rotation
	X, Y     float64
}

// sessionState is what a playtesting save holds besides the scene tree.
// Cards are listed zone by zone, each zone head first.
type sessionState struct {
	Deck       deck.Deck
	Cards      []cardState
	Processing []string
	HandStart  int
	TokenSeq   int
	TokenArt   tabletop.Handle
	Life       [2]int
	Dice       int
	Log        string
	Preview    string
}

// SnapshotState encodes the board and side widgets.
func (sess *Session) SnapshotState() ([]byte, error) {
	b := sess.Board
	st := sessionState{
		Deck:      *sess.deck,
		HandStart: b.handStart,
		TokenSeq:  b.tokenSeq,
		TokenArt:  b.tokenArt,
		Life:      [2]int{sess.Life[0].Value(), sess.Life[1].Value()},
		Dice:      sess.Dice.Value(),
		Log:       sess.lastLog,
	}
	for _, z := range Zones {
		for _, c := range b.zones[z] {
			st.Cards = append(st.Cards, cardState{
				Key: c.Key, ID: c.ID, Type: c.Type, Zone: z, FaceUp: c.faceUp,
				Rotation: c.Rotation(), X: c.X(), Y: c.Y(),
			})
		}
	}
	for _, c := range b.processing {
		st.Processing = append(st.Processing, c.Key)
	}
	if c := sess.Preview.Card(); c != nil {
		st.Preview = c.Key
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&st); err != nil {
		return nil, fmt.Errorf("playtest: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeState(data []byte) (*sessionState, error) {
	var st sessionState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return nil, fmt.Errorf("playtest: decode state: %w", err)
	}
	return &st, nil
}

// apply puts the saved cards back on an empty board. Art comes from handles
// the restored cache already holds, so no new entries are allocated.
func (sess *Session) apply(st *sessionState) error {
	b := sess.Board
	cache := sess.m.Cache()
	if st.TokenArt != tabletop.NoHandle && cache.Has(st.TokenArt) {
		b.tokenArt = st.TokenArt
	}
	for _, cs := range st.Cards {
		if !cs.Type.Valid() {
			return fmt.Errorf("playtest: card %s: unknown type %q", cs.Key, cs.Type)
		}
		var art tabletop.Handle
		if cs.Type == deck.Token {
			if b.tokenArt == tabletop.NoHandle {
				w, h := int(b.layout.CardW), int(b.layout.CardH)
				b.tokenArt = cache.SetImage(deck.FrameArt(deck.Token, w, h), tabletop.NoHandle)
			}
			art = b.tokenArt
		} else {
			h, err := cache.LoadImage(CardArtPath(sess.opts.ImagesDir, cs.ID))
			if err != nil {
				return fmt.Errorf("playtest: card %s: %w", cs.ID, err)
			}
			art = h
			sess.types[cs.ID] = cs.Type
		}
		c := newCard(cs.Key, cs.ID, cs.Type, art, b.assets.CardBack, b.layout.ZoneRect(MainDeck))
		b.place(c, cs.Zone)
		c.setFaceUp(cs.FaceUp)
		c.rotateTo(cs.Rotation)
		c.SetRect(tabletop.Rect{X: cs.X, Y: cs.Y, W: c.W(), H: c.H()})
		c.Border.Process()
	}
	b.tokenSeq = st.TokenSeq
	b.handStart = st.HandStart
	for _, key := range st.Processing {
		if c := b.CardByKey(key); c != nil {
			b.processing = append(b.processing, c)
		}
	}
	b.refresh()

	sess.Life[0].Set(st.Life[0])
	sess.Life[1].Set(st.Life[1])
	sess.Dice.value = st.Dice
	sess.lastLog = st.Log
	if c := b.CardByKey(st.Preview); c != nil {
		sess.Preview.Show(c)
	}
	return nil
}
