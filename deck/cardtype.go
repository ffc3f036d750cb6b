package deck

import "strings"

// CardType is a card's frame category, e.g. "effect" or "xyz pendulum".
type CardType string

const (
	Normal          CardType = "normal"
	NormalPendulum  CardType = "normal pendulum"
	Effect          CardType = "effect"
	EffectPendulum  CardType = "effect pendulum"
	Ritual          CardType = "ritual"
	RitualPendulum  CardType = "ritual pendulum"
	Fusion          CardType = "fusion"
	FusionPendulum  CardType = "fusion pendulum"
	Synchro         CardType = "synchro"
	SynchroPendulum CardType = "synchro pendulum"
	Xyz             CardType = "xyz"
	XyzPendulum     CardType = "xyz pendulum"
	Link            CardType = "link"
	Pendulum        CardType = "pendulum"
	Token           CardType = "token"
	Spell           CardType = "spell"
	Trap            CardType = "trap"
)

// CardTypes lists every valid card type.
var CardTypes = []CardType{
	Normal, NormalPendulum, Effect, EffectPendulum, Ritual, RitualPendulum,
	Fusion, FusionPendulum, Synchro, SynchroPendulum, Xyz, XyzPendulum,
	Link, Pendulum, Token, Spell, Trap,
}

// Valid reports whether t is one of CardTypes.
func (t CardType) Valid() bool {
	for _, v := range CardTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsPendulum reports whether t is a pendulum variant.
func (t CardType) IsPendulum() bool {
	return t == Pendulum || strings.HasSuffix(string(t), " pendulum")
}

// Frame returns t without its pendulum suffix.
func (t CardType) Frame() CardType {
	return CardType(strings.TrimSuffix(string(t), " pendulum"))
}

// StartsInExtraDeck reports whether cards of type t begin the game in the
// extra deck: fusion, synchro, xyz and link, with or without pendulum.
func (t CardType) StartsInExtraDeck() bool {
	switch t.Frame() {
	case Fusion, Synchro, Xyz, Link:
		return true
	}
	return false
}
