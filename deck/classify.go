package deck

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrNoMatch is returned when the sampled frame colors do not form a valid
// card type.
var ErrNoMatch = errors.New("deck: no valid match")

type reference struct {
	typ CardType
	c   color.NRGBA
}

// references are the frame colors of the ten card frames.
var references = []reference{
	{Normal, color.NRGBA{R: 0xc9, G: 0xa6, B: 0x5e, A: 0xff}},
	{Effect, color.NRGBA{R: 0xb5, G: 0x64, B: 0x3a, A: 0xff}},
	{Ritual, color.NRGBA{R: 0x5b, G: 0x7d, B: 0xb7, A: 0xff}},
	{Fusion, color.NRGBA{R: 0x8c, G: 0x5a, B: 0x9c, A: 0xff}},
	{Synchro, color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
	{Xyz, color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}},
	{Link, color.NRGBA{R: 0x1c, G: 0x56, B: 0x90, A: 0xff}},
	{Spell, color.NRGBA{R: 0x1d, G: 0x9e, B: 0x74, A: 0xff}},
	{Trap, color.NRGBA{R: 0xbc, G: 0x5a, B: 0x84, A: 0xff}},
	{Token, color.NRGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}},
}

// ReferenceColor returns the frame color for a non-pendulum frame type.
func ReferenceColor(t CardType) (color.NRGBA, bool) {
	for _, r := range references {
		if r.typ == t {
			return r.c, true
		}
	}
	return color.NRGBA{}, false
}

// Sample points, as fractions of the image size.
const (
	sampleX       = 0.04
	sampleTopY    = 0.30
	sampleBottomY = 0.70
)

// Nearest returns the frame type whose reference color is closest to c by
// squared Euclidean distance in RGB.
func Nearest(c color.Color) CardType {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	best, bestDist := references[0].typ, math.MaxInt
	for _, r := range references {
		dr := int(n.R) - int(r.c.R)
		dg := int(n.G) - int(r.c.G)
		db := int(n.B) - int(r.c.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = r.typ, d
		}
	}
	return best
}

// Classify determines a card's type from its art by sampling the frame at
// two heights. A spell-colored lower half under a non-spell upper half means
// a pendulum monster; otherwise the upper sample decides.
func Classify(img image.Image) (CardType, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("%w: empty image", ErrNoMatch)
	}
	x := b.Min.X + int(float64(b.Dx())*sampleX)
	top := Nearest(img.At(x, b.Min.Y+int(float64(b.Dy())*sampleTopY)))
	bottom := Nearest(img.At(x, b.Min.Y+int(float64(b.Dy())*sampleBottomY)))

	t := top
	if bottom == Spell && top != Spell {
		t = CardType(string(top) + " pendulum")
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: top %q, bottom %q", ErrNoMatch, top, bottom)
	}
	return t, nil
}

// MustClassify is Classify for bundled art; it panics when no type matches.
func MustClassify(img image.Image) CardType {
	t, err := Classify(img)
	if err != nil {
		panic(err)
	}
	return t
}

// FrameArt paints a plain w x h card of type t: the frame color everywhere,
// with the lower half in the spell color for pendulums. Tokens created during
// play use it as their art.
func FrameArt(t CardType, w, h int) *image.NRGBA {
	top, ok := ReferenceColor(t.Frame())
	if !ok {
		top, _ = ReferenceColor(Token)
	}
	bottom := top
	if t.IsPendulum() && t != Pendulum {
		bottom, _ = ReferenceColor(Spell)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
