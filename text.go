package tabletop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontSet rasterizes the single system font (Go Regular) at any size. Faces
// are cached per size; sizes are in pixels.
type fontSet struct {
	font  *opentype.Font
	faces map[float64]font.Face
	err   error
}

func newFontSet() *fontSet {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		err = fmt.Errorf("tabletop: parse system font: %w", err)
	}
	return &fontSet{font: f, faces: make(map[float64]font.Face), err: err}
}

func (fset *fontSet) face(size float64) (font.Face, error) {
	if fset.err != nil {
		return nil, fset.err
	}
	if size <= 0 {
		size = 1
	}
	if f, ok := fset.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fset.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("tabletop: font face %.1f: %w", size, err)
	}
	fset.faces[size] = f
	return f, nil
}

// measure returns the width and height of the bitmap render would produce.
func (fset *fontSet) measure(text string, size float64) (int, int) {
	f, err := fset.face(size)
	if err != nil {
		return 1, int(math.Ceil(size))
	}
	m := f.Metrics()
	w := font.MeasureString(f, text).Ceil()
	return max(w, 1), max((m.Ascent + m.Descent).Ceil(), 1)
}

// render draws a single line of text onto a transparent bitmap sized to fit.
func (fset *fontSet) render(text string, clr color.NRGBA, size float64) (*image.NRGBA, error) {
	f, err := fset.face(size)
	if err != nil {
		return nil, err
	}
	w, h := fset.measure(text, size)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: f,
		Dot:  fixed.Point26_6{X: 0, Y: f.Metrics().Ascent},
	}
	d.DrawString(text)
	return img, nil
}
