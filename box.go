package tabletop

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Box is the drawable leaf: a rectangle with an optional solid fill, an
// optional image scaled to fit, and an optional line of centered text.
//
// The image is never drawn from its source handle directly. Whenever the
// box's size or rotation changes, the source is scaled and rotated into the
// box's own stable handle during the display pass.
type Box struct {
	Node

	// Fill is drawn first. A zero alpha means no fill.
	Fill color.NRGBA
	// Image is the source handle; NoHandle for none.
	Image Handle

	Text      string
	TextColor color.NRGBA
	TextSize  float64
	// TextLeft aligns the text to the left edge instead of centering it.
	TextLeft bool
	// UpdateText, when set, is evaluated every display pass and replaces Text.
	UpdateText func() string

	// Hidden boxes are processed but not drawn.
	Hidden bool

	handle     Handle
	imageKey   boxImageKey
	textHandle Handle
	textKey    boxTextKey
}

type boxImageKey struct {
	src  Handle
	w, h int
	rot  Rotation
}

type boxTextKey struct {
	text  string
	color color.NRGBA
	size  float64
}

// NewBox creates a box with a solid fill.
func NewBox(name string, r Rect, z float64, fill color.NRGBA) *Box {
	b := &Box{}
	InitBox(b, b, name, r, z)
	b.Fill = fill
	return b
}

// NewImageBox creates a box showing img scaled to r.
func NewImageBox(name string, r Rect, z float64, img Handle) *Box {
	b := &Box{}
	InitBox(b, b, name, r, z)
	b.Image = img
	return b
}

// NewTextBox creates a transparent box with a line of centered text.
func NewTextBox(name string, r Rect, z float64, text string, size float64) *Box {
	b := &Box{}
	InitBox(b, b, name, r, z)
	b.Text = text
	b.TextSize = size
	return b
}

// InitBox prepares an embedded Box. self is the outermost object.
func InitBox(b *Box, self Object, name string, r Rect, z float64) {
	b.Node.Init(self, name, r, z)
	b.TextColor = ColorWhite
	b.TextSize = 18
}

// Handle returns the per-box handle holding the scaled and rotated image, or
// NoHandle before the first display pass.
func (b *Box) Handle() Handle { return b.handle }

// TextHandle returns the handle of the rendered text, or NoHandle.
func (b *Box) TextHandle() Handle { return b.textHandle }

// Displayables returns the children's leaves followed by the box itself.
func (b *Box) Displayables() []*Box {
	out := b.Node.Displayables()
	if b.Hidden {
		return out
	}
	return append(out, b)
}

// prepare brings the box's cached pixmaps in line with its geometry and text.
func (b *Box) prepare(c *Cache) {
	if b.UpdateText != nil {
		b.Text = b.UpdateText()
	}
	if b.Image != NoHandle {
		key := boxImageKey{
			src: b.Image,
			w:   max(int(math.Round(b.w)), 1),
			h:   max(int(math.Round(b.h)), 1),
			rot: b.rotation,
		}
		if key != b.imageKey || b.handle == NoHandle || !c.Has(b.handle) {
			uw, uh := key.w, key.h
			if key.rot.Sideways() {
				uw, uh = uh, uw
			}
			b.handle = c.ScaleImage(b.Image, uw, uh, b.handle)
			if key.rot != 0 {
				c.RotateImage(b.handle, int(key.rot), b.handle)
			}
			b.imageKey = key
		}
	}
	if b.Text != "" {
		key := boxTextKey{text: b.Text, color: b.TextColor, size: b.TextSize}
		if key != b.textKey || b.textHandle == NoHandle || !c.Has(b.textHandle) {
			b.textHandle = c.CreateFontSurface(key.text, key.color, key.size, b.textHandle)
			b.textKey = key
		}
	}
}

// draw blits the box onto screen.
func (b *Box) draw(screen *ebiten.Image, c *Cache) {
	alpha := float32(b.Alpha) / 255
	if b.Fill.A > 0 {
		fill := b.Fill
		fill.A = uint8(float32(fill.A) * alpha)
		vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), fill, false)
	}
	if b.Image != NoHandle && b.handle != NoHandle {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(b.x, b.y)
		op.ColorScale.ScaleAlpha(alpha)
		screen.DrawImage(c.Texture(b.handle), op)
	}
	if b.Text != "" && b.textHandle != NoHandle {
		tw, th := c.Size(b.textHandle)
		tx := b.x + (b.w-float64(tw))/2
		if b.TextLeft {
			tx = b.x + 4
		}
		ty := b.y + (b.h-float64(th))/2
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(math.Round(tx), math.Round(ty))
		op.ColorScale.ScaleAlpha(alpha)
		screen.DrawImage(c.Texture(b.textHandle), op)
	}
}

// --- Border ---

// Border outlines its parent with four thin boxes. It re-lays itself out
// whenever the parent's rectangle changes.
type Border struct {
	Node
	Thickness float64
	Hidden    bool
	sides     [4]*Box
	laidOut   Rect
}

// NewBorder creates a border of the given thickness and color. Add it as a
// child of the object to outline.
func NewBorder(name string, r Rect, z float64, thickness float64, clr color.NRGBA) *Border {
	br := &Border{Thickness: thickness}
	br.Node.Init(br, name, r, z)
	for i := range br.sides {
		br.sides[i] = NewBox(name+"/side", Rect{}, z, clr)
		br.AddChild(br.sides[i])
	}
	br.layout()
	return br
}

// SetColor recolors all four sides.
func (br *Border) SetColor(clr color.NRGBA) {
	for _, s := range br.sides {
		s.Fill = clr
	}
}

// Sides returns the top, bottom, left and right boxes.
func (br *Border) Sides() [4]*Box { return br.sides }

// Displayables returns the four sides unless the border is hidden.
func (br *Border) Displayables() []*Box {
	if br.Hidden {
		return nil
	}
	return br.Node.Displayables()
}

// Process matches the parent's rectangle and re-lays out the sides.
func (br *Border) Process() {
	if br.parent != nil {
		pr := br.parent.Base().Rect()
		if pr != br.Rect() {
			br.SetRect(pr)
		}
	}
	if br.Rect() != br.laidOut {
		br.layout()
	}
}

func (br *Border) layout() {
	r, t := br.Rect(), br.Thickness
	br.sides[0].SetRect(Rect{X: r.X, Y: r.Y, W: r.W, H: t})
	br.sides[1].SetRect(Rect{X: r.X, Y: r.Bottom() - t, W: r.W, H: t})
	br.sides[2].SetRect(Rect{X: r.X, Y: r.Y, W: t, H: r.H})
	br.sides[3].SetRect(Rect{X: r.Right() - t, Y: r.Y, W: t, H: r.H})
	for _, s := range br.sides {
		s.Z = br.Z
	}
	br.laidOut = r
}
