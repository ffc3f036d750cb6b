package tabletop

import (
	"fmt"
	"image/color"
)

// Scene tags. These are the terminal states the Manager can switch between.
const (
	SceneMainMenu      = "MAIN_MENU"
	SceneDeckSelection = "DECK_SELECTION"
	ScenePlaytesting   = "PLAYTESTING"
	SceneTest          = "TEST"
)

// Common colors used by the built-in widgets.
var (
	ColorWhite       = color.NRGBA{255, 255, 255, 255}
	ColorBlack       = color.NRGBA{0, 0, 0, 255}
	ColorTransparent = color.NRGBA{}
	ColorPanel       = color.NRGBA{36, 30, 45, 255}
	ColorButton      = color.NRGBA{70, 62, 88, 255}
	ColorHover       = color.NRGBA{98, 88, 122, 255}
	ColorPressed     = color.NRGBA{50, 44, 64, 255}
	ColorOutline     = color.NRGBA{200, 190, 160, 255}
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W &&
		y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether r and other overlap.
// Rectangles sharing only an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W &&
		r.X+r.W > other.X &&
		r.Y < other.Y+other.H &&
		r.Y+r.H > other.Y
}

// Clamp returns r moved so that it lies inside bounds. If r is larger than
// bounds along an axis it is centered on that axis.
func (r Rect) Clamp(bounds Rect) Rect {
	if r.W >= bounds.W {
		r.X = bounds.X + (bounds.W-r.W)/2
	} else if r.X < bounds.X {
		r.X = bounds.X
	} else if r.X+r.W > bounds.X+bounds.W {
		r.X = bounds.X + bounds.W - r.W
	}
	if r.H >= bounds.H {
		r.Y = bounds.Y + (bounds.H-r.H)/2
	} else if r.Y < bounds.Y {
		r.Y = bounds.Y
	} else if r.Y+r.H > bounds.Y+bounds.H {
		r.Y = bounds.Y + bounds.H - r.H
	}
	return r
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Rotation is a quarter-turn rotation in degrees: 0, 90, 180 or 270.
type Rotation int

// Add returns the rotation turned by delta degrees. Panics if delta is not a
// multiple of 90.
func (r Rotation) Add(delta int) Rotation {
	if delta%90 != 0 {
		panic(fmt.Sprintf("tabletop: rotation %d is not a multiple of 90", delta))
	}
	v := (int(r) + delta) % 360
	if v < 0 {
		v += 360
	}
	return Rotation(v)
}

// Sideways reports whether the rotation swaps width and height.
func (r Rotation) Sideways() bool {
	return r == 90 || r == 270
}
