package tabletop

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Sample is one tick's view of the input devices: mouse buttons, the cursor
// in virtual-screen coordinates, the name of the key pressed this tick and
// the characters it typed.
type Sample struct {
	LeftDown  bool
	RightDown bool
	Key       string // "" when no key was pressed this tick
	// Chars are the characters typed this tick, with the keyboard layout and
	// modifiers applied. Editing keys such as backspace type nothing.
	Chars []rune
	X, Y  float64
}

// InputSource produces one Sample per tick. The environment polls it; it never
// calls back into the scene.
type InputSource interface {
	Poll() Sample
}

// Environment holds the per-tick input snapshot and the one before it, so
// widgets can detect edges.
type Environment struct {
	input InputSource

	This Sample
	Last Sample

	keyConsumed bool
}

// NewEnvironment creates an environment reading from src.
func NewEnvironment(src InputSource) *Environment {
	return &Environment{input: src}
}

// pump collects this tick's snapshot.
func (e *Environment) pump() {
	e.This = e.input.Poll()
	e.keyConsumed = false
}

// rotate keeps this tick's snapshot for edge detection on the next one.
func (e *Environment) rotate() {
	e.Last = e.This
}

// Cursor returns the cursor position in virtual-screen coordinates.
func (e *Environment) Cursor() (float64, float64) {
	return e.This.X, e.This.Y
}

// LeftClicked reports a left-button press edge this tick.
func (e *Environment) LeftClicked() bool {
	return e.This.LeftDown && !e.Last.LeftDown
}

// RightClicked reports a right-button press edge this tick.
func (e *Environment) RightClicked() bool {
	return e.This.RightDown && !e.Last.RightDown
}

// Key returns the key pressed this tick, or "" if none or already consumed.
func (e *Environment) Key() string {
	if e.keyConsumed {
		return ""
	}
	return e.This.Key
}

// Chars returns the characters typed this tick.
func (e *Environment) Chars() []rune {
	return e.This.Chars
}

// ConsumeKey hides this tick's key from objects processed later (behind).
func (e *Environment) ConsumeKey() {
	e.keyConsumed = true
}

// --- Ebitengine input ---

// EbitenInput samples the mouse and keyboard through Ebitengine. Cursor
// coordinates are already in layout (virtual-screen) units.
type EbitenInput struct {
	keys  []ebiten.Key
	chars []rune
}

// Poll reads the current device state.
func (in *EbitenInput) Poll() Sample {
	mx, my := ebiten.CursorPosition()
	s := Sample{
		LeftDown:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		RightDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		X:         float64(mx),
		Y:         float64(my),
	}
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		if name := KeyName(k); name != "" {
			s.Key = name
			break
		}
	}
	in.chars = ebiten.AppendInputChars(in.chars[:0])
	if len(in.chars) > 0 {
		s.Chars = append([]rune(nil), in.chars...)
	}
	return s
}

// KeyName maps an Ebitengine key to the lowercase name widgets bind to:
// letters and digits are single characters ("a", "7"); other keys use their
// lowercased Ebitengine name ("escape", "backspace", "arrowleft").
// Modifier keys map to "".
func KeyName(k ebiten.Key) string {
	name := k.String()
	switch {
	case strings.HasPrefix(name, "Digit"):
		return strings.TrimPrefix(name, "Digit")
	case strings.HasPrefix(name, "Numpad") && len(name) == len("Numpad0"):
		return strings.TrimPrefix(name, "Numpad")
	case strings.HasPrefix(name, "Shift"), strings.HasPrefix(name, "Control"),
		strings.HasPrefix(name, "Alt"), strings.HasPrefix(name, "Meta"):
		return ""
	}
	return strings.ToLower(name)
}
