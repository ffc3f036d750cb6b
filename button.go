package tabletop

import (
	"image/color"
	"slices"
)

// ButtonStatus selects the background color of a button.
type ButtonStatus uint8

const (
	StatusNormal ButtonStatus = iota
	StatusHover
	StatusPressed
)

func (s ButtonStatus) String() string {
	switch s {
	case StatusHover:
		return "hover"
	case StatusPressed:
		return "pressed"
	default:
		return "normal"
	}
}

// ButtonColors holds the fill for each status. A zero value leaves Fill alone.
type ButtonColors struct {
	Normal  color.NRGBA
	Hover   color.NRGBA
	Pressed color.NRGBA
}

// DefaultButtonColors is used by NewButton.
var DefaultButtonColors = ButtonColors{Normal: ColorButton, Hover: ColorHover, Pressed: ColorPressed}

// ButtonConfig collects the optional behavior of a button. Callbacks are
// closures; any arguments are captured by them.
type ButtonConfig struct {
	LeftClick  func()
	LeftHold   func()
	RightClick func()
	RightHold  func()

	// LeftTriggerKeys and RightTriggerKeys synthesize a click when pressed.
	LeftTriggerKeys  []string
	RightTriggerKeys []string
	// KeyFunctions are always-active key bindings.
	KeyFunctions map[string]func()

	// HoldOutside keeps a hold alive after the cursor leaves the button, as
	// long as the press started on it.
	HoldOutside bool

	Colors ButtonColors
}

// ClickDetector turns the per-tick mouse snapshots into click and hold events
// for one button.
type ClickDetector struct {
	LeftClicked  bool
	LeftHeld     bool
	RightClicked bool
	RightHeld    bool

	leftActive  bool // press began on the button and has not been released
	rightActive bool
}

// Update computes this tick's events. hovering must already account for hit
// masking.
func (d *ClickDetector) Update(env *Environment, hovering, holdOutside bool) {
	this, last := env.This, env.Last

	d.LeftClicked = hovering && this.LeftDown && !last.LeftDown
	d.RightClicked = hovering && this.RightDown && !last.RightDown
	if d.LeftClicked {
		d.leftActive = true
	}
	if d.RightClicked {
		d.rightActive = true
	}
	if !this.LeftDown {
		d.leftActive = false
	}
	if !this.RightDown {
		d.rightActive = false
	}

	d.LeftHeld = this.LeftDown && (hovering || (holdOutside && d.leftActive))
	d.RightHeld = this.RightDown && (hovering || (holdOutside && d.rightActive))
}

// Reset forgets any press in progress.
func (d *ClickDetector) Reset() {
	*d = ClickDetector{}
}

// Button is a Box that reacts to clicks, holds and key bindings. Its
// background follows the hover/pressed status.
type Button struct {
	Box
	ButtonConfig

	Detector ClickDetector
	Status   ButtonStatus
	Border   *Border
}

// NewButton creates a labeled button with the default colors.
func NewButton(name string, r Rect, z float64, label string, cfg ButtonConfig) *Button {
	b := &Button{}
	if cfg.Colors == (ButtonColors{}) {
		cfg.Colors = DefaultButtonColors
	}
	InitButton(b, b, name, r, z, cfg)
	b.Text = label
	return b
}

// NewImageButton creates a button showing img with no background fill.
func NewImageButton(name string, r Rect, z float64, img Handle, cfg ButtonConfig) *Button {
	b := &Button{}
	InitButton(b, b, name, r, z, cfg)
	b.Image = img
	return b
}

// InitButton prepares an embedded Button. self is the outermost object.
func InitButton(b *Button, self Object, name string, r Rect, z float64, cfg ButtonConfig) {
	InitBox(&b.Box, self, name, r, z)
	b.ButtonConfig = cfg
	b.Fill = cfg.Colors.Normal
	b.Border = NewBorder(name+"/border", r, z+0.01, 2, ColorOutline)
	b.AddChild(b.Border)
}

// Hovering reports whether the cursor is over the button and not masked by an
// opaque object in front of it.
func (b *Button) Hovering() bool {
	s := b.scene
	if s == nil {
		return false
	}
	x, y := s.Env().Cursor()
	return b.Rect().Contains(x, y) && !s.Blocked(b.Self(), x, y)
}

// Process follows the parent, dispatches key bindings and mouse events, and
// updates the status color.
func (b *Button) Process() {
	b.Node.Process()
	s := b.scene
	if s == nil || b.destroyed {
		return
	}
	env := s.Env()
	hovering := b.Hovering()
	b.Detector.Update(env, hovering, b.HoldOutside)

	leftClick, rightClick := b.Detector.LeftClicked, b.Detector.RightClicked
	if key := env.Key(); key != "" {
		if fn, ok := b.KeyFunctions[key]; ok && fn != nil {
			env.ConsumeKey()
			fn()
			if b.destroyed {
				return
			}
		} else if slices.Contains(b.LeftTriggerKeys, key) {
			env.ConsumeKey()
			leftClick = true
		} else if slices.Contains(b.RightTriggerKeys, key) {
			env.ConsumeKey()
			rightClick = true
		}
	}

	switch {
	case leftClick && b.LeftClick != nil:
		b.LeftClick()
	case rightClick && b.RightClick != nil:
		b.RightClick()
	}
	if b.destroyed {
		return
	}
	if b.Detector.LeftHeld && b.LeftHold != nil {
		b.LeftHold()
	}
	if b.Detector.RightHeld && b.RightHold != nil {
		b.RightHold()
	}

	switch {
	case hovering && (env.This.LeftDown || env.This.RightDown):
		b.Status = StatusPressed
	case hovering:
		b.Status = StatusHover
	default:
		b.Status = StatusNormal
	}
	b.applyStatusColor()
}

func (b *Button) applyStatusColor() {
	if b.Colors == (ButtonColors{}) {
		return
	}
	switch b.Status {
	case StatusPressed:
		b.Fill = b.Colors.Pressed
	case StatusHover:
		b.Fill = b.Colors.Hover
	default:
		b.Fill = b.Colors.Normal
	}
}

// --- MobileButton ---

// MobileButton is a Button the user can drag with the left mouse button. The
// grab offset is captured on click; while held the button follows the cursor.
// Non-static children follow along.
type MobileButton struct {
	Button
	Moving bool

	grabX, grabY float64
}

// InitMobileButton prepares an embedded MobileButton. Movement runs before any
// LeftClick/LeftHold callbacks in cfg.
func InitMobileButton(m *MobileButton, self Object, name string, r Rect, z float64, cfg ButtonConfig) {
	click, hold := cfg.LeftClick, cfg.LeftHold
	cfg.LeftClick = func() {
		m.StartMovement()
		if click != nil {
			click()
		}
	}
	cfg.LeftHold = func() {
		m.Move()
		if hold != nil {
			hold()
		}
	}
	InitButton(&m.Button, self, name, r, z, cfg)
}

// NewMobileButton creates a draggable button showing img.
func NewMobileButton(name string, r Rect, z float64, img Handle, cfg ButtonConfig) *MobileButton {
	m := &MobileButton{}
	InitMobileButton(m, m, name, r, z, cfg)
	m.Image = img
	return m
}

// StartMovement records the cursor's offset from the button origin.
func (m *MobileButton) StartMovement() {
	if m.scene == nil {
		return
	}
	x, y := m.scene.Env().Cursor()
	m.grabX, m.grabY = x-m.x, y-m.y
	m.Moving = true
}

// Move puts the button at cursor minus the grab offset. No-op unless a
// movement is in progress.
func (m *MobileButton) Move() {
	if !m.Moving || m.scene == nil {
		return
	}
	x, y := m.scene.Env().Cursor()
	m.SetPos(x-m.grabX, y-m.grabY)
}

// StopMovement ends a drag in progress.
func (m *MobileButton) StopMovement() {
	m.Moving = false
	m.Detector.Reset()
}

// Process runs the button and ends the movement once the left button is up.
func (m *MobileButton) Process() {
	m.Button.Process()
	if m.scene != nil && !m.scene.Env().This.LeftDown {
		m.Moving = false
	}
}
