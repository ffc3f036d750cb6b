package tabletop

// Overlay is a top-level panel with a built-in close button. Overlays are
// opaque, so they absorb clicks meant for objects behind them, and transient,
// so snapshots leave them out.
type Overlay struct {
	Box

	// ExternalProcess, when set, runs every tick after the overlay's own
	// processing.
	ExternalProcess func()
	// OnClose runs once when the overlay is destroyed by its close button,
	// the escape key, or an external click.
	OnClose func()

	Close *Button
}

// CloseButtonSize is the edge length of the close button.
const CloseButtonSize = 28

// NewOverlay creates an overlay covering r. closeImg may be NoHandle, in which
// case the close button shows an "X".
func NewOverlay(name string, r Rect, z float64, closeImg Handle) *Overlay {
	o := &Overlay{}
	InitOverlay(o, o, name, r, z, closeImg)
	return o
}

// InitOverlay prepares an embedded Overlay. self is the outermost object.
func InitOverlay(o *Overlay, self Object, name string, r Rect, z float64, closeImg Handle) {
	InitBox(&o.Box, self, name, r, z)
	o.Fill = ColorPanel
	o.Opaque = true
	o.Transient = true

	cr := Rect{X: r.Right() - CloseButtonSize - 4, Y: r.Y + 4, W: CloseButtonSize, H: CloseButtonSize}
	cfg := ButtonConfig{
		LeftClick:    o.Dismiss,
		KeyFunctions: map[string]func(){"escape": o.Dismiss},
	}
	if closeImg != NoHandle {
		o.Close = NewImageButton(name+"/close", cr, z+1, closeImg, cfg)
	} else {
		o.Close = NewButton(name+"/close", cr, z+1, "X", cfg)
	}
	o.AddChild(o.Close)
}

// Dismiss runs OnClose and destroys the overlay.
func (o *Overlay) Dismiss() {
	if o.destroyed {
		return
	}
	if o.OnClose != nil {
		o.OnClose()
	}
	o.Self().Destroy()
}

// Process follows the parent and runs ExternalProcess.
func (o *Overlay) Process() {
	o.Node.Process()
	if o.ExternalProcess != nil && !o.destroyed {
		o.ExternalProcess()
	}
}

// DestroyOnExternalClicks makes the overlay dismiss itself whenever a click
// lands outside both its own rectangle and every rectangle returned by
// allowed. allowed may be nil.
func (o *Overlay) DestroyOnExternalClicks(allowed func() []Rect) {
	o.ExternalProcess = func() {
		s := o.scene
		if s == nil {
			return
		}
		env := s.Env()
		if !env.LeftClicked() && !env.RightClicked() {
			return
		}
		x, y := env.Cursor()
		if o.Rect().Contains(x, y) {
			return
		}
		if allowed != nil {
			for _, r := range allowed() {
				if r.Contains(x, y) {
					return
				}
			}
		}
		o.Dismiss()
	}
}

// --- Confirmation ---

// ConfirmationOverlay asks a yes/no question. Yes runs the action and closes
// the overlay; No (or escape) only closes it.
type ConfirmationOverlay struct {
	Overlay
	Prompt *Box
	Yes    *Button
	No     *Button
}

// NewConfirmationOverlay creates a confirmation dialog centered in screen.
func NewConfirmationOverlay(name string, screen Rect, z float64, prompt string, action func()) *ConfirmationOverlay {
	w, h := 420.0, 160.0
	r := Rect{X: screen.X + (screen.W-w)/2, Y: screen.Y + (screen.H-h)/2, W: w, H: h}
	c := &ConfirmationOverlay{}
	InitOverlay(&c.Overlay, c, name, r, z, NoHandle)

	c.Prompt = NewTextBox(name+"/prompt", Rect{X: r.X, Y: r.Y + 20, W: r.W, H: 40}, z+1, prompt, 20)
	c.AddChild(c.Prompt)

	c.Yes = NewButton(name+"/yes", Rect{X: r.X + 60, Y: r.Bottom() - 64, W: 120, H: 44}, z+1, "Yes", ButtonConfig{
		LeftClick: func() {
			if action != nil {
				action()
			}
			c.Dismiss()
		},
		LeftTriggerKeys: []string{"enter", "y"},
	})
	c.No = NewButton(name+"/no", Rect{X: r.Right() - 180, Y: r.Bottom() - 64, W: 120, H: 44}, z+1, "No", ButtonConfig{
		LeftClick:       c.Dismiss,
		LeftTriggerKeys: []string{"escape", "n"},
	})
	c.AddChild(c.Yes)
	c.AddChild(c.No)
	return c
}
