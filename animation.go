package tabletop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a single float64 field toward a target. Call Update once per
// tick with the tick duration. If the owning object is destroyed, the tween
// stops immediately without writing.
//
// There is no global animation manager; widgets own and advance their tweens.
type Tween struct {
	tween  *gween.Tween
	field  *float64
	owner  *Node
	target float64
	Done   bool
}

// NewTween creates a tween moving *field from its current value to to over
// duration seconds. owner may be nil.
func NewTween(owner *Node, field *float64, to float64, duration float32, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		tween:  gween.New(float32(*field), float32(to), duration, fn),
		field:  field,
		owner:  owner,
		target: to,
	}
}

// Target returns the value the tween settles on.
func (t *Tween) Target() float64 { return t.target }

// Update advances the tween by dt seconds and writes the value to the field.
// The final write is always the exact target.
func (t *Tween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.owner != nil && t.owner.Destroyed() {
		t.Done = true
		return
	}
	val, finished := t.tween.Update(dt)
	if finished {
		*t.field = t.target
		t.Done = true
		return
	}
	*t.field = float64(val)
}

// Finish jumps straight to the target.
func (t *Tween) Finish() {
	if t.Done {
		return
	}
	*t.field = t.target
	t.Done = true
}
