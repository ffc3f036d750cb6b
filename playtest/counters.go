package playtest

import (
	"math/rand/v2"
	"strconv"

	"github.com/phanxgames/tabletop"
	"github.com/tanema/gween/ease"
)

// tickSeconds is the tween step per tick at the default 60 TPS.
const tickSeconds = float32(1.0 / 60)

// LifeCounter tracks one player's life points. The amount typed into the
// field is subtracted or added by the buttons (enter subtracts); the label
// counts toward the new value.
type LifeCounter struct {
	tabletop.Node

	Label *tabletop.Box
	Input *tabletop.InputField
	Minus *tabletop.Button
	Plus  *tabletop.Button

	title string
	value int
	shown float64
	tween *tabletop.Tween
}

// NewLifeCounter creates a counter starting at lp.
func NewLifeCounter(name string, r tabletop.Rect, z float64, title string, lp int) *LifeCounter {
	l := &LifeCounter{title: title, value: lp, shown: float64(lp)}
	l.Init(l, name, r, z)
	l.Static = true

	half := r.H / 2
	l.Label = tabletop.NewTextBox(name+"/label", tabletop.Rect{X: r.X, Y: r.Y, W: r.W, H: half}, z, "", 22)
	l.Label.TextLeft = true
	l.Label.UpdateText = func() string { return l.title + "  " + strconv.Itoa(l.Shown()) }

	bw := half
	l.Input = tabletop.NewInputField(name+"/amount", tabletop.Rect{X: r.X, Y: r.Y + half, W: r.W - 2*bw - 8, H: half - 2}, z, tabletop.InputNumber)
	l.Input.MaxLength = 6
	l.Input.Placeholder = "amount"
	l.Input.OnSubmit = func(string) { l.applyInput(-1) }
	l.Minus = tabletop.NewButton(name+"/minus", tabletop.Rect{X: r.Right() - 2*bw - 4, Y: r.Y + half, W: bw, H: half - 2}, z, "-", tabletop.ButtonConfig{
		LeftClick: func() { l.applyInput(-1) },
	})
	l.Plus = tabletop.NewButton(name+"/plus", tabletop.Rect{X: r.Right() - bw, Y: r.Y + half, W: bw, H: half - 2}, z, "+", tabletop.ButtonConfig{
		LeftClick: func() { l.applyInput(1) },
	})
	for _, child := range []tabletop.Object{l.Label, l.Input, l.Minus, l.Plus} {
		child.Base().Static = true
		l.AddChild(child)
	}
	return l
}

// Value returns the life points.
func (l *LifeCounter) Value() int { return l.value }

// Shown returns the value currently displayed.
func (l *LifeCounter) Shown() int { return int(l.shown + 0.5) }

// Add changes the life points by delta, never below zero, and starts the
// label counting toward the result.
func (l *LifeCounter) Add(delta int) {
	l.value = max(0, l.value+delta)
	l.tween = tabletop.NewTween(&l.Node, &l.shown, float64(l.value), 0.5, ease.OutQuad)
}

// Set jumps to v without animating.
func (l *LifeCounter) Set(v int) {
	l.value = max(0, v)
	l.shown = float64(l.value)
	l.tween = nil
}

func (l *LifeCounter) applyInput(sign int) {
	n, err := l.Input.Number()
	if err != nil || n == 0 {
		return
	}
	l.Add(sign * n)
	l.Input.SetValue("")
}

// Process advances the label animation.
func (l *LifeCounter) Process() {
	l.Node.Process()
	if l.tween != nil {
		l.tween.Update(tickSeconds)
		if l.tween.Done {
			l.tween = nil
		}
	}
}

// Dice is a six-sided die. A click rolls it; the face spins for a moment
// before settling on the result.
type Dice struct {
	tabletop.Button

	rng   *rand.Rand
	value int
	spin  float64
	tween *tabletop.Tween
}

// NewDice creates a die showing icon until the first roll.
func NewDice(name string, r tabletop.Rect, z float64, icon tabletop.Handle, rng *rand.Rand) *Dice {
	d := &Dice{rng: rng}
	tabletop.InitButton(&d.Button, d, name, r, z, tabletop.ButtonConfig{LeftClick: d.Roll})
	d.Static = true
	d.Image = icon
	d.TextSize = 26
	d.UpdateText = d.face
	return d
}

// Value returns the last result, 0 before the first roll.
func (d *Dice) Value() int { return d.value }

// Rolling reports whether the face is still spinning.
func (d *Dice) Rolling() bool { return d.tween != nil }

// Roll picks a new result.
func (d *Dice) Roll() {
	d.value = d.rng.IntN(6) + 1
	d.spin = 0
	d.tween = tabletop.NewTween(&d.Node, &d.spin, float64(12+d.value), 0.6, ease.OutCubic)
}

func (d *Dice) face() string {
	switch {
	case d.tween != nil:
		return strconv.Itoa(int(d.spin)%6 + 1)
	case d.value > 0:
		return strconv.Itoa(d.value)
	}
	return ""
}

// Process runs the button and advances the spin.
func (d *Dice) Process() {
	d.Button.Process()
	if d.tween != nil {
		d.tween.Update(tickSeconds)
		if d.tween.Done {
			d.tween = nil
		}
	}
}
