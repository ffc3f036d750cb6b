package tabletop

// ScriptedInput is an InputSource fed from a queue of synthetic samples. Each
// queued sample is consumed by exactly one tick; once the queue drains the
// cursor stays where it was with every button released.
type ScriptedInput struct {
	queue []Sample
	last  Sample
}

// NewScriptedInput creates an empty scripted source with the cursor at (0, 0).
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{}
}

// Poll pops the next queued sample.
func (in *ScriptedInput) Poll() Sample {
	if len(in.queue) == 0 {
		idle := Sample{X: in.last.X, Y: in.last.Y}
		in.last = idle
		return idle
	}
	s := in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue = in.queue[:len(in.queue)-1]
	in.last = s
	return s
}

// Pending returns the number of queued samples.
func (in *ScriptedInput) Pending() int {
	return len(in.queue)
}

// Push queues a raw sample.
func (in *ScriptedInput) Push(s Sample) {
	in.queue = append(in.queue, s)
}

// Move queues one tick with the cursor at (x, y) and no buttons held.
func (in *ScriptedInput) Move(x, y float64) {
	in.Push(Sample{X: x, Y: y})
}

// Press queues one tick with the left button held at (x, y).
func (in *ScriptedInput) Press(x, y float64) {
	in.Push(Sample{X: x, Y: y, LeftDown: true})
}

// Release queues one tick with every button released at (x, y).
func (in *ScriptedInput) Release(x, y float64) {
	in.Push(Sample{X: x, Y: y})
}

// Click queues a left press followed by a release at the same position.
// Consumes two ticks.
func (in *ScriptedInput) Click(x, y float64) {
	in.Press(x, y)
	in.Release(x, y)
}

// RightClick queues a right press followed by a release. Consumes two ticks.
func (in *ScriptedInput) RightClick(x, y float64) {
	in.Push(Sample{X: x, Y: y, RightDown: true})
	in.Release(x, y)
}

// Drag queues a full left-button drag: press at (fromX, fromY), linearly
// interpolated holds over frames-2 intermediate ticks, a hold at (toX, toY)
// and the release there. The sequence consumes frames+1 ticks; minimum
// frames is 2.
func (in *ScriptedInput) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.Press(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	in.Press(toX, toY)
	in.Release(toX, toY)
}

// Key queues one tick in which the named key is pressed.
func (in *ScriptedInput) Key(name string) {
	in.Push(Sample{X: in.tailX(), Y: in.tailY(), Key: name})
}

// Type queues one tick per character of text, each carrying the character
// and the name of the key that types it, the way a keyboard reports it.
func (in *ScriptedInput) Type(text string) {
	for _, r := range text {
		in.Push(Sample{X: in.tailX(), Y: in.tailY(), Key: typedKey(r), Chars: []rune{r}})
	}
}

// typedKey returns the key name for r on an unshifted keyboard, or "" when
// the key is not known.
func typedKey(r rune) string {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return string(r)
	case r >= 'A' && r <= 'Z':
		return string(r - 'A' + 'a')
	case r == ' ':
		return "space"
	}
	return ""
}

// Wait queues n idle ticks at the current cursor position.
func (in *ScriptedInput) Wait(n int) {
	for i := 0; i < n; i++ {
		in.Move(in.tailX(), in.tailY())
	}
}

func (in *ScriptedInput) tailX() float64 {
	if len(in.queue) > 0 {
		return in.queue[len(in.queue)-1].X
	}
	return in.last.X
}

func (in *ScriptedInput) tailY() float64 {
	if len(in.queue) > 0 {
		return in.queue[len(in.queue)-1].Y
	}
	return in.last.Y
}
