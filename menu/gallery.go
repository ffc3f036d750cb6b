package menu

import (
	"fmt"
	"path"
	"strconv"

	"github.com/phanxgames/tabletop"
	"github.com/tanema/gween/ease"
)

// Gallery builds the TEST scene: one of each widget, for trying input by
// hand or from a script.
func Gallery(opts Options) tabletop.Factory {
	return func(m *tabletop.Manager, _ ...any) (*tabletop.Scene, error) {
		back, err := m.Cache().LoadImage(path.Join(opts.ImagesDir, "card_back.png"))
		if err != nil {
			return nil, fmt.Errorf("menu: %w", err)
		}
		closeImg, err := m.Cache().LoadImage(path.Join(opts.ImagesDir, "close_button.png"))
		if err != nil {
			return nil, fmt.Errorf("menu: %w", err)
		}
		s := tabletop.NewScene(m, tabletop.SceneTest)
		s.Background = Background
		s.Add(backButton(m))
		s.Add(newWidgets(m, back, closeImg))
		return s, nil
	}
}

// Widgets is the content of the gallery.
type Widgets struct {
	tabletop.Node

	Counter *tabletop.Button
	Card    *tabletop.MobileButton
	Field   *tabletop.InputField
	Echo    *tabletop.Box
	Open    *tabletop.Button
	Confirm *tabletop.Button
	Slider  *tabletop.Box

	Clicks    int
	Confirmed int

	m        *tabletop.Manager
	closeImg tabletop.Handle
	offset   float64
	tween    *tabletop.Tween
}

func newWidgets(m *tabletop.Manager, cardBack, closeImg tabletop.Handle) *Widgets {
	screen := m.Screen()
	w := &Widgets{m: m, closeImg: closeImg}
	w.Init(w, "widgets", screen, 0)
	w.Static = true

	x := screen.X + 48
	y := screen.Y + 80
	row := func(i int) tabletop.Rect { return tabletop.Rect{X: x, Y: y + float64(i)*(buttonH+buttonGap), W: buttonW, H: buttonH} }

	w.Counter = tabletop.NewButton("widgets/counter", row(0), 1, "Clicked 0 times", tabletop.ButtonConfig{
		LeftClick:        func() { w.Clicks++ },
		RightClick:       func() { w.Clicks = 0 },
		LeftTriggerKeys:  []string{"c"},
		RightTriggerKeys: []string{"x"},
	})
	w.Counter.UpdateText = func() string { return "Clicked " + strconv.Itoa(w.Clicks) + " times" }

	w.Field = tabletop.NewInputField("widgets/input", row(1), 1, tabletop.InputText)
	w.Field.Placeholder = "type and press enter"
	w.Field.MaxLength = 24
	w.Echo = tabletop.NewTextBox("widgets/echo", row(2), 1, "", 18)
	w.Echo.TextLeft = true
	w.Field.OnSubmit = func(v string) { w.Echo.Text = v }

	w.Open = tabletop.NewButton("widgets/open", row(3), 1, "Open overlay", tabletop.ButtonConfig{LeftClick: w.openOverlay})
	w.Confirm = tabletop.NewButton("widgets/confirm", row(4), 1, "Ask to confirm", tabletop.ButtonConfig{LeftClick: w.askConfirm})

	w.Slider = tabletop.NewBox("widgets/slider", tabletop.Rect{X: x, Y: row(5).Y, W: 24, H: 24}, 1, tabletop.ColorOutline)
	w.tween = tabletop.NewTween(&w.Node, &w.offset, buttonW-24, 2, ease.InOutQuad)

	for _, child := range []tabletop.Object{w.Counter, w.Field, w.Echo, w.Open, w.Confirm} {
		child.Base().Static = true
		w.AddChild(child)
	}
	w.AddChild(w.Slider)

	w.Card = tabletop.NewMobileButton("widgets/card", tabletop.Rect{X: screen.Right() - 200, Y: y, W: 86, H: 125}, 2, cardBack, tabletop.ButtonConfig{HoldOutside: true})
	w.AddChild(w.Card)
	return w
}

func (w *Widgets) openOverlay() {
	screen := w.m.Screen()
	o := tabletop.NewOverlay("widgets/overlay", screen.Inset(screen.H/4), 50, w.closeImg)
	o.AddChild(tabletop.NewTextBox("widgets/overlay/text", screen.Inset(screen.H/4+40), 51, "Escape or the close button dismisses this.", 18))
	o.DestroyOnExternalClicks(nil)
	w.Scene().Add(o)
}

func (w *Widgets) askConfirm() {
	w.Scene().Add(tabletop.NewConfirmationOverlay("widgets/confirmation", w.m.Screen(), 60, "Count a confirmation?", func() { w.Confirmed++ }))
}

// Process slides the marker back and forth.
func (w *Widgets) Process() {
	w.Node.Process()
	w.tween.Update(1.0 / 60)
	if w.tween.Done {
		to := 0.0
		if w.tween.Target() == 0 {
			to = buttonW - 24
		}
		w.tween = tabletop.NewTween(&w.Node, &w.offset, to, 2, ease.InOutQuad)
	}
	w.Slider.SetPos(w.X()+48+w.offset, w.Slider.Y())
}
