package tabletop

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// gradientPNG encodes a w x h image whose pixels all differ, so rotations and
// scales are observable.
func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testAssets(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"Images/card.png":         {Data: gradientPNG(t, 20, 30)},
		"Images/close_button.png": {Data: gradientPNG(t, 8, 8)},
	}
}

// newTestManager returns a manager whose active scene was built by build.
func newTestManager(t *testing.T, build func(s *Scene)) (*Manager, *ScriptedInput) {
	t.Helper()
	in := NewScriptedInput()
	m := NewManager(800, 600, testAssets(t), in)
	err := m.ChangeScene(SceneTest, func(m *Manager, _ ...any) (*Scene, error) {
		s := NewScene(m, SceneTest)
		if build != nil {
			build(s)
		}
		return s, nil
	})
	if err != nil {
		t.Fatalf("ChangeScene: %v", err)
	}
	return m, in
}

// tickN runs n ticks and fails the test on the first error.
func tickN(t *testing.T, m *Manager, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

// drain ticks until the scripted input is exhausted.
func drain(t *testing.T, m *Manager, in *ScriptedInput) {
	t.Helper()
	for in.Pending() > 0 {
		tickN(t, m, 1)
	}
}

// recorder is a bare object that logs every Process call.
type recorder struct {
	Node
	log       *[]string
	onProcess func()
}

func newRecorder(name string, r Rect, z float64, log *[]string) *recorder {
	rc := &recorder{log: log}
	rc.Init(rc, name, r, z)
	return rc
}

func (rc *recorder) Process() {
	*rc.log = append(*rc.log, rc.Name)
	if rc.onProcess != nil {
		rc.onProcess()
	}
}
