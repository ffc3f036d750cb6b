package tabletop

import (
	"testing"
)

func TestFontSetMeasureGrowsWithText(t *testing.T) {
	fs := newFontSet()
	w1, h1 := fs.measure("G", 20)
	w2, h2 := fs.measure("Graveyard", 20)
	if w2 <= w1 {
		t.Errorf("width of longer text = %d, want > %d", w2, w1)
	}
	if h1 != h2 {
		t.Errorf("line heights differ: %d vs %d", h1, h2)
	}
	_, big := fs.measure("G", 40)
	if big <= h1 {
		t.Errorf("height at 40px = %d, want > %d", big, h1)
	}
}

func TestFontSetMeasureEmpty(t *testing.T) {
	w, h := newFontSet().measure("", 18)
	if w != 1 || h < 1 {
		t.Errorf("measure(\"\") = %dx%d, want 1 wide and at least 1 tall", w, h)
	}
}

func TestFontSetRenderInk(t *testing.T) {
	fs := newFontSet()
	img, err := fs.render("LP 8000", ColorWhite, 16)
	if err != nil {
		t.Fatal(err)
	}
	w, h := fs.measure("LP 8000", 16)
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("bitmap = %v, want %dx%d", b, w, h)
	}
	inked := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("rendered text has no opaque pixels")
	}
}

func TestFontSetCachesFaces(t *testing.T) {
	fs := newFontSet()
	a, err := fs.face(18)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := fs.face(18)
	if a != b {
		t.Error("face(18) built twice")
	}
	if _, err := fs.face(0); err != nil {
		t.Errorf("face(0) = %v, want clamped size", err)
	}
}
