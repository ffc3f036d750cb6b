package tabletop

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // card art
	_ "image/png"  // UI chrome
	"io/fs"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// Handle identifies a cache entry. Handles are allocated monotonically and
// never recycled; NoHandle asks the cache to allocate a fresh one.
type Handle int

// NoHandle is the zero Handle. Passed as an "into" argument it means
// "allocate a new entry".
const NoHandle Handle = 0

// Kind tells how a cache entry was produced.
type Kind uint8

const (
	KindRaw   Kind = iota // blank surface or pixels handed in by the caller
	KindImage             // decoded from a file, or transformed from one
	KindText              // rendered single-line text, or transformed from it
)

// Origin records how to recreate an entry's pixels without the caller.
// Derived entries (scaled/rotated) name their Source handle; the transform is
// "rotate by Turns quarter turns clockwise, then resample to Width x Height".
type Origin struct {
	Path   string // KindImage base entries
	Text   string // KindText base entries
	Color  color.NRGBA
	Size   float64
	Source Handle // derived entries
	Width  int
	Height int
	Turns  int
	Pixels []byte // KindRaw entries with caller-supplied content (NRGBA, row-major)
}

func (o Origin) derived() bool { return o.Source != NoHandle }

type entry struct {
	kind   Kind
	origin Origin
	w, h   int
	alpha  bool
	pix    *image.NRGBA  // nil when evicted; rebuilt from origin on fetch
	tex    *ebiten.Image // GPU mirror of pix, created on first draw
}

// Cache is the handle-indexed store of every renderable pixmap: decoded
// images, blank surfaces, rendered text, and scaled or rotated versions of
// those. Widgets hold handles; the cache owns the pixels.
//
// Transform calls accept an "into" handle so a widget can keep one stable
// handle across resizes and rotations.
type Cache struct {
	fsys    fs.FS
	entries map[Handle]*entry
	paths   map[string]Handle
	next    Handle
	fonts   *fontSet
}

// NewCache creates an empty cache reading image files from fsys.
func NewCache(fsys fs.FS) *Cache {
	return &Cache{
		fsys:    fsys,
		entries: make(map[Handle]*entry),
		paths:   make(map[string]Handle),
		fonts:   newFontSet(),
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int { return len(c.entries) }

// Has reports whether h names an entry.
func (c *Cache) Has(h Handle) bool {
	_, ok := c.entries[h]
	return ok
}

// LoadImage decodes the image at path and returns its handle. Loading the
// same path twice returns the same handle.
func (c *Cache) LoadImage(path string) (Handle, error) {
	if h, ok := c.paths[path]; ok {
		return h, nil
	}
	e := &entry{kind: KindImage, origin: Origin{Path: path}, alpha: true}
	pix, err := c.build(e)
	if err != nil {
		return NoHandle, err
	}
	e.pix = pix
	e.w, e.h = pix.Rect.Dx(), pix.Rect.Dy()
	h := c.put(NoHandle, e)
	c.paths[path] = h
	return h, nil
}

// MustLoadImage is LoadImage that panics on error. Use for bundled chrome.
func (c *Cache) MustLoadImage(path string) Handle {
	h, err := c.LoadImage(path)
	if err != nil {
		panic(err)
	}
	return h
}

// SetImage stores a copy of img. The pixels are kept with the entry so they
// survive a snapshot.
func (c *Cache) SetImage(img image.Image, into Handle) Handle {
	pix := toNRGBA(img)
	e := &entry{
		kind:   KindRaw,
		origin: Origin{Width: pix.Rect.Dx(), Height: pix.Rect.Dy(), Pixels: append([]byte(nil), pix.Pix...)},
		w:      pix.Rect.Dx(),
		h:      pix.Rect.Dy(),
		alpha:  true,
		pix:    pix,
	}
	return c.put(into, e)
}

// FetchImage returns the pixmap for h, rebuilding it from its origin if it was
// evicted. Panics if h was never allocated. If the rebuild fails (a source
// file vanished) a magenta placeholder of the recorded size is returned.
func (c *Cache) FetchImage(h Handle) *image.NRGBA {
	e := c.mustEntry(h)
	if e.pix == nil {
		pix, err := c.build(e)
		if err != nil {
			log.Printf("tabletop: rebuild cache entry %d: %v", h, err)
			pix = placeholder(e.w, e.h)
		}
		e.pix = pix
	}
	return e.pix
}

// Size returns the pixel dimensions of h.
func (c *Cache) Size(h Handle) (int, int) {
	e := c.mustEntry(h)
	return e.w, e.h
}

// Kind returns the kind of h.
func (c *Cache) Kind(h Handle) Kind {
	return c.mustEntry(h).kind
}

// Origin returns the recorded origin of h.
func (c *Cache) Origin(h Handle) Origin {
	return c.mustEntry(h).origin
}

// ScaleImage resamples h to w x height with a smooth filter. When into is
// not NoHandle that entry is overwritten.
func (c *Cache) ScaleImage(h Handle, w, height int, into Handle) Handle {
	src := c.mustEntry(h)
	o := deriveOrigin(src, h)
	o.Width, o.Height = max(w, 1), max(height, 1)
	return c.transform(src, h, o, into)
}

// RotateImage turns h clockwise by deg degrees relative to its current
// orientation. deg must be a multiple of 90.
func (c *Cache) RotateImage(h Handle, deg int, into Handle) Handle {
	if deg%90 != 0 {
		panic(fmt.Sprintf("tabletop: rotation %d is not a multiple of 90", deg))
	}
	src := c.mustEntry(h)
	q := deg / 90
	o := deriveOrigin(src, h)
	o.Turns = ((o.Turns+q)%4 + 4) % 4
	if q%2 != 0 {
		o.Width, o.Height = o.Height, o.Width
	}
	return c.transform(src, h, o, into)
}

// CreateSurface allocates a blank w x h surface. Surfaces with alpha start
// transparent; opaque ones start black.
func (c *Cache) CreateSurface(w, h int, alpha bool, into Handle) Handle {
	e := &entry{
		kind:   KindRaw,
		origin: Origin{Width: max(w, 1), Height: max(h, 1)},
		w:      max(w, 1),
		h:      max(h, 1),
		alpha:  alpha,
	}
	e.pix = blankSurface(e.w, e.h, alpha)
	return c.put(into, e)
}

// ScaleSurface is ScaleImage for drawing surfaces.
func (c *Cache) ScaleSurface(h Handle, w, height int, into Handle) Handle {
	return c.ScaleImage(h, w, height, into)
}

// RotateSurface is RotateImage for drawing surfaces.
func (c *Cache) RotateSurface(h Handle, deg int, into Handle) Handle {
	return c.RotateImage(h, deg, into)
}

// CreateFontSurface renders a single line of text in the system font. The
// (text, color, size) triple is recorded so the entry can be rebuilt after a
// snapshot is loaded.
func (c *Cache) CreateFontSurface(text string, clr color.NRGBA, size float64, into Handle) Handle {
	e := &entry{
		kind:   KindText,
		origin: Origin{Text: text, Color: clr, Size: size},
		alpha:  true,
	}
	pix, err := c.build(e)
	if err != nil {
		panic(fmt.Sprintf("tabletop: render text %q: %v", text, err))
	}
	e.pix = pix
	e.w, e.h = pix.Rect.Dx(), pix.Rect.Dy()
	return c.put(into, e)
}

// MeasureText returns the pixel size CreateFontSurface would produce.
func (c *Cache) MeasureText(text string, size float64) (int, int) {
	return c.fonts.measure(text, size)
}

// Texture returns the GPU image for h, uploading the pixmap on first use.
func (c *Cache) Texture(h Handle) *ebiten.Image {
	e := c.mustEntry(h)
	if e.tex == nil {
		e.tex = ebiten.NewImageFromImage(c.FetchImage(h))
	}
	return e.tex
}

// ClearVolatile drops the pixmaps (and textures) of every entry that can be
// rebuilt from its origin. Raw surfaces keep their pixels.
func (c *Cache) ClearVolatile() {
	for _, e := range c.entries {
		if e.kind == KindRaw && !e.origin.derived() {
			continue
		}
		e.pix = nil
		if e.tex != nil {
			e.tex.Deallocate()
			e.tex = nil
		}
	}
}

// --- Persistence ---

// EntryState is the serializable metadata of one cache entry.
type EntryState struct {
	Handle Handle
	Kind   Kind
	Origin Origin
	W, H   int
	Alpha  bool
}

// CacheState is everything needed to rebuild a cache lazily.
type CacheState struct {
	Next    Handle
	Entries []EntryState
	Paths   map[string]Handle
}

// Snapshot captures the cache's serializable metadata. Raw surfaces carry
// their current pixel bytes; every other entry carries only its origin.
func (c *Cache) Snapshot() CacheState {
	st := CacheState{
		Next:  c.next,
		Paths: make(map[string]Handle, len(c.paths)),
	}
	for p, h := range c.paths {
		st.Paths[p] = h
	}
	for h, e := range c.entries {
		o := e.origin
		if e.kind == KindRaw && !o.derived() && e.pix != nil {
			o.Pixels = append([]byte(nil), e.pix.Pix...)
		}
		st.Entries = append(st.Entries, EntryState{Handle: h, Kind: e.kind, Origin: o, W: e.w, H: e.h, Alpha: e.alpha})
	}
	sort.Slice(st.Entries, func(i, j int) bool { return st.Entries[i].Handle < st.Entries[j].Handle })
	return st
}

// LoadPersistentState replaces the cache contents with st. Pixmaps are
// rebuilt lazily on the first fetch of each handle.
func (c *Cache) LoadPersistentState(st CacheState) {
	for _, e := range c.entries {
		if e.tex != nil {
			e.tex.Deallocate()
		}
	}
	c.entries = make(map[Handle]*entry, len(st.Entries))
	c.paths = make(map[string]Handle, len(st.Paths))
	for p, h := range st.Paths {
		c.paths[p] = h
	}
	for _, es := range st.Entries {
		o := es.Origin
		o.Pixels = append([]byte(nil), es.Origin.Pixels...)
		c.entries[es.Handle] = &entry{kind: es.Kind, origin: o, w: es.W, h: es.H, alpha: es.Alpha}
	}
	c.next = st.Next
}

// --- Internals ---

func (c *Cache) mustEntry(h Handle) *entry {
	e, ok := c.entries[h]
	if !ok {
		panic(fmt.Sprintf("tabletop: unknown cache handle %d", h))
	}
	return e
}

// put stores e under into, or under a freshly allocated handle.
func (c *Cache) put(into Handle, e *entry) Handle {
	if into == NoHandle {
		c.next++
		into = c.next
	} else if into > c.next {
		c.next = into
	}
	if old, ok := c.entries[into]; ok {
		if old.tex != nil {
			old.tex.Deallocate()
		}
		if old.kind == KindImage && !old.origin.derived() && c.paths[old.origin.Path] == into {
			delete(c.paths, old.origin.Path)
		}
	}
	c.entries[into] = e
	return into
}

// transform builds the derived entry o and stores it. Transforming a base
// entry into its own handle would make it its own source, so the result is
// materialized as raw pixels instead.
func (c *Cache) transform(src *entry, h Handle, o Origin, into Handle) Handle {
	e := &entry{kind: src.kind, origin: o, w: o.Width, h: o.Height, alpha: src.alpha}
	pix, err := c.build(e)
	if err != nil {
		log.Printf("tabletop: transform cache entry %d: %v", h, err)
		pix = placeholder(e.w, e.h)
	}
	e.pix = pix
	if into == h && !src.origin.derived() {
		e.kind = KindRaw
		e.origin = Origin{Width: e.w, Height: e.h, Pixels: append([]byte(nil), pix.Pix...)}
	}
	return c.put(into, e)
}

// deriveOrigin returns the origin of a transform applied to src: derived
// entries keep pointing at their original source.
func deriveOrigin(src *entry, h Handle) Origin {
	if src.origin.derived() {
		o := src.origin
		o.Pixels = nil
		return o
	}
	return Origin{Source: h, Width: src.w, Height: src.h}
}

// build produces the pixels described by e's origin.
func (c *Cache) build(e *entry) (*image.NRGBA, error) {
	o := e.origin
	switch {
	case o.derived():
		src := c.FetchImage(o.Source)
		img := rotateTurns(src, o.Turns)
		if img.Rect.Dx() != o.Width || img.Rect.Dy() != o.Height {
			img = scaleSmooth(img, o.Width, o.Height)
		}
		if img == src {
			img = cloneNRGBA(src)
		}
		return img, nil
	case e.kind == KindImage:
		return c.decode(o.Path)
	case e.kind == KindText:
		return c.fonts.render(o.Text, o.Color, o.Size)
	default:
		if o.Pixels != nil {
			if len(o.Pixels) != 4*o.Width*o.Height {
				return nil, fmt.Errorf("raw entry has %d bytes, want %d", len(o.Pixels), 4*o.Width*o.Height)
			}
			img := image.NewNRGBA(image.Rect(0, 0, o.Width, o.Height))
			copy(img.Pix, o.Pixels)
			return img, nil
		}
		return blankSurface(o.Width, o.Height, e.alpha), nil
	}
}

func (c *Cache) decode(path string) (*image.NRGBA, error) {
	if c.fsys == nil {
		return nil, fmt.Errorf("tabletop: load image %s: no filesystem", path)
	}
	f, err := c.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tabletop: load image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tabletop: decode image %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA returns img as a zero-origin *image.NRGBA, copying when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)
	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// rotateTurns returns src turned clockwise by quarter turns. Exact: pixels are
// only permuted.
func rotateTurns(src *image.NRGBA, turns int) *image.NRGBA {
	turns = ((turns % 4) + 4) % 4
	if turns == 0 {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := w, h
	if turns%2 == 1 {
		dw, dh = h, w
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch turns {
			case 1:
				dx, dy = h-1-y, x
			case 2:
				dx, dy = w-1-x, h-1-y
			case 3:
				dx, dy = y, w-1-x
			}
			si := src.PixOffset(x, y)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// scaleSmooth resamples src to w x h with Catmull-Rom filtering.
func scaleSmooth(src *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}

func blankSurface(w, h int, alpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if !alpha {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// placeholder returns a magenta image standing in for pixels that could not
// be rebuilt.
func placeholder(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0xff, 0, 0xff, 0xff
	}
	return img
}
