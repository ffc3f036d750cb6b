package tabletop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrUnknownScene is returned when a scene change or load names a scene with
// no registered factory or restorer.
var ErrUnknownScene = errors.New("tabletop: unknown scene")

// Factory builds a scene from scratch. Missing assets are returned as errors
// and are fatal to the scene change.
type Factory func(m *Manager, args ...any) (*Scene, error)

// Restorer rebuilds a scene from the state its Snapshotter produced. The
// cache has already been repopulated when it runs.
type Restorer func(m *Manager, state []byte) (*Scene, error)

// Manager owns the scenes, the surface cache and the input environment, and
// drives one tick per ebiten Update. It implements ebiten.Game.
type Manager struct {
	width, height int

	scenes    map[string]*Scene
	factories map[string]Factory
	restorers map[string]Restorer
	current   string

	cache *Cache
	env   *Environment

	startQueue []func()
	endQueue   []func()

	debug bool
	tick  uint64
	err   error

	// ScreenshotDir is where debug screenshots are written.
	ScreenshotDir   string
	screenshotQueue []string
}

// NewManager creates a manager with a virtual screen of w x h. assets is the
// filesystem image paths are resolved against; input supplies the per-tick
// samples.
func NewManager(w, h int, assets fs.FS, input InputSource) *Manager {
	return &Manager{
		width:         w,
		height:        h,
		scenes:        make(map[string]*Scene),
		factories:     make(map[string]Factory),
		restorers:     make(map[string]Restorer),
		cache:         NewCache(assets),
		env:           NewEnvironment(input),
		ScreenshotDir: "screenshots",
	}
}

// Register installs the factory and optional restorer for a scene name.
func (m *Manager) Register(name string, f Factory, r Restorer) {
	m.factories[name] = f
	if r != nil {
		m.restorers[name] = r
	}
}

// Cache returns the surface cache.
func (m *Manager) Cache() *Cache { return m.cache }

// Env returns the input environment.
func (m *Manager) Env() *Environment { return m.env }

// Screen returns the virtual screen rectangle.
func (m *Manager) Screen() Rect {
	return Rect{W: float64(m.width), H: float64(m.height)}
}

// Current returns the active scene, or nil.
func (m *Manager) Current() *Scene { return m.scenes[m.current] }

// CurrentName returns the active scene's name.
func (m *Manager) CurrentName() string { return m.current }

// Scene returns the scene stored under name, or nil.
func (m *Manager) Scene(name string) *Scene { return m.scenes[name] }

// Ticks returns the number of completed ticks.
func (m *Manager) Ticks() uint64 { return m.tick }

// SetDebugMode enables per-tick timing logs and tree checks.
func (m *Manager) SetDebugMode(on bool) {
	m.debug = on
	globalDebug = on
}

// Err returns the error that stopped the manager, if any.
func (m *Manager) Err() error { return m.err }

// OnStartOfTick queues fn to run at the start of the next tick.
func (m *Manager) OnStartOfTick(fn func()) {
	m.startQueue = append(m.startQueue, fn)
}

// OnEndOfTick queues fn to run at the end of the current tick.
func (m *Manager) OnEndOfTick(fn func()) {
	m.endQueue = append(m.endQueue, fn)
}

// ScheduleSceneChange switches to the named scene at the start of the next
// tick. Volatile cache surfaces are cleared first. A persistent scene already
// stored under name is re-activated; otherwise factory (or the registered
// factory when nil) builds it with args.
func (m *Manager) ScheduleSceneChange(name string, factory Factory, args ...any) {
	m.OnStartOfTick(func() {
		if err := m.ChangeScene(name, factory, args...); err != nil {
			m.err = err
		}
	})
}

// ChangeScene switches scenes immediately. Only call it between ticks.
func (m *Manager) ChangeScene(name string, factory Factory, args ...any) error {
	m.cache.ClearVolatile()
	if s, ok := m.scenes[name]; ok && s.Persistent {
		m.activate(name, s)
		return nil
	}
	if factory == nil {
		factory = m.factories[name]
	}
	if factory == nil {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	s, err := factory(m, args...)
	if err != nil {
		return fmt.Errorf("tabletop: build scene %s: %w", name, err)
	}
	m.activate(name, s)
	return nil
}

func (m *Manager) activate(name string, s *Scene) {
	if prev := m.Current(); prev != nil && !prev.Persistent && m.current != name {
		delete(m.scenes, m.current)
	}
	s.Name = name
	m.scenes[name] = s
	m.current = name
	m.logf("scene %s active (%d roots)", name, len(s.objects))
}

// Tick runs one full tick without drawing: start-of-tick callbacks, input
// pump, schedule, process, display, reap, end-of-tick callbacks.
func (m *Manager) Tick() error {
	if m.err != nil {
		return m.err
	}
	runQueue(&m.startQueue)
	if m.err != nil {
		return m.err
	}
	m.env.pump()
	if s := m.Current(); s != nil {
		var stats *debugStats
		if m.debug {
			stats = &debugStats{}
		}
		s.runTick(stats)
		if stats != nil {
			m.debugLog(*stats)
		}
	}
	if m.debug && m.env.Key() == "f12" {
		m.env.ConsumeKey()
		m.Screenshot(m.current)
	}
	runQueue(&m.endQueue)
	m.env.rotate()
	m.tick++
	return m.err
}

// runQueue runs and clears q. Callbacks queued while running wait for the
// next drain.
func runQueue(q *[]func()) {
	if len(*q) == 0 {
		return
	}
	fns := *q
	*q = nil
	for _, fn := range fns {
		fn()
	}
}

// Quit stops the game loop at the end of the current tick. RunGame then
// returns without an error.
func (m *Manager) Quit() {
	m.OnEndOfTick(func() {
		if m.err == nil {
			m.err = ebiten.Termination
		}
	})
}

// Update implements ebiten.Game.
func (m *Manager) Update() error {
	return m.Tick()
}

// Draw implements ebiten.Game. It blits the display order built by the last
// tick.
func (m *Manager) Draw(screen *ebiten.Image) {
	s := m.Current()
	if s == nil {
		screen.Fill(ColorBlack)
		return
	}
	screen.Fill(s.Background)
	for _, b := range s.displayOrder {
		if b.destroyed {
			continue
		}
		b.draw(screen, m.cache)
	}
	if m.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f  scene: %s  objects: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), m.current, len(s.processingOrder)))
	}
	m.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The virtual screen size is fixed; ebiten
// scales it to the window.
func (m *Manager) Layout(_, _ int) (int, int) {
	return m.width, m.height
}

// logf writes a debug line when debug mode is on.
func (m *Manager) logf(format string, args ...any) {
	if !m.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[tabletop] "+format+"\n", args...)
}
