package tabletop

import (
	"image/color"
	"sort"
	"time"
)

// Scene owns a set of root objects and runs them once per tick: schedule,
// process, display and reap. Scenes are created by factories registered with
// the Manager.
type Scene struct {
	Name string
	// Persistent scenes are kept when the manager switches away and are
	// re-activated instead of rebuilt.
	Persistent bool
	// Background fills the screen before the display order is blitted.
	Background color.NRGBA
	// State, when set, supplies the scene-specific part of a snapshot.
	State Snapshotter

	manager *Manager
	objects []Object

	processingOrder []Object
	orderIndex      map[*Node]int
	displayOrder    []*Box
	pendingRemoval  []*Node
}

// NewScene creates an empty scene bound to m.
func NewScene(m *Manager, name string) *Scene {
	return &Scene{
		Name:       name,
		Background: ColorPanel,
		manager:    m,
		orderIndex: make(map[*Node]int),
	}
}

// Manager returns the manager that owns the scene.
func (s *Scene) Manager() *Manager { return s.manager }

// Env returns the manager's environment snapshot.
func (s *Scene) Env() *Environment { return s.manager.env }

// Cache returns the manager's surface cache.
func (s *Scene) Cache() *Cache { return s.manager.cache }

// Add attaches obj as a root object of the scene.
func (s *Scene) Add(obj Object) {
	n := obj.Base()
	if n.parent != nil {
		n.parent.Base().removeChildByPtr(n)
		n.parent = nil
	}
	setSceneRecursive(n, s)
	s.objects = append(s.objects, obj)
}

// Objects returns the root objects. The returned slice MUST NOT be mutated.
func (s *Scene) Objects() []Object { return s.objects }

// Find returns the first live object named name, searching roots in order
// and each subtree depth-first. It returns nil when there is none.
func (s *Scene) Find(name string) Object {
	var walk func(objs []Object) Object
	walk = func(objs []Object) Object {
		for _, o := range objs {
			n := o.Base()
			if n.destroyed {
				continue
			}
			if n.Name == name {
				return o
			}
			if found := walk(n.children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(s.objects)
}

// ProcessingOrder returns the order built by the last schedule pass.
func (s *Scene) ProcessingOrder() []Object { return s.processingOrder }

// DisplayOrder returns the drawable leaves of the last display pass, sorted
// back to front.
func (s *Scene) DisplayOrder() []*Box { return s.displayOrder }

// runTick executes one tick's schedule, process, display and reap passes.
func (s *Scene) runTick(stats *debugStats) {
	var t0 time.Time
	if stats != nil {
		t0 = time.Now()
	}
	s.schedule()
	s.process()
	if stats != nil {
		stats.processTime = time.Since(t0)
		t0 = time.Now()
	}
	s.display()
	if stats != nil {
		stats.displayTime = time.Since(t0)
		stats.objectCount = len(s.processingOrder)
		stats.leafCount = len(s.displayOrder)
	}
	s.reap()
}

// schedule sorts root objects by Z ascending and concatenates their
// scheduling lists into the processing order.
func (s *Scene) schedule() {
	sort.SliceStable(s.objects, func(i, j int) bool {
		return s.objects[i].Base().Z < s.objects[j].Base().Z
	})
	s.processingOrder = s.processingOrder[:0]
	for _, obj := range s.objects {
		s.processingOrder = append(s.processingOrder, obj.ScheduleProcessing()...)
	}
	clear(s.orderIndex)
	for i, obj := range s.processingOrder {
		s.orderIndex[obj.Base()] = i
	}
}

// process runs every scheduled object front-most first. Objects destroyed
// earlier in the pass are skipped.
func (s *Scene) process() {
	for i := len(s.processingOrder) - 1; i >= 0; i-- {
		obj := s.processingOrder[i]
		if obj.Base().destroyed {
			continue
		}
		obj.Process()
	}
}

// display collects the drawable leaves of every root and sorts them by Z.
// Pixmaps for leaves whose geometry changed are rebuilt here.
func (s *Scene) display() {
	s.displayOrder = s.displayOrder[:0]
	for _, obj := range s.objects {
		if obj.Base().destroyed {
			continue
		}
		s.displayOrder = append(s.displayOrder, obj.Displayables()...)
	}
	sort.SliceStable(s.displayOrder, func(i, j int) bool {
		return s.displayOrder[i].Z < s.displayOrder[j].Z
	})
	for _, b := range s.displayOrder {
		b.prepare(s.manager.cache)
	}
}

// reap detaches every object destroyed during the tick from its parent (or
// from the root list).
func (s *Scene) reap() {
	for _, n := range s.pendingRemoval {
		if n.parent != nil {
			n.parent.Base().removeChildByPtr(n)
			n.parent = nil
		} else {
			s.removeRoot(n)
		}
		n.scene = nil
	}
	s.pendingRemoval = s.pendingRemoval[:0]
}

func (s *Scene) scheduleRemoval(n *Node) {
	s.pendingRemoval = append(s.pendingRemoval, n)
}

func (s *Scene) removeRoot(n *Node) {
	for i, obj := range s.objects {
		if obj.Base() == n {
			copy(s.objects[i:], s.objects[i+1:])
			s.objects[len(s.objects)-1] = nil
			s.objects = s.objects[:len(s.objects)-1]
			return
		}
	}
}

// ObjectMask returns the rectangles of opaque objects later in the processing
// order (in front of obj) that overlap obj. Ancestors and descendants of obj
// never mask it.
func (s *Scene) ObjectMask(obj Object) []Rect {
	n := obj.Base()
	idx, ok := s.orderIndex[n]
	if !ok {
		return nil
	}
	r := n.Rect()
	var mask []Rect
	for _, other := range s.processingOrder[idx+1:] {
		on := other.Base()
		if !on.Opaque || on == n {
			continue
		}
		if n.IsAncestorOf(other) || on.IsAncestorOf(obj) {
			continue
		}
		if or := on.Rect(); or.Intersects(r) {
			mask = append(mask, or)
		}
	}
	return mask
}

// Blocked reports whether the point (x, y) falls inside obj's mask.
func (s *Scene) Blocked(obj Object, x, y float64) bool {
	for _, r := range s.ObjectMask(obj) {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
