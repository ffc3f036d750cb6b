package tabletop

// Object is implemented by every scene object. Concrete widgets embed Node (or
// a widget that embeds it) and override the methods whose behavior differs.
type Object interface {
	// Base returns the embedded Node carrying geometry and hierarchy.
	Base() *Node
	// ScheduleProcessing returns the objects to process this tick, with every
	// dependant listed before the object itself (children first, parent last).
	ScheduleProcessing() []Object
	// Process runs per-tick state updates. The scene calls it in reverse
	// scheduling order, so parents run before their children.
	Process()
	// Displayables returns the drawable leaves of this object.
	Displayables() []*Box
	// Destroy marks the object and its children destroyed. Removal from the
	// parent happens at the end of the tick.
	Destroy()
}

// nodeIDCounter is a plain counter (no atomic; the runtime is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the base of every scene object. It owns the parent/child links and
// the geometry; its rectangle is always derived from (x, y, w, h).
type Node struct {
	ID   uint32
	Name string

	self     Object
	scene    *Scene
	parent   Object
	children []Object

	x, y, w, h float64
	relX, relY float64 // offset from the parent, kept for non-static nodes
	rotation   Rotation

	// Z orders objects front to back; larger is in front.
	Z float64
	// Alpha is the opacity used when blitting, 0..255.
	Alpha uint8
	// Static nodes keep their absolute position: SetPos is a no-op and they do
	// not follow their parent.
	Static bool
	// Opaque nodes block clicks from reaching objects behind them.
	Opaque bool
	// Transient nodes (overlays, popups) are left out of snapshots.
	Transient bool

	destroyed bool
}

// Init prepares n for use. self is the outermost object embedding n; it is
// what the scene schedules and what children see as their parent.
func (n *Node) Init(self Object, name string, r Rect, z float64) {
	n.ID = nextNodeID()
	n.Name = name
	n.self = self
	n.x, n.y, n.w, n.h = r.X, r.Y, r.W, r.H
	n.Z = z
	n.Alpha = 255
}

// NewNode creates a bare container node with the given bounds.
func NewNode(name string, r Rect, z float64) *Node {
	n := &Node{}
	n.Init(n, name, r, z)
	return n
}

// Base returns n.
func (n *Node) Base() *Node { return n }

// Self returns the outermost object embedding n.
func (n *Node) Self() Object {
	if n.self == nil {
		return n
	}
	return n.self
}

// Scene returns the scene the node is attached to, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// Parent returns the owning object, or nil for scene roots.
func (n *Node) Parent() Object { return n.parent }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []Object { return n.children }

// X returns the absolute x coordinate.
func (n *Node) X() float64 { return n.x }

// Y returns the absolute y coordinate.
func (n *Node) Y() float64 { return n.y }

// W returns the width.
func (n *Node) W() float64 { return n.w }

// H returns the height.
func (n *Node) H() float64 { return n.h }

// Rect returns the node's bounds.
func (n *Node) Rect() Rect { return Rect{X: n.x, Y: n.y, W: n.w, H: n.h} }

// Rotation returns the node's quarter-turn rotation.
func (n *Node) Rotation() Rotation { return n.rotation }

// Destroyed reports whether Destroy has been called.
func (n *Node) Destroyed() bool { return n.destroyed }

// --- Geometry ---

// SetPos moves the node to (x, y). Non-static children follow immediately.
// No-op for static nodes.
func (n *Node) SetPos(x, y float64) {
	if n.Static {
		return
	}
	n.moveTo(x, y)
}

// SetRect moves and resizes the node regardless of the static flag. Used by
// layout code that owns the node.
func (n *Node) SetRect(r Rect) {
	n.w, n.h = r.W, r.H
	n.moveTo(r.X, r.Y)
}

// SetSize resizes the node, keeping its top-left corner.
func (n *Node) SetSize(w, h float64) {
	n.w, n.h = w, h
}

// Rotate turns the node by deg degrees about its center. deg must be a
// multiple of 90. Quarter turns swap width and height.
func (n *Node) Rotate(deg int) {
	next := n.rotation.Add(deg)
	if (deg/90)%2 != 0 {
		cx, cy := n.x+n.w/2, n.y+n.h/2
		n.w, n.h = n.h, n.w
		n.x, n.y = cx-n.w/2, cy-n.h/2
		n.syncOffset()
	}
	n.rotation = next
}

func (n *Node) moveTo(x, y float64) {
	n.x, n.y = x, y
	n.syncOffset()
	for _, c := range n.children {
		c.Base().followParent()
	}
}

// syncOffset records the current offset from the parent.
func (n *Node) syncOffset() {
	if n.parent == nil {
		return
	}
	p := n.parent.Base()
	n.relX, n.relY = n.x-p.x, n.y-p.y
}

// followParent re-derives the absolute position from the parent offset.
func (n *Node) followParent() {
	if n.Static || n.parent == nil {
		return
	}
	p := n.parent.Base()
	x, y := p.x+n.relX, p.y+n.relY
	if x == n.x && y == n.y {
		return
	}
	n.x, n.y = x, y
	for _, c := range n.children {
		c.Base().followParent()
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. If child already has a
// parent, it is removed from that parent first. The child's current offset
// from n is what it keeps while following.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child Object) {
	if child == nil {
		panic("tabletop: cannot add nil child")
	}
	cn := child.Base()
	if globalDebug {
		debugCheckDestroyed(n, "AddChild (parent)")
		debugCheckDestroyed(cn, "AddChild (child)")
	}
	if isAncestor(cn, n) {
		panic("tabletop: adding child would create a cycle")
	}
	if cn.parent != nil {
		cn.parent.Base().removeChildByPtr(cn)
	} else if cn.scene != nil {
		cn.scene.removeRoot(cn)
	}
	cn.parent = n.Self()
	n.children = append(n.children, child)
	cn.syncOffset()
	setSceneRecursive(cn, n.scene)
	if globalDebug {
		debugCheckTreeDepth(cn)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node immediately.
// Panics if child's parent is not n.
func (n *Node) RemoveChild(child Object) {
	cn := child.Base()
	if cn.parent == nil || cn.parent.Base() != n {
		panic("tabletop: child's parent is not this node")
	}
	n.removeChildByPtr(cn)
	cn.parent = nil
	setSceneRecursive(cn, nil)
}

// IsAncestorOf reports whether n is a (strict) ancestor of o.
func (n *Node) IsAncestorOf(o Object) bool {
	for p := o.Base().parent; p != nil; p = p.Base().parent {
		if p.Base() == n {
			return true
		}
	}
	return false
}

// --- Object defaults ---

// ScheduleProcessing lists the children's schedules followed by the node.
func (n *Node) ScheduleProcessing() []Object {
	var order []Object
	for _, c := range n.children {
		order = append(order, c.ScheduleProcessing()...)
	}
	return append(order, n.Self())
}

// Process keeps a non-static node at its offset from the parent.
func (n *Node) Process() {
	n.followParent()
}

// Displayables concatenates the children's drawable leaves.
func (n *Node) Displayables() []*Box {
	var out []*Box
	for _, c := range n.children {
		out = append(out, c.Displayables()...)
	}
	return out
}

// Destroy marks the node and all descendants destroyed and schedules their
// removal for the end of the tick. Nodes outside a scene are detached at once.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	for _, c := range n.children {
		c.Destroy()
	}
	if n.scene != nil {
		n.scene.scheduleRemoval(n)
		return
	}
	if n.parent != nil {
		n.parent.Base().removeChildByPtr(n)
		n.parent = nil
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; {
		if p == candidate {
			return true
		}
		if p.parent == nil {
			return false
		}
		p = p.parent.Base()
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing its parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c.Base() == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func setSceneRecursive(n *Node, s *Scene) {
	n.scene = s
	for _, c := range n.children {
		setSceneRecursive(c.Base(), s)
	}
}
