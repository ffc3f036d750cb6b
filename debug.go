package tabletop

import (
	"fmt"
	"os"
	"time"
)

// globalDebug enables the tree checks in node.go. It is set by
// Manager.SetDebugMode.
var globalDebug bool

// debugStats holds per-tick timing and object counts.
// Only populated when the manager is in debug mode.
type debugStats struct {
	processTime time.Duration
	displayTime time.Duration
	objectCount int
	leafCount   int
}

// debugLog prints timing and object counts to stderr.
func (m *Manager) debugLog(stats debugStats) {
	if !m.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[tabletop] tick %d | scene %s | process: %v | display: %v | objects: %d | leaves: %d\n",
		m.tick, m.current, stats.processTime, stats.displayTime, stats.objectCount, stats.leafCount)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed node
// is used in a tree operation. Only called in debug mode.
func debugCheckDestroyed(n *Node, op string) {
	if n.destroyed {
		panic(fmt.Sprintf("tabletop debug: %s on destroyed node %q (ID %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 1
	for p := n.parent; p != nil; p = p.Base().parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[tabletop] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[tabletop] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// DumpProcessingOrder writes the current scene's processing order to stderr,
// front-most last.
func (m *Manager) DumpProcessingOrder() {
	s := m.Current()
	if s == nil {
		return
	}
	for i, obj := range s.processingOrder {
		n := obj.Base()
		_, _ = fmt.Fprintf(os.Stderr, "[tabletop] %3d %-24q z=%-6.2f rect=(%.0f,%.0f,%.0f,%.0f) opaque=%t\n",
			i, n.Name, n.Z, n.x, n.y, n.w, n.h, n.Opaque)
	}
}
