package cityscape

import (
	"fmt"
	"time"
)

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool

// debugStats holds per-frame timing for the scene and border passes.
// Only populated when Scene.debug is true.
type debugStats struct {
	sceneTime     time.Duration
	idTime        time.Duration
	edgeTime      time.Duration
	blurTime      time.Duration
	compositeTime time.Duration
	tracked       int
}

// debugLog writes the frame's timing stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.sceneTime + stats.idTime + stats.edgeTime + stats.blurTime + stats.compositeTime
	Logger().Debug("frame",
		"scene", stats.sceneTime,
		"ids", stats.idTime,
		"edges", stats.edgeTime,
		"blur", stats.blurTime,
		"composite", stats.compositeTime,
		"total", total,
		"tracked", stats.tracked,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("cityscape debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugMaxTreeDepth is the depth past which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugMaxChildCount is the child count past which debugCheckChildCount warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
