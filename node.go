package cityscape

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic — the viewer is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// PropObjectID is the per-instance property the border id pass reads.
// It holds colorIndex+1 so that 0 means "no object".
const PropObjectID = "_ObjectId"

// Material holds shading parameters shared by many nodes. Per-node values
// (color, object id) live on the node and its PropertyBlock so that a single
// Material can serve a whole neighbourhood.
type Material struct {
	Name string
	// Ambient is the fraction of the node color visible without direct light.
	Ambient float64
}

// DefaultMaterial is used by nodes created without an explicit material.
var DefaultMaterial = &Material{Name: "default", Ambient: 0.35}

// PropertyBlock stores per-instance shader properties. Setting a property
// never touches the node's shared Material.
type PropertyBlock struct {
	floats map[string]float64
}

// SetFloat stores a float property.
func (p *PropertyBlock) SetFloat(name string, v float64) {
	if p.floats == nil {
		p.floats = make(map[string]float64, 1)
	}
	p.floats[name] = v
}

// Float returns a float property and whether it was set.
func (p *PropertyBlock) Float(name string) (float64, bool) {
	v, ok := p.floats[name]
	return v, ok
}

// Delete removes a property. No-op if absent.
func (p *PropertyBlock) Delete(name string) {
	delete(p.floats, name)
}

// Len returns the number of stored properties.
func (p *PropertyBlock) Len() int {
	return len(p.floats)
}

// Node is the scene graph element. Containers have an empty Box; buildings
// carry a box in local space, offset by the accumulated Position of the node
// and its ancestors.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Position is the local offset from the parent.
	Position Vec3
	// Box is the node's geometry in local space. Zero for containers.
	Box AABB

	// Rendering
	Layer    Layer
	Material *Material
	Color    Color
	Visible  bool

	// Active marks buildings that may be highlighted on hover. Buildings
	// filtered out of the selected data range are inactive but still pickable.
	Active bool

	// Metadata
	UserData any
	EntityID uint32

	props    *PropertyBlock
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Color = ColorWhite
	n.Visible = true
	n.Material = DefaultMaterial
}

// NewContainer creates a node with no geometry.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewBuilding creates an interactable box node spanning the two corners.
func NewBuilding(name string, a, b Vec3, mat *Material) *Node {
	n := &Node{Name: name, Box: NewAABB(a, b), Active: true}
	nodeDefaults(n)
	if mat != nil {
		n.Material = mat
	}
	return n
}

// Props returns the node's property block, creating it on first use.
func (n *Node) Props() *PropertyBlock {
	if n.props == nil {
		n.props = &PropertyBlock{}
	}
	return n.props
}

// HasProps reports whether the node has a property block with any entries.
func (n *Node) HasProps() bool {
	return n.props != nil && n.props.Len() > 0
}

// WorldPosition returns the sum of Position along the parent chain.
func (n *Node) WorldPosition() Vec3 {
	var p Vec3
	for c := n; c != nil; c = c.Parent {
		p = p.Add(c.Position)
	}
	return p
}

// WorldBounds returns the node's box in world space.
func (n *Node) WorldBounds() AABB {
	return n.Box.Translate(n.WorldPosition())
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("cityscape: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("cityscape: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("cityscape: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SiblingIndex returns the node's index within its parent, or -1 if it has
// no parent.
func (n *Node) SiblingIndex() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Material = nil
	n.UserData = nil
	n.props = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
