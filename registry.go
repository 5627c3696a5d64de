package cityscape

import "slices"

// BorderColorOffset brightens the selected category color to form the
// border tint.
var BorderColorOffset = Color{R: 0.25, G: 0.25, B: 0.25}

// TrackedObject is a node selected for outlining.
type TrackedObject struct {
	Node *Node
	// SavedLayer is the layer the node held before the id pass moved it to
	// LayerBorder.
	SavedLayer Layer
	// ColorIndex selects the palette entry used to tint the node's outline.
	// The node's id in the id buffer is ColorIndex+1.
	ColorIndex int

	// The node's PropObjectID before the id pass stamped it.
	savedID float64
	hadID   bool
	stamped bool
}

// Registry is the set of nodes a BorderEffect outlines. Each effect owns one.
// Registry operations are idempotent bookkeeping: adding a tracked node or
// removing an untracked one does nothing.
//
// A Registry must not be mutated while its effect is rendering a frame.
type Registry struct {
	objects []*TrackedObject
	index   map[*Node]*TrackedObject
	palette []Color
	tint    Color
}

// NewRegistry returns an empty registry with a green tint.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[*Node]*TrackedObject),
		tint:  ColorGreen,
	}
}

// Add tracks node with the given palette index and saves its current layer.
// The node's PropObjectID is only written while this registry's id pass
// runs, so several registries may track the same node. Nil and
// already-tracked nodes are ignored.
func (r *Registry) Add(node *Node, colorIndex int) {
	if node == nil || node.disposed {
		return
	}
	if _, ok := r.index[node]; ok {
		return
	}
	obj := &TrackedObject{Node: node, SavedLayer: node.Layer, ColorIndex: colorIndex}
	r.objects = append(r.objects, obj)
	r.index[node] = obj
}

// Remove stops tracking node. If the node is still on LayerBorder its saved
// layer is restored, and an id stamped by a running pass is put back.
// Untracked nodes are ignored.
func (r *Registry) Remove(node *Node) {
	obj, ok := r.index[node]
	if !ok {
		return
	}
	if node.Layer == LayerBorder {
		node.Layer = obj.SavedLayer
	}
	obj.unstamp()
	delete(r.index, node)
	if i := slices.Index(r.objects, obj); i >= 0 {
		r.objects = slices.Delete(r.objects, i, i+1)
	}
}

// stamp writes the id pass value into the node's PropObjectID, keeping the
// previous value for unstamp.
func (o *TrackedObject) stamp() {
	if !o.stamped {
		o.savedID, o.hadID = o.Node.Props().Float(PropObjectID)
		o.stamped = true
	}
	o.Node.Props().SetFloat(PropObjectID, float64(o.ColorIndex+1))
}

// unstamp puts back the PropObjectID value saved by stamp.
func (o *TrackedObject) unstamp() {
	if !o.stamped {
		return
	}
	o.stamped = false
	if o.hadID {
		o.Node.Props().SetFloat(PropObjectID, o.savedID)
	} else {
		o.Node.Props().Delete(PropObjectID)
	}
}

// Clear removes every tracked node.
func (r *Registry) Clear() {
	for len(r.objects) > 0 {
		r.Remove(r.objects[len(r.objects)-1].Node)
	}
}

// Len returns the number of tracked nodes.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Contains reports whether node is tracked.
func (r *Registry) Contains(node *Node) bool {
	_, ok := r.index[node]
	return ok
}

// Objects returns the tracked entries in insertion order. The slice must not
// be modified.
func (r *Registry) Objects() []*TrackedObject {
	return r.objects
}

// prune drops entries whose nodes were disposed since the last frame.
func (r *Registry) prune() {
	r.objects = slices.DeleteFunc(r.objects, func(o *TrackedObject) bool {
		if o.Node.disposed {
			delete(r.index, o.Node)
			return true
		}
		return false
	})
}

// SetColor sets the border tint to tint brightened by BorderColorOffset.
// The result is clamped and opaque.
func (r *Registry) SetColor(tint Color) {
	c := tint.Add(BorderColorOffset).Clamp()
	c.A = 1
	r.tint = c
}

// Tint returns the active border tint.
func (r *Registry) Tint() Color {
	return r.tint
}

// SetPaletteColor assigns the outline color for a palette index. Index 0 is
// reserved for unselected nodes and always white.
func (r *Registry) SetPaletteColor(index int, c Color) {
	if index <= 0 {
		return
	}
	for len(r.palette) <= index {
		r.palette = append(r.palette, ColorWhite)
	}
	r.palette[index] = c
}

// Palette returns a copy of the palette. Unset entries are white.
func (r *Registry) Palette() []Color {
	return slices.Clone(r.palette)
}

// paletteColor returns the outline color for an id-buffer value (a palette
// index biased by one). Id 0 and unset entries are white.
func (r *Registry) paletteColor(id int) Color {
	i := id - 1
	if i < 0 || i >= len(r.palette) {
		return ColorWhite
	}
	return r.palette[i]
}
