package cityscape

import (
	"errors"
	"math"
)

// Shader computes the color of a visible surface point. For the id pass the
// red channel carries the object id.
type Shader interface {
	Name() string
	Shade(h *Hit) Color
}

// Hit describes the nearest surface found along a pixel's ray.
type Hit struct {
	Node   *Node
	Point  Vec3
	Normal Vec3
	T      float64
	// Depth is the point's normalized camera depth in [0, 1].
	Depth float32
}

// View is what a renderer draws: a camera looking at a scene graph.
type View struct {
	Camera *Camera
	Root   *Node
}

// Renderer draws the nodes of view whose layer is in mask into target,
// depth-testing every fragment against the target's depth.
type Renderer interface {
	Render(view View, mask LayerMask, shader Shader, target RenderTarget) error
}

// ErrNoCamera is returned when a View has no camera or no root.
var ErrNoCamera = errors.New("cityscape: view has no camera or root")

// drawItem is a node selected for drawing, with its world bounds and the
// pixel rectangle its projection covers.
type drawItem struct {
	node   *Node
	bounds AABB
	x0, y0 int
	x1, y1 int // exclusive
}

// collect walks the tree depth-first and appends a drawItem for every visible
// node with geometry whose layer is in mask. Invisible subtrees are skipped;
// a node outside the mask still has its children visited.
func collect(n *Node, offset Vec3, mask LayerMask, buf []drawItem) []drawItem {
	if !n.Visible || n.disposed {
		return buf
	}
	offset = offset.Add(n.Position)
	if !n.Box.IsEmpty() && mask.Has(n.Layer) {
		buf = append(buf, drawItem{node: n, bounds: n.Box.Translate(offset)})
	}
	for _, child := range n.children {
		buf = collect(child, offset, mask, buf)
	}
	return buf
}

// screenBounds computes the pixel rectangle covered by the projected corners
// of b on a w×h target. Boxes that straddle the eye plane cover the whole
// target. ok is false when the box is entirely off screen.
func screenBounds(cam *Camera, b AABB, w, h int) (x0, y0, x1, y1 int, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 8; i++ {
		p := Vec3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		u, v, front := cam.projectViewport(p)
		if !front {
			return 0, 0, w, h, true
		}
		minX = math.Min(minX, u*float64(w))
		maxX = math.Max(maxX, u*float64(w))
		minY = math.Min(minY, v*float64(h))
		maxY = math.Max(maxY, v*float64(h))
	}
	x0 = max(0, int(math.Floor(minX))-1)
	y0 = max(0, int(math.Floor(minY))-1)
	x1 = min(w, int(math.Ceil(maxX))+1)
	y1 = min(h, int(math.Ceil(maxY))+1)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// --- RayCaster ---

// RayCaster is the CPU Renderer. It casts one ray through the centre of every
// pixel covered by a node's projected bounds, slab-tests the node's box and
// keeps the nearest fragment per pixel through the target's depth channel.
type RayCaster struct {
	items []drawItem
}

// NewRayCaster returns a ready-to-use CPU renderer.
func NewRayCaster() *RayCaster {
	return &RayCaster{}
}

// Render implements Renderer.
func (rc *RayCaster) Render(view View, mask LayerMask, shader Shader, target RenderTarget) error {
	if shader == nil {
		return ErrMissingShader
	}
	if view.Camera == nil || view.Root == nil {
		return ErrNoCamera
	}
	cam := view.Camera
	w, h := target.Size()
	if w == 0 || h == 0 {
		return nil
	}

	rc.items = collect(view.Root, Vec3{}, mask, rc.items[:0])
	for i := range rc.items {
		it := &rc.items[i]
		var ok bool
		it.x0, it.y0, it.x1, it.y1, ok = screenBounds(cam, it.bounds, w, h)
		if !ok {
			continue
		}
		rc.drawItem(cam, it, shader, target, w, h)
	}
	clear(rc.items)
	rc.items = rc.items[:0]
	return nil
}

func (rc *RayCaster) drawItem(cam *Camera, it *drawItem, shader Shader, target RenderTarget, w, h int) {
	var hit Hit
	for y := it.y0; y < it.y1; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := it.x0; x < it.x1; x++ {
			u := (float64(x) + 0.5) / float64(w)
			ray := cam.ViewportRay(u, v)
			t, normal, ok := it.bounds.Intersect(ray, cam.Near, math.Inf(1))
			if !ok {
				continue
			}
			p := ray.At(t)
			depth := float32(cam.Depth(p))
			if depth >= target.Depth(x, y) {
				continue
			}
			hit = Hit{Node: it.node, Point: p, Normal: normal, T: t, Depth: depth}
			target.Store(x, y, shader.Shade(&hit), depth)
		}
	}
}
