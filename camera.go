package cityscape

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// orbitAnim holds active tweens for the camera's pitch and yaw.
type orbitAnim struct {
	pitch     *gween.Tween
	yaw       *gween.Tween
	donePitch bool
	doneYaw   bool
}

// Camera orbits a pivot point on the map. It looks at Pivot from Distance
// units away, rotated by Pitch (degrees below the horizon) and Yaw (degrees
// clockwise from +Z), and projects with a vertical field of view of FovY.
type Camera struct {
	// Pivot is the world-space point the camera looks at.
	Pivot Vec3
	// Pitch and Yaw are in degrees.
	Pitch, Yaw float64
	// Distance is the distance from the eye to Pivot.
	Distance float64
	// FovY is the vertical field of view in degrees.
	FovY float64
	// Near and Far bound the depth range mapped to [0, 1].
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	MinPitch, MaxPitch       float64
	MinYaw, MaxYaw           float64
	MinDistance, MaxDistance float64

	// MapCenter and MaxPanDistance bound panning on the XZ plane.
	MapCenter      Vec3
	MaxPanDistance float64

	// OrbitScaleX and OrbitScaleY convert pointer pixels to degrees.
	OrbitScaleX, OrbitScaleY float64
	// ZoomScale converts wheel ticks to distance units.
	ZoomScale float64
	// PanStep is the largest pivot movement applied by a single Pan call.
	PanStep float64

	zoomTween  *gween.Tween
	orbitTween *orbitAnim

	eye, forward, right, up Vec3
	tanHalfFov              float64
	dirty                   bool
}

// newCamera creates a Camera with the map camera defaults and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		Pitch:          60,
		Distance:       150,
		FovY:           60,
		Near:           0.3,
		Far:            1000,
		Viewport:       viewport,
		MinPitch:       30,
		MaxPitch:       90,
		MinYaw:         wrapAngle(-135),
		MaxYaw:         wrapAngle(135),
		MinDistance:    50,
		MaxDistance:    250,
		MaxPanDistance: 100,
		OrbitScaleX:    0.5,
		OrbitScaleY:    0.5,
		ZoomScale:      15,
		PanStep:        0.5,
		dirty:          true,
	}
}

// NewCamera creates a standalone camera. Scenes create their own via NewScene.
func NewCamera(viewport Rect) *Camera {
	return newCamera(viewport)
}

// Orbit rotates the camera around the pivot. Pitch and yaw are clamped to
// their configured ranges.
func (c *Camera) Orbit(dPitch, dYaw float64) {
	c.orbitTween = nil
	c.setRotation(c.Pitch+dPitch, c.Yaw+dYaw)
}

func (c *Camera) setRotation(pitch, yaw float64) {
	if yaw > 180 {
		yaw -= 360
	}
	c.Pitch = math.Max(c.MinPitch, math.Min(pitch, c.MaxPitch))
	c.Yaw = math.Max(c.MinYaw, math.Min(yaw, c.MaxYaw))
	c.dirty = true
}

// ResetRotation returns the camera to a top-down view. A zero duration
// applies immediately; otherwise the rotation is animated.
func (c *Camera) ResetRotation(duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 || easeFn == nil {
		c.orbitTween = nil
		c.setRotation(90, 0)
		return
	}
	c.orbitTween = &orbitAnim{
		pitch: gween.New(float32(c.Pitch), 90, duration, easeFn),
		yaw:   gween.New(float32(c.Yaw), 0, duration, easeFn),
	}
}

// Zoom moves the camera toward (positive change) or away from the pivot.
func (c *Camera) Zoom(change float64) {
	c.zoomTween = nil
	c.Distance = c.clampDistance(c.Distance - change*c.ZoomScale)
	c.dirty = true
}

// ZoomTo animates the distance to the pivot over duration seconds. A nil
// easeFn is linear; a zero duration applies immediately.
func (c *Camera) ZoomTo(distance float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.zoomTween = nil
		c.Distance = c.clampDistance(distance)
		c.dirty = true
		return
	}
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.zoomTween = gween.New(float32(c.Distance), float32(c.clampDistance(distance)), duration, easeFn)
}

func (c *Camera) clampDistance(d float64) float64 {
	return math.Max(c.MinDistance, math.Min(d, c.MaxDistance))
}

// Pan moves the pivot toward pivot+offset on the XZ plane by at most PanStep,
// keeping it within MaxPanDistance of MapCenter.
func (c *Camera) Pan(offset Vec3) {
	target := c.Pivot.Add(Vec3{X: offset.X, Z: offset.Z})
	p := moveTowards(c.Pivot, target, c.PanStep)
	m := c.MaxPanDistance
	p.X = math.Max(c.MapCenter.X-m, math.Min(p.X, c.MapCenter.X+m))
	p.Z = math.Max(c.MapCenter.Z-m, math.Min(p.Z, c.MapCenter.Z+m))
	c.Pivot = p
	c.dirty = true
}

// IsAnimating reports whether a zoom or rotation tween is in progress.
func (c *Camera) IsAnimating() bool {
	return c.zoomTween != nil || c.orbitTween != nil
}

// update advances zoom and rotation tweens. Called from Scene.Update().
func (c *Camera) update(dt float32) {
	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(dt)
		c.Distance = float64(val)
		c.dirty = true
		if done {
			c.zoomTween = nil
		}
	}
	if a := c.orbitTween; a != nil {
		pitch, yaw := c.Pitch, c.Yaw
		if !a.donePitch {
			v, done := a.pitch.Update(dt)
			pitch = float64(v)
			a.donePitch = done
		}
		if !a.doneYaw {
			v, done := a.yaw.Update(dt)
			yaw = float64(v)
			a.doneYaw = done
		}
		c.setRotation(pitch, yaw)
		if a.donePitch && a.doneYaw {
			c.orbitTween = nil
		}
	}
}

// MarkDirty forces the view basis to be recomputed.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// computeBasis recomputes the cached eye position and view basis if dirty.
func (c *Camera) computeBasis() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.forward, c.right, c.up = orbitBasis(c.Pitch, c.Yaw)
	c.eye = c.Pivot.Sub(c.forward.Scale(c.Distance))
	c.tanHalfFov = math.Tan(c.FovY * math.Pi / 360)
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() Vec3 {
	c.computeBasis()
	return c.eye
}

// Forward returns the unit view direction.
func (c *Camera) Forward() Vec3 {
	c.computeBasis()
	return c.forward
}

func (c *Camera) aspect() float64 {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// ViewportRay returns the ray through normalized viewport coordinates (u, v),
// where (0, 0) is the top-left corner and (1, 1) the bottom-right.
func (c *Camera) ViewportRay(u, v float64) Ray {
	c.computeBasis()
	px := (2*u - 1) * c.tanHalfFov * c.aspect()
	py := (1 - 2*v) * c.tanHalfFov
	dir := c.forward.Add(c.right.Scale(px)).Add(c.up.Scale(py)).Normalize()
	return Ray{Origin: c.eye, Dir: dir}
}

// ScreenRay returns the ray through screen point (sx, sy).
func (c *Camera) ScreenRay(sx, sy float64) Ray {
	u := (sx - c.Viewport.X) / c.Viewport.Width
	v := (sy - c.Viewport.Y) / c.Viewport.Height
	return c.ViewportRay(u, v)
}

// projectViewport projects p to normalized viewport coordinates, (0, 0) at
// the top-left. front is false when p is behind the eye plane.
func (c *Camera) projectViewport(p Vec3) (u, v float64, front bool) {
	c.computeBasis()
	d := p.Sub(c.eye)
	z := d.Dot(c.forward)
	if z <= 1e-9 {
		return 0, 0, false
	}
	ndcX := d.Dot(c.right) / (z * c.tanHalfFov * c.aspect())
	ndcY := d.Dot(c.up) / (z * c.tanHalfFov)
	return (ndcX + 1) / 2, (1 - ndcY) / 2, true
}

// WorldToScreen projects a world point to screen coordinates. ok is false
// when the point is behind the camera.
func (c *Camera) WorldToScreen(p Vec3) (sx, sy float64, ok bool) {
	u, v, ok := c.projectViewport(p)
	if !ok {
		return 0, 0, false
	}
	return c.Viewport.X + u*c.Viewport.Width, c.Viewport.Y + v*c.Viewport.Height, true
}

// Depth maps a world point's view-space distance to [0, 1] between Near and
// Far. Points outside the range are clamped.
func (c *Camera) Depth(p Vec3) float64 {
	c.computeBasis()
	z := p.Sub(c.eye).Dot(c.forward)
	return clamp01((z - c.Near) / (c.Far - c.Near))
}

// GroundPoint intersects the ray through (sx, sy) with the y=0 plane.
func (c *Camera) GroundPoint(sx, sy float64) (Vec3, bool) {
	r := c.ScreenRay(sx, sy)
	if r.Dir.Y >= -1e-9 {
		return Vec3{}, false
	}
	t := -r.Origin.Y / r.Dir.Y
	return r.At(t), true
}

// InViewport reports whether the screen point lies inside the viewport.
func (c *Camera) InViewport(sx, sy float64) bool {
	return c.Viewport.Contains(sx, sy)
}
