package cityscape

import "math"

// Ray is a half-line starting at Origin. Dir need not be normalized, but the
// renderer and picking code always pass unit directions so t is a distance.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// IsEmpty reports whether the box has no volume on some axis.
func (b AABB) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Translate returns the box moved by offset.
func (b AABB) Translate(offset Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Intersect tests the ray against the box using the slab method. It returns
// the entry distance and the outward normal of the entry face. A ray starting
// inside the box reports tMin and a zero normal.
func (b AABB) Intersect(r Ray, tMin, tMax float64) (float64, Vec3, bool) {
	var normal Vec3
	for axis := 0; axis < 3; axis++ {
		o := r.Origin.axis(axis)
		d := r.Dir.axis(axis)
		lo := b.Min.axis(axis)
		hi := b.Max.axis(axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, Vec3{}, false
			}
			continue
		}

		inv := 1 / d
		t0 := (lo - o) * inv
		t1 := (hi - o) * inv
		sign := -1.0
		if inv < 0 {
			t0, t1 = t1, t0
			sign = 1
		}
		if t0 > tMin {
			tMin = t0
			normal = unitAxis(axis, sign)
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return 0, Vec3{}, false
		}
	}
	return tMin, normal, true
}
