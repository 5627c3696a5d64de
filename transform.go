package cityscape

import "math"

// Vec3 is a 3D vector. The world is Y-up; the ground is the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// axis returns component i (0 = X, 1 = Y, 2 = Z).
func (v Vec3) axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// unitAxis returns a vector with component i set to s and the rest zero.
func unitAxis(i int, s float64) Vec3 {
	switch i {
	case 0:
		return Vec3{X: s}
	case 1:
		return Vec3{Y: s}
	default:
		return Vec3{Z: s}
	}
}

// moveTowards moves current toward target by at most maxStep.
func moveTowards(current, target Vec3, maxStep float64) Vec3 {
	d := target.Sub(current)
	dist := d.Length()
	if dist <= maxStep || dist == 0 {
		return target
	}
	return current.Add(d.Scale(maxStep / dist))
}

// orbitBasis computes the forward, right and up vectors of a view rotated by
// pitch (degrees below the horizon) and yaw (degrees clockwise from +Z).
//
//	forward = (sin(yaw)cos(pitch), -sin(pitch), cos(yaw)cos(pitch))
//	right   = (cos(yaw), 0, -sin(yaw))
//	up      = forward × right
//
// right is derived from yaw alone so the basis stays valid looking straight
// down.
func orbitBasis(pitchDeg, yawDeg float64) (forward, right, up Vec3) {
	sp, cp := math.Sincos(pitchDeg * math.Pi / 180)
	sy, cy := math.Sincos(yawDeg * math.Pi / 180)
	forward = Vec3{sy * cp, -sp, cy * cp}
	right = Vec3{cy, 0, -sy}
	up = forward.Cross(right).Normalize()
	return forward, right, up
}

// wrapAngle brings an angle in degrees into [-360, 360].
func wrapAngle(a float64) float64 {
	if a < -360 {
		a += 360
	}
	if a > 360 {
		a -= 360
	}
	return a
}
