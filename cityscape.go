package cityscape

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens when a frame is handed to Ebitengine.
type Color struct {
	R float64 `toml:"r"`
	G float64 `toml:"g"`
	B float64 `toml:"b"`
	A float64 `toml:"a"`
}

var (
	// ColorWhite is the default building color (no data applied).
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorGrey marks buildings filtered out of the selected range.
	ColorGrey = Color{0.5, 0.5, 0.5, 1}
	// ColorGreen is the default border tint.
	ColorGreen = Color{0, 1, 0, 1}
)

// RGB255 builds an opaque color from 0..255 components.
func RGB255(r, g, b int) Color {
	const inv = 1.0 / 255.0
	return Color{float64(r) * inv, float64(g) * inv, float64(b) * inv, 1}
}

// Add returns c with o's RGB added. Alpha is kept from c.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A}
}

// Scale multiplies the RGB components by f. Alpha is unchanged.
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Lerp interpolates every component from c to o. t is clamped to [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	t = clamp01(t)
	return Color{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
		c.A + (o.A-c.A)*t,
	}
}

// Clamp limits every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// NRGBA converts to a straight-alpha 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Vec2 is a screen-space point.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The origin is the top-left, with Y
// increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Layer is a node's classification tag. Render passes select the nodes they
// draw by LayerMask.
type Layer uint8

const (
	LayerDefault       Layer = 0  // regular scene geometry
	LayerIgnoreRaycast Layer = 2  // drawn, but never returned by Scene.Pick
	LayerBorder        Layer = 31 // reserved for the border id pass
)

// Mask returns a LayerMask containing only l.
func (l Layer) Mask() LayerMask {
	return 1 << l
}

// LayerMask is a set of layers, one bit per Layer.
type LayerMask uint32

// MaskAll selects every layer.
const MaskAll LayerMask = ^LayerMask(0)

// Has reports whether l is part of the mask.
func (m LayerMask) Has(l Layer) bool {
	return m&l.Mask() != 0
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // pans the map
	MouseButtonRight                     // orbits the camera
	MouseButtonMiddle                    // unused by the viewer
)

// EventType identifies a kind of hover event.
type EventType uint8

const (
	EventHoverEnter EventType = iota // pointer moved onto a building
	EventHoverLeave                  // pointer left a building
)
