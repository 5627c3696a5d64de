package cityscape

import (
	"image/color"
	"testing"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if !a.Intersects(Rect{10, 0, 5, 5}) {
		t.Error("adjacent rects should intersect")
	}
	if a.Intersects(Rect{11, 0, 5, 5}) {
		t.Error("separate rects should not intersect")
	}
}

// --- Color ---

func TestColorLerp(t *testing.T) {
	got := ColorWhite.Lerp(Color{1, 0, 0, 1}, 0.5)
	want := Color{1, 0.5, 0.5, 1}
	if got != want {
		t.Errorf("Lerp = %v, want %v", got, want)
	}
	if got := ColorWhite.Lerp(ColorBlack, 2); got != ColorBlack {
		t.Errorf("Lerp(t=2) = %v, want %v", got, ColorBlack)
	}
}

func TestColorAddClamp(t *testing.T) {
	got := Color{0.9, 0.1, 0.5, 0.4}.Add(Color{0.25, 0.25, 0.25, 0}).Clamp()
	want := Color{1, 0.35, 0.75, 0.4}
	if !approxEqual(got.R, want.R, epsilon) || !approxEqual(got.G, want.G, epsilon) ||
		!approxEqual(got.B, want.B, epsilon) || got.A != want.A {
		t.Errorf("Add+Clamp = %v, want %v", got, want)
	}
}

func TestColorScaleKeepsAlpha(t *testing.T) {
	got := Color{0.5, 0.5, 0.5, 0.7}.Scale(2)
	if got != (Color{1, 1, 1, 0.7}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestColorNRGBA(t *testing.T) {
	got := Color{1, 0.5, 0, 2}.NRGBA()
	want := color.NRGBA{255, 128, 0, 255}
	if got != want {
		t.Errorf("NRGBA = %v, want %v", got, want)
	}
}

func TestRGB255(t *testing.T) {
	c := RGB255(255, 0, 51)
	if !approxEqual(c.R, 1, 1e-12) || c.G != 0 || !approxEqual(c.B, 0.2, 1e-12) || c.A != 1 {
		t.Errorf("RGB255 = %v", c)
	}
}

// --- Layers ---

func TestLayerMask(t *testing.T) {
	if LayerBorder.Mask() != 1<<31 {
		t.Errorf("LayerBorder.Mask() = %#x", LayerBorder.Mask())
	}
	if !MaskAll.Has(LayerBorder) || !MaskAll.Has(LayerDefault) {
		t.Error("MaskAll should contain every layer")
	}
	m := MaskAll &^ LayerIgnoreRaycast.Mask()
	if m.Has(LayerIgnoreRaycast) {
		t.Error("mask should exclude LayerIgnoreRaycast")
	}
	if LayerBorder.Mask().Has(LayerDefault) {
		t.Error("border mask should not contain the default layer")
	}
}
