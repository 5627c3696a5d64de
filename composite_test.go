package cityscape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompositeZeroEdgesIsCopy(t *testing.T) {
	src := NewFrame(5, 4)
	for i := range src.Pix {
		src.Pix[i] = float32(i%7) / 7
	}
	dst := NewFrame(5, 4)
	composite(src, NewFrame(5, 4), ColorGreen, dst)
	if diff := cmp.Diff(src.Pix, dst.Pix); diff != "" {
		t.Errorf("dst differs from source (-want +got):\n%s", diff)
	}
}

func TestCompositeOnesIsTint(t *testing.T) {
	src := NewFrame(3, 3)
	src.Fill(Color{0.2, 0.4, 0.6, 1})
	edges := NewFrame(3, 3)
	edges.Fill(Color{1, 1, 1, 1})
	tint := Color{0.25, 1, 0.5, 1}
	dst := NewFrame(3, 3)
	composite(src, edges, tint, dst)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := dst.At(x, y); got != tint {
				t.Fatalf("pixel (%d,%d) = %v, want tint %v", x, y, got, tint)
			}
		}
	}
}

func TestCompositeStrongEdgesClamp(t *testing.T) {
	src := NewFrame(1, 1)
	src.Fill(ColorBlack)
	edges := NewFrame(1, 1)
	edges.Set(0, 0, Color{5, 5, 5, 5}) // intensity 5, white palette
	dst := NewFrame(1, 1)
	composite(src, edges, ColorWhite, dst)
	if got := dst.At(0, 0); got != ColorWhite {
		t.Errorf("pixel = %v, want white", got)
	}
}

func TestCompositeHalfAlphaBlends(t *testing.T) {
	src := NewFrame(1, 1)
	src.Fill(ColorBlack)
	edges := NewFrame(1, 1)
	edges.Set(0, 0, Color{0.5, 0, 0, 0.5}) // red palette at half weight
	dst := NewFrame(1, 1)
	composite(src, edges, ColorWhite, dst)
	if got := dst.At(0, 0); got != (Color{0.5, 0, 0, 1}) {
		t.Errorf("pixel = %v, want half red over black", got)
	}
}

func TestCompositeNeverAdditive(t *testing.T) {
	src := NewFrame(1, 1)
	src.Fill(ColorWhite)
	edges := NewFrame(1, 1)
	edges.Set(0, 0, Color{0.5, 0.5, 0.5, 0.5})
	dst := NewFrame(1, 1)
	composite(src, edges, ColorWhite, dst)
	got := dst.At(0, 0)
	if got.R > 1 || got.G > 1 || got.B > 1 || got.A > 1 {
		t.Errorf("pixel = %v exceeds 1", got)
	}
}
