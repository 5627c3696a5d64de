package cityscape

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func vecApprox(a, b Vec3, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) && approxEqual(a.Z, b.Z, eps)
}

// topDownView returns a size×size view looking straight down from 100 units
// above the origin at three 10×10×10 buildings centred on x = -20, 0 and 20.
func topDownView(size int) (View, []*Node) {
	cam := NewCamera(Rect{Width: float64(size), Height: float64(size)})
	cam.setRotation(90, 0)
	cam.Distance = 100

	root := NewContainer("root")
	buildings := make([]*Node, 3)
	for i, x := range []float64{-20, 0, 20} {
		b := NewBuilding("b", Vec3{X: x - 5, Z: -5}, Vec3{X: x + 5, Y: 10, Z: 5}, nil)
		root.AddChild(b)
		buildings[i] = b
	}
	return View{Camera: cam, Root: root}, buildings
}

// roofPixel returns the pixel at the centre of b's roof.
func roofPixel(cam *Camera, b *Node) (int, int) {
	bb := b.WorldBounds()
	c := bb.Center()
	sx, sy, _ := cam.WorldToScreen(Vec3{X: c.X, Y: bb.Max.Y, Z: c.Z})
	return int(sx), int(sy)
}

// renderLit renders view with the lit shader into a new frame with depth.
func renderLit(view View, w, h int) *Frame {
	f := NewFrameWithDepth(w, h)
	f.Fill(Color{0.9, 0.9, 0.9, 1})
	if err := NewRayCaster().Render(view, MaskAll, &LitShader{}, f); err != nil {
		panic(err)
	}
	return f
}

var errTest = errors.New("test failure")

// failRenderer fails every Render call.
type failRenderer struct{ err error }

func (r failRenderer) Render(View, LayerMask, Shader, RenderTarget) error { return r.err }

// panicShader panics on the first shaded fragment.
type panicShader struct{}

func (panicShader) Name() string     { return "panic" }
func (panicShader) Shade(*Hit) Color { panic("shader exploded") }

// newTestScene returns a size×size scene looking straight down at three
// buildings centred on x = -20, 0 and 20, with a border effect attached.
func newTestScene(t *testing.T, size int) (*Scene, []*Node) {
	t.Helper()
	s := NewScene(Rect{Width: float64(size), Height: float64(size)})
	s.camera.setRotation(90, 0)
	s.camera.Distance = 100
	for i, x := range []float64{-20, 0, 20} {
		b := NewBuilding(fmt.Sprintf("b%d", i), Vec3{X: x - 5, Z: -5}, Vec3{X: x + 5, Y: 10, Z: 5}, nil)
		s.Root().AddChild(b)
	}
	e, err := NewBorderEffect(DefaultBorderConfig(), s.Renderer())
	if err != nil {
		t.Fatalf("NewBorderEffect: %v", err)
	}
	s.SetBorderEffect(e)
	return s, s.Root().Children()
}

// roofPoint is roofPixel as a pointer position at the pixel centre.
func roofPoint(cam *Camera, b *Node) (float64, float64) {
	x, y := roofPixel(cam, b)
	return float64(x) + 0.5, float64(y) + 0.5
}
