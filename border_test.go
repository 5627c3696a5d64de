package cityscape

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestEffect(t *testing.T, mutate func(*BorderConfig)) *BorderEffect {
	t.Helper()
	cfg := DefaultBorderConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewBorderEffect(cfg, NewRayCaster())
	if err != nil {
		t.Fatalf("NewBorderEffect: %v", err)
	}
	return e
}

func TestNewBorderEffectErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BorderConfig)
		nilR   bool
		want   error
	}{
		{"nil renderer", nil, true, ErrMissingRenderer},
		{"nil shader", func(c *BorderConfig) { c.Shader = nil }, false, ErrMissingShader},
		{"intensity low", func(c *BorderConfig) { c.Intensity = 0.5 }, false, ErrInvalidConfig},
		{"intensity high", func(c *BorderConfig) { c.Intensity = 6 }, false, ErrInvalidConfig},
		{"blur size", func(c *BorderConfig) { c.BlurSize = 4 }, false, ErrInvalidConfig},
		{"depth offset", func(c *BorderConfig) { c.DepthOffset = -1 }, false, ErrInvalidConfig},
		{"edge kernel", func(c *BorderConfig) { c.EdgeKernel = 9 }, false, ErrInvalidConfig},
		{"debug view", func(c *BorderConfig) { c.DebugView = 42 }, false, ErrInvalidConfig},
		{"negative divider", func(c *BorderConfig) { c.Divider = -1 }, false, ErrInvalidConfig},
		{"NaN multiplier", func(c *BorderConfig) { c.Multiplier = math.NaN() }, false, ErrInvalidConfig},
		{"NaN divider", func(c *BorderConfig) { c.Divider = math.NaN() }, false, ErrInvalidConfig},
		{"infinite multiplier", func(c *BorderConfig) { c.Multiplier = math.Inf(1) }, false, ErrInvalidConfig},
		{"infinite divider", func(c *BorderConfig) { c.Divider = math.Inf(1) }, false, ErrInvalidConfig},
		{"tiny divider", func(c *BorderConfig) { c.Divider = 1e-320 }, false, ErrInvalidConfig},
		{"scale beyond float32", func(c *BorderConfig) { c.Multiplier = 1e39 }, false, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBorderConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			var r Renderer = NewRayCaster()
			if tt.nilR {
				r = nil
			}
			e, err := NewBorderEffect(cfg, r)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if e != nil {
				t.Error("effect should be nil on error")
			}
		})
	}
}

func TestNewBorderEffectDefaults(t *testing.T) {
	e := newTestEffect(t, func(c *BorderConfig) {
		c.Multiplier = 0
		c.Divider = 0
		c.Color = Color{0.5, 0.5, 0.5, 1}
	})
	if e.Config().Multiplier != 1 || e.Config().Divider != 1 {
		t.Errorf("scale = %v/%v, want 1/1", e.Config().Multiplier, e.Config().Divider)
	}
	if got := e.Registry().Tint(); got != (Color{0.75, 0.75, 0.75, 1}) {
		t.Errorf("Tint = %v, want 0.75 grey", got)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle", e.State())
	}
}

func TestBorderRenderStates(t *testing.T) {
	view, bs := topDownView(32)
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[1], 0)
	var states []FrameState
	e.stateHook = func(s FrameState) { states = append(states, s) }

	src := renderLit(view, 32, 32)
	if err := e.Render(view, src, NewFrame(32, 32)); err != nil {
		t.Fatal(err)
	}
	want := []FrameState{
		StateSavingClassification, StateRenderingIDs, StateDetectingEdges,
		StateBlurring, StateBlurring, StateCompositing,
		StateRestoringClassification, StateIdle,
	}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestBorderRenderNoBlurStates(t *testing.T) {
	view, bs := topDownView(16)
	e := newTestEffect(t, func(c *BorderConfig) { c.Blur = false })
	e.Registry().Add(bs[0], 0)
	var states []FrameState
	e.stateHook = func(s FrameState) { states = append(states, s) }
	if err := e.Render(view, renderLit(view, 16, 16), NewFrame(16, 16)); err != nil {
		t.Fatal(err)
	}
	for _, s := range states {
		if s == StateBlurring {
			t.Fatal("blur disabled but StateBlurring entered")
		}
	}
}

func TestBorderRenderRestoresLayers(t *testing.T) {
	view, bs := topDownView(32)
	bs[0].Layer = LayerIgnoreRaycast
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[0], 0)
	e.Registry().Add(bs[2], 1)

	sawReserved := false
	e.stateHook = func(s FrameState) {
		if s == StateRenderingIDs {
			sawReserved = bs[0].Layer == LayerBorder && bs[2].Layer == LayerBorder
		}
	}
	if err := e.Render(view, renderLit(view, 32, 32), NewFrame(32, 32)); err != nil {
		t.Fatal(err)
	}
	if !sawReserved {
		t.Error("tracked nodes should be on LayerBorder during the id pass")
	}
	if bs[0].Layer != LayerIgnoreRaycast || bs[2].Layer != LayerDefault || bs[1].Layer != LayerDefault {
		t.Errorf("layers after frame = %d, %d, %d", bs[0].Layer, bs[1].Layer, bs[2].Layer)
	}
}

func TestBorderRenderFailingRenderer(t *testing.T) {
	view, bs := topDownView(16)
	boom := errors.New("boom")
	e, err := NewBorderEffect(DefaultBorderConfig(), failRenderer{boom})
	if err != nil {
		t.Fatal(err)
	}
	bs[1].Layer = LayerIgnoreRaycast
	e.Registry().Add(bs[1], 0)

	src := renderLit(view, 16, 16)
	dst := NewFrame(16, 16)
	dst.Fill(Color{0.1, 0.2, 0.3, 1})
	before := dst.Clone()

	err = e.Render(view, src, dst)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "id pass") {
		t.Errorf("err = %q, want id pass context", err)
	}
	if bs[1].Layer != LayerIgnoreRaycast {
		t.Errorf("Layer = %d, want restored %d", bs[1].Layer, LayerIgnoreRaycast)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle", e.State())
	}
	if diff := cmp.Diff(before.Pix, dst.Pix); diff != "" {
		t.Errorf("dst modified on failure (-want +got):\n%s", diff)
	}
}

func TestBorderRenderPanickingShader(t *testing.T) {
	view, bs := topDownView(16)
	cfg := DefaultBorderConfig()
	cfg.Shader = panicShader{}
	e, err := NewBorderEffect(cfg, NewRayCaster())
	if err != nil {
		t.Fatal(err)
	}
	e.Registry().Add(bs[1], 0)
	src := renderLit(view, 16, 16)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the shader panic to propagate")
			}
		}()
		_ = e.Render(view, src, NewFrame(16, 16))
	}()

	if bs[1].Layer != LayerDefault {
		t.Errorf("Layer = %d, want restored %d", bs[1].Layer, LayerDefault)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle", e.State())
	}
}

func TestBorderRenderMidFrameRemoval(t *testing.T) {
	view, bs := topDownView(64)
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[0], 0)
	e.Registry().Add(bs[1], 1)
	e.stateHook = func(s FrameState) {
		if s == StateRenderingIDs {
			e.Registry().Remove(bs[0])
		}
	}
	if err := e.Render(view, renderLit(view, 64, 64), NewFrame(64, 64)); err != nil {
		t.Fatal(err)
	}
	if bs[0].Layer != LayerDefault || bs[1].Layer != LayerDefault {
		t.Errorf("layers = %d, %d; want default", bs[0].Layer, bs[1].Layer)
	}
	if diff := cmp.Diff([]float32{0, 2}, e.IDs().DistinctIDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestBorderRenderEffectsShareNode(t *testing.T) {
	view, bs := topDownView(64)
	a := newTestEffect(t, nil)
	b := newTestEffect(t, nil)
	a.Registry().Add(bs[1], 2)
	b.Registry().Add(bs[1], 0)
	b.Registry().Remove(bs[1])

	if err := a.Render(view, renderLit(view, 64, 64), NewFrame(64, 64)); err != nil {
		t.Fatal(err)
	}
	x, y := roofPixel(view.Camera, bs[1])
	if got := a.IDs().ID(x, y); got != 3 {
		t.Errorf("roof id = %v, want 3", got)
	}
	if diff := cmp.Diff([]float32{0, 3}, a.IDs().DistinctIDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	b.Registry().Add(bs[1], 4)
	if err := b.Render(view, renderLit(view, 64, 64), NewFrame(64, 64)); err != nil {
		t.Fatal(err)
	}
	if got := b.IDs().ID(x, y); got != 5 {
		t.Errorf("second effect roof id = %v, want 5", got)
	}
	if _, ok := objectID(bs[1]); ok {
		t.Error("object id should not outlive the passes")
	}
}

func TestBorderRenderEmptyRegistryIsPassThrough(t *testing.T) {
	view, _ := topDownView(32)
	e := newTestEffect(t, nil)
	src := renderLit(view, 32, 32)
	dst := NewFrame(32, 32)
	if err := e.Render(view, src, dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Pix, dst.Pix); diff != "" {
		t.Errorf("dst differs from source (-want +got):\n%s", diff)
	}
}

func TestBorderRenderOutlinesTrackedBuilding(t *testing.T) {
	view, bs := topDownView(64)
	e := newTestEffect(t, func(c *BorderConfig) { c.Blur = false })
	e.Registry().Add(bs[1], 0)
	src := renderLit(view, 64, 64)
	dst := NewFrame(64, 64)
	if err := e.Render(view, src, dst); err != nil {
		t.Fatal(err)
	}

	changed := 0
	tint := e.Registry().Tint()
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if dst.At(x, y) == src.At(x, y) {
				continue
			}
			changed++
			if got := dst.At(x, y); got != tint {
				t.Fatalf("outline pixel (%d,%d) = %v, want tint %v", x, y, got, tint)
			}
		}
	}
	if changed == 0 {
		t.Fatal("no outline drawn")
	}
	// The roof centre is inside the object, not on its border.
	x, y := roofPixel(view.Camera, bs[1])
	if dst.At(x, y) != src.At(x, y) {
		t.Error("interior pixel should be unchanged")
	}
}

func TestBorderRenderFrameSize(t *testing.T) {
	view, _ := topDownView(8)
	e := newTestEffect(t, nil)
	if err := e.Render(view, NewFrame(8, 8), NewFrame(9, 8)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("err = %v, want ErrFrameSize", err)
	}
	if err := e.Render(view, nil, NewFrame(8, 8)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("err = %v, want ErrFrameSize", err)
	}
}

func TestBorderRenderResize(t *testing.T) {
	view, bs := topDownView(32)
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[1], 0)
	if err := e.Render(view, renderLit(view, 32, 32), NewFrame(32, 32)); err != nil {
		t.Fatal(err)
	}
	first := e.IDs()

	view.Camera.Viewport = Rect{Width: 48, Height: 24}
	view.Camera.MarkDirty()
	if err := e.Render(view, renderLit(view, 48, 24), NewFrame(48, 24)); err != nil {
		t.Fatal(err)
	}
	if w, h := e.Size(); w != 48 || h != 24 {
		t.Errorf("Size = %dx%d, want 48x24", w, h)
	}
	if e.IDs() == first || e.IDs().Width != 48 || e.Edges().Height != 24 {
		t.Error("buffers should be reallocated at the new size")
	}

	// Same size again keeps the buffers.
	ids := e.IDs()
	if err := e.Render(view, renderLit(view, 48, 24), NewFrame(48, 24)); err != nil {
		t.Fatal(err)
	}
	if e.IDs() != ids {
		t.Error("buffers reallocated without a size change")
	}
}

func TestBorderRenderPrunesDisposed(t *testing.T) {
	view, bs := topDownView(16)
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[0], 0)
	bs[0].Dispose()
	if err := e.Render(view, renderLit(view, 16, 16), NewFrame(16, 16)); err != nil {
		t.Fatal(err)
	}
	if e.Registry().Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Registry().Len())
	}
}

func TestBorderClose(t *testing.T) {
	view, bs := topDownView(16)
	e := newTestEffect(t, nil)
	e.Registry().Add(bs[0], 0)
	if err := e.Render(view, renderLit(view, 16, 16), NewFrame(16, 16)); err != nil {
		t.Fatal(err)
	}
	e.Close()
	if e.Registry().Len() != 0 || e.IDs() != nil {
		t.Error("Close should clear the registry and buffers")
	}
	if w, h := e.Size(); w != 0 || h != 0 {
		t.Errorf("Size = %dx%d after Close", w, h)
	}
	if _, ok := objectID(bs[0]); ok {
		t.Error("Close should clear object ids")
	}
}

func TestFrameStateString(t *testing.T) {
	if StateRenderingIDs.String() != "rendering-ids" {
		t.Errorf("String = %q", StateRenderingIDs.String())
	}
	if FrameState(99).String() != "FrameState(99)" {
		t.Errorf("String = %q", FrameState(99).String())
	}
}
