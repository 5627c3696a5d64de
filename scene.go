package cityscape

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the camera, input
// state, the renderer and the optional border effect.
type Scene struct {
	root     *Node
	camera   *Camera
	renderer Renderer
	lit      Shader
	border   *BorderEffect
	store    EntityStore
	debug    bool

	// ClearColor fills pixels no building covers.
	ClearColor Color
	// RenderScale is the fraction of the screen resolution the scene is
	// rendered at before being scaled up. Values outside (0, 1] mean 1.
	RenderScale float64
	// UIBlocked, if set, reports whether a screen point is covered by UI.
	// Covered points neither hover buildings nor start camera drags.
	UIBlocked func(x, y float64) bool
	// HoverColorIndex is the palette index hovered buildings are tracked with.
	HoverColorIndex int

	// Render state
	frame  *Frame // lit scene with depth
	output *Frame // presented frame
	pixels []byte
	image  *ebiten.Image

	// Input state
	pointer      pointerState
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	handlers     handlerRegistry
	hovered      *Node
	hoverAdded   *Node
	pickBuf      []drawItem

	updateFunc  func() error
	overlayFunc func(screen *ebiten.Image)

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// ScreenshotScale resizes screenshots. Zero or 1 keeps the frame size.
	ScreenshotScale float64
	screenshotQueue []string
	dumpQueue       []string
}

// NewScene creates a scene with an empty root container, a camera on
// viewport and the CPU ray caster.
func NewScene(viewport Rect) *Scene {
	return &Scene{
		root:          NewContainer("root"),
		camera:        newCamera(viewport),
		renderer:      NewRayCaster(),
		lit:           &LitShader{},
		ClearColor:    Color{0.93, 0.95, 0.97, 1},
		RenderScale:   1,
		dragDeadZone:  defaultDragDeadZone,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// View returns the scene as seen by its camera.
func (s *Scene) View() View {
	return View{Camera: s.camera, Root: s.root}
}

// SetRenderer replaces the renderer used for the lit pass. The border effect
// keeps the renderer it was created with.
func (s *Scene) SetRenderer(r Renderer) {
	s.renderer = r
}

// Renderer returns the renderer used for the lit pass.
func (s *Scene) Renderer() Renderer {
	return s.renderer
}

// SetShader replaces the lit-pass shader.
func (s *Scene) SetShader(sh Shader) {
	s.lit = sh
}

// SetBorderEffect attaches the effect that outlines hovered buildings. Nil
// disables outlines. The previous effect's tracked nodes are released.
func (s *Scene) SetBorderEffect(e *BorderEffect) {
	if s.border != nil && s.border != e {
		s.border.Registry().Clear()
	}
	s.border = e
	s.hoverAdded = nil
}

// BorderEffect returns the attached border effect, or nil.
func (s *Scene) BorderEffect() *BorderEffect {
	return s.border
}

func (s *Scene) registry() *Registry {
	if s.border == nil {
		return nil
	}
	return s.border.Registry()
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame pass timings are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Update runs the test runner, processes input, advances camera tweens and
// refreshes the hovered building.
func (s *Scene) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	s.camera.update(dt)
	s.updateHover()
}

// RenderFrame renders the lit scene into an internal frame and runs the
// border effect from it into dst. If the effect fails the lit scene is
// copied into dst unoutlined and the error is returned.
func (s *Scene) RenderFrame(dst *Frame) error {
	if s.frame == nil || !s.frame.SameSize(dst) {
		s.frame = NewFrameWithDepth(dst.Width, dst.Height)
	}
	s.frame.Fill(s.ClearColor)
	s.frame.ClearDepth()

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	view := s.View()
	if err := s.renderer.Render(view, MaskAll, s.lit, s.frame); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}
	var sceneTime time.Duration
	if s.debug {
		sceneTime = time.Since(t0)
	}

	if s.border == nil {
		dst.CopyFrom(s.frame)
		return nil
	}
	if err := s.border.Render(view, s.frame, dst); err != nil {
		Logger().Warn("border effect failed, presenting scene without outlines", "err", err)
		dst.CopyFrom(s.frame)
		return err
	}
	if s.debug {
		stats := s.border.stats
		stats.sceneTime = sceneTime
		s.debugLog(stats)
	}
	return nil
}

// Draw renders the scene at RenderScale of the screen size and presents it.
func (s *Scene) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return
	}
	vp := Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(sw), Height: float64(sh)}
	if s.camera.Viewport != vp {
		s.camera.Viewport = vp
		s.camera.MarkDirty()
	}

	scale := s.RenderScale
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	w := max(1, int(math.Round(float64(sw)*scale)))
	h := max(1, int(math.Round(float64(sh)*scale)))
	if s.output == nil || s.output.Width != w || s.output.Height != h {
		s.output = NewFrame(w, h)
		if s.image != nil {
			s.image.Deallocate()
		}
		s.image = ebiten.NewImage(w, h)
	}

	// Failures are logged by RenderFrame and the unoutlined scene is shown.
	_ = s.RenderFrame(s.output)

	s.pixels = s.output.writePremultiplied(s.pixels)
	s.image.WritePixels(s.pixels)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	screen.DrawImage(s.image, &op)

	s.flushScreenshots(s.output)
}

// Output returns the last frame presented by Draw, or nil.
func (s *Scene) Output() *Frame {
	return s.output
}

// Pick returns the nearest visible building under the screen point, or nil.
// Buildings on LayerIgnoreRaycast are skipped.
func (s *Scene) Pick(sx, sy float64) *Node {
	ray := s.camera.ScreenRay(sx, sy)
	mask := MaskAll &^ LayerIgnoreRaycast.Mask()
	s.pickBuf = collect(s.root, Vec3{}, mask, s.pickBuf[:0])
	var best *Node
	bestT := math.Inf(1)
	for _, it := range s.pickBuf {
		if t, _, ok := it.bounds.Intersect(ray, 0, bestT); ok && t < bestT {
			best, bestT = it.node, t
		}
	}
	clear(s.pickBuf)
	return best
}
