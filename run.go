package cityscape

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Resizable lets the user resize the window. The scene re-renders at the
	// new size and the border effect reallocates its buffers.
	Resizable bool
}

// SetUpdateFunc registers a callback run once per tick after the scene's own
// Update. A non-nil error stops Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetOverlayFunc registers a callback that draws 2D UI over the presented
// frame each Draw.
func (s *Scene) SetOverlayFunc(fn func(screen *ebiten.Image)) {
	s.overlayFunc = fn
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	fps   *fpsOverlay
	w, h  int
}

func (g *game) Update() error {
	g.scene.Update()
	if g.fps != nil {
		g.fps.update(1 / float64(ebiten.TPS()))
	}
	if g.scene.updateFunc != nil {
		return g.scene.updateFunc()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.scene.overlayFunc != nil {
		g.scene.overlayFunc(screen)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	if g.w == 0 || g.h == 0 {
		return outsideW, outsideH
	}
	return g.w, g.h
}

// Run opens a window and drives scene until the window is closed or the
// update func returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	g := &game{scene: scene}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		g.w, g.h = cfg.Width, cfg.Height
	}
	Logger().Info("starting", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(g)
}
