// neighbourhood lays out a grid of buildings coloured by consumption data
// and outlines the building under the cursor. Drag with the left button to
// pan, the right button to orbit, and scroll to zoom.
//
// Keys:
//
//	Tab / Right   next category        Left     previous category
//	[ / ]         move the range floor ; / '    move the range ceiling
//	G             toggle bar/line graph R        reset the camera rotation
//	P             screenshot
//	1-5           debug views (with -dev) F5      dump border stages (with -dev)
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/cityscape"
	"github.com/phanxgames/cityscape/chart"
	"github.com/phanxgames/cityscape/data"
	"github.com/tanema/gween/ease"
)

//go:embed BuildingInfo.csv
var defaultBuildingInfo []byte

const (
	minHeight = 2
	maxHeight = 30
	rangeStep = 0.05
	panelPad  = 8
)

var debugKeys = map[ebiten.Key]cityscape.DebugView{
	ebiten.Key1: cityscape.DebugOff,
	ebiten.Key2: cityscape.DebugObjectIDs,
	ebiten.Key3: cityscape.DebugEdges,
	ebiten.Key4: cityscape.DebugBlur1,
	ebiten.Key5: cityscape.DebugBlur2,
}

type app struct {
	scene  *cityscape.Scene
	hood   *data.Neighbourhood
	cfg    cityscape.Config
	dev    bool
	status string

	graph     *ebiten.Image
	lineGraph bool
	hoverText string

	reloads chan cityscape.Config
}

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	dev := flag.Bool("dev", false, "enable border debug views")
	watch := flag.Bool("watch", false, "reload -config when it changes")
	script := flag.String("script", "", "JSON test script to run")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cityscape.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := cityscape.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = cityscape.LoadConfigFile(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *dev {
		cfg.Border.Developer = true
		cfg.Debug = true
	}

	cats, err := loadCategories(cfg.Data)
	if err != nil {
		log.Fatal(err)
	}

	scene := cityscape.NewScene(cityscape.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)})
	scene.RenderScale = cfg.Window.RenderScale
	scene.ScreenshotDir = cfg.ScreenshotDir
	scene.SetDebugMode(cfg.Debug)
	cfg.Camera.Apply(scene.Camera())

	border, err := cityscape.NewBorderEffect(cfg.Border, scene.Renderer())
	if err != nil {
		log.Fatal(err)
	}
	scene.SetBorderEffect(border)

	buildings := data.GridLayout(scene.Root(), len(cats[0].Values), cfg.Data.Columns, cfg.Data.Spacing,
		data.HeightFrom(cats[0], minHeight, maxHeight))
	hood, err := data.NewNeighbourhood(cats, buildings)
	if err != nil {
		log.Fatal(err)
	}
	hood.Border = border

	a := &app{scene: scene, hood: hood, cfg: cfg, dev: *dev, reloads: make(chan cityscape.Config, 1)}
	if err := a.selectCategory(0); err != nil {
		log.Fatal(err)
	}

	scene.UIBlocked = a.overPanel
	scene.OnHoverEnter(func(ctx cityscape.HoverContext) {
		v, ok := hood.ValueOf(ctx.Node)
		if !ok {
			return
		}
		cat := hood.Selected()
		a.hoverText = fmt.Sprintf("%s: %s %s", ctx.Node.Name, strconv.FormatFloat(v, 'f', -1, 64), cat.Units)
	})
	scene.OnHoverLeave(func(cityscape.HoverContext) {
		a.hoverText = ""
	})

	if *script != "" {
		raw, err := os.ReadFile(*script)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := cityscape.LoadTestScript(raw)
		if err != nil {
			log.Fatal(err)
		}
		scene.SetTestRunner(runner)
	}

	if *watch && *configPath != "" {
		stop, err := cityscape.WatchConfig(*configPath, func(c cityscape.Config, err error) {
			if err != nil {
				return
			}
			// Drop a pending reload in favour of the newest one.
			select {
			case <-a.reloads:
			default:
			}
			a.reloads <- c
		})
		if err != nil {
			log.Fatal(err)
		}
		defer stop()
	}

	scene.SetUpdateFunc(a.update)
	scene.SetOverlayFunc(a.draw)

	if err := cityscape.Run(scene, cityscape.RunConfig{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		ShowFPS:   cfg.Window.ShowFPS,
		Resizable: cfg.Window.Resizable,
	}); err != nil {
		log.Fatal(err)
	}
}

func loadCategories(cfg cityscape.DataConfig) ([]*data.Category, error) {
	var r io.Reader = bytes.NewReader(defaultBuildingInfo)
	if cfg.BuildingInfo != "" {
		f, err := os.Open(cfg.BuildingInfo)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	cats, err := data.LoadBuildingInfo(r, 0)
	if err != nil {
		return nil, err
	}
	if cfg.Consumptions == "" {
		return cats, nil
	}

	f, err := os.Open(cfg.Consumptions)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	more, err := data.LoadConsumptions(f)
	if err != nil {
		return nil, err
	}
	return append(cats, more...), nil
}

func (a *app) update() error {
	select {
	case c := <-a.reloads:
		a.applyConfig(c)
	default:
	}

	n := len(a.hood.Categories)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		return a.selectCategory((a.hood.SelectedIndex() + 1) % n)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		return a.selectCategory((a.hood.SelectedIndex() + n - 1) % n)
	}

	lo, hi := a.hood.Range()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		lo = max(lo-rangeStep, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		lo = min(lo+rangeStep, hi)
	case inpututil.IsKeyJustPressed(ebiten.KeySemicolon):
		hi = max(hi-rangeStep, lo)
	case inpututil.IsKeyJustPressed(ebiten.KeyQuote):
		hi = min(hi+rangeStep, 1)
	}
	if l, h := a.hood.Range(); l != lo || h != hi {
		a.hood.FilterRange(lo, hi)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		a.lineGraph = !a.lineGraph
		if err := a.refreshGraph(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.scene.Camera().ResetRotation(0.6, ease.OutCubic)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.scene.Screenshot(a.hood.Selected().Name)
	}

	if a.dev {
		for key, view := range debugKeys {
			if inpututil.IsKeyJustPressed(key) {
				a.scene.BorderEffect().SetDebugView(view)
				a.status = "debug view: " + view.String()
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
			a.scene.QueueStageDump("")
			a.status = "stages queued"
		}
	}
	return nil
}

// applyConfig swaps in a reloaded configuration. The camera keeps its pose;
// only limits and input scales change. The border effect is rebuilt and the
// current category and range are reapplied to it.
func (a *app) applyConfig(c cityscape.Config) {
	if a.dev {
		c.Border.Developer = true
	}
	border, err := cityscape.NewBorderEffect(c.Border, a.scene.Renderer())
	if err != nil {
		a.status = err.Error()
		return
	}
	cam := a.scene.Camera()
	cam.MinDistance = c.Camera.MinDistance
	cam.MaxDistance = c.Camera.MaxDistance
	cam.MaxPanDistance = c.Camera.MaxPanDistance
	cam.OrbitScaleX = c.Camera.OrbitScale
	cam.OrbitScaleY = c.Camera.OrbitScale
	cam.ZoomScale = c.Camera.ZoomScale
	cam.PanStep = c.Camera.PanStep

	a.scene.SetBorderEffect(border)
	a.scene.RenderScale = c.Window.RenderScale
	a.hood.Border = border
	lo, hi := a.hood.Range()
	if err := a.hood.Select(a.hood.SelectedIndex()); err == nil {
		a.hood.FilterRange(lo, hi)
	}
	a.cfg = c
	a.status = "config reloaded"
}

func (a *app) selectCategory(i int) error {
	if err := a.hood.Select(i); err != nil {
		return err
	}
	height := data.HeightFrom(a.hood.Selected(), minHeight, maxHeight)
	for j, b := range a.hood.Buildings {
		b.Box.Max.Y = height(j)
	}
	a.scene.Camera().MarkDirty()
	return a.refreshGraph()
}

func (a *app) refreshGraph() error {
	cat := a.hood.Selected()
	var (
		img image.Image
		err error
	)
	if a.lineGraph {
		img, err = chart.LineGraph(cat.Values, cat.Color, nil)
	} else {
		bins := cat.Distribution()
		counts := make([]float64, len(bins))
		labels := make([]string, len(bins))
		for i, b := range bins {
			counts[i] = float64(b.Count)
			labels[i] = strconv.FormatFloat(b.Value, 'f', -1, 64)
		}
		img, err = chart.BarGraph(counts, cat.Color, labels)
	}
	if err != nil {
		return fmt.Errorf("graph %s: %w", cat.Name, err)
	}
	if a.graph != nil {
		a.graph.Deallocate()
	}
	a.graph = ebiten.NewImageFromImage(img)
	return nil
}

func (a *app) panelRect() image.Rectangle {
	if a.graph == nil {
		return image.Rectangle{}
	}
	b := a.graph.Bounds()
	x := a.cfg.Window.Width - b.Dx() - panelPad
	y := a.cfg.Window.Height - b.Dy() - panelPad
	return image.Rect(x, y, x+b.Dx(), y+b.Dy())
}

func (a *app) overPanel(x, y float64) bool {
	return image.Pt(int(x), int(y)).In(a.panelRect())
}

func (a *app) draw(screen *ebiten.Image) {
	if a.graph != nil {
		r := a.panelRect()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		screen.DrawImage(a.graph, op)
	}

	cat := a.hood.Selected()
	lo, hi := a.hood.Range()
	lines := fmt.Sprintf("%s (%s)  range %.2f-%.2f", cat.Name, cat.Units, lo, hi)
	if a.hoverText != "" {
		lines += "\n" + a.hoverText
	}
	if a.status != "" {
		lines += "\n" + a.status
	}
	ebitenutil.DebugPrintAt(screen, lines, panelPad, a.cfg.Window.Height-48)
}
