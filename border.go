package cityscape

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Configuration errors returned by NewBorderEffect. The effect cannot run
// without a shader and a renderer; callers render the scene without outlines.
var (
	ErrMissingShader   = errors.New("cityscape: border effect has no id shader")
	ErrMissingRenderer = errors.New("cityscape: border effect has no renderer")
	ErrInvalidConfig   = errors.New("cityscape: invalid border configuration")
	// ErrFrameSize is returned by Render when source and destination differ
	// in size.
	ErrFrameSize = errors.New("cityscape: source and destination frame sizes differ")
)

// Intensity bounds for BorderConfig.Intensity.
const (
	MinIntensity = 1
	MaxIntensity = 5
)

// BorderConfig configures a BorderEffect.
type BorderConfig struct {
	// Shader renders object ids in the id pass. DefaultBorderConfig uses
	// ObjectIDShader.
	Shader Shader `toml:"-"`

	// Color is the initial border tint before BorderColorOffset is applied.
	Color Color `toml:"color"`
	// Intensity scales edge strength. Valid range is [1, 5].
	Intensity float64 `toml:"intensity"`
	// Blur enables the separable blur over the edge buffer.
	Blur     bool     `toml:"blur"`
	BlurSize BlurSize `toml:"blur_size"`
	// DepthOffset is the tolerance when comparing id depth against scene
	// depth. Tracked pixels deeper than the scene by more than this are
	// treated as occluded.
	DepthOffset float64    `toml:"depth_offset"`
	EdgeKernel  EdgeKernel `toml:"edge_kernel"`

	// Developer unlocks the debug views below. Without it they are ignored.
	Developer  bool        `toml:"developer"`
	DebugView  DebugView   `toml:"debug_view"`
	Channels   ChannelMask `toml:"channels"`
	Multiplier float64     `toml:"multiplier"`
	Divider    float64     `toml:"divider"`
}

// DefaultBorderConfig returns the production configuration: a white-based
// tint, intensity 2, a 5-tap blur and 4-neighbour edges.
func DefaultBorderConfig() BorderConfig {
	return BorderConfig{
		Shader:      ObjectIDShader{},
		Color:       ColorWhite,
		Intensity:   2,
		Blur:        true,
		BlurSize:    Blur5,
		DepthOffset: 0.001,
		EdgeKernel:  EdgeCross,
		Channels:    ChannelAll,
		Multiplier:  1,
		Divider:     1,
	}
}

// validate checks c and wraps failures with ErrInvalidConfig.
func (c BorderConfig) validate() error {
	if c.Shader == nil {
		return ErrMissingShader
	}
	if math.IsNaN(c.Intensity) || c.Intensity < MinIntensity || c.Intensity > MaxIntensity {
		return fmt.Errorf("%w: intensity %v outside [%d, %d]", ErrInvalidConfig, c.Intensity, MinIntensity, MaxIntensity)
	}
	if !c.BlurSize.valid() {
		return fmt.Errorf("%w: blur size %d", ErrInvalidConfig, c.BlurSize)
	}
	if math.IsNaN(c.DepthOffset) || c.DepthOffset < 0 {
		return fmt.Errorf("%w: depth offset %v", ErrInvalidConfig, c.DepthOffset)
	}
	if c.EdgeKernel > EdgeSquare {
		return fmt.Errorf("%w: edge kernel %d", ErrInvalidConfig, c.EdgeKernel)
	}
	if c.DebugView > DebugBlur2 {
		return fmt.Errorf("%w: debug view %d", ErrInvalidConfig, c.DebugView)
	}
	if c.Multiplier < 0 || c.Divider < 0 {
		return fmt.Errorf("%w: negative debug scale", ErrInvalidConfig)
	}
	m, d := c.Multiplier, c.Divider
	if m == 0 {
		m = 1
	}
	if d == 0 {
		d = 1
	}
	// The scale is applied as a float32.
	scale := float64(float32(m / d))
	if math.IsInf(m, 0) || math.IsInf(d, 0) || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: debug scale %v/%v is not finite", ErrInvalidConfig, c.Multiplier, c.Divider)
	}
	return nil
}

// FrameState is the stage a BorderEffect is executing.
type FrameState uint8

const (
	StateIdle FrameState = iota
	StateSavingClassification
	StateRenderingIDs
	StateDetectingEdges
	StateBlurring
	StateCompositing
	StateRestoringClassification
)

var frameStateNames = [...]string{
	"idle", "saving-classification", "rendering-ids", "detecting-edges",
	"blurring", "compositing", "restoring-classification",
}

func (s FrameState) String() string {
	if int(s) < len(frameStateNames) {
		return frameStateNames[s]
	}
	return fmt.Sprintf("FrameState(%d)", uint8(s))
}

// BorderEffect outlines the nodes in its Registry. Each frame it renders the
// tracked nodes' ids, finds id discontinuities, optionally blurs them and
// blends the tinted result over the rendered scene.
//
// A BorderEffect is used from the render goroutine only.
type BorderEffect struct {
	cfg      BorderConfig
	renderer Renderer
	reg      *Registry

	state     FrameState
	stateHook func(FrameState)

	width, height int
	ids           *IDBuffer
	edges         *Frame
	effIDs        []float32
	pool          framePool

	stages      *stageSet
	warnedDebug bool
	stats       debugStats
}

// NewBorderEffect validates cfg and returns an effect drawing through r.
func NewBorderEffect(cfg BorderConfig, r Renderer) (*BorderEffect, error) {
	if r == nil {
		return nil, ErrMissingRenderer
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 1
	}
	if cfg.Divider == 0 {
		cfg.Divider = 1
	}
	e := &BorderEffect{cfg: cfg, renderer: r, reg: NewRegistry()}
	e.reg.SetColor(cfg.Color)
	if cfg.Developer {
		e.stages = newStageSet()
	}
	Logger().Info("border effect created",
		"shader", cfg.Shader.Name(),
		"intensity", cfg.Intensity,
		"blur", cfg.Blur,
		"blur_size", cfg.BlurSize,
		"kernel", cfg.EdgeKernel,
		"developer", cfg.Developer)
	return e, nil
}

// Registry returns the set of nodes this effect outlines.
func (e *BorderEffect) Registry() *Registry {
	return e.reg
}

// Config returns the effect's configuration.
func (e *BorderEffect) Config() BorderConfig {
	return e.cfg
}

// State returns the stage currently executing. It is StateIdle between frames.
func (e *BorderEffect) State() FrameState {
	return e.state
}

func (e *BorderEffect) setState(s FrameState) {
	e.state = s
	if e.stateHook != nil {
		e.stateHook(s)
	}
}

// SetDebugView changes the debug view. It has no effect unless the effect
// was created with Developer set.
func (e *BorderEffect) SetDebugView(v DebugView) {
	if v > DebugBlur2 {
		return
	}
	e.cfg.DebugView = v
	e.warnedDebug = false
}

// Render runs one frame: source is the lit scene (with depth, for occlusion)
// and dst receives the outlined result. On error dst is left untouched and
// every tracked node is back on its saved layer.
func (e *BorderEffect) Render(view View, source, dst *Frame) error {
	if source == nil || dst == nil || !source.SameSize(dst) {
		return ErrFrameSize
	}
	plan := e.resolvePlan()
	e.ensureBuffers(source.Width, source.Height)
	e.reg.prune()
	if e.stages != nil {
		e.stages.reset()
	}

	timing := globalDebug
	var t0 time.Time
	lap := func(d *time.Duration) {
		if timing {
			now := time.Now()
			*d = now.Sub(t0)
			t0 = now
		}
	}
	e.stats = debugStats{tracked: e.reg.Len()}
	if timing {
		t0 = time.Now()
	}

	defer e.setState(StateIdle)
	e.setState(StateSavingClassification)
	guard := reclassify(e.reg, LayerBorder)
	defer func() {
		e.setState(StateRestoringClassification)
		guard.Restore()
	}()

	e.setState(StateRenderingIDs)
	if err := e.renderIDs(view, guard); err != nil {
		return fmt.Errorf("id pass: %w", err)
	}
	lap(&e.stats.idTime)
	e.captureIDs()
	if plan.stop == DebugObjectIDs {
		e.setState(StateCompositing)
		writeDebugIDs(e.ids, plan, dst)
		return nil
	}

	e.setState(StateDetectingEdges)
	var sceneDepth []float32
	if source.HasDepth() {
		sceneDepth = source.DepthBuffer()
	}
	detectEdges(e.ids, sceneDepth, edgeParams{
		kernel:      e.cfg.EdgeKernel,
		intensity:   float32(e.cfg.Intensity),
		depthOffset: float32(e.cfg.DepthOffset),
		palette:     e.reg.paletteColor,
	}, e.effIDs, e.edges)
	lap(&e.stats.edgeTime)
	e.capture(stageEdges, e.edges)
	if plan.stop == DebugEdges {
		e.setState(StateCompositing)
		writeDebugFrame(e.edges, plan, dst)
		return nil
	}

	if plan.blur {
		e.setState(StateBlurring)
		temp := e.pool.Acquire(e.width, e.height)
		defer e.pool.Release(temp)
		k := blurKernel(e.cfg.BlurSize)
		blurHorizontal(e.edges, temp, k)
		e.capture(stageBlur1, temp)
		if plan.stop == DebugBlur1 {
			lap(&e.stats.blurTime)
			e.setState(StateCompositing)
			writeDebugFrame(temp, plan, dst)
			return nil
		}
		e.setState(StateBlurring)
		blurVertical(temp, e.edges, k)
		lap(&e.stats.blurTime)
		e.capture(stageBlur2, e.edges)
		if plan.stop == DebugBlur2 {
			e.setState(StateCompositing)
			writeDebugFrame(e.edges, plan, dst)
			return nil
		}
	}

	e.setState(StateCompositing)
	composite(source, e.edges, e.reg.Tint(), dst)
	lap(&e.stats.compositeTime)
	return nil
}

// ensureBuffers allocates the id and edge buffers for a w×h frame, replacing
// them when the resolution changed since the last frame.
func (e *BorderEffect) ensureBuffers(w, h int) {
	if e.ids != nil && e.width == w && e.height == h {
		return
	}
	if e.ids != nil {
		Logger().Debug("border buffers resized",
			"from_w", e.width, "from_h", e.height, "to_w", w, "to_h", h)
	}
	e.width, e.height = w, h
	e.ids = NewIDBuffer(w, h)
	e.edges = NewFrame(w, h)
	e.effIDs = make([]float32, w*h)
	e.pool.Drain()
	if e.stages != nil {
		e.stages = newStageSet()
	}
}

// Size returns the resolution of the current buffers, or zeros before the
// first frame.
func (e *BorderEffect) Size() (w, h int) {
	return e.width, e.height
}

// IDs returns the id buffer of the last frame.
func (e *BorderEffect) IDs() *IDBuffer {
	return e.ids
}

// Edges returns the edge buffer of the last frame. With blur enabled it holds
// the blurred edges.
func (e *BorderEffect) Edges() *Frame {
	return e.edges
}

// Close releases the buffers and stops tracking every node, restoring their
// layers. The effect reallocates on the next Render.
func (e *BorderEffect) Close() {
	e.reg.Clear()
	e.ids = nil
	e.edges = nil
	e.effIDs = nil
	e.width, e.height = 0, 0
	e.pool.Drain()
	if e.stages != nil {
		e.stages = newStageSet()
	}
}
