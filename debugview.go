package cityscape

import (
	"fmt"
	"strings"
)

// DebugView selects which stage of the border pipeline is shown instead of
// the composited frame. Views other than DebugOff require
// BorderConfig.Developer.
type DebugView uint8

const (
	DebugOff       DebugView = iota // production output
	DebugObjectIDs                  // id buffer: id in red, depth in green
	DebugEdges                      // raw edge buffer
	DebugBlur1                      // edges after the horizontal blur
	DebugBlur2                      // edges after both blur passes
)

var debugViewNames = [...]string{"off", "object_ids", "edges", "blur1", "blur2"}

func (v DebugView) String() string {
	if int(v) < len(debugViewNames) {
		return debugViewNames[v]
	}
	return fmt.Sprintf("DebugView(%d)", uint8(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v DebugView) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *DebugView) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	if s == "" || s == "production" {
		*v = DebugOff
		return nil
	}
	for i, name := range debugViewNames {
		if s == name {
			*v = DebugView(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown debug view %q", ErrInvalidConfig, b)
}

// ChannelMask selects the channels a debug view outputs.
type ChannelMask uint8

const (
	ChannelR ChannelMask = 1 << iota
	ChannelG
	ChannelB
	ChannelA

	ChannelAll = ChannelR | ChannelG | ChannelB | ChannelA
)

func (m ChannelMask) String() string {
	var sb strings.Builder
	for i, c := range "rgba" {
		if m&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m ChannelMask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is any
// combination of the letters r, g, b and a.
func (m *ChannelMask) UnmarshalText(b []byte) error {
	var out ChannelMask
	for _, c := range strings.ToLower(string(b)) {
		i := strings.IndexRune("rgba", c)
		if i < 0 {
			return fmt.Errorf("%w: unknown channel %q", ErrInvalidConfig, c)
		}
		out |= 1 << i
	}
	*m = out
	return nil
}

// framePlan is the pipeline shape for one frame, decided before any pass runs.
type framePlan struct {
	stop     DebugView
	blur     bool
	channels ChannelMask
	scale    float32
}

// resolvePlan picks the stage that ends this frame's chain. Debug views are
// forced off, with a single warning, unless the effect is in developer mode.
// Blur debug views run the blur even when it is disabled.
func (e *BorderEffect) resolvePlan() framePlan {
	view := e.cfg.DebugView
	if view != DebugOff && !e.cfg.Developer {
		if !e.warnedDebug {
			Logger().Warn("border debug view ignored without developer mode", "view", view)
			e.warnedDebug = true
		}
		view = DebugOff
	}
	channels := e.cfg.Channels
	if channels == 0 {
		channels = ChannelAll
	}
	return framePlan{
		stop:     view,
		blur:     e.cfg.Blur || view == DebugBlur1 || view == DebugBlur2,
		channels: channels,
		scale:    float32(e.cfg.Multiplier / e.cfg.Divider),
	}
}

// writeDebugFrame writes src into dst rescaled by the plan and limited to its
// channels. Masked-out color channels are zero; a masked-out alpha is opaque.
// An alpha-only mask is shown as grey.
func writeDebugFrame(src *Frame, p framePlan, dst *Frame) {
	alphaOnly := p.channels == ChannelA
	for i := 0; i < len(dst.Pix); i += 4 {
		var px [4]float32
		for c := 0; c < 4; c++ {
			if p.channels&(1<<c) != 0 {
				px[c] = src.Pix[i+c] * p.scale
			}
		}
		switch {
		case alphaOnly:
			px = [4]float32{px[3], px[3], px[3], 1}
		case p.channels&ChannelA == 0:
			px[3] = 1
		}
		copy(dst.Pix[i:i+4], px[:])
	}
}

// writeDebugIDs shows the id buffer: raw ids in red and depth in green.
func writeDebugIDs(ids *IDBuffer, p framePlan, dst *Frame) {
	tmp := Frame{Width: ids.Width, Height: ids.Height, Pix: make([]float32, len(dst.Pix))}
	idsToFrame(ids, 1, &tmp)
	writeDebugFrame(&tmp, p, dst)
}

// idsToFrame converts ids to a frame with id*scale in red, depth in green and
// opaque alpha.
func idsToFrame(ids *IDBuffer, scale float32, dst *Frame) {
	for i, v := range ids.ids {
		o := i * 4
		dst.Pix[o] = v.Float32() * scale
		dst.Pix[o+1] = ids.depth[i]
		dst.Pix[o+2] = 0
		dst.Pix[o+3] = 1
	}
}

// --- Stage capture (developer mode) ---

type stage uint8

const (
	stageIDs stage = iota
	stageEdges
	stageBlur1
	stageBlur2
	stageCount
)

var stageNames = [stageCount]string{"ids", "edges", "blur1", "blur2"}

// stageSet keeps a copy of every intermediate buffer of the last frame.
type stageSet struct {
	frames [stageCount]*Frame
	valid  [stageCount]bool
}

func newStageSet() *stageSet {
	return &stageSet{}
}

func (s *stageSet) reset() {
	s.valid = [stageCount]bool{}
}

func (s *stageSet) frame(st stage, w, h int) *Frame {
	f := s.frames[st]
	if f == nil || f.Width != w || f.Height != h {
		f = NewFrame(w, h)
		s.frames[st] = f
	}
	s.valid[st] = true
	return f
}

func (e *BorderEffect) capture(st stage, f *Frame) {
	if e.stages == nil {
		return
	}
	e.stages.frame(st, f.Width, f.Height).CopyFrom(f)
}

// captureIDs stores the id buffer with ids normalized so the largest is 1.
func (e *BorderEffect) captureIDs() {
	if e.stages == nil {
		return
	}
	var maxID float32
	for _, v := range e.ids.ids {
		maxID = max(maxID, v.Float32())
	}
	scale := float32(1)
	if maxID > 0 {
		scale = 1 / maxID
	}
	idsToFrame(e.ids, scale, e.stages.frame(stageIDs, e.width, e.height))
}

// Stages returns the intermediate buffers captured during the last frame,
// keyed by stage name. It is empty unless the effect is in developer mode.
func (e *BorderEffect) Stages() map[string]*Frame {
	out := make(map[string]*Frame)
	if e.stages == nil {
		return out
	}
	for i, f := range e.stages.frames {
		if e.stages.valid[i] {
			out[stageNames[i]] = f
		}
	}
	return out
}
