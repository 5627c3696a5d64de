package cityscape

import (
	"fmt"

	"github.com/chewxy/math32"
)

// EdgeKernel selects the neighbourhood compared by edge detection.
type EdgeKernel uint8

const (
	EdgeCross  EdgeKernel = iota // 4 neighbours
	EdgeSquare                   // 8 neighbours, diagonals included
)

func (k EdgeKernel) String() string {
	switch k {
	case EdgeCross:
		return "cross"
	case EdgeSquare:
		return "square"
	}
	return fmt.Sprintf("EdgeKernel(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EdgeKernel) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EdgeKernel) UnmarshalText(b []byte) error {
	switch string(b) {
	case "cross", "":
		*k = EdgeCross
	case "square":
		*k = EdgeSquare
	default:
		return fmt.Errorf("%w: unknown edge kernel %q", ErrInvalidConfig, b)
	}
	return nil
}

var (
	crossOffsets  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	squareOffsets = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

func (k EdgeKernel) offsets() [][2]int {
	if k == EdgeSquare {
		return squareOffsets
	}
	return crossOffsets
}

type edgeParams struct {
	kernel      EdgeKernel
	intensity   float32
	depthOffset float32
	palette     func(id int) Color
}

// effectiveIDs writes each pixel's id into eff, rounded to the nearest
// integer. Tracked pixels that lie behind the scene surface by more than
// depthOffset are occluded and read as 0. With nil sceneDepth nothing is
// occluded.
func effectiveIDs(ids *IDBuffer, sceneDepth []float32, depthOffset float32, eff []float32) {
	for i, v := range ids.ids {
		id := math32.Round(v.Float32())
		if id != 0 && sceneDepth != nil && ids.depth[i] > sceneDepth[i]+depthOffset {
			id = 0
		}
		eff[i] = id
	}
}

// detectEdges marks every pixel whose effective id differs from a neighbour's
// when at least one of the two is nonzero. Neighbours outside the image are
// skipped. Edge pixels take the palette color of their own id, or of the
// largest differing neighbour id when they are background, premultiplied by
// the intensity which also becomes their alpha. Every other pixel is cleared.
func detectEdges(ids *IDBuffer, sceneDepth []float32, p edgeParams, eff []float32, out *Frame) {
	w, h := ids.Size()
	effectiveIDs(ids, sceneDepth, p.depthOffset, eff)
	out.Clear()
	offs := p.kernel.offsets()
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			self := eff[row+x]
			var other float32
			edge := false
			for _, o := range offs {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := eff[ny*w+nx]
				if n == self {
					continue
				}
				edge = true
				other = math32.Max(other, n)
			}
			if !edge {
				continue
			}
			id := self
			if id == 0 {
				id = other
			}
			c := p.palette(int(id))
			i := (row + x) * 4
			out.Pix[i] = float32(c.R) * p.intensity
			out.Pix[i+1] = float32(c.G) * p.intensity
			out.Pix[i+2] = float32(c.B) * p.intensity
			out.Pix[i+3] = p.intensity
		}
	}
}
