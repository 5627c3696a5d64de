// Package chart renders the neighbourhood graph panel: a bar graph of the
// value distribution and a line graph of per-building values, drawn with
// gonum/plot into plain images that the demo uploads as Ebitengine images.
package chart

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/phanxgames/cityscape"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	// SeparatorCount is the number of Y intervals; SeparatorCount+1 ticks are drawn.
	SeparatorCount = 10
	// DefaultYDifference is the Y span used when every value is equal.
	DefaultYDifference = 5.0
	// YDifferenceOffset is the headroom added above the largest value,
	// as a fraction of the value span.
	YDifferenceOffset = 0.2
)

var (
	// ErrNoValues is returned when a graph is requested for an empty series.
	ErrNoValues = errors.New("chart: no values")
	// ErrLabelCount is returned when labels are given but do not match the values.
	ErrLabelCount = errors.New("chart: label count does not match value count")
)

// Graph holds the presentation settings shared by both graph kinds.
type Graph struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	// BarWidth is the width of a single bar in a bar graph.
	BarWidth vg.Length
}

// DefaultGraph is the panel size used by the package-level helpers.
var DefaultGraph = Graph{
	Width:    4 * vg.Inch,
	Height:   3 * vg.Inch,
	BarWidth: vg.Points(12),
}

// BarGraph renders values as bars using DefaultGraph.
func BarGraph(values []float64, c cityscape.Color, labels []string) (image.Image, error) {
	return DefaultGraph.Bar(values, c, labels)
}

// LineGraph renders values as a connected series of points using DefaultGraph.
func LineGraph(values []float64, c cityscape.Color, labels []string) (image.Image, error) {
	return DefaultGraph.Line(values, c, labels)
}

// Bar renders values as a bar graph. When labels is nil the X axis is
// labelled 1..n.
func (g Graph) Bar(values []float64, c cityscape.Color, labels []string) (image.Image, error) {
	p, err := g.newPlot(values, labels)
	if err != nil {
		return nil, err
	}
	bars, err := plotter.NewBarChart(plotter.Values(values), g.BarWidth)
	if err != nil {
		return nil, fmt.Errorf("chart: bar graph: %w", err)
	}
	bars.Color = c.NRGBA()
	bars.LineStyle.Width = 0
	p.Add(bars)
	return g.render(p), nil
}

// Line renders values as a line graph with a dot on each value. When labels
// is nil the X axis is labelled 1..n.
func (g Graph) Line(values []float64, c cityscape.Color, labels []string) (image.Image, error) {
	p, err := g.newPlot(values, labels)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, dots, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("chart: line graph: %w", err)
	}
	line.Color = c.NRGBA()
	line.Width = vg.Points(1)
	dots.Color = c.NRGBA()
	dots.Radius = vg.Points(2)
	p.Add(line, dots)
	return g.render(p), nil
}

func (g Graph) newPlot(values []float64, labels []string) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	if labels != nil && len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels for %d values", ErrLabelCount, len(labels), len(values))
	}

	p := plot.New()
	p.Title.Text = g.Title
	p.X.Label.Text = g.XLabel
	p.Y.Label.Text = g.YLabel

	lo, hi := YRange(values)
	p.Y.Min, p.Y.Max = lo, hi
	p.Y.Tick.Marker = plot.ConstantTicks(YTicks(lo, hi))
	p.Add(plotter.NewGrid())

	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.NominalX(XLabels(len(values), labels)...)
	return p, nil
}

func (g Graph) render(p *plot.Plot) image.Image {
	c := vgimg.New(g.Width, g.Height)
	p.Draw(draw.New(c))
	return c.Image()
}

// YRange returns the Y axis bounds for values. The axis starts at zero and
// ends a fraction of the value span above the largest value.
func YRange(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, DefaultYDifference
	}
	mn, mx := floats.Min(values), floats.Max(values)
	diff := mx - mn
	if diff <= 0 {
		diff = DefaultYDifference
	}
	hi = mx + diff*YDifferenceOffset
	if hi <= 0 {
		hi = DefaultYDifference
	}
	return 0, hi
}

// YTicks returns SeparatorCount+1 evenly spaced ticks between lo and hi,
// labelled with the rounded integer value.
func YTicks(lo, hi float64) []plot.Tick {
	ticks := make([]plot.Tick, SeparatorCount+1)
	for i := range ticks {
		v := lo + float64(i)/SeparatorCount*(hi-lo)
		ticks[i] = plot.Tick{Value: v, Label: fmt.Sprintf("%d", int(math.Round(v)))}
	}
	return ticks
}

// XLabels returns labels unchanged, or 1-based indices when labels is nil.
func XLabels(n int, labels []string) []string {
	if labels != nil {
		return labels
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%d", i+1)
	}
	return out
}
