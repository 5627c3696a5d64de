package data

import (
	"testing"

	"github.com/phanxgames/cityscape"
	"github.com/stretchr/testify/assert"
)

func TestCategory_Normalize(t *testing.T) {
	t.Parallel()

	c := newCategory("e", "kWh", cityscape.ColorBlack, []float64{10, 20, 30, 20})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, c.Normalize(), 1e-12)
	// The source values are untouched.
	assert.Equal(t, []float64{10, 20, 30, 20}, c.Values)
}

func TestCategory_NormalizeFlat(t *testing.T) {
	t.Parallel()

	c := newCategory("w", "m3", cityscape.ColorBlack, []float64{7, 7, 7})
	assert.Equal(t, []float64{0, 0, 0}, c.Normalize())
}

func TestCategory_Distribution(t *testing.T) {
	t.Parallel()

	c := newCategory("e", "", cityscape.ColorBlack, []float64{3, 1, 3, 2, 3})
	assert.Equal(t, []Bin{{1, 1}, {2, 1}, {3, 3}}, c.Distribution())
}

func TestCategory_Actives(t *testing.T) {
	t.Parallel()

	c := newCategory("e", "", cityscape.ColorBlack, []float64{0, 25, 50, 75, 100})
	assert.Equal(t, []bool{false, true, true, true, false}, c.Actives(0.25, 0.75))
	assert.Equal(t, []bool{true, true, true, true, true}, c.Actives(0, 1))
}

func TestCategory_Colors(t *testing.T) {
	t.Parallel()

	red := cityscape.Color{R: 1, A: 1}
	c := newCategory("e", "", red, []float64{0, 50, 100})
	got := c.Colors()
	assert.Equal(t, cityscape.ColorWhite, got[0])
	assert.Equal(t, red, got[2])
	assert.InDelta(t, 0.5, got[1].G, 1e-12)
	assert.InDelta(t, 1.0, got[1].R, 1e-12)
}
