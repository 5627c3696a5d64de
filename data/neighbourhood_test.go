package data

import (
	"testing"

	"github.com/phanxgames/cityscape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNeighbourhood(t *testing.T) (*Neighbourhood, []*cityscape.Node) {
	t.Helper()
	root := cityscape.NewContainer("root")
	buildings := GridLayout(root, 3, 3, 10, nil)
	cats := []*Category{
		newCategory("Electricity", "kWh", cityscape.Color{R: 1, A: 1}, []float64{0, 50, 100}),
		newCategory("Water", "m3", cityscape.Color{B: 1, A: 1}, []float64{30, 20, 10}),
	}
	n, err := NewNeighbourhood(cats, buildings)
	require.NoError(t, err)
	return n, buildings
}

func TestNewNeighbourhood_CountMismatch(t *testing.T) {
	t.Parallel()

	root := cityscape.NewContainer("root")
	buildings := GridLayout(root, 2, 2, 10, nil)
	cats := []*Category{newCategory("e", "", cityscape.ColorBlack, []float64{1, 2, 3})}
	_, err := NewNeighbourhood(cats, buildings)
	assert.ErrorIs(t, err, ErrBuildingCount)

	_, err = NewNeighbourhood(nil, buildings)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestNeighbourhood_Select(t *testing.T) {
	t.Parallel()

	n, buildings := newTestNeighbourhood(t)
	assert.Nil(t, n.Selected())

	require.NoError(t, n.Select(0))
	assert.Equal(t, "Electricity", n.Selected().Name)
	assert.Equal(t, cityscape.ColorWhite, buildings[0].Color)
	assert.Equal(t, cityscape.Color{R: 1, A: 1}, buildings[2].Color)

	assert.Error(t, n.Select(2))
	assert.Equal(t, 0, n.SelectedIndex())
}

func TestNeighbourhood_SelectSetsBorderTint(t *testing.T) {
	t.Parallel()

	n, _ := newTestNeighbourhood(t)
	e, err := cityscape.NewBorderEffect(cityscape.DefaultBorderConfig(), cityscape.NewRayCaster())
	require.NoError(t, err)
	n.Border = e

	require.NoError(t, n.Select(1))
	assert.Equal(t, cityscape.Color{R: 0.25, G: 0.25, B: 1, A: 1}, e.Registry().Tint())
}

func TestNeighbourhood_FilterRange(t *testing.T) {
	t.Parallel()

	n, buildings := newTestNeighbourhood(t)
	require.NoError(t, n.Select(0))

	n.FilterRange(0.25, 1)
	assert.False(t, buildings[0].Active)
	assert.Equal(t, OutOfRangeColor, buildings[0].Color)
	assert.True(t, buildings[1].Active)
	assert.True(t, buildings[2].Active)
	assert.Equal(t, cityscape.Color{R: 1, A: 1}, buildings[2].Color)

	// Selecting again resets the filter.
	require.NoError(t, n.Select(0))
	assert.True(t, buildings[0].Active)
	lo, hi := n.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestNeighbourhood_FilterRangeSwapsBounds(t *testing.T) {
	t.Parallel()

	n, buildings := newTestNeighbourhood(t)
	require.NoError(t, n.Select(0))
	n.FilterRange(0.6, 0.4)
	lo, hi := n.Range()
	assert.Equal(t, 0.4, lo)
	assert.Equal(t, 0.6, hi)
	assert.Equal(t, []bool{false, true, false},
		[]bool{buildings[0].Active, buildings[1].Active, buildings[2].Active})
}

func TestNeighbourhood_ValueOf(t *testing.T) {
	t.Parallel()

	n, buildings := newTestNeighbourhood(t)
	_, ok := n.ValueOf(buildings[1])
	assert.False(t, ok)

	require.NoError(t, n.Select(1))
	v, ok := n.ValueOf(buildings[1])
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestGridLayout(t *testing.T) {
	t.Parallel()

	root := cityscape.NewContainer("root")
	heights := []float64{5, 10, 0, 20}
	got := GridLayout(root, 4, 2, 10, func(i int) float64 { return heights[i] })
	require.Len(t, got, 4)
	assert.Equal(t, 4, root.NumChildren())

	// 2×2 grid centred on the origin.
	assert.InDelta(t, -5, got[0].Box.Center().X, 1e-9)
	assert.InDelta(t, -5, got[0].Box.Center().Z, 1e-9)
	assert.InDelta(t, 5, got[3].Box.Center().X, 1e-9)
	assert.InDelta(t, 5, got[3].Box.Center().Z, 1e-9)

	assert.Equal(t, 10.0, got[1].Box.Max.Y)
	assert.Equal(t, 0.1, got[2].Box.Max.Y)
	assert.Equal(t, uint32(4), got[3].EntityID)
	assert.True(t, got[0].Active)
}

func TestHeightFrom(t *testing.T) {
	t.Parallel()

	c := newCategory("e", "", cityscape.ColorBlack, []float64{0, 5, 10})
	h := HeightFrom(c, 2, 12)
	assert.InDelta(t, 2, h(0), 1e-12)
	assert.InDelta(t, 7, h(1), 1e-12)
	assert.InDelta(t, 12, h(2), 1e-12)
	assert.InDelta(t, 2, h(9), 1e-12)
}
