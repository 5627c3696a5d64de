package data

import (
	"fmt"

	"github.com/phanxgames/cityscape"
)

// OutOfRangeColor is applied to buildings filtered out by FilterRange.
var OutOfRangeColor = cityscape.ColorGrey

// Neighbourhood binds data categories to building nodes. Building i shows
// value i of the selected category.
type Neighbourhood struct {
	Categories []*Category
	Buildings  []*cityscape.Node

	// Border, if set, has its tint updated to the selected category's color.
	Border *cityscape.BorderEffect

	selected int
	lo, hi   float64
}

// NewNeighbourhood validates that every category has one value per building.
func NewNeighbourhood(cats []*Category, buildings []*cityscape.Node) (*Neighbourhood, error) {
	if len(cats) == 0 {
		return nil, ErrEmptyData
	}
	for _, c := range cats {
		if len(c.Values) != len(buildings) {
			return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrBuildingCount, c.Name, len(c.Values), len(buildings))
		}
	}
	return &Neighbourhood{Categories: cats, Buildings: buildings, selected: -1, hi: 1}, nil
}

// Selected returns the selected category, or nil before the first Select.
func (n *Neighbourhood) Selected() *Category {
	if n.selected < 0 {
		return nil
	}
	return n.Categories[n.selected]
}

// SelectedIndex returns the index of the selected category, or -1.
func (n *Neighbourhood) SelectedIndex() int {
	return n.selected
}

// Select makes category i current: the range filter is reset, every building
// is recolored from white toward the category color by its normalized value
// and reactivated, and the border tint follows the category color.
func (n *Neighbourhood) Select(i int) error {
	if i < 0 || i >= len(n.Categories) {
		return fmt.Errorf("data: category %d out of range [0, %d)", i, len(n.Categories))
	}
	n.selected = i
	n.lo, n.hi = 0, 1
	cat := n.Categories[i]
	for j, c := range cat.Colors() {
		n.Buildings[j].Color = c
		n.Buildings[j].Active = true
	}
	if n.Border != nil {
		n.Border.Registry().SetColor(cat.Color)
	}
	return nil
}

// Range returns the normalized range set by FilterRange.
func (n *Neighbourhood) Range() (lo, hi float64) {
	return n.lo, n.hi
}

// FilterRange greys out and deactivates buildings whose normalized value in
// the selected category is outside [lo, hi]. The others keep the category
// coloring and are active. Inactive buildings are not outlined on hover.
func (n *Neighbourhood) FilterRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	n.lo, n.hi = lo, hi
	cat := n.Selected()
	if cat == nil {
		return
	}
	colors := cat.Colors()
	for j, active := range cat.Actives(lo, hi) {
		b := n.Buildings[j]
		b.Active = active
		if active {
			b.Color = colors[j]
		} else {
			b.Color = OutOfRangeColor
		}
	}
}

// ValueOf returns the selected category's value for building b.
func (n *Neighbourhood) ValueOf(b *cityscape.Node) (float64, bool) {
	cat := n.Selected()
	if cat == nil {
		return 0, false
	}
	for j, node := range n.Buildings {
		if node == b {
			return cat.Values[j], true
		}
	}
	return 0, false
}
