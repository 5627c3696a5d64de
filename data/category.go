package data

import (
	"slices"

	"github.com/phanxgames/cityscape"
	"gonum.org/v1/gonum/floats"
)

// Category is one data column: a value per building plus display metadata.
type Category struct {
	Name   string
	Units  string
	Color  cityscape.Color
	Values []float64
	Min    float64
	Max    float64
}

// newCategory computes Min and Max for values.
func newCategory(name, units string, c cityscape.Color, values []float64) *Category {
	cat := &Category{Name: name, Units: units, Color: c, Values: values}
	if len(values) > 0 {
		cat.Min = floats.Min(values)
		cat.Max = floats.Max(values)
	}
	return cat
}

// Normalize maps every value to [0, 1] between Min and Max. A category whose
// values are all equal normalizes to zeros.
func (c *Category) Normalize() []float64 {
	out := make([]float64, len(c.Values))
	span := c.Max - c.Min
	if span <= 0 {
		return out
	}
	copy(out, c.Values)
	floats.AddConst(-c.Min, out)
	floats.Scale(1/span, out)
	return out
}

// Bin is one distinct value and how many buildings have it.
type Bin struct {
	Value float64
	Count int
}

// Distribution returns the distinct values in ascending order with their
// counts.
func (c *Category) Distribution() []Bin {
	sorted := slices.Clone(c.Values)
	slices.Sort(sorted)
	var bins []Bin
	for _, v := range sorted {
		if n := len(bins); n > 0 && bins[n-1].Value == v {
			bins[n-1].Count++
			continue
		}
		bins = append(bins, Bin{Value: v, Count: 1})
	}
	return bins
}

// Actives reports, per building, whether its normalized value lies within
// [lo, hi].
func (c *Category) Actives(lo, hi float64) []bool {
	norm := c.Normalize()
	out := make([]bool, len(norm))
	for i, v := range norm {
		out[i] = v >= lo && v <= hi
	}
	return out
}

// Colors returns the building colors for this category: white blended
// toward Color by each normalized value.
func (c *Category) Colors() []cityscape.Color {
	norm := c.Normalize()
	out := make([]cityscape.Color, len(norm))
	for i, v := range norm {
		out[i] = cityscape.ColorWhite.Lerp(c.Color, v)
	}
	return out
}
