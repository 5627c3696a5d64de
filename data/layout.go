package data

import (
	"fmt"
	"math"

	"github.com/phanxgames/cityscape"
)

// GridLayout places count buildings on a grid centred on the origin, columns
// wide with spacing units between centres. Footprints are 70% of the spacing
// and height(i) gives each building's height. The buildings are added to
// parent and returned in index order.
func GridLayout(parent *cityscape.Node, count, columns int, spacing float64, height func(i int) float64) []*cityscape.Node {
	if columns <= 0 {
		columns = int(math.Ceil(math.Sqrt(float64(count))))
	}
	rows := (count + columns - 1) / columns
	half := spacing * 0.35
	x0 := -float64(columns-1) * spacing / 2
	z0 := -float64(rows-1) * spacing / 2

	out := make([]*cityscape.Node, count)
	for i := range count {
		cx := x0 + float64(i%columns)*spacing
		cz := z0 + float64(i/columns)*spacing
		h := 1.0
		if height != nil {
			h = max(height(i), 0.1)
		}
		b := cityscape.NewBuilding(fmt.Sprintf("building-%d", i),
			cityscape.Vec3{X: cx - half, Z: cz - half},
			cityscape.Vec3{X: cx + half, Y: h, Z: cz + half}, nil)
		b.EntityID = uint32(i + 1)
		b.UserData = i
		parent.AddChild(b)
		out[i] = b
	}
	return out
}

// HeightFrom returns a height function mapping category values linearly to
// [minH, maxH].
func HeightFrom(cat *Category, minH, maxH float64) func(i int) float64 {
	norm := cat.Normalize()
	return func(i int) float64 {
		if i < 0 || i >= len(norm) {
			return minH
		}
		return minH + norm[i]*(maxH-minH)
	}
}
