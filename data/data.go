// Package data loads the per-building data columns shown by the viewer and
// binds them to building nodes.
//
// Two CSV layouts are supported. The row-oriented building info file holds
// one category per line:
//
//	Name,Units,Color,B1,B2,...
//	Electricity,kWh,255-200-0,120,340,...
//
// The column-oriented consumption file holds one category per column, with
// a "Name (units)" header row, an "R-G-B" color row and one row per building.
package data

import "errors"

var (
	// ErrBuildingCount is returned when a category has a different number
	// of values than there are buildings.
	ErrBuildingCount = errors.New("data: value count does not match building count")
	// ErrEmptyData is returned when a file holds no categories or no values.
	ErrEmptyData = errors.New("data: no data")
	// ErrBadColor is returned for color cells that are not R-G-B triples.
	ErrBadColor = errors.New("data: malformed color")
)
