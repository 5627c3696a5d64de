package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phanxgames/cityscape"
)

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// LoadBuildingInfo parses the row-oriented building info CSV. The header row
// is skipped. Each following row is name, units, an R-G-B color with 0..255
// components, then one value per building. If buildings is positive every
// row must have exactly that many values; otherwise all rows must agree with
// the first.
func LoadBuildingInfo(r io.Reader, buildings int) ([]*Category, error) {
	cr := newCSVReader(r)
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyData
		}
		return nil, fmt.Errorf("building info header: %w", err)
	}

	var cats []*Category
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("building info: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("building info line %d: want name, units and color, got %d fields", line, len(rec))
		}
		c, err := parseColor(rec[2], true)
		if err != nil {
			return nil, fmt.Errorf("building info line %d: %w", line, err)
		}
		values, err := parseValues(rec[3:])
		if err != nil {
			return nil, fmt.Errorf("building info line %d: %w", line, err)
		}
		if buildings <= 0 {
			buildings = len(values)
		}
		if len(values) != buildings {
			return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrBuildingCount, rec[0], len(values), buildings)
		}
		cats = append(cats, newCategory(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), c, values))
	}
	if len(cats) == 0 {
		return nil, ErrEmptyData
	}
	return cats, nil
}

// LoadConsumptions parses the column-oriented consumption CSV: a header of
// "Name (units)" cells, a row of R-G-B colors, then one row of values per
// building. Color components above 1 are read as 0..255.
func LoadConsumptions(r io.Reader) ([]*Category, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("consumptions header: %w", err)
	}
	colors, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("consumptions colors: %w", err)
	}
	if len(colors) != len(header) {
		return nil, fmt.Errorf("consumptions colors: %d colors for %d columns", len(colors), len(header))
	}

	names := make([]string, len(header))
	units := make([]string, len(header))
	cols := make([]cityscape.Color, len(header))
	for i, h := range header {
		names[i], units[i] = splitUnits(h)
		c, err := parseColor(colors[i], false)
		if err != nil {
			return nil, fmt.Errorf("consumptions column %d: %w", i+1, err)
		}
		cols[i] = c
	}

	values := make([][]float64, len(header))
	for line := 3; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("consumptions: %w", err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: consumptions line %d has %d values, want %d",
				ErrBuildingCount, line, len(rec), len(header))
		}
		row, err := parseValues(rec)
		if err != nil {
			return nil, fmt.Errorf("consumptions line %d: %w", line, err)
		}
		for i, v := range row {
			values[i] = append(values[i], v)
		}
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyData
	}

	cats := make([]*Category, len(header))
	for i := range header {
		cats[i] = newCategory(names[i], units[i], cols[i], values[i])
	}
	return cats, nil
}

// splitUnits splits "Electricity (kWh)" into its name and units. Cells
// without parentheses have no units.
func splitUnits(cell string) (name, units string) {
	cell = strings.TrimSpace(cell)
	open := strings.LastIndexByte(cell, '(')
	if open < 0 || !strings.HasSuffix(cell, ")") {
		return cell, ""
	}
	return strings.TrimSpace(cell[:open]), cell[open+1 : len(cell)-1]
}

// parseColor reads an "R-G-B" cell. With bytes set the components are 0..255;
// otherwise components up to 1 are taken as-is and larger ones as 0..255.
func parseColor(cell string, bytes bool) (cityscape.Color, error) {
	parts := strings.Split(strings.TrimSpace(cell), "-")
	if len(parts) != 3 {
		return cityscape.Color{}, fmt.Errorf("%w: %q", ErrBadColor, cell)
	}
	var rgb [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return cityscape.Color{}, fmt.Errorf("%w: %q", ErrBadColor, cell)
		}
		rgb[i] = v
	}
	if bytes || rgb[0] > 1 || rgb[1] > 1 || rgb[2] > 1 {
		for i := range rgb {
			rgb[i] /= 255
		}
	}
	return cityscape.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}.Clamp(), nil
}

func parseValues(cells []string) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, s := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
