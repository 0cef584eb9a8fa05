// Package elevation wraps an externally supplied elevation raster and
// exposes bilinear-interpolated elevation at any real-valued point in
// the logical grid's coordinate system.
package elevation

import "fmt"

// Field is a regular 2D elevation raster: EW x EH values in meters,
// cell side CellM meters, with (OriginPX, OriginPY) the projected-CRS
// coordinate of the field's (0,0) cell corner.
type Field struct {
	EW, EH   int
	Values   []float32
	OriginPX float64
	OriginPY float64
	CellM    float64
}

// NewField validates and constructs a Field from raw values supplied
// by the external elevation tile provider.
func NewField(ew, eh int, values []float32, originPX, originPY, cellM float64) (*Field, error) {
	if ew < 1 || eh < 1 {
		return nil, fmt.Errorf("elevation: width and height must be >= 1, got %dx%d", ew, eh)
	}
	if len(values) != ew*eh {
		return nil, fmt.Errorf("elevation: values length %d does not match %d*%d", len(values), ew, eh)
	}
	if cellM <= 0 {
		return nil, fmt.Errorf("elevation: cell size must be > 0, got %g", cellM)
	}
	return &Field{EW: ew, EH: eh, Values: values, OriginPX: originPX, OriginPY: originPY, CellM: cellM}, nil
}

// NewUniformField builds a flat field of the given value, used as the
// fallback elevation source when no real elevation data is supplied
// (spec §6): a uniform 100.0 m field with cell size equal to the
// logical cell resolution, which makes the slope penalty exactly
// exp(-3.5*0.05) everywhere.
func NewUniformField(value float32, cellM float64) *Field {
	return &Field{
		EW:     1,
		EH:     1,
		Values: []float32{value},
		CellM:  cellM,
	}
}

func (f *Field) at(x, y int) float32 {
	if x < 0 {
		x = 0
	}
	if x >= f.EW {
		x = f.EW - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= f.EH {
		y = f.EH - 1
	}
	return f.Values[y*f.EW+x]
}
