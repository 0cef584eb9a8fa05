package elevation

import "math"

// Sampler bridges the logical grid's coordinate system to an
// elevation Field's cell grid and supplies bilinear-interpolated
// elevation at any real-valued logical-grid point. It holds no
// mutable state after construction, so ElevationAt is safe to call
// concurrently from many threads.
type Sampler struct {
	field         *Field
	originOffsetX float64
	originOffsetY float64
	logCellM      float64
}

// NewSampler builds a Sampler. originOffsetX/Y and logCellM implement
// the affine transform from spec §3: "(origin_offset_x,
// origin_offset_y, log_cell_m)" relating the logical grid to the
// elevation field.
func NewSampler(field *Field, originOffsetX, originOffsetY, logCellM float64) *Sampler {
	return &Sampler{
		field:         field,
		originOffsetX: originOffsetX,
		originOffsetY: originOffsetY,
		logCellM:      logCellM,
	}
}

// ElevationAt returns the bilinearly interpolated elevation, in
// meters, at logical-grid point (x,y). Out-of-field queries clamp to
// the nearest edge.
func (s *Sampler) ElevationAt(x, y float64) float32 {
	// Convert logical grid units to elevation-field cell coordinates.
	fieldX := (x*s.logCellM + s.originOffsetX) / s.field.CellM
	fieldY := (y*s.logCellM + s.originOffsetY) / s.field.CellM

	x0 := int(math.Floor(fieldX))
	y0 := int(math.Floor(fieldY))
	x1 := x0 + 1
	y1 := y0 + 1

	tx := fieldX - float64(x0)
	ty := fieldY - float64(y0)

	v00 := float64(s.field.at(x0, y0))
	v10 := float64(s.field.at(x1, y0))
	v01 := float64(s.field.at(x0, y1))
	v11 := float64(s.field.at(x1, y1))

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return float32(top + (bottom-top)*ty)
}
