package grid

import (
	"math"

	"github.com/terrapath/routecore/pcerr"
)

// NormalizationRecord is the affine mapping between map-internal
// coordinates and integer grid cells, computed once from a feature
// bounding rectangle and a requested grid size.
type NormalizationRecord struct {
	MinX, MinY float64
	ResX, ResY float64
}

// NewNormalizationRecord computes the NormalizationRecord for a
// bounding rectangle (uMin,vMin)-(uMax,vMax) rasterized onto a W x H
// grid. It fails with DegenerateBounds if either extent is zero.
func NewNormalizationRecord(uMin, vMin, uMax, vMax float64, w, h int) (NormalizationRecord, error) {
	if uMax == uMin || vMax == vMin {
		return NormalizationRecord{}, pcerr.NewDegenerateBounds()
	}
	return NormalizationRecord{
		MinX: uMin,
		MinY: vMin,
		ResX: (uMax - uMin) / float64(w),
		ResY: (vMax - vMin) / float64(h),
	}, nil
}

// ToCell maps a map-internal coordinate to a grid cell.
func (n NormalizationRecord) ToCell(u, v float64) (x, y int) {
	x = int(math.Floor((u - n.MinX) / n.ResX))
	y = int(math.Floor((v - n.MinY) / n.ResY))
	return x, y
}

// ToCellF is ToCell but returns the real-valued intermediate for
// callers that need it before flooring to an int (e.g. boundary
// rasterization needs the real cell coordinate).
func (n NormalizationRecord) ToCellF(u, v float64) (fx, fy float64) {
	return (u - n.MinX) / n.ResX, (v - n.MinY) / n.ResY
}

// ToMap maps a grid cell's lower-left corner back to map-internal
// units. Composed with ToCell, this round-trips: ToCell(ToMap(x,y)) == (x,y).
func (n NormalizationRecord) ToMap(x, y int) (u, v float64) {
	return n.MinX + float64(x)*n.ResX, n.MinY + float64(y)*n.ResY
}

// CellCenter returns the map-internal coordinate of the center of cell (x,y).
func (n NormalizationRecord) CellCenter(x, y int) (u, v float64) {
	return n.MinX + (float64(x)+0.5)*n.ResX, n.MinY + (float64(y)+0.5)*n.ResY
}
