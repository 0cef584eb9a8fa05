// Package grid holds the rasterized cost grid and the affine mapping
// between map-internal coordinates and grid cells. A Grid is immutable
// once built; construction happens through Builder, which the
// rasterize package drives.
package grid

// Impassable is the sentinel multiplier marking a cell as forbidden to
// traverse. It is distinct from any finite multiplier, all of which
// are strictly positive.
const Impassable float32 = -1

// DefaultMultiplier is the multiplier of open terrain, used when no
// feature ever touches a cell.
const DefaultMultiplier float32 = 1.0

// Cell is one element of the rasterized grid.
type Cell struct {
	// Multiplier is the base cost multiplier, or Impassable.
	Multiplier float32
	// Symbol is the origin symbol code that last set this cell, for debugging.
	Symbol string
	// Layer is the layer tag that last set this cell.
	Layer string
}

// IsImpassable reports whether the cell forbids traversal.
func (c Cell) IsImpassable() bool {
	return c.Multiplier < 0
}

// openCell is the default cell value assigned before any feature touches it.
var openCell = Cell{Multiplier: DefaultMultiplier}
