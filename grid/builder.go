package grid

// Builder accumulates cell writes during rasterization and then hands
// back an immutable Grid. It applies the precedence rule from the
// rasterizer's §4.3 contract: impassable dominates finite multipliers;
// among finite multipliers, whichever write arrives last wins. Callers
// (rasterize.Rasterize) are responsible for presenting writes in
// layer order, then document order within a layer, so "last write"
// means what the spec says it means.
type Builder struct {
	grid *Grid
}

// NewBuilder allocates a W x H builder with every cell defaulted to
// open terrain.
func NewBuilder(w, h int) *Builder {
	return &Builder{grid: NewOpenGrid(w, h)}
}

// Paint applies the precedence rule at (x,y): an impassable write
// always wins; otherwise the new write overwrites the old one
// (last-write-in-presentation-order).
func (b *Builder) Paint(x, y int, c Cell) {
	if !b.grid.InBounds(x, y) {
		return
	}
	if c.IsImpassable() {
		b.grid.set(x, y, c) // impassable dominates, regardless of write order
		return
	}
	existing := b.grid.At(x, y)
	if existing.IsImpassable() {
		return // already dominated by an earlier impassable write
	}
	b.grid.set(x, y, c) // last write in presentation order wins
}

// Finish returns the built Grid. The Builder must not be used afterward.
func (b *Builder) Finish() *Grid {
	return b.grid
}

// Width and Height mirror Grid's accessors for callers that only hold a Builder.
func (b *Builder) Width() int  { return b.grid.w }
func (b *Builder) Height() int { return b.grid.h }
