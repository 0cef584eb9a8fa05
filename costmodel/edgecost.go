// Package costmodel implements the pure edge-cost function shared by
// every pathfinder: geometric distance combined with terrain
// multiplier and a Tobler-derived slope penalty, sampled on the fly
// from an elevation.Sampler.
package costmodel

import (
	"math"

	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
)

// Epsilon is the tolerance used wherever the spec calls for a float
// equality comparison (§4.5).
const Epsilon = 1e-6

// toblerShift and toblerScale are the constants of the slope-penalty
// formula from spec §4.5. The shift is preserved verbatim per the
// spec's explicit Open Question decision not to "correct" it.
const (
	toblerShift = 0.05
	toblerScale = 3.5
)

// SlopePenalty implements the reciprocal of Tobler's hiking function,
// exp(-3.5*|slope+0.05|). At slope == -0.05 exactly, the penalty is 1
// (its maximum), matching the boundary behavior required by spec §8.
func SlopePenalty(slope float32) float32 {
	return float32(math.Exp(-toblerScale * math.Abs(float64(slope)+toblerShift)))
}

// sqrt2 is the diagonal-neighbor distance in cells.
const sqrt2 = float32(1.41421356)

// EdgeCost computes the cost of moving between two adjacent (8-connected)
// cells, per spec §4.5. Returns +Inf if either endpoint is impassable.
func EdgeCost(g *grid.Grid, sampler *elevation.Sampler, ax, ay, bx, by int, logCellM float32) float32 {
	ca := g.At(ax, ay)
	cb := g.At(bx, by)
	if ca.IsImpassable() || cb.IsImpassable() {
		return float32(math.Inf(1))
	}

	distanceCells := float32(1.0)
	if ax != bx && ay != by {
		distanceCells = sqrt2
	}
	distanceM := distanceCells * logCellM

	elevA := sampler.ElevationAt(float64(ax)+0.5, float64(ay)+0.5)
	elevB := sampler.ElevationAt(float64(bx)+0.5, float64(by)+0.5)
	slope := (elevB - elevA) / distanceM

	terrain := 0.5 * (ca.Multiplier + cb.Multiplier)
	penalty := SlopePenalty(slope)

	return distanceM * terrain / penalty
}

// LineOfSightCost integrates the adjacent-cell cost formula along the
// straight segment from (ax,ay) to (bx,by), sampled at a stride <= 1
// logical cell, per spec §4.5. If any sampled cell is impassable, the
// segment has infinite cost. Sub-segments are aggregated by trapezoidal
// rule: each sub-segment is treated as an adjacent-cell edge whose
// distance is its own length and whose terrain/elevation are evaluated
// at its endpoints.
func LineOfSightCost(g *grid.Grid, sampler *elevation.Sampler, ax, ay, bx, by float64, logCellM float32) float32 {
	dx := bx - ax
	dy := by - ay
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return 0
	}

	steps := int(math.Ceil(dist))
	if steps < 1 {
		steps = 1
	}

	total := float32(0)
	prevX, prevY := ax, ay
	prevCell, ok := cellAt(g, prevX, prevY)
	if !ok {
		return float32(math.Inf(1))
	}
	prevElev := sampler.ElevationAt(prevX, prevY)

	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		curX := ax + dx*t
		curY := ay + dy*t

		curCell, ok := cellAt(g, curX, curY)
		if !ok {
			return float32(math.Inf(1))
		}
		if prevCell.IsImpassable() || curCell.IsImpassable() {
			return float32(math.Inf(1))
		}

		subDistCells := float32(math.Hypot((curX-prevX), (curY-prevY)))
		subDistM := subDistCells * logCellM
		if subDistM < 1e-9 {
			prevX, prevY, prevCell = curX, curY, curCell
			continue
		}

		curElev := sampler.ElevationAt(curX, curY)
		slope := (curElev - prevElev) / subDistM
		terrain := 0.5 * (prevCell.Multiplier + curCell.Multiplier)
		penalty := SlopePenalty(slope)
		total += subDistM * terrain / penalty

		prevX, prevY, prevCell, prevElev = curX, curY, curCell, curElev
	}

	return total
}

// cellAt resolves the grid cell containing the real-valued logical
// point (x,y), reporting false if it falls outside the grid.
func cellAt(g *grid.Grid, x, y float64) (c grid.Cell, ok bool) {
	cx := int(math.Floor(x))
	cy := int(math.Floor(y))
	if !g.InBounds(cx, cy) {
		return grid.Cell{}, false
	}
	return g.At(cx, cy), true
}
