package rasterize

import "sort"

// ringEdge is one edge of a polygon ring (outer boundary or hole) in
// grid cell coordinates, used by the scanline fill.
type ringEdge struct {
	x0, y0, x1, y1 float64
}

func edgesOf(ring [][2]float64) []ringEdge {
	edges := make([]ringEdge, 0, len(ring))
	for i := 0; i < len(ring); i++ {
		p0 := ring[i]
		p1 := ring[(i+1)%len(ring)]
		if p0[1] == p1[1] {
			continue // horizontal edges never cross a scanline
		}
		edges = append(edges, ringEdge{p0[0], p0[1], p1[0], p1[1]})
	}
	return edges
}

// scanlineFill runs the even-odd scanline area fill of spec §4.3: for
// each grid row y spanned by the rings' vertical extent, it intersects
// every ring edge (outer boundary plus holes, combined in one sorted
// list so the even-odd rule naturally excludes holes) with the
// horizontal line y+0.5, sorts the hits, and emits cells between
// consecutive pairs. Grounded on
// other_examples/gogpu-gg__raster.go's fillEvenOdd/active-edge shape,
// adapted from RGBA pixels to cost cells.
func scanlineFill(rings [][][2]float64, minY, maxY, h int, emit func(x, y int)) {
	var edges []ringEdge
	for _, ring := range rings {
		edges = append(edges, edgesOf(ring)...)
	}
	if len(edges) == 0 {
		return
	}

	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}

	for y := minY; y <= maxY; y++ {
		scanY := float64(y) + 0.5
		var xs []float64
		for _, e := range edges {
			ylo, yhi := e.y0, e.y1
			if ylo > yhi {
				ylo, yhi = yhi, ylo
			}
			if scanY < ylo || scanY >= yhi {
				continue
			}
			t := (scanY - e.y0) / (e.y1 - e.y0)
			xs = append(xs, e.x0+t*(e.x1-e.x0))
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x1 := int(xs[i] + 0.5)
			x2 := int(xs[i+1] - 0.5)
			for x := x1; x <= x2; x++ {
				emit(x, y)
			}
		}
	}
}
