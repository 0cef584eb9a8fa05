package rasterize

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/mapdoc"
)

// write is one cell assignment produced by a feature's local pass,
// tagged with the sequence number that encodes "caller-supplied layer
// order, then document order within a layer" (spec §4.3) so the final
// merge can be serialized deterministically regardless of which worker
// finished first.
type write struct {
	x, y int
	cell grid.Cell
	seq  int
}

// featureJob is one unit of feature-parallel rasterization work,
// grounded on paulmach-slide/refine.go's workerPayload shape (channel
// of jobs consumed by a fixed worker pool, sync.WaitGroup signaling
// completion), adapted from per-vertex refinement to per-feature
// boundary+area rasterization.
type featureJob struct {
	index   int
	feature mapdoc.Feature
	seq     int
	norm    grid.NormalizationRecord
	w, h    int
	cfg     grid.ObstacleConfig
	out     *[]write
	warn    *[]Warning
	mu      *sync.Mutex
	wg      *sync.WaitGroup
}

func rasterizeWorker(jobs <-chan featureJob) {
	for job := range jobs {
		writes, warnings := rasterizeFeature(job.index, job.feature, job.seq, job.norm, job.w, job.h, job.cfg)

		job.mu.Lock()
		*job.out = append(*job.out, writes...)
		*job.warn = append(*job.warn, warnings...)
		job.mu.Unlock()

		job.wg.Done()
	}
}

// rasterizeFeature runs both passes for a single feature and returns
// its local writes, never touching the shared Builder directly so that
// features can run concurrently without synchronization on the grid.
func rasterizeFeature(index int, f mapdoc.Feature, seq int, norm grid.NormalizationRecord, w, h int, cfg grid.ObstacleConfig) ([]write, []Warning) {
	if f.Gap {
		if _, isPolygon := f.Geometry.(orb.Polygon); !isPolygon {
			return nil, nil
		}
	}

	var warnings []Warning
	if f.Dash {
		warnings = append(warnings, Warning{FeatureIndex: index, Message: "dash boundary treated as solid"})
	}

	multiplier := cfg.Lookup(f.SymbolCode)
	cell := grid.Cell{Multiplier: multiplier, Symbol: f.SymbolCode, Layer: f.Layer}

	var writes []write
	emit := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		writes = append(writes, write{x: x, y: y, cell: cell, seq: seq})
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		x, y := norm.ToCell(g.X(), g.Y())
		emit(x, y)

	case orb.LineString:
		rasterizeLine(g, norm, emit)

	case orb.Polygon:
		if len(g) == 0 {
			break
		}
		if !f.Gap {
			for _, ring := range g {
				rasterizeLine(orb.LineString(closeRing(ring)), norm, emit)
			}
		}

		if f.IsClosedArea() && planar.Area(g) != 0 {
			rings := polygonRingsInCells(g, norm)
			minY, maxY := ringsYExtent(rings, h)
			scanlineFill(rings, minY, maxY, h, emit)
		} else if f.IsClosedArea() {
			warnings = append(warnings, Warning{FeatureIndex: index, Message: "polygon has zero area, area fill skipped"})
		}
	}

	return writes, warnings
}

func rasterizeLine(ls orb.LineString, norm grid.NormalizationRecord, emit func(x, y int)) {
	for i := 0; i+1 < len(ls); i++ {
		x0, y0 := norm.ToCell(ls[i].X(), ls[i].Y())
		x1, y1 := norm.ToCell(ls[i+1].X(), ls[i+1].Y())
		bresenhamLine(x0, y0, x1, y1, emit)
	}
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) == 0 || r[0] == r[len(r)-1] {
		return r
	}
	closed := make(orb.Ring, len(r)+1)
	copy(closed, r)
	closed[len(r)] = r[0]
	return closed
}

func polygonRingsInCells(poly orb.Polygon, norm grid.NormalizationRecord) [][][2]float64 {
	rings := make([][][2]float64, 0, len(poly))
	for _, ring := range poly {
		cells := make([][2]float64, len(ring))
		for i, p := range ring {
			x, y := norm.ToCellF(p.X(), p.Y())
			cells[i] = [2]float64{x, y}
		}
		rings = append(rings, cells)
	}
	return rings
}

func ringsYExtent(rings [][][2]float64, h int) (minY, maxY int) {
	minF, maxF := float64(h), 0.0
	for _, ring := range rings {
		for _, p := range ring {
			if p[1] < minF {
				minF = p[1]
			}
			if p[1] > maxF {
				maxF = p[1]
			}
		}
	}
	return int(minF), int(maxF)
}
