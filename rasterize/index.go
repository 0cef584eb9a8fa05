package rasterize

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/mapdoc"
)

// featureEntry wraps a Feature for R-tree storage, grounded on the
// teacher's PolygonEntry (spatial_index.go).
type featureEntry struct {
	index int
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *featureEntry) Bounds() rtreego.Rect { return e.bbox }

// FeatureIndex answers "which features cover this grid cell" queries
// in O(log n) instead of a linear scan over every feature, grounded on
// the teacher's SpatialIndex (spatial_index.go), repurposed from
// no-fly-zone polygon lookups to map-feature lookups over the
// normalized grid coordinate system.
type FeatureIndex struct {
	tree     *rtreego.Rtree
	features []mapdoc.Feature
}

// NewFeatureIndex builds an index over features, projecting each
// feature's bounding rectangle into grid cell coordinates via norm.
func NewFeatureIndex(features []mapdoc.Feature, norm grid.NormalizationRecord) *FeatureIndex {
	tree := rtreego.NewTree(2, 25, 50)

	for i, f := range features {
		bound := geometryBound(f.Geometry)
		if bound == nil {
			continue
		}
		minX, minY := norm.ToCellF(bound.Min.X(), bound.Min.Y())
		maxX, maxY := norm.ToCellF(bound.Max.X(), bound.Max.Y())
		if minX > maxX {
			minX, maxX = maxX, minX
		}
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		lengths := []float64{maxX - minX + 1, maxY - minY + 1}
		rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, lengths)
		if err != nil {
			continue
		}
		tree.Insert(&featureEntry{index: i, bbox: rect})
	}

	return &FeatureIndex{tree: tree, features: features}
}

// QueryCell returns every feature whose bounding rectangle covers grid
// cell (x,y). Used by cmd/routeserver to explain an InvalidWaypoint
// error with the map feature sitting on that cell.
func (idx *FeatureIndex) QueryCell(x, y int) []mapdoc.Feature {
	rect, err := rtreego.NewRect(rtreego.Point{float64(x), float64(y)}, []float64{1, 1})
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(rect)
	out := make([]mapdoc.Feature, 0, len(hits))
	for _, item := range hits {
		entry := item.(*featureEntry)
		out = append(out, idx.features[entry.index])
	}
	return out
}

func geometryBound(g orb.Geometry) *orb.Bound {
	if g == nil {
		return nil
	}
	b := g.Bound()
	return &b
}
