package mapdoc

import "github.com/paulmach/orb"

// Feature is a parsed map primitive, restricted to a caller-named set
// of layers. Geometry is stored as an orb.Geometry so downstream
// packages (rasterize) can use orb's planar helpers directly instead
// of hand-rolled min/max loops.
type Feature struct {
	SymbolCode string
	Layer      string
	// Geometry holds the outer ring (and, for polygons, any interior
	// holes as additional orb.Ring entries) in map-internal units.
	Geometry orb.Geometry
	// Gap marks a boundary segment that should not emit boundary cells.
	Gap bool
	// Dash marks a boundary segment using a dash pattern; this
	// implementation treats dashed boundaries as solid (spec §9 open
	// question), but keeps the flag so callers can special-case it.
	Dash bool
}

// Kind reports the geometry kind of this feature, using the same
// strings as orb.Geometry.GeoJSONType (e.g. "Point", "Polygon").
func (f Feature) Kind() string {
	if f.Geometry == nil {
		return "GeometryCollection"
	}
	return f.Geometry.GeoJSONType()
}

// IsClosedArea reports whether the feature is a polygon with at least
// 3 vertices, eligible for area-fill in the rasterizer's pass 2.
func (f Feature) IsClosedArea() bool {
	poly, ok := f.Geometry.(orb.Polygon)
	return ok && len(poly) > 0 && len(poly[0]) >= 3
}
