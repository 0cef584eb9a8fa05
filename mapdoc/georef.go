package mapdoc

// GeoRef is the optional georeferencing block parsed from the map
// document: a reference lat/lon paired with its internal-unit anchor,
// the raw bounding rectangle of all features in internal units, and
// the map scale denominator.
type GeoRef struct {
	RefLat, RefLon       float64
	AnchorX, AnchorY     float64
	BoundsMinX, BoundsMinY float64
	BoundsMaxX, BoundsMaxY float64
	ScaleDenominator     float64
}

// MetersPerInternalUnit converts one internal unit to meters, per
// spec §6: "one internal unit equals scale/1,000,000 meters."
func (g GeoRef) MetersPerInternalUnit() float64 {
	return g.ScaleDenominator / 1_000_000.0
}
