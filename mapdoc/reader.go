package mapdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/terrapath/routecore/pcerr"
)

// xmlMap is the ISOM-2017-2 document shape this reader understands:
// an optional georeferencing block and a set of named layers, each
// holding point/line/area objects. Curve-start flags on individual
// coordinates are accepted but rasterized as straight segments
// between control points (spec §4.1's documented lossy choice).
type xmlMap struct {
	XMLName        xml.Name        `xml:"map"`
	Georeferencing *xmlGeoref      `xml:"georeferencing"`
	Layers         []xmlLayer      `xml:"layers>layer"`
}

type xmlGeoref struct {
	RefPoint *xmlRefPoint `xml:"ref_point"`
	Scale    *xmlScale    `xml:"scale"`
}

type xmlRefPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
	X   float64 `xml:"x,attr"`
	Y   float64 `xml:"y,attr"`
}

type xmlScale struct {
	Denominator float64 `xml:"denominator,attr"`
}

type xmlLayer struct {
	Name    string      `xml:"name,attr"`
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	Symbol string `xml:"symbol,attr"`
	Type   string `xml:"type,attr"` // "point" | "line" | "area"
	Gap    bool   `xml:"gap,attr"`
	Dash   bool   `xml:"dash,attr"`
	Coords string `xml:"coords"`
	Holes  []string `xml:"hole"`
}

// Result is the output of ReadMap: the features restricted to the
// caller's requested layers, plus optional georeferencing.
type Result struct {
	Features []Feature
	GeoRef   *GeoRef
	// Warnings accumulates non-fatal issues (malformed or degenerate
	// geometry skipped, unknown object type skipped, curve flags
	// rasterized as straight segments) so the caller can surface them
	// alongside a successful read, per spec §7's warning policy.
	// Unknown symbol codes are retained without a warning.
	Warnings []string
}

// ReadMap parses the XML map document at path, keeping only features
// on layers named in wantLayers. Layers not in wantLayers are ignored
// entirely, per spec §4.1. Malformed XML is fatal (pcerr.MapLoad).
func ReadMap(path string, wantLayers []string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, pcerr.NewMapLoad(path, err)
	}
	defer f.Close()
	return readMap(f, wantLayers, path)
}

// ReadMapFrom parses from an already-open reader, useful for tests and
// for callers that already have the document in memory.
func ReadMapFrom(r io.Reader, wantLayers []string) (Result, error) {
	return readMap(r, wantLayers, "<reader>")
}

func readMap(r io.Reader, wantLayers []string, sourceName string) (Result, error) {
	var doc xmlMap
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Result{}, pcerr.NewMapLoad(sourceName, err)
	}

	want := make(map[string]bool, len(wantLayers))
	for _, l := range wantLayers {
		want[l] = true
	}

	var result Result
	for _, layer := range doc.Layers {
		if !want[layer.Name] {
			continue
		}
		for _, obj := range layer.Objects {
			feature, warn, ok := convertObject(layer.Name, obj)
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
			}
			if ok {
				result.Features = append(result.Features, feature)
			}
		}
	}

	if doc.Georeferencing != nil && doc.Georeferencing.RefPoint != nil && doc.Georeferencing.Scale != nil {
		rp := doc.Georeferencing.RefPoint
		result.GeoRef = &GeoRef{
			RefLat:           rp.Lat,
			RefLon:           rp.Lon,
			AnchorX:          rp.X,
			AnchorY:          rp.Y,
			ScaleDenominator: doc.Georeferencing.Scale.Denominator,
		}
		if bounds, ok := boundsOf(result.Features); ok {
			result.GeoRef.BoundsMinX = bounds.Min.X()
			result.GeoRef.BoundsMinY = bounds.Min.Y()
			result.GeoRef.BoundsMaxX = bounds.Max.X()
			result.GeoRef.BoundsMaxY = bounds.Max.Y()
		}
	}

	return result, nil
}

func convertObject(layerName string, obj xmlObject) (Feature, string, bool) {
	points, hasCurve, err := parseCoords(obj.Coords)
	if err != nil {
		return Feature{}, fmt.Sprintf("layer %s: symbol %s: malformed geometry skipped: %v", layerName, obj.Symbol, err), false
	}

	var warn string
	if hasCurve {
		warn = fmt.Sprintf("layer %s: symbol %s: curve control points rasterized as straight segments", layerName, obj.Symbol)
	}

	feature := Feature{
		SymbolCode: obj.Symbol,
		Layer:      layerName,
		Gap:        obj.Gap,
		Dash:       obj.Dash,
	}

	switch obj.Type {
	case "point":
		if len(points) == 0 {
			return Feature{}, fmt.Sprintf("layer %s: symbol %s: point object has no coordinates, skipped", layerName, obj.Symbol), false
		}
		feature.Geometry = orb.Point(points[0])
	case "line":
		if len(points) < 2 {
			return Feature{}, fmt.Sprintf("layer %s: symbol %s: line object needs >=2 points, skipped", layerName, obj.Symbol), false
		}
		feature.Geometry = orb.LineString(points)
	case "area":
		if len(points) < 3 {
			return Feature{}, fmt.Sprintf("layer %s: symbol %s: area object needs >=3 points, skipped", layerName, obj.Symbol), false
		}
		ring := closeRing(orb.Ring(points))
		poly := orb.Polygon{ring}
		for _, holeStr := range obj.Holes {
			holePts, _, herr := parseCoords(holeStr)
			if herr != nil || len(holePts) < 3 {
				continue
			}
			holeRing := closeRing(orb.Ring(holePts))
			poly = append(poly, holeRing)
		}
		feature.Geometry = poly
	default:
		return Feature{}, fmt.Sprintf("layer %s: symbol %s: unknown object type %q, skipped", layerName, obj.Symbol, obj.Type), false
	}

	return feature, warn, true
}

// closeRing appends the first point to the end of the ring if it is
// not already closed.
func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// parseCoords parses a "x1,y1;x2,y2;..." coordinate list. Each pair
// may carry an optional third curve-start flag field ("x,y,1"); the
// flag is reported via hasCurve but otherwise ignored, since curves
// are rasterized as straight segments between control points.
func parseCoords(raw string) (points []orb.Point, hasCurve bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	tuples := strings.Split(raw, ";")
	points = make([]orb.Point, 0, len(tuples))
	for _, tuple := range tuples {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			continue
		}
		fields := strings.Split(tuple, ",")
		if len(fields) < 2 {
			return nil, false, fmt.Errorf("coordinate tuple %q has fewer than 2 fields", tuple)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad x in tuple %q: %w", tuple, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad y in tuple %q: %w", tuple, err)
		}
		if len(fields) >= 3 && strings.TrimSpace(fields[2]) == "1" {
			hasCurve = true
		}
		points = append(points, orb.Point{x, y})
	}
	return points, hasCurve, nil
}

// boundsOf computes the bounding rectangle of all feature geometry in
// internal units, using orb.MultiPoint.Bound() instead of a hand-rolled
// min/max loop.
func boundsOf(features []Feature) (orb.Bound, bool) {
	var pts orb.MultiPoint
	for _, f := range features {
		pts = append(pts, verticesOf(f.Geometry)...)
	}
	if len(pts) == 0 {
		return orb.Bound{}, false
	}
	return pts.Bound(), true
}

func verticesOf(g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return []orb.Point{v}
	case orb.LineString:
		return []orb.Point(v)
	case orb.Polygon:
		var pts []orb.Point
		for _, ring := range v {
			pts = append(pts, []orb.Point(ring)...)
		}
		return pts
	default:
		return nil
	}
}
