package rasterize

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/mapdoc"
)

func testNorm(t *testing.T, w, h int) grid.NormalizationRecord {
	norm, err := grid.NewNormalizationRecord(0, 0, float64(w), float64(h), w, h)
	require.NoError(t, err)
	return norm
}

func TestRasterizePointFeatureStampsSingleCell(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "201", Layer: "obstacles", Geometry: orb.Point{5, 5}},
	}
	cfg := grid.ObstacleConfig{"201": grid.Impassable}

	g, warnings, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"obstacles"}})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, g.At(5, 5).IsImpassable())
	assert.False(t, g.At(0, 0).IsImpassable())
}

func TestRasterizeClosedPolygonFillsInterior(t *testing.T) {
	norm := testNorm(t, 10, 10)
	poly := orb.Polygon{orb.Ring{{2, 2}, {7, 2}, {7, 7}, {2, 7}, {2, 2}}}
	features := []mapdoc.Feature{
		{SymbolCode: "301", Layer: "water", Geometry: poly},
	}
	cfg := grid.ObstacleConfig{"301": grid.Impassable}

	g, _, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"water"}})
	require.NoError(t, err)
	assert.True(t, g.At(4, 4).IsImpassable())
	assert.False(t, g.At(0, 0).IsImpassable())
}

func TestRasterizePolygonWithHoleLeavesHoleOpen(t *testing.T) {
	norm := testNorm(t, 20, 20)
	outer := orb.Ring{{2, 2}, {17, 2}, {17, 17}, {2, 17}, {2, 2}}
	hole := orb.Ring{{8, 8}, {12, 8}, {12, 12}, {8, 12}, {8, 8}}
	poly := orb.Polygon{outer, hole}
	features := []mapdoc.Feature{
		{SymbolCode: "301", Layer: "water", Geometry: poly},
	}
	cfg := grid.ObstacleConfig{"301": grid.Impassable}

	g, _, err := Rasterize(context.Background(), features, cfg, norm, 20, 20, Options{LayerOrder: []string{"water"}})
	require.NoError(t, err)
	assert.True(t, g.At(4, 4).IsImpassable())
	assert.False(t, g.At(10, 10).IsImpassable())
}

func TestRasterizeImpassableDominatesLaterLayer(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "wall", Layer: "barriers", Geometry: orb.Point{5, 5}},
		{SymbolCode: "path", Layer: "paths", Geometry: orb.Point{5, 5}},
	}
	cfg := grid.ObstacleConfig{"wall": grid.Impassable, "path": 0.5}

	g, _, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"barriers", "paths"}})
	require.NoError(t, err)
	assert.True(t, g.At(5, 5).IsImpassable())
}

func TestRasterizeLastWriteWinsAmongFiniteMultipliers(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "a", Layer: "l1", Geometry: orb.Point{3, 3}},
		{SymbolCode: "b", Layer: "l2", Geometry: orb.Point{3, 3}},
	}
	cfg := grid.ObstacleConfig{"a": 0.5, "b": 2.0}

	g, _, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"l1", "l2"}})
	require.NoError(t, err)
	assert.Equal(t, float32(2.0), g.At(3, 3).Multiplier)
}

func TestRasterizeGapSegmentEmitsNoCells(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "fence", Layer: "l1", Geometry: orb.LineString{{0, 5}, {9, 5}}, Gap: true},
	}
	cfg := grid.ObstacleConfig{"fence": grid.Impassable}

	g, _, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"l1"}})
	require.NoError(t, err)
	for x := 0; x < 10; x++ {
		assert.False(t, g.At(x, 5).IsImpassable())
	}
}

func TestRasterizeDashSegmentTreatedAsSolidWithWarning(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "fence", Layer: "l1", Geometry: orb.LineString{{0, 5}, {9, 5}}, Dash: true},
	}
	cfg := grid.ObstacleConfig{"fence": grid.Impassable}

	g, warnings, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"l1"}})
	require.NoError(t, err)
	assert.True(t, g.At(5, 5).IsImpassable())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "dash")
}

func TestRasterizeSerialAndParallelAreIdentical(t *testing.T) {
	norm := testNorm(t, 30, 30)
	var features []mapdoc.Feature
	for i := 0; i < 20; i++ {
		features = append(features, mapdoc.Feature{
			SymbolCode: "x",
			Layer:      "l1",
			Geometry:   orb.Point{float64(i % 30), float64((i * 3) % 30)},
		})
	}
	cfg := grid.ObstacleConfig{"x": 0.7}

	g1, _, err := Rasterize(context.Background(), features, cfg, norm, 30, 30, Options{LayerOrder: []string{"l1"}, Workers: 1})
	require.NoError(t, err)
	g2, _, err := Rasterize(context.Background(), features, cfg, norm, 30, 30, Options{LayerOrder: []string{"l1"}, Workers: 8})
	require.NoError(t, err)

	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			assert.Equal(t, g1.At(x, y), g2.At(x, y))
		}
	}
}

func TestRasterizeZeroAreaPolygonWarns(t *testing.T) {
	norm := testNorm(t, 10, 10)
	degenerate := orb.Polygon{orb.Ring{{2, 2}, {5, 2}, {2, 2}, {2, 2}}}
	features := []mapdoc.Feature{
		{SymbolCode: "301", Layer: "water", Geometry: degenerate},
	}
	cfg := grid.ObstacleConfig{"301": grid.Impassable}

	_, warnings, err := Rasterize(context.Background(), features, cfg, norm, 10, 10, Options{LayerOrder: []string{"water"}})
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
}

func TestFeatureIndexQueryCell(t *testing.T) {
	norm := testNorm(t, 10, 10)
	features := []mapdoc.Feature{
		{SymbolCode: "301", Layer: "water", Geometry: orb.Polygon{orb.Ring{{2, 2}, {7, 2}, {7, 7}, {2, 7}, {2, 2}}}},
	}
	idx := NewFeatureIndex(features, norm)

	hits := idx.QueryCell(4, 4)
	require.Len(t, hits, 1)
	assert.Equal(t, "301", hits[0].SymbolCode)

	assert.Empty(t, idx.QueryCell(9, 9))
}
