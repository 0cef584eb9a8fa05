package mapdoc

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0"?>
<map>
  <georeferencing>
    <ref_point lat="52.1" lon="5.1" x="0" y="0"/>
    <scale denominator="10000"/>
  </georeferencing>
  <layers>
    <layer name="barrier">
      <object symbol="201" type="line">
        <coords>0,0;10,0;10,10</coords>
      </object>
      <object symbol="301" type="area">
        <coords>0,0;20,0;20,20;0,20</coords>
        <hole>5,5;15,5;15,15;5,15</hole>
      </object>
    </layer>
    <layer name="course">
      <object symbol="701" type="point">
        <coords>1,1</coords>
      </object>
    </layer>
    <layer name="ignored">
      <object symbol="999" type="point">
        <coords>99,99</coords>
      </object>
    </layer>
  </layers>
</map>`

func TestReadMapFiltersLayers(t *testing.T) {
	result, err := ReadMapFrom(strings.NewReader(sampleDoc), []string{"barrier", "course"})
	require.NoError(t, err)
	require.Len(t, result.Features, 3)

	for _, f := range result.Features {
		assert.NotEqual(t, "ignored", f.Layer)
	}
}

func TestReadMapParsesGeometryKinds(t *testing.T) {
	result, err := ReadMapFrom(strings.NewReader(sampleDoc), []string{"barrier", "course"})
	require.NoError(t, err)

	var sawLine, sawArea, sawPoint bool
	for _, f := range result.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			sawLine = true
			assert.Len(t, g, 3)
		case orb.Polygon:
			sawArea = true
			require.Len(t, g, 2) // outer ring + one hole
		case orb.Point:
			sawPoint = true
		}
	}
	assert.True(t, sawLine)
	assert.True(t, sawArea)
	assert.True(t, sawPoint)
}

func TestReadMapGeoRef(t *testing.T) {
	result, err := ReadMapFrom(strings.NewReader(sampleDoc), []string{"barrier", "course"})
	require.NoError(t, err)
	require.NotNil(t, result.GeoRef)
	assert.Equal(t, 52.1, result.GeoRef.RefLat)
	assert.Equal(t, 10000.0, result.GeoRef.ScaleDenominator)
	assert.InDelta(t, 0.01, result.GeoRef.MetersPerInternalUnit(), 1e-9)
}

func TestReadMapMalformedXMLFails(t *testing.T) {
	_, err := ReadMapFrom(strings.NewReader("<map><layers>"), []string{"barrier"})
	require.Error(t, err)
}

func TestReadMapCurveFlagWarns(t *testing.T) {
	doc := `<map><layers><layer name="barrier">
      <object symbol="201" type="line"><coords>0,0;5,5,1;10,0</coords></object>
    </layer></layers></map>`
	result, err := ReadMapFrom(strings.NewReader(doc), []string{"barrier"})
	require.NoError(t, err)
	require.Len(t, result.Features, 1)
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "curve") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReadMapSkipsDegenerateGeometry(t *testing.T) {
	doc := `<map><layers><layer name="barrier">
      <object symbol="201" type="line"><coords>0,0</coords></object>
      <object symbol="202" type="line"><coords>1,1;2,2</coords></object>
    </layer></layers></map>`
	result, err := ReadMapFrom(strings.NewReader(doc), []string{"barrier"})
	require.NoError(t, err)
	require.Len(t, result.Features, 1)
	require.NotEmpty(t, result.Warnings)
}
