package grid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenGridDefaults(t *testing.T) {
	g := NewOpenGrid(3, 2)
	require.Equal(t, 3, g.Width())
	require.Equal(t, 2, g.Height())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, DefaultMultiplier, g.At(x, y).Multiplier)
		}
	}
}

func TestInBoundsAndIdx(t *testing.T) {
	g := NewOpenGrid(4, 5)
	assert.True(t, g.InBounds(0, 0))
	assert.True(t, g.InBounds(3, 4))
	assert.False(t, g.InBounds(4, 0))
	assert.False(t, g.InBounds(0, 5))
	assert.False(t, g.InBounds(-1, 0))
	assert.Equal(t, 1*4+2, g.Idx(2, 1))
	x, y := g.Coords(g.Idx(2, 1))
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}

func TestBuilderImpassableDominates(t *testing.T) {
	b := NewBuilder(3, 3)
	b.Paint(1, 1, Cell{Multiplier: Impassable, Symbol: "wall"})
	b.Paint(1, 1, Cell{Multiplier: 2.0, Symbol: "later"})
	g := b.Finish()
	assert.True(t, g.At(1, 1).IsImpassable())
	assert.Equal(t, "wall", g.At(1, 1).Symbol)
}

func TestBuilderLastWriteWinsAmongFinite(t *testing.T) {
	b := NewBuilder(3, 3)
	b.Paint(0, 0, Cell{Multiplier: 2.0, Symbol: "first"})
	b.Paint(0, 0, Cell{Multiplier: 5.0, Symbol: "second"})
	g := b.Finish()
	assert.Equal(t, float32(5.0), g.At(0, 0).Multiplier)
	assert.Equal(t, "second", g.At(0, 0).Symbol)
}

func TestBuilderImpassableAfterFiniteDominates(t *testing.T) {
	b := NewBuilder(3, 3)
	b.Paint(0, 0, Cell{Multiplier: 2.0})
	b.Paint(0, 0, Cell{Multiplier: Impassable})
	g := b.Finish()
	assert.True(t, g.At(0, 0).IsImpassable())
}

func TestNormalizationRecordRoundTrip(t *testing.T) {
	norm, err := NewNormalizationRecord(0, 0, 100, 200, 10, 20)
	require.NoError(t, err)
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			u, v := norm.ToMap(x, y)
			rx, ry := norm.ToCell(u, v)
			assert.Equal(t, x, rx)
			assert.Equal(t, y, ry)
		}
	}
}

func TestNormalizationRecordDegenerateBounds(t *testing.T) {
	_, err := NewNormalizationRecord(5, 0, 5, 10, 10, 10)
	require.Error(t, err)
	_, err = NewNormalizationRecord(0, 5, 10, 5, 10, 10)
	require.Error(t, err)
}

func TestParseObstacleConfig(t *testing.T) {
	input := `
# comment line
OPEN: 1.0
THICK_VEGETATION : 3.5
WATER:-1

`
	cfg, err := ParseObstacleConfig(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), cfg.Lookup("OPEN"))
	assert.Equal(t, float32(3.5), cfg.Lookup("THICK_VEGETATION"))
	assert.Equal(t, Impassable, cfg.Lookup("WATER"))
	assert.Equal(t, DefaultMultiplier, cfg.Lookup("UNKNOWN"))
}

func TestParseObstacleConfigBadLine(t *testing.T) {
	_, err := ParseObstacleConfig(strings.NewReader("NOT_A_MAPPING\n"))
	require.Error(t, err)
}

func TestParseObstacleConfigBadNumber(t *testing.T) {
	_, err := ParseObstacleConfig(strings.NewReader("ROAD: not-a-number\n"))
	require.Error(t, err)
}

func TestObstacleConfigHashDeterministic(t *testing.T) {
	cfg1 := ObstacleConfig{"A": 1.0, "B": 2.0}
	cfg2 := ObstacleConfig{"B": 2.0, "A": 1.0}
	assert.Equal(t, cfg1.Hash(), cfg2.Hash())
}
