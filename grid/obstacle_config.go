package grid

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/terrapath/routecore/pcerr"
)

// ObstacleConfig maps a symbol code to a cost multiplier, or to
// Impassable for -1.0.
type ObstacleConfig map[string]float32

// Lookup returns the multiplier for a symbol code, falling back to
// DefaultMultiplier (open terrain) when the symbol has no override.
func (c ObstacleConfig) Lookup(symbol string) float32 {
	if m, ok := c[symbol]; ok {
		return m
	}
	return DefaultMultiplier
}

// ParseObstacleConfig reads the text form described in spec §6:
// one "SYMBOL_CODE: MULTIPLIER" mapping per line, blank lines and
// lines starting with '#' ignored, whitespace around ':' insignificant.
func ParseObstacleConfig(r io.Reader) (ObstacleConfig, error) {
	cfg := make(ObstacleConfig)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, pcerr.NewBadConfig(lineNo, raw)
		}
		symbol := strings.TrimSpace(parts[0])
		valueStr := strings.TrimSpace(parts[1])
		if symbol == "" || valueStr == "" {
			return nil, pcerr.NewBadConfig(lineNo, raw)
		}
		value, err := strconv.ParseFloat(valueStr, 32)
		if err != nil {
			return nil, pcerr.NewBadConfig(lineNo, raw)
		}
		if value != -1.0 && value <= 0 {
			return nil, pcerr.NewBadConfig(lineNo, raw)
		}
		if value == -1.0 {
			cfg[symbol] = Impassable
		} else {
			cfg[symbol] = float32(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pcerr.Wrap(pcerr.BadConfig, "failed reading obstacle config", err)
	}
	return cfg, nil
}

// Hash returns a stable digest of the config suitable for use as part
// of a grid cache key (spec §9 "Ownership of Grid between calls").
// Deterministic regardless of map iteration order.
func (c ObstacleConfig) Hash() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(float64(c[k]), 'g', -1, 32))
		b.WriteByte(';')
	}
	return b.String()
}
