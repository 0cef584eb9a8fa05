package route

import "fmt"

// CacheKey implements the grid-reuse predicate of spec §9: a grid may
// be reused across calls whose map source, dimensions, and obstacle
// config hash are all identical, sparing a Rasterize call.
func CacheKey(mapSourceID string, w, h int, obstacleConfigHash string) string {
	return fmt.Sprintf("%s|%d|%d|%s", mapSourceID, w, h, obstacleConfigHash)
}
