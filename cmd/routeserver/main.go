package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/mapdoc"
	"github.com/terrapath/routecore/pcerr"
	"github.com/terrapath/routecore/rasterize"
	"github.com/terrapath/routecore/route"
)

// builtGrid bundles a rasterized Grid with the pieces needed to serve
// /route requests against it, kept alive in the process cache.
type builtGrid struct {
	g        *grid.Grid
	norm     grid.NormalizationRecord
	sampler  *elevation.Sampler
	index    *rasterize.FeatureIndex
	logCellM float32
}

var (
	gridCache = map[string]*builtGrid{}
	gridMutex sync.RWMutex
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type buildGridRequest struct {
	MapPath     string   `json:"mapPath"`
	Layers      []string `json:"layers"`
	LayerOrder  []string `json:"layerOrder"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	ObstacleCfg string   `json:"obstacleConfig"`
	MapSourceID string   `json:"mapSourceId"`
}

type buildGridResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	CacheKey string   `json:"cacheKey,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type routeRequest struct {
	CacheKey  string  `json:"cacheKey"`
	Waypoints []point `json:"waypoints"`
	Algorithm string  `json:"algorithm"`
	Heuristic string  `json:"heuristic"`
}

type routeResponse struct {
	Path     []point  `json:"path"`
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// corsMiddleware adds CORS headers to allow frontend requests.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// POST /buildGrid - rasterize a map document into a cached Grid.
func buildGridHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Build grid request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req buildGridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Width == 0 {
		req.Width = 512
	}
	if req.Height == 0 {
		req.Height = 512
	}

	log.Printf("   Map: %s\n", req.MapPath)
	log.Printf("   Layers: %v\n", req.Layers)
	log.Printf("   Grid size: %dx%d\n", req.Width, req.Height)

	result, err := mapdoc.ReadMap(req.MapPath, req.Layers)
	if err != nil {
		log.Printf("❌ Failed to read map: %v\n", err)
		writeBuildGridError(w, err)
		return
	}
	for _, warn := range result.Warnings {
		log.Printf("⚠️  %s\n", warn)
	}

	if result.GeoRef == nil {
		log.Println("❌ Map has no georeferencing, cannot normalize bounds")
		writeBuildGridError(w, pcerr.New(pcerr.DegenerateBounds, "map has no georeferencing"))
		return
	}

	norm, err := grid.NewNormalizationRecord(result.GeoRef.BoundsMinX, result.GeoRef.BoundsMinY, result.GeoRef.BoundsMaxX, result.GeoRef.BoundsMaxY, req.Width, req.Height)
	if err != nil {
		log.Printf("❌ Degenerate bounds: %v\n", err)
		writeBuildGridError(w, err)
		return
	}

	cfg := grid.ObstacleConfig{}
	if req.ObstacleCfg != "" {
		cfg, err = grid.ParseObstacleConfig(strings.NewReader(req.ObstacleCfg))
		if err != nil {
			log.Printf("❌ Bad obstacle config: %v\n", err)
			writeBuildGridError(w, err)
			return
		}
	}

	log.Println("🔨 Rasterizing grid...")
	g, warnings, err := rasterize.Rasterize(r.Context(), result.Features, cfg, norm, req.Width, req.Height, rasterize.Options{LayerOrder: req.LayerOrder})
	if err != nil {
		log.Printf("❌ Rasterization failed: %v\n", err)
		writeBuildGridError(w, err)
		return
	}

	logCellM := float32(result.GeoRef.MetersPerInternalUnit() * norm.ResX)
	sampler := elevation.NewSampler(elevation.NewUniformField(100, float64(logCellM)), 0, 0, float64(logCellM))
	index := rasterize.NewFeatureIndex(result.Features, norm)

	key := route.CacheKey(req.MapSourceID, req.Width, req.Height, cfg.Hash())

	gridMutex.Lock()
	gridCache[key] = &builtGrid{g: g, norm: norm, sampler: sampler, index: index, logCellM: logCellM}
	gridMutex.Unlock()

	warningStrings := make([]string, len(warnings))
	for i, wn := range warnings {
		warningStrings[i] = wn.Message
	}

	log.Printf("✅ Grid built: %dx%d, %d features, %d warnings\n", req.Width, req.Height, len(result.Features), len(warnings))
	log.Println("========================================")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildGridResponse{
		Success:  true,
		CacheKey: key,
		Width:    req.Width,
		Height:   req.Height,
		Warnings: warningStrings,
	})
}

func writeBuildGridError(w http.ResponseWriter, err error) {
	log.Println("========================================")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(buildGridResponse{Success: false, Message: err.Error()})
}

// POST /route - find a path through a previously built grid.
func routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	gridMutex.RLock()
	built, ok := gridCache[req.CacheKey]
	gridMutex.RUnlock()

	if !ok {
		log.Println("❌ Grid not available for cache key")
		http.Error(w, "Grid not built. Call /buildGrid first", http.StatusBadRequest)
		log.Println("========================================")
		return
	}

	waypoints := make([]route.Waypoint, len(req.Waypoints))
	for i, p := range req.Waypoints {
		waypoints[i] = route.Waypoint{X: p.X, Y: p.Y}
	}

	opts := route.Options{
		Algorithm: parseAlgorithm(req.Algorithm),
		Heuristic: parseHeuristic(req.Heuristic),
		LogCellM:  built.logCellM,
	}

	log.Printf("🔍 Running %s over %d waypoints...\n", opts.Algorithm, len(waypoints))
	path, warnings, err := route.FindRoute(r.Context(), built.g, built.sampler, waypoints, opts)

	if err != nil {
		log.Printf("❌ Route failed: %v\n", err)
		response := routeResponse{Success: false, Message: explainRouteError(built, waypoints, err)}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
		log.Println("========================================")
		return
	}

	points := make([]point, len(path))
	for i, idx := range path {
		x, y := built.g.Coords(idx)
		points[i] = point{X: x, Y: y}
	}

	warningStrings := make([]string, len(warnings))
	for i, wn := range warnings {
		warningStrings[i] = wn.Message
	}

	log.Printf("✅ Path found with %d cells\n", len(path))
	log.Println("========================================")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routeResponse{Path: points, Success: true, Warnings: warningStrings})
}

// explainRouteError enriches an InvalidWaypoint error with the map
// feature sitting on the offending cell, using the rasterize
// FeatureIndex built alongside the grid. Relies on pcErr.Index being
// an absolute position in waypoints, which route.FindRoute guarantees.
func explainRouteError(built *builtGrid, waypoints []route.Waypoint, err error) string {
	pcErr, ok := err.(*pcerr.Error)
	if !ok || pcErr.Kind != pcerr.InvalidWaypoint || pcErr.Index < 0 || pcErr.Index >= len(waypoints) {
		return err.Error()
	}
	w := waypoints[pcErr.Index]
	hits := built.index.QueryCell(w.X, w.Y)
	if len(hits) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("%s (cell sits under symbol %q on layer %q)", err.Error(), hits[0].SymbolCode, hits[0].Layer)
}

func parseAlgorithm(s string) route.Algorithm {
	switch s {
	case "BFS":
		return route.BFS
	case "Dijkstra":
		return route.Dijkstra
	case "ThetaStar":
		return route.ThetaStar
	case "LazyThetaStar":
		return route.LazyThetaStar
	default:
		return route.AStar
	}
}

func parseHeuristic(s string) costmodel.HeuristicKind {
	switch s {
	case "Diagonal":
		return costmodel.Diagonal
	case "Manhattan":
		return costmodel.Manhattan
	case "MinCost":
		return costmodel.MinCost
	default:
		return costmodel.Euclidean
	}
}

// GET /health - health check endpoint.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	gridMutex.RLock()
	numGrids := len(gridCache)
	gridMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ready",
		"numGrids": numGrids,
	})
}

func main() {
	log.Println("========================================")
	log.Println("🚀 Orienteering Route Server")
	log.Println("========================================")

	http.HandleFunc("/buildGrid", corsMiddleware(buildGridHandler))
	http.HandleFunc("/route", corsMiddleware(routeHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	log.Println("Server starting on :8080")
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /buildGrid - Rasterize a map document into a cached Grid")
	log.Println("  POST /route     - Compute a route through a built Grid")
	log.Println("  GET  /health    - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
