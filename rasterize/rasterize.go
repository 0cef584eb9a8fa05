// Package rasterize turns parsed map Features into the immutable cost
// Grid that the Pathfinder family operates over: a two-pass algorithm
// (Bresenham boundary rasterization, then scanline area fill) with a
// feature-parallel worker pool and a deterministic merge, per spec §4.3.
package rasterize

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/mapdoc"
	"github.com/terrapath/routecore/pcerr"
)

// Options configures a Rasterize call.
type Options struct {
	// LayerOrder gives the precedence order of layers, per spec §4.3:
	// layers are processed in this order, and within a layer features
	// are processed in document order (their order in features).
	// Layers not named here sort after every named layer, in the
	// order they are first seen.
	LayerOrder []string
	// Workers bounds worker-pool concurrency; 0 defaults to runtime.NumCPU().
	Workers int
}

// Rasterize produces the cost Grid from features plus an
// ObstacleConfig, following the two-pass algorithm of spec §4.3.
// Feature processing is parallelized across a bounded worker pool
// (grounded on paulmach-slide/refine.go); the final merge into the
// Grid is serialized in caller-supplied layer order so that the result
// is bit-identical to a fully serial rasterization (spec §8).
func Rasterize(ctx context.Context, features []mapdoc.Feature, cfg grid.ObstacleConfig, norm grid.NormalizationRecord, w, h int, opts Options) (*grid.Grid, []Warning, error) {
	seqOf := sequenceAssigner(features, opts.LayerOrder)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(features) {
		workers = len(features)
	}
	if workers < 1 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		writes   []write
		warnings []Warning
	)

	jobs := make(chan featureJob, workers)
	var workerWG sync.WaitGroup
	workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer workerWG.Done()
			rasterizeWorker(jobs)
		}()
	}

	wg.Add(len(features))
	for i, f := range features {
		if err := checkCancelled(ctx); err != nil {
			close(jobs)
			workerWG.Wait()
			return nil, nil, err
		}
		jobs <- featureJob{
			index:   i,
			feature: f,
			seq:     seqOf(i),
			norm:    norm,
			w:       w,
			h:       h,
			cfg:     cfg,
			out:     &writes,
			warn:    &warnings,
			mu:      &mu,
			wg:      &wg,
		}
	}
	close(jobs)
	wg.Wait()
	workerWG.Wait()

	sort.SliceStable(writes, func(i, j int) bool { return writes[i].seq < writes[j].seq })

	builder := grid.NewBuilder(w, h)
	for _, wr := range writes {
		builder.Paint(wr.x, wr.y, wr.cell)
	}

	return builder.Finish(), warnings, nil
}

// sequenceAssigner returns a function mapping a feature's index in
// features to its precedence rank: primary key is the feature's
// position in layerOrder (layers absent from layerOrder sort last, in
// first-seen order), secondary key is document order within the slice.
func sequenceAssigner(features []mapdoc.Feature, layerOrder []string) func(int) int {
	rank := make(map[string]int, len(layerOrder))
	for i, l := range layerOrder {
		rank[l] = i
	}
	nextRank := len(layerOrder)
	seen := make(map[string]int)

	layerRankOf := func(layer string) int {
		if r, ok := rank[layer]; ok {
			return r
		}
		if r, ok := seen[layer]; ok {
			return r
		}
		seen[layer] = nextRank
		nextRank++
		return seen[layer]
	}

	const docBits = 1 << 20
	seqs := make([]int, len(features))
	for i, f := range features {
		seqs[i] = layerRankOf(f.Layer)*docBits + i
	}
	return func(i int) int { return seqs[i] }
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return pcerr.NewCancelled()
	default:
		return nil
	}
}
