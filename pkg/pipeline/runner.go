package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/store"
)

// Runner executes pipeline stages against a store and a cache.
//
// The Runner holds no per-run state. Multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Source store.Source
	Writer store.PositionWriter
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	FlushConcurrency int
	RetryAttempts    int
	RetryDelay       time.Duration
	LayoutTTL        time.Duration
}

// NewRunner creates a runner reading from src and writing to w.
// If w is nil, Flush reports every change as failed.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(src store.Source, w store.PositionWriter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:           src,
		Writer:           w,
		Cache:            c,
		Keyer:            keyer,
		Logger:           logger,
		FlushConcurrency: DefaultFlushConcurrency,
		RetryAttempts:    DefaultRetryAttempts,
		RetryDelay:       DefaultRetryDelay,
		LayoutTTL:        TTLLayout,
	}
}

// Fetch reads the current snapshot from the source.
func (r *Runner) Fetch(ctx context.Context) (family.Snapshot, error) {
	if r.Source == nil {
		return family.Snapshot{}, kerrors.New(kerrors.ErrCodeInvalidConfig, "no store configured")
	}
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx)
	start := time.Now()
	snap, err := r.Source.Snapshot(ctx)
	hooks.OnFetchComplete(ctx, len(snap.Members), len(snap.Relationships), time.Since(start), err)
	if err != nil {
		return family.Snapshot{}, err
	}
	r.Logger.Debug("fetched snapshot",
		"members", len(snap.Members),
		"relationships", len(snap.Relationships),
		"duration", time.Since(start))
	return snap, nil
}

// Layout fetches the snapshot and lays it out. The returned Result lists
// the members whose stored position differs from the new layout; nothing
// is written until Flush is called.
func (r *Runner) Layout(ctx context.Context, opts Options) (*Result, error) {
	snap, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return r.LayoutSnapshot(ctx, snap, opts)
}

// LayoutSnapshot lays out an already fetched snapshot.
func (r *Runner) LayoutSnapshot(ctx context.Context, snap family.Snapshot, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	start := time.Now()
	ix := family.NewIndex(snap)
	if n := ix.Dropped(); n > 0 {
		r.Logger.Warn("ignored relationships with unknown members", "count", n)
	}

	pm, hit, err := r.ComputeLayout(ctx, snap, ix, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Snapshot:     snap,
		Index:        ix,
		Generations:  family.AssignGenerations(ix),
		Stats:        family.ComputeStats(ix),
		Positions:    pm,
		Changes:      pm.Diff(snap.Members),
		SnapshotHash: cache.SnapshotHash(snap),
		CacheHit:     hit,
		Duration:     time.Since(start),
	}

	r.Logger.Info("computed layout",
		"members", ix.Len(),
		"generations", res.Stats.Generations,
		"changed", len(res.Changes),
		"cached", hit,
		"duration", res.Duration)
	return res, nil
}

// Stored fetches the snapshot and wraps it in a Result that keeps every
// member at its stored position. Changes is always empty.
func (r *Runner) Stored(ctx context.Context) (*Result, error) {
	snap, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	ix := family.NewIndex(snap)
	return &Result{
		Snapshot:     snap,
		Index:        ix,
		Generations:  family.AssignGenerations(ix),
		Stats:        family.ComputeStats(ix),
		Positions:    layout.FromMembers(snap.Members),
		SnapshotHash: cache.SnapshotHash(snap),
	}, nil
}

// ComputeLayout returns positions for snap, reading from and populating
// the cache. ix must be the index of snap. The bool result reports a
// cache hit.
func (r *Runner) ComputeLayout(ctx context.Context, snap family.Snapshot, ix *family.Index, opts Options) (layout.PositionMap, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnLayoutStart(ctx, ix.Len())
	start := time.Now()

	key := r.Keyer.LayoutKey(cache.SnapshotHash(snap), opts.Layout)

	// Try cache first
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			pm, err := layout.ReadPositions(bytes.NewReader(data))
			if err == nil && len(pm) == ix.Len() {
				cacheHooks.OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, ix.Len(), time.Since(start), true)
				return pm, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("cache read failed", "err", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	pm := layout.Compute(ix, opts.Layout)

	// Cache the result
	var buf bytes.Buffer
	if err := layout.WritePositions(pm, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.LayoutTTL); err == nil {
			cacheHooks.OnCacheSet(ctx, "layout", buf.Len())
		} else {
			r.Logger.Debug("cache write failed", "err", err)
		}
	}

	hooks.OnLayoutComplete(ctx, ix.Len(), time.Since(start), false)
	return pm, false, nil
}
