package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/graph"
	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/records"
	"github.com/matzehuels/taxotree/pkg/source"
	"github.com/matzehuels/taxotree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it does not
// store results. Multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run fetches, infers and assembles one source.
func (r *Runner) Run(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	name := src.Name()
	logger := r.Logger.With("source", name)

	result := &Result{RunID: uuid.NewString(), Source: name}
	logger = logger.With("run", result.RunID)

	// Stage 1: Fetch
	fetchStart := time.Now()
	hooks.OnFetchStart(ctx, name)
	batch, hit, err := r.FetchWithCacheInfo(ctx, src, opts)
	result.Stats.FetchTime = time.Since(fetchStart)
	rows := 0
	if batch != nil {
		rows = len(batch.Rows)
	}
	hooks.OnFetchComplete(ctx, name, rows, result.Stats.FetchTime, err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	result.Stats.RowCount = rows
	result.CacheInfo.FetchHit = hit

	logger.Info("fetched records",
		"rows", rows,
		"cached", hit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Infer
	inferStart := time.Now()
	err = r.infer(batch, result)
	result.Stats.InferTime = time.Since(inferStart)
	hooks.OnInferComplete(ctx, name, len(result.Edges), len(result.MultiInheritance), result.Stats.InferTime, err)
	if err != nil {
		return nil, fmt.Errorf("infer %s: %w", name, err)
	}
	result.Stats.EdgeCount = len(result.Edges)

	logger.Info("inferred hierarchy",
		"shape", result.Shape,
		"edges", len(result.Edges),
		"multi_inheritance", len(result.MultiInheritance),
		"duration", result.Stats.InferTime)
	for _, id := range slices.Sorted(maps.Keys(result.Uncovered)) {
		left := result.Uncovered[id]
		logger.Warn("children not covered by any smaller cell set", "entity", id, "children", left)
	}

	// Stage 3: Assemble
	if err := r.assemble(ctx, result); err != nil {
		return nil, err
	}
	logger.Info("assembled tree",
		"roots", len(result.Forest),
		"tree_nodes", result.Stats.TreeNodes,
		"duration", result.Stats.AssembleTime)

	return result, nil
}

func (r *Runner) infer(batch *records.Batch, result *Result) error {
	in, err := records.Normalize(batch)
	if err != nil {
		return err
	}
	result.Shape = in.Shape
	result.Nodes = in.Nodes

	h, err := Infer(in)
	if err != nil {
		return err
	}
	result.Edges = h.Edges
	result.MultiInheritance = h.MultiInheritance
	result.Roots = h.Roots
	result.Leaves = h.Leaves
	result.Uncovered = h.Uncovered
	return nil
}

// FromGraph assembles the forest of a previously serialized hierarchy
// without fetching or inferring anything.
func (r *Runner) FromGraph(ctx context.Context, g graph.Graph) (*Result, error) {
	nodes, err := g.NodeTable()
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID:            g.RunID,
		Source:           g.Source,
		Nodes:            nodes,
		Edges:            g.Edges,
		MultiInheritance: g.MultiInheritance,
		Roots:            g.Roots,
		Leaves:           g.Leaves,
		Uncovered:        g.Uncovered,
	}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}
	result.Stats.EdgeCount = len(g.Edges)
	if err := r.assemble(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) assemble(ctx context.Context, result *Result) error {
	start := time.Now()
	forest, err := tree.Build(result.Nodes, result.Edges)
	result.Stats.AssembleTime = time.Since(start)
	if err == nil {
		result.Forest = forest
		result.Stats.TreeNodes = tree.Count(forest)
	}
	observability.Pipeline().OnAssembleComplete(ctx, result.Source, result.Stats.TreeNodes, result.Stats.AssembleTime, err)
	if err != nil {
		return fmt.Errorf("assemble %s: %w", result.Source, err)
	}
	return nil
}

// FetchWithCacheInfo reads a batch from src and reports whether it came
// from the cache. Only sources implementing [source.Fingerprinted] are
// cached; others are fetched every time.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, src source.Source, opts Options) (*records.Batch, bool, error) {
	fp, ok := src.(source.Fingerprinted)
	if !ok {
		b, err := src.Fetch(ctx)
		return b, false, err
	}
	cacheKey := r.Keyer.BatchKey(src.Name(), fp.Fingerprint())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var b records.Batch
			if err := json.Unmarshal(data, &b); err == nil {
				return &b, true, nil
			}
		}
	}

	b, err := src.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if data, err := json.Marshal(b); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, ttl); err != nil {
			r.Logger.Debug("cache batch", "source", src.Name(), "err", err)
		}
	}
	return b, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, src source.Source, opts Options) (*records.Batch, error) {
	b, _, err := r.FetchWithCacheInfo(ctx, src, opts)
	return b, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
