package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters is an in-process implementation of all hook interfaces that
// keeps running totals. The server exposes a [Snapshot] on its health
// endpoint.
type Counters struct {
	runs       atomic.Int64
	failedRuns atomic.Int64
	rows       atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64
	requests   atomic.Int64
	httpErrors atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Runs        int64 `json:"runs"`
	FailedRuns  int64 `json:"failed_runs"`
	RowsFetched int64 `json:"rows_fetched"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Requests    int64 `json:"http_requests"`
	HTTPErrors  int64 `json:"http_errors"`
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Runs:        c.runs.Load(),
		FailedRuns:  c.failedRuns.Load(),
		RowsFetched: c.rows.Load(),
		CacheHits:   c.hits.Load(),
		CacheMisses: c.misses.Load(),
		Requests:    c.requests.Load(),
		HTTPErrors:  c.httpErrors.Load(),
	}
}

func (c *Counters) OnFetchStart(context.Context, string) { c.runs.Add(1) }

func (c *Counters) OnFetchComplete(_ context.Context, _ string, rows int, _ time.Duration, err error) {
	c.rows.Add(int64(rows))
	c.fail(err)
}

func (c *Counters) OnInferComplete(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	c.fail(err)
}

func (c *Counters) OnAssembleComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.fail(err)
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.misses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string, string) { c.requests.Add(1) }
func (c *Counters) OnResponse(context.Context, string, string, string, int, time.Duration) {
}
func (c *Counters) OnError(context.Context, string, string, string, error) { c.httpErrors.Add(1) }

func (c *Counters) fail(err error) {
	if err != nil {
		c.failedRuns.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
