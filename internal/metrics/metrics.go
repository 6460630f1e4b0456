package metrics

import (
	"sync"
	"time"
)

type upstreamStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

// Recorder captures lightweight, in-memory metrics about upstream calls and
// cache behavior. It mirrors everything into otel instruments when telemetry
// is enabled, but stays usable (and assertable) without any exporter.
type Recorder struct {
	mu       sync.Mutex
	upstream map[string]*upstreamStats
	caches   map[string]*cacheStats
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		upstream: make(map[string]*upstreamStats),
		caches:   make(map[string]*cacheStats),
		otel:     otel,
	}
}

// RecordUpstreamCall increments counters for an upstream request and stores
// the last observed latency.
func (r *Recorder) RecordUpstreamCall(upstream string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureUpstream(upstream)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamCall(upstream, duration, err)
	}
}

// RecordRateLimit tracks that an upstream response hit a rate limit.
func (r *Recorder) RecordRateLimit(upstream string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureUpstream(upstream).rateLimitHits++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(upstream)
	}
}

// RecordCacheLookup tracks a hit or miss against a named cache slot.
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.caches[cache]
	if stats == nil {
		stats = &cacheStats{}
		r.caches[cache] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(cache, hit)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one upstream.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(upstream string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.ensureUpstream(upstream)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastCallLatency: stats.lastCallLatency,
	}
}

// CacheSnapshot is a copy of the hit/miss counters for one cache slot.
type CacheSnapshot struct {
	Hits   int
	Misses int
}

func (r *Recorder) CacheSnapshot(cache string) CacheSnapshot {
	if r == nil {
		return CacheSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.caches[cache]
	if stats == nil {
		return CacheSnapshot{}
	}
	return CacheSnapshot{Hits: stats.hits, Misses: stats.misses}
}

func (r *Recorder) ensureUpstream(upstream string) *upstreamStats {
	stats := r.upstream[upstream]
	if stats == nil {
		stats = &upstreamStats{}
		r.upstream[upstream] = stats
	}
	return stats
}
