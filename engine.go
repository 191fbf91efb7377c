package webx403

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// Engine is the verification core. It owns the configured audience, the
// replay store, the audit dispatcher, and the injected clock and entropy
// capabilities. Construct one through [Builder.Build]; all methods are
// safe for concurrent use afterwards.
type Engine struct {
	config  Config
	store   ReplayStore
	audit   *auditDispatcher
	metrics *Metrics

	now     func() time.Time
	entropy io.Reader

	consumed atomic.Uint64
}

// Close drains and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// AuditDropped returns how many audit events were dropped due to
// dispatcher backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// EvictExpired runs one eviction pass against the replay store using the
// engine clock and records the result in metrics.
func (e *Engine) EvictExpired(ctx context.Context) (int, error) {
	evicted, err := e.store.EvictExpired(ctx, e.now())
	if err != nil {
		return 0, err
	}
	if evicted > 0 {
		e.metrics.Add(MetricReplayEvicted, uint64(evicted))
	}
	return evicted, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) auditEmit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = e.now()
	event.IP = clientIPFromContext(ctx)
	event.RequestID = requestIDFromContext(ctx)
	e.audit.Emit(ctx, event)
}

// sweepIfDue runs an opportunistic eviction pass every
// Config.Replay.SweepEvery consumed nonces.
func (e *Engine) sweepIfDue(ctx context.Context) {
	every := e.config.Replay.SweepEvery
	if every <= 0 {
		return
	}
	if e.consumed.Add(1)%uint64(every) != 0 {
		return
	}
	_, _ = e.EvictExpired(ctx)
}
