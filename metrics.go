package webx403

import (
	internalmetrics "github.com/webx403/webx403-go/internal/metrics"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricChallengeIssued counts issued challenges.
	MetricChallengeIssued = MetricID(internalmetrics.MetricChallengeIssued)
	// MetricVerifyValid counts verification attempts that succeeded.
	MetricVerifyValid = MetricID(internalmetrics.MetricVerifyValid)
	// MetricVerifyBadSignature counts cryptographic signature mismatches.
	MetricVerifyBadSignature = MetricID(internalmetrics.MetricVerifyBadSignature)
	// MetricVerifyExpired counts requests rejected as too old.
	MetricVerifyExpired = MetricID(internalmetrics.MetricVerifyExpired)
	// MetricVerifyNotYetValid counts requests rejected as too far in the future.
	MetricVerifyNotYetValid = MetricID(internalmetrics.MetricVerifyNotYetValid)
	// MetricVerifyReplayed counts detected nonce replays.
	MetricVerifyReplayed = MetricID(internalmetrics.MetricVerifyReplayed)
	// MetricVerifyMalformed counts unparseable or wrong-audience requests.
	MetricVerifyMalformed = MetricID(internalmetrics.MetricVerifyMalformed)
	// MetricReplayEvicted counts replay-store entries removed by eviction.
	MetricReplayEvicted = MetricID(internalmetrics.MetricReplayEvicted)
	// MetricVerifyLatency is the verification latency histogram.
	MetricVerifyLatency = MetricID(internalmetrics.MetricVerifyLatency)

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
