package metrics

import "sync/atomic"

// MetricID identifies one counter or histogram slot.
type MetricID uint8

const (
	MetricChallengeIssued MetricID = iota
	MetricVerifyValid
	MetricVerifyBadSignature
	MetricVerifyExpired
	MetricVerifyNotYetValid
	MetricVerifyReplayed
	MetricVerifyMalformed
	MetricReplayEvicted
	MetricVerifyLatency

	MetricIDCount
)

// BucketCount is the fixed number of histogram buckets.
const BucketCount = 8

// bucketBounds holds the upper bounds in seconds for the first seven
// buckets; the eighth is +Inf.
var bucketBounds = [BucketCount - 1]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// Config controls metric collection. When Enabled is false every operation
// is a no-op.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds atomic counters and optional latency histograms.
type Metrics struct {
	cfg        Config
	counters   [MetricIDCount]atomic.Uint64
	histograms [MetricIDCount][BucketCount]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a [Metrics] instance. A disabled instance still accepts all
// calls and records nothing.
func New(cfg Config) *Metrics {
	return &Metrics{cfg: cfg}
}

// Inc atomically increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.cfg.Enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Add atomically adds delta to the counter identified by id.
func (m *Metrics) Add(id MetricID, delta uint64) {
	if m == nil || !m.cfg.Enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(delta)
}

// Observe records one latency sample, in seconds, into the histogram
// identified by id.
func (m *Metrics) Observe(id MetricID, seconds float64) {
	if m == nil || !m.cfg.Enabled || !m.cfg.EnableLatency || id >= MetricIDCount {
		return
	}
	bucket := BucketCount - 1
	for i, bound := range bucketBounds {
		if seconds <= bound {
			bucket = i
			break
		}
	}
	m.histograms[id][bucket].Add(1)
}

// Snapshot returns a deep copy of every non-zero counter and histogram.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, MetricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil || !m.cfg.Enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := m.counters[id].Load(); v != 0 {
			snap.Counters[id] = v
		}
	}

	if m.cfg.EnableLatency {
		for id := MetricID(0); id < MetricIDCount; id++ {
			buckets := make([]uint64, BucketCount)
			any := false
			for b := 0; b < BucketCount; b++ {
				buckets[b] = m.histograms[id][b].Load()
				any = any || buckets[b] != 0
			}
			if any {
				snap.Histograms[id] = buckets
			}
		}
	}

	return snap
}
