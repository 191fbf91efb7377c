package internaldefs

import (
	webx403 "github.com/webx403/webx403-go"
)

// CounterDef binds a core counter ID to its exported metric name.
type CounterDef struct {
	ID   webx403.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its exported metric name.
type HistogramDef struct {
	ID   webx403.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a fixed, deterministic order.
var CounterDefs = []CounterDef{
	{ID: webx403.MetricChallengeIssued, Name: "webx403_challenge_issued_total", Help: "Issued challenges."},
	{ID: webx403.MetricVerifyValid, Name: "webx403_verify_valid_total", Help: "Successful verifications."},
	{ID: webx403.MetricVerifyBadSignature, Name: "webx403_verify_bad_signature_total", Help: "Verifications rejected for signature mismatch."},
	{ID: webx403.MetricVerifyExpired, Name: "webx403_verify_expired_total", Help: "Verifications rejected as too old."},
	{ID: webx403.MetricVerifyNotYetValid, Name: "webx403_verify_not_yet_valid_total", Help: "Verifications rejected as too far in the future."},
	{ID: webx403.MetricVerifyReplayed, Name: "webx403_verify_replayed_total", Help: "Detected nonce replays."},
	{ID: webx403.MetricVerifyMalformed, Name: "webx403_verify_malformed_total", Help: "Unparseable or wrong-audience verification attempts."},
	{ID: webx403.MetricReplayEvicted, Name: "webx403_replay_evicted_total", Help: "Replay-store entries removed by eviction sweeps."},
}

// HistogramDefs lists every exported histogram in a fixed, deterministic order.
var HistogramDefs = []HistogramDef{
	{ID: webx403.MetricVerifyLatency, Name: "webx403_verify_latency_seconds", Help: "Verification latency histogram."},
}

// HistogramBounds holds the rendered upper bound of each bucket, in order.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds instrument-name-safe forms of the bounds for
// backends that cannot carry an le label.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets converts a snapshot bucket slice to the fixed-size array
// exporters work with. Missing trailing buckets read as zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to Prometheus-style cumulative
// counts, so the +Inf bucket equals the total sample count.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
