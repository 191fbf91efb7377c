// Package prometheus provides Prometheus collectors for webx403 metrics.
//
// [NewPrometheusExporter] accepts a [webx403.Engine] and exposes an [http.Handler]
// that renders all webx403 counters and histograms in Prometheus text exposition
// format. Counter names are prefixed webx403_*_total; the single histogram is
// webx403_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
