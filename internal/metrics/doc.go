// Package metrics records per-run processing metrics for mdimages.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder keeps counters and histograms in a registry that
// can be written to a node_exporter textfile at the end of a run:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	runner := batch.NewRunner(batch.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
