package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdimages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	documentDuration *prom.HistogramVec
	documents        *prom.CounterVec
	images           prom.Counter
	missingImages    prom.Counter
	rules            prom.Counter
	runDuration      prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them with reg. A
// nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		documentDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to load and process one document",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Processed documents by outcome",
		}, []string{"outcome"}),
		images: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Resolved image references",
		}),
		missingImages: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "missing_images_total",
			Help:      "Selected images that do not exist",
		}),
		rules: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rules_total",
			Help:      "Emitted dependency rules",
		}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a whole run",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.documentDuration, pr.documents, pr.images, pr.missingImages, pr.rules, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveDocument(format string, d time.Duration, outcome Outcome) {
	if p == nil {
		return
	}
	p.documentDuration.WithLabelValues(format).Observe(d.Seconds())
	p.documents.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddImages(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.images.Add(float64(n))
}

func (p *PrometheusRecorder) AddMissingImages(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.missingImages.Add(float64(n))
}

func (p *PrometheusRecorder) IncRules() {
	if p == nil {
		return
	}
	p.rules.Inc()
}

func (p *PrometheusRecorder) ObserveRun(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

// WriteTextfile writes everything gathered from g in the text exposition
// format, atomically, for the node_exporter textfile collector.
func WriteTextfile(path string, g prom.Gatherer) error {
	return prom.WriteToTextfile(path, g)
}
