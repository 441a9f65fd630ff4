package metrics

import "time"

// Outcome labels the result of processing one document.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Recorder defines observability hooks for document processing. All methods
// must be safe to call on NoopRecorder.
type Recorder interface {
	// ObserveDocument records the processing time and outcome of one document.
	ObserveDocument(format string, d time.Duration, outcome Outcome)
	// AddImages counts resolved image references.
	AddImages(n int)
	// AddMissingImages counts selected images that do not exist.
	AddMissingImages(n int)
	// IncRules counts emitted dependency rules.
	IncRules()
	// ObserveRun records the duration of a whole run.
	ObserveRun(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocument(string, time.Duration, Outcome) {}
func (NoopRecorder) AddImages(int)                                  {}
func (NoopRecorder) AddMissingImages(int)                           {}
func (NoopRecorder) IncRules()                                      {}
func (NoopRecorder) ObserveRun(time.Duration)                       {}
