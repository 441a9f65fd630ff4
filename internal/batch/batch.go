// Package batch loads documents one after another and hands each to a
// handler, applying the keep-going policy to failures.
package batch

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdimages/internal/convert"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/metrics"
)

// Handler processes one successfully loaded document.
type Handler func(doc *docmodel.Document) error

// FailureHandler is told about every document that failed while the runner
// keeps going.
type FailureHandler func(path string, err error)

// Failure records one failed document.
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a run.
type Result struct {
	Processed int
	Failures  []Failure
}

// OK reports whether no document failed.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Runner processes documents sequentially.
type Runner struct {
	docOpts   docmodel.Options
	keepGoing bool
	logger    *slog.Logger
	recorder  metrics.Recorder
	onFailure FailureHandler
}

// Option configures a Runner.
type Option func(*Runner)

// WithDocumentOptions sets how documents are loaded.
func WithDocumentOptions(opts docmodel.Options) Option {
	return func(r *Runner) { r.docOpts = opts }
}

// WithKeepGoing makes failures per document non-fatal.
func WithKeepGoing(keepGoing bool) Option {
	return func(r *Runner) { r.keepGoing = keepGoing }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithFailureHandler registers fn for failures skipped under keep-going.
func WithFailureHandler(fn FailureHandler) Option {
	return func(r *Runner) { r.onFailure = fn }
}

// NewRunner returns a Runner; without options it stops at the first failure.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KeepGoing reports whether the runner continues past failures.
func (r *Runner) KeepGoing() bool { return r.keepGoing }

// Load loads a single document with the runner's document options.
func (r *Runner) Load(path string) (*docmodel.Document, error) {
	return docmodel.Load(path, r.docOpts)
}

// Run loads every path and calls handle for it. Without keep-going the first
// load or handler error is returned; with keep-going failures are logged,
// reported to the failure handler and collected in the result. Run stops
// early when ctx is canceled.
func (r *Runner) Run(ctx context.Context, paths []string, handle Handler) (Result, error) {
	start := time.Now()
	defer func() { r.recorder.ObserveRun(time.Since(start)) }()

	var res Result
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := r.process(path, handle)
		if err == nil {
			res.Processed++
			continue
		}
		if !r.keepGoing {
			return res, err
		}
		r.logger.Error("document failed; continuing", logfields.Document(path), logfields.Error(err))
		res.Failures = append(res.Failures, Failure{Path: path, Err: err})
		if r.onFailure != nil {
			r.onFailure(path, err)
		}
	}
	return res, nil
}

func (r *Runner) process(path string, handle Handler) error {
	format := r.docOpts.Format
	if format == convert.FormatAuto {
		format = convert.FormatFor(path)
	}
	start := time.Now()

	doc, err := r.Load(path)
	if err == nil {
		r.recorder.AddImages(len(doc.ImagePaths()))
		err = handle(doc)
	}

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	r.recorder.ObserveDocument(string(format), time.Since(start), outcome)
	r.logger.Debug("document processed",
		logfields.Document(path),
		logfields.Format(string(format)),
		logfields.Outcome(string(outcome)))
	return err
}
