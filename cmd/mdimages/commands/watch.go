package commands

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/watch"
)

// WatchCmd keeps per-document dependency files up to date.
type WatchCmd struct {
	RuleFlags `embed:""`

	Debounce time.Duration `default:"300ms" help:"Quiet period after a change before regenerating"`
	Files    []string      `arg:"" name:"file" help:"Documents to watch"`
}

// Run writes the dependency files once and then regenerates a document's
// file whenever the document changes, until interrupted.
func (w *WatchCmd) Run(g *Global) error {
	flags := w.RuleFlags
	individual, err := flags.individual(g)
	if err != nil {
		return err
	}
	flags.Individual = individual
	if flags.Individual == "" {
		return ferrors.ValidationError("watch needs --individual-dependencies or individual_dependencies in the configuration").Build()
	}
	if _, err := flags.patterns(g); err != nil {
		return err
	}

	if err := emitRules(g, w.Files, flags); err != nil {
		return err
	}

	watcher, err := watch.New(w.Files, func(_ context.Context, path string) error {
		return emitRules(g, []string{path}, flags)
	}, watch.WithDebounce(w.Debounce), watch.WithLogger(g.Logger))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot watch documents").Build()
	}
	g.Logger.Info("watching documents", logfields.Count(len(w.Files)))
	return watcher.Run(g.Context())
}
