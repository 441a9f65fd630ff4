package commands

import (
	"git.home.luguber.info/inful/mdimages/internal/deprule"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/util/sets"
)

// LsCmd lists the image files selected from documents.
type LsCmd struct {
	Select string   `short:"s" name:"select" placeholder:"POLICY" help:"Which images to list: explicit, source, both or all (default explicit)"`
	Files  []string `arg:"" name:"file" help:"Documents to analyze"`
}

// Run executes the ls command.
func (l *LsCmd) Run(g *Global) error {
	policy, err := g.Policy(l.Select, docmodel.PolicyExplicit)
	if err != nil {
		return err
	}

	all := sets.New[string]()
	runner := g.Runner(func(path string, err error) {
		g.println(deprule.ErrorComment(path, err))
	})
	if _, err := runner.Run(g.Context(), l.Files, func(doc *docmodel.Document) error {
		sources := doc.ImageSources(policy)
		g.Logger.Debug("images selected", logfields.Document(doc.Path()),
			logfields.Policy(string(policy)), logfields.Count(len(sources)))
		all.Add(sources...)
		return nil
	}); err != nil {
		return err
	}
	printPaths(g, sets.Sorted(all))
	return nil
}
