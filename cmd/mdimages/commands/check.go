package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
)

// CheckCmd verifies that referenced images exist.
type CheckCmd struct {
	Select       string   `short:"s" name:"select" placeholder:"POLICY" help:"Which images to check: explicit, source, both or all (default explicit)"`
	Quiet        bool     `short:"q" help:"Only list missing files, nothing more"`
	Alternatives bool     `short:"a" help:"Also print existing variants of missing images"`
	Files        []string `arg:"" name:"file" help:"Documents to check"`
}

// Run executes the check command. Missing images make the command fail
// with a missing resource error after they have been reported.
func (c *CheckCmd) Run(g *Global) error {
	policy, err := g.Policy(c.Select, docmodel.PolicyExplicit)
	if err != nil {
		return err
	}

	var present, missing int
	_, err = g.Runner(nil).Run(g.Context(), c.Files, func(doc *docmodel.Document) error {
		res := doc.Check(policy)
		present += len(res.Present)
		missing += len(res.Missing)
		g.Recorder.AddMissingImages(len(res.Missing))
		if !res.OK() {
			c.report(g, doc, res.Missing)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if missing > 0 {
		if !c.Quiet {
			g.Logger.Error(fmt.Sprintf("%d images missing, %d present", missing, present))
		}
		return ferrors.NewError(ferrors.CategoryMissingResource, "referenced images are missing").
			WithContext("missing", missing).
			WithContext("present", present).
			Silent().
			Build()
	}
	if !c.Quiet {
		g.Logger.Info(fmt.Sprintf("All %d images present", present))
	}
	return nil
}

func (c *CheckCmd) report(g *Global, doc *docmodel.Document, missing []string) {
	switch {
	case c.Alternatives:
		g.println(fmt.Sprintf("%s: %d missing images:", doc, len(missing)))
		for _, img := range missing {
			line := " - " + img
			if alts := doc.Alternatives(img); len(alts) > 0 {
				line += " (existing variants: " + strings.Join(alts, " ") + ")"
			}
			g.println(line)
		}
	case c.Quiet:
		for _, img := range missing {
			g.println(img)
		}
	default:
		g.println(fmt.Sprintf("%s: %d missing images: %s", doc.Path(), len(missing), strings.Join(missing, " ")))
	}
	g.Logger.Debug("missing images", logfields.Document(doc.Path()), logfields.Count(len(missing)))
}
