package commands

import (
	"strings"

	"github.com/alessio/shellescape"

	"git.home.luguber.info/inful/mdimages/internal/variants"
)

// VariantsCmd prints the preferred variant of arbitrary files, treating
// files that differ only in their suffix as variants of one resource.
type VariantsCmd struct {
	Find          bool     `name:"find" help:"For each file foo.bar also consider every foo.* on disk"`
	Output        string   `short:"o" default:"original" enum:"original,generated,rules" help:"original prints the preferred file, generated all other files, rules a makefile rule"`
	IncludeSingle bool     `name:"include-single" help:"Include files that have no variants"`
	Files         []string `arg:"" name:"file" help:"Files to consider"`
}

// Run executes the variants command.
func (v *VariantsCmd) Run(g *Global) error {
	var finder variants.Finder
	if v.Find {
		finder = variants.GlobFinder{}
	}

	for _, group := range variants.Rank(v.Files, finder, g.Config.Ranks().Rank) {
		if len(group.Variants) == 1 && !v.IncludeSingle {
			continue
		}
		switch v.Output {
		case "generated":
			for _, p := range group.Alternates() {
				g.println(p)
			}
		case "rules":
			quoted := make([]string, 0, len(group.Alternates()))
			for _, p := range group.Alternates() {
				quoted = append(quoted, shellescape.Quote(p))
			}
			g.println(strings.Join(quoted, " ") + " : " + shellescape.Quote(group.Preferred()))
		default:
			g.println(group.Preferred())
		}
	}
	return nil
}
