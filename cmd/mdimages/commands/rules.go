package commands

import (
	"slices"

	"git.home.luguber.info/inful/mdimages/internal/deprule"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/util/sets"
)

// RuleFlags are shared by the default command, dep and watch.
type RuleFlags struct {
	Suffix     []string `short:"d" name:"suffix" placeholder:"PATTERN" help:"Target suffix (.pdf) or name pattern with % for the document stem; repeatable, may be space separated"`
	Individual string   `short:"i" name:"individual-dependencies" placeholder:"SUFFIX" help:"Write each document's rules to a file with this suffix instead of printing them"`
}

// patterns returns the validated target patterns: the flags, else the
// configured suffixes, else the single no-suffix rule.
func (f RuleFlags) patterns(g *Global) ([]string, error) {
	patterns := deprule.SplitPatterns(f.Suffix)
	if len(patterns) == 0 {
		patterns = deprule.SplitPatterns(g.Config.Suffixes)
	}
	if len(patterns) == 0 {
		return []string{""}, nil
	}
	for _, p := range patterns {
		if err := deprule.ValidatePattern(p); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

// individual returns the dependency file suffix, the flag winning over the
// configuration. An empty result means rules are printed.
func (f RuleFlags) individual(g *Global) (string, error) {
	suffix := f.Individual
	if suffix == "" {
		suffix = g.Config.IndividualDependencies
	}
	if suffix == "" {
		return "", nil
	}
	if err := deprule.ValidateSuffix(suffix); err != nil {
		return "", err
	}
	return suffix, nil
}

// rulesFor renders one rule per pattern, relative to the working directory.
func rulesFor(doc deprule.Document, patterns []string) []string {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lines = append(lines, deprule.Render(doc, p, "."))
	}
	return lines
}

// emitRules prints or writes the rules of every document. Failed documents
// get an error comment in their place under keep-going.
func emitRules(g *Global, files []string, flags RuleFlags) error {
	patterns, err := flags.patterns(g)
	if err != nil {
		return err
	}
	individual, err := flags.individual(g)
	if err != nil {
		return err
	}

	emit := func(path string, lines []string) error {
		if individual == "" {
			for _, l := range lines {
				g.println(l)
			}
			return nil
		}
		target, err := deprule.WriteIndividual(path, individual, lines)
		if err != nil {
			return err
		}
		g.Logger.Info("dependency file written", logfields.Document(path), logfields.Target(target))
		return nil
	}

	runner := g.Runner(func(path string, err error) {
		if werr := emit(path, []string{deprule.ErrorComment(path, err)}); werr != nil {
			g.Logger.Error("cannot record failure", logfields.Document(path), logfields.Error(werr))
		}
	})
	_, err = runner.Run(g.Context(), files, func(doc *docmodel.Document) error {
		lines := rulesFor(doc, patterns)
		for range lines {
			g.Recorder.IncRules()
		}
		return emit(doc.Path(), lines)
	})
	return err
}

// RulesCmd is the default command: rules, or with --list the referenced
// image files.
type RulesCmd struct {
	RuleFlags `embed:""`

	List  bool     `short:"l" help:"List the referenced image files instead of printing rules"`
	Files []string `arg:"" name:"file" help:"Documents to analyze"`
}

// Run executes the default command.
func (r *RulesCmd) Run(g *Global) error {
	if !r.List {
		return emitRules(g, r.Files, r.RuleFlags)
	}

	all := sets.New[string]()
	runner := g.Runner(func(path string, err error) {
		g.println(deprule.ErrorComment(path, err))
	})
	if _, err := runner.Run(g.Context(), r.Files, func(doc *docmodel.Document) error {
		all.Add(doc.ImagePaths()...)
		return nil
	}); err != nil {
		return err
	}
	printPaths(g, sets.Sorted(all))
	return nil
}

// printPaths prints each path relative to the working directory, quoted.
func printPaths(g *Global, paths []string) {
	paths = slices.Clone(paths)
	for i, p := range paths {
		paths[i] = deprule.RelativeFSPath(p, ".")
	}
	slices.Sort(paths)
	for _, p := range paths {
		g.println(p)
	}
}

// DepCmd prints or writes rules only.
type DepCmd struct {
	RuleFlags `embed:""`

	Files []string `arg:"" name:"file" help:"Documents to analyze"`
}

// Run executes the dep command.
func (d *DepCmd) Run(g *Global) error {
	return emitRules(g, d.Files, d.RuleFlags)
}
