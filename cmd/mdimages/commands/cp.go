package commands

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
)

// CpCmd copies documents together with their images.
type CpCmd struct {
	Select string   `short:"s" name:"select" placeholder:"POLICY" help:"Which images to copy: explicit, source, both or all (default source)"`
	Files  []string `arg:"" name:"file" help:"Documents to copy"`
	Target string   `arg:"" name:"target" help:"Target file (single document) or directory"`
}

// Run executes the cp command. A single document copied to a target that
// is not an existing directory is renamed to target; otherwise target is a
// directory, created as needed.
func (c *CpCmd) Run(g *Global) error {
	policy, err := g.Policy(c.Select, docmodel.PolicySource)
	if err != nil {
		return err
	}

	intoDir := isDir(c.Target)
	if !intoDir && len(c.Files) > 1 {
		if _, err := os.Stat(c.Target); os.IsNotExist(err) {
			intoDir = true
			if filepath.Ext(c.Target) != "" {
				g.Logger.Warn("multiple documents given; target is created as a directory",
					logfields.Target(c.Target))
			}
		}
	}
	if intoDir {
		if err := os.MkdirAll(c.Target, 0o755); err != nil {
			return copyTargetError(err, c.Target)
		}
	}

	_, err = g.Runner(nil).Run(g.Context(), c.Files, func(doc *docmodel.Document) error {
		res, err := doc.Copy(c.Target, policy)
		if err != nil {
			return err
		}
		g.Logger.Info("document copied",
			logfields.Document(doc.Path()),
			logfields.Target(res.Document),
			logfields.Count(len(res.Images)))
		return nil
	})
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func copyTargetError(err error, target string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot create target directory").
		WithContext("target", target).
		Build()
}
