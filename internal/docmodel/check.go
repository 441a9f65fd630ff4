package docmodel

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdimages/internal/pathutil"
	"git.home.luguber.info/inful/mdimages/internal/variants"
)

// CheckResult partitions a document's selected images by existence.
type CheckResult struct {
	Present []string
	Missing []string
}

// OK reports whether every selected image exists.
func (r CheckResult) OK() bool { return len(r.Missing) == 0 }

// Check stats every image selected by policy. Paths that exist but cannot be
// stat'ed for other reasons count as present.
func (d *Document) Check(policy Policy) CheckResult {
	var r CheckResult
	for _, img := range d.ImageSources(policy) {
		if _, err := os.Stat(img); errors.Is(err, fs.ErrNotExist) {
			r.Missing = append(r.Missing, img)
		} else {
			r.Present = append(r.Present, img)
		}
	}
	return r
}

// Alternatives returns the existing files next to path named like it with a
// different last suffix, in rank order, excluding path itself. "a.tar.gz"
// finds "a.tar.xz" but not "a.zip". The disk is always scanned.
func (d *Document) Alternatives(path string) []string {
	var out []string
	for _, candidate := range variants.Glob(filepath.Dir(path), pathutil.Stem(path)) {
		if candidate != path {
			out = append(out, candidate)
		}
	}
	variants.SortByRank(out, d.ranks.Rank)
	return out
}
