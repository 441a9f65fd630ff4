// Package docmodel is the per-document reference model: the parsed tree of
// one document plus the image references derived from it.
//
// A Document is immutable after Load. ImageURLs and ImagePaths are computed
// once on first use; ImageSources depends on the filesystem and is computed
// on every call.
package docmodel

import (
	"slices"
	"sync"

	"git.home.luguber.info/inful/mdimages/internal/convert"
	"git.home.luguber.info/inful/mdimages/internal/doctree"
	"git.home.luguber.info/inful/mdimages/internal/markdown"
	"git.home.luguber.info/inful/mdimages/internal/resolve"
	"git.home.luguber.info/inful/mdimages/internal/util/sets"
	"git.home.luguber.info/inful/mdimages/internal/variants"
)

// Options controls how a document is loaded and how its variants are found.
type Options struct {
	// Format overrides format inference from the file extension.
	Format   convert.Format
	Markdown markdown.Options
	// Ranks orders variants; the zero value is the default suffix table.
	Ranks variants.SuffixRanks
	// Finder enumerates sibling files; nil uses the real filesystem.
	Finder variants.Finder
}

// Document is one loaded document.
type Document struct {
	path   string
	tree   *doctree.Document
	ranks  variants.SuffixRanks
	finder variants.Finder

	urlsOnce  sync.Once
	urls      []string
	pathsOnce sync.Once
	paths     []string
}

// Load reads and converts the document at path. Failures are classified
// document read or parse errors carrying the path.
func Load(path string, opts Options) (*Document, error) {
	tree, err := convert.File(path, convert.Options{Format: opts.Format, Markdown: opts.Markdown})
	if err != nil {
		return nil, err
	}
	return New(path, tree, opts), nil
}

// New wraps an already converted tree. The document takes ownership of tree.
func New(path string, tree *doctree.Document, opts Options) *Document {
	finder := opts.Finder
	if finder == nil {
		finder = variants.GlobFinder{}
	}
	return &Document{path: path, tree: tree, ranks: opts.Ranks, finder: finder}
}

// Path returns the document path as given to Load.
func (d *Document) Path() string { return d.path }

// Tree returns the document tree. Callers must not modify it.
func (d *Document) Tree() *doctree.Document { return d.tree }

// Title returns the metadata title, or "".
func (d *Document) Title() string { return d.tree.Title() }

// String renders "path (title)", or just the path when there is no title.
func (d *Document) String() string {
	if title := d.Title(); title != "" {
		return d.path + " (" + title + ")"
	}
	return d.path
}

// ImageURLs returns the distinct raw URLs of the document's images in
// document order. Images whose grandparent carries the "output" class are
// generated by the document itself and are left out.
func (d *Document) ImageURLs() []string {
	d.urlsOnce.Do(func() {
		var urls []string
		for img := range doctree.Find[*doctree.Image](d.tree) {
			if isGenerated(img) {
				continue
			}
			urls = append(urls, img.URL)
		}
		d.urls = sets.Unique(urls)
	})
	return slices.Clone(d.urls)
}

func isGenerated(img *doctree.Image) bool {
	gp, ok := doctree.Ancestor(img, 2)
	return ok && gp.HasClass("output")
}

// ImagePaths returns the resolved filesystem paths of ImageURLs, sorted and
// without duplicates. External URLs are dropped.
func (d *Document) ImagePaths() []string {
	d.pathsOnce.Do(func() {
		paths := sets.New[string]()
		for _, url := range d.ImageURLs() {
			if ref := resolve.Resolve(url, d.path); ref.IsPath() {
				paths.Add(ref.Path)
			}
		}
		d.paths = sets.Sorted(paths)
	})
	return slices.Clone(d.paths)
}

// ImageSources applies policy to ImagePaths, consulting the filesystem for
// variants. The result is sorted.
func (d *Document) ImageSources(policy Policy) []string {
	paths := d.ImagePaths()
	explicit := sets.New(paths...)
	if policy == PolicyExplicit {
		return sets.Sorted(explicit)
	}

	preferred, all := sets.New[string](), sets.New[string]()
	for _, g := range variants.Rank(paths, d.finder, d.ranks.Rank) {
		preferred.Add(g.Preferred())
		all.Add(g.Variants...)
	}
	switch policy {
	case PolicySource:
		return sets.Sorted(preferred)
	case PolicyBoth:
		return sets.Sorted(explicit.Union(preferred))
	default:
		return sets.Sorted(all)
	}
}

// Variants returns the ranked variant groups of ImagePaths.
func (d *Document) Variants() []variants.Group {
	return variants.Rank(d.ImagePaths(), d.finder, d.ranks.Rank)
}

// Links returns the document's links in document order. Links with the same
// target, title and text are reported once.
func (d *Document) Links() []*doctree.Link {
	type key struct{ url, title, text string }
	seen := sets.New[key]()
	var out []*doctree.Link
	for link := range doctree.Find[*doctree.Link](d.tree) {
		k := key{link.URL, link.Title, doctree.Stringify(link)}
		if seen.Has(k) {
			continue
		}
		seen.Add(k)
		out = append(out, link)
	}
	return out
}
