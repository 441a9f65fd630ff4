package variants

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/pathutil"
)

// Finder discovers sibling variants of a group key on some storage.
type Finder interface {
	// Siblings returns the paths in dir(key) whose name is stem(key) + ".*".
	Siblings(key string) []string
}

// GlobFinder looks for variants on the local filesystem.
type GlobFinder struct{}

// Siblings globs the key's directory. A missing directory or an unusable
// pattern yields no candidates. Results are in lexical order.
func (GlobFinder) Siblings(key string) []string {
	return Glob(filepath.Dir(key), pathutil.Stem(key))
}

// Glob returns the entries of dir named stem + ".*", in lexical order. dir is
// kept as given, so "link/.." stays in the returned paths instead of being
// cleaned away.
func Glob(dir, stem string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, escapeGlob(stem)+".*"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	prefix := dir + string(filepath.Separator)
	if dir == "." {
		prefix = ""
	} else if strings.HasSuffix(dir, string(filepath.Separator)) {
		prefix = dir
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = prefix + filepath.Base(m)
	}
	return out
}

// MapFinder serves variants from memory; keys are group keys.
type MapFinder map[string][]string

// Siblings returns the configured candidates for key.
func (m MapFinder) Siblings(key string) []string {
	return m[key]
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

func escapeGlob(s string) string {
	if filepath.Separator == '\\' {
		// no escaping available on windows; drop metacharacters into classes
		return strings.NewReplacer(`*`, `[*]`, `?`, `[?]`, `[`, `[[]`).Replace(s)
	}
	return globEscaper.Replace(s)
}
