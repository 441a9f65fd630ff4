// Package variants groups paths that differ only by suffix and orders each
// group by suffix preference.
//
// A group key is the path with exactly its last suffix stripped, so
// "archive.tar.gz" groups under "archive.tar". Disk expansion looks for
// "stem(key).*" next to the key, where stem strips one more suffix; both rules
// are kept as-is for compatibility with existing dependency files.
//
// Ties between equally ranked variants keep discovery order: input order
// first, then the Finder's enumeration order. That order depends on the
// filesystem and is only a weak tie-break.
package variants

import (
	"slices"

	"git.home.luguber.info/inful/mdimages/internal/pathutil"
)

// Group is one logical resource and its ranked variants.
type Group struct {
	Key      string
	Variants []string
}

// Preferred returns the best ranked variant.
func (g Group) Preferred() string {
	return g.Variants[0]
}

// Alternates returns every variant except the preferred one.
func (g Group) Alternates() []string {
	return g.Variants[1:]
}

// Key returns the group key for path.
func Key(path string) string {
	return pathutil.StripSuffix(path)
}

// Rank groups paths by Key, extends each group with finder's siblings when
// finder is non-nil, and sorts each group stably by ranker. A nil ranker
// uses the default suffix table. Groups are returned in first-seen order.
func Rank(paths []string, finder Finder, ranker Ranker) []Group {
	if ranker == nil {
		ranker = NewSuffixRanks().Rank
	}

	var groups []Group
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})

	add := func(key, path string) {
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
			seen[key] = make(map[string]struct{})
		}
		if _, dup := seen[key][path]; dup {
			return
		}
		seen[key][path] = struct{}{}
		groups[i].Variants = append(groups[i].Variants, path)
	}

	for _, p := range paths {
		add(Key(p), p)
	}

	if finder != nil {
		for _, g := range slices.Clone(groups) {
			for _, sibling := range finder.Siblings(g.Key) {
				add(g.Key, sibling)
			}
		}
	}

	for i := range groups {
		SortByRank(groups[i].Variants, ranker)
	}
	return groups
}

// SortByRank sorts paths in place, stable, ascending by rank.
func SortByRank(paths []string, ranker Ranker) {
	slices.SortStableFunc(paths, func(a, b string) int {
		return ranker(a) - ranker(b)
	})
}
