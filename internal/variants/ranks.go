package variants

import (
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/pathutil"
)

// DefaultPreferences is the built-in suffix preference order, most preferred first.
var DefaultPreferences = []string{".ipynb", ".md", ".uml", ".dot", ".svg", ".tex"}

// Ranker assigns a rank to a path; lower ranks are preferred.
type Ranker func(path string) int

// SuffixRanks ranks paths by the position of their suffix in a preference list.
type SuffixRanks struct {
	preferences []string
	ranks       map[string]int
}

// NewSuffixRanks builds a rank table from preferences. An empty list selects
// DefaultPreferences.
func NewSuffixRanks(preferences ...string) SuffixRanks {
	if len(preferences) == 0 {
		preferences = DefaultPreferences
	}
	ranks := make(map[string]int, len(preferences))
	for i, suffix := range preferences {
		if _, dup := ranks[suffix]; !dup {
			ranks[suffix] = i + 1
		}
	}
	return SuffixRanks{
		preferences: append([]string(nil), preferences...),
		ranks:       ranks,
	}
}

// Rank returns the 1-based position of path's suffix, or len+1 when the suffix
// is not listed. Suffixes compare case-sensitively.
func (r SuffixRanks) Rank(path string) int {
	if r.ranks == nil {
		return NewSuffixRanks().Rank(path)
	}
	if rank, ok := r.ranks[pathutil.Suffix(path)]; ok {
		return rank
	}
	return len(r.ranks) + 1
}

// Preferences returns a copy of the preference list.
func (r SuffixRanks) Preferences() []string {
	if r.preferences == nil {
		return append([]string(nil), DefaultPreferences...)
	}
	return append([]string(nil), r.preferences...)
}

// String renders the table as a space separated suffix list.
func (r SuffixRanks) String() string {
	return strings.Join(r.Preferences(), " ")
}
