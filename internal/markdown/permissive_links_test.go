package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDestinations(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain destination untouched", "![a](fig.png)", "![a](fig.png)"},
		{"spaces get brackets", "![a](my fig.png)", "![a](<my fig.png>)"},
		{"title kept apart", `![a](my fig.png "T")`, `![a](<my fig.png> "T")`},
		{"links too", "[t](my doc.md)", "[t](<my doc.md>)"},
		{"already bracketed", "![a](<my fig.png>)", "![a](<my fig.png>)"},
		{"code span untouched", "`![a](my fig.png)`", "`![a](my fig.png)`"},
		{"reference definition", "[r]: my fig.png", "[r]: <my fig.png>"},
		{"footnote untouched", "[^1]: my note.", "[^1]: my note."},
		{"prose untouched", "[note]: see below", "[note]: see below"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(normalizeDestinations([]byte(tt.in))))
		})
	}
}

func TestNormalizeDestinations_SkipsFences(t *testing.T) {
	in := "```\n![a](my fig.png)\n```\n"
	assert.Equal(t, in, string(normalizeDestinations([]byte(in))))
}
