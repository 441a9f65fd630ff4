package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuffixAndStem(t *testing.T) {
	tests := []struct {
		path, suffix, stem string
	}{
		{"fig.svg", ".svg", "fig"},
		{"docs/img/fig.png", ".png", "fig"},
		{"archive.tar.gz", ".gz", "archive.tar"},
		{".bashrc", "", ".bashrc"},
		{"name.", "", "name."},
		{"Makefile", "", "Makefile"},
		{"dir.d/file", "", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.suffix, Suffix(tt.path))
			assert.Equal(t, tt.stem, Stem(tt.path))
		})
	}
}

func TestStripSuffix(t *testing.T) {
	assert.Equal(t, "docs/fig", StripSuffix("docs/fig.svg"))
	assert.Equal(t, "archive.tar", StripSuffix("archive.tar.gz"))
	assert.Equal(t, "dir.d/file", StripSuffix("dir.d/file"))
	assert.Equal(t, "/abs/x", StripSuffix("/abs/x.png"))
}

func TestWithSuffixAndName(t *testing.T) {
	assert.Equal(t, "docs/test.pdf", WithSuffix("docs/test.md", ".pdf"))
	assert.Equal(t, "Makefile.d", WithSuffix("Makefile", ".d"))
	assert.Equal(t, "docs/test-ol.pdf", WithName("docs/test.md", "test-ol.pdf"))
	assert.Equal(t, "test-ol.pdf", WithName("test.md", "test-ol.pdf"))
}
