package deprule

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
)

type fakeDoc struct {
	path   string
	images []string
}

func (d fakeDoc) Path() string         { return d.path }
func (d fakeDoc) ImagePaths() []string { return append([]string(nil), d.images...) }

func TestRender(t *testing.T) {
	base := t.TempDir()
	doc := fakeDoc{
		path:   filepath.Join(base, "test.md"),
		images: []string{filepath.Join(base, "example.png")},
	}

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"suffix", ".pdf", "test.pdf : test.md example.png"},
		{"percent pattern", "%-ol.pdf", "test-ol.pdf : test.md example.png"},
		{"no pattern", "", "test.md : example.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(doc, tt.pattern, base))
		})
	}
}

func TestRender_NoImages(t *testing.T) {
	base := t.TempDir()
	doc := fakeDoc{path: filepath.Join(base, "empty.md")}

	assert.Equal(t, "empty.md :", Render(doc, "", base))
	assert.Equal(t, "empty.pdf : empty.md", Render(doc, ".pdf", base))
}

func TestRender_ImagesSortedAndQuoted(t *testing.T) {
	base := t.TempDir()
	doc := fakeDoc{
		path: filepath.Join(base, "doc.md"),
		images: []string{
			filepath.Join(base, "img", "b.png"),
			filepath.Join(base, "a name with a space.png"),
			filepath.Join(base, "img", "a.png"),
		},
	}
	assert.Equal(t, "doc.md : 'a name with a space.png' img/a.png img/b.png", Render(doc, "", base))
}

func TestRelativeFSPath(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()

	assert.Equal(t, "x.png", RelativeFSPath(filepath.Join(base, "x.png"), base))
	assert.Equal(t, "sub/dir/x.png", RelativeFSPath(filepath.Join(base, "sub", "dir", "x.png"), base))
	assert.Equal(t, filepath.Join(outside, "y.png"), RelativeFSPath(filepath.Join(outside, "y.png"), base))
	assert.Equal(t, "'it'\"'\"'s.png'", RelativeFSPath(filepath.Join(base, "it's.png"), base))
}

func TestRelativeFSPath_Symlinks(t *testing.T) {
	realDir := t.TempDir()
	linkDir := t.TempDir()
	link := filepath.Join(linkDir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "fig.png"), nil, 0o600))

	// The image is reached through the link, the base is the realDir directory.
	assert.Equal(t, "fig.png", RelativeFSPath(filepath.Join(link, "fig.png"), realDir))
	// Missing files below the link still resolve through the existing prefix.
	assert.Equal(t, "new/fig.svg", RelativeFSPath(filepath.Join(link, "new", "fig.svg"), realDir))
}

func TestRelativeFSPath_ParentOfSymlink(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(filepath.Join(realDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "fig.png"), nil, 0o600))
	link := filepath.Join(root, "link")
	if err := os.Symlink(filepath.Join(realDir, "sub"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// ".." leaves the link target, not the directory holding the link.
	path := link + string(filepath.Separator) + filepath.FromSlash("../fig.png")
	assert.Equal(t, "fig.png", RelativeFSPath(path, realDir))
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "docs/a.md", Target("docs/a.md", ""))
	assert.Equal(t, "docs/a.pdf", Target("docs/a.md", ".pdf"))
	assert.Equal(t, "docs/a-slides.html", Target("docs/a.md", "%-slides.html"))
	assert.Equal(t, "README.pdf", Target("README", ".pdf"))
}

func TestValidatePattern(t *testing.T) {
	for _, ok := range []string{"", ".pdf", "%.html", "%-ol.pdf", "prefix-%"} {
		assert.NoError(t, ValidatePattern(ok), ok)
	}
	for _, bad := range []string{"pdf", ".", "out/%.pdf"} {
		err := ValidatePattern(bad)
		require.Error(t, err, bad)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	}
}

func TestSplitPatterns(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".html", "%-ol.pdf"}, SplitPatterns([]string{".pdf .html", " %-ol.pdf "}))
	assert.Empty(t, SplitPatterns([]string{"  "}))
}

func TestErrorComment(t *testing.T) {
	err := ferrors.DocumentParseError("broken.md", errors.New("unexpected EOF")).Build()
	assert.Equal(t, "# broken.md: cannot parse document: unexpected EOF", ErrorComment("broken.md", err))
	assert.Equal(t, "# a.md: multi line", ErrorComment("a.md", errors.New("multi\nline")))
}

func TestWriteIndividual(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "test.md")

	path, err := WriteIndividual(doc, ".d", []string{"test.pdf : test.md example.png"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test.d"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test.pdf : test.md example.png\n", string(content))

	_, err = WriteIndividual(doc, ".md", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestValidateSuffix(t *testing.T) {
	for _, ok := range []string{".d", ".deps", ".mk"} {
		assert.NoError(t, ValidateSuffix(ok), ok)
	}
	for _, bad := range []string{"", "d", ".", "..d", ".a.b", "./d"} {
		err := ValidateSuffix(bad)
		require.Error(t, err, bad)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	}
}
