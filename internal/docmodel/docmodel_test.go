package docmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/util/sets"
	"git.home.luguber.info/inful/mdimages/internal/variants"
)

const testMarkdown = `---
title: Test file
---

# Test

![Example image](example.png)

Again: ![same](example.png "title")

![remote](https://example.com/remote.png)

[example](https://example.com)

[example](https://example.com)
`

// writeFixture creates test.md next to example.png and example.svg.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"test.md":     testMarkdown,
		"example.png": "png",
		"example.svg": "<svg/>",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoad_ImageReferences(t *testing.T) {
	dir := writeFixture(t)
	doc, err := Load(filepath.Join(dir, "test.md"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"example.png", "https://example.com/remote.png"}, doc.ImageURLs())
	assert.Equal(t, []string{filepath.Join(dir, "example.png")}, doc.ImagePaths())
	assert.Equal(t, filepath.Join(dir, "test.md")+" (Test file)", doc.String())
	assert.Len(t, doc.Links(), 1)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.md"), Options{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDocumentRead))
}

func TestString_WithoutTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.md")
	require.NoError(t, os.WriteFile(path, []byte("text\n"), 0o600))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, doc.String())
	assert.Empty(t, doc.ImageURLs())
	assert.Empty(t, doc.ImagePaths())
}

func TestImageURLs_SkipsGeneratedImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.html")
	html := `<p><img src="figure.png"></p>
<div class="cell"><div class="output"><img src="generated.png"></div></div>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o600))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"figure.png"}, doc.ImageURLs())
}

func TestImageSources_Policies(t *testing.T) {
	dir := writeFixture(t)
	doc, err := Load(filepath.Join(dir, "test.md"), Options{})
	require.NoError(t, err)

	png := filepath.Join(dir, "example.png")
	svg := filepath.Join(dir, "example.svg")

	explicit := doc.ImageSources(PolicyExplicit)
	source := doc.ImageSources(PolicySource)
	both := doc.ImageSources(PolicyBoth)
	all := doc.ImageSources(PolicyAll)

	assert.Equal(t, []string{png}, explicit)
	assert.Equal(t, []string{svg}, source)
	assert.Equal(t, sets.Sorted(sets.New(explicit...).Union(sets.New(source...))), both)
	assert.Subset(t, all, both)
	assert.ElementsMatch(t, []string{png, svg}, all)
}

func TestImageSources_MapFinderAndCustomRanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("![x](fig.png)\n"), 0o600))
	doc, err := Load(path, Options{
		Ranks: variants.NewSuffixRanks(".pdf", ".png"),
		Finder: variants.MapFinder{
			filepath.Join(dir, "fig"): {filepath.Join(dir, "fig.svg"), filepath.Join(dir, "fig.pdf")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "fig.pdf")}, doc.ImageSources(PolicySource))

	groups := doc.Variants()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{
		filepath.Join(dir, "fig.pdf"),
		filepath.Join(dir, "fig.png"),
		filepath.Join(dir, "fig.svg"),
	}, groups[0].Variants)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" Source ")
	require.NoError(t, err)
	assert.Equal(t, PolicySource, p)

	_, err = ParsePolicy("newest")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Equal(t, []string{"all", "both", "explicit", "source"}, PolicyNames())
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("![a](here.png) ![b](gone.png)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "here.png"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gone.svg"), nil, 0o600))

	doc, err := Load(path, Options{})
	require.NoError(t, err)

	r := doc.Check(PolicyExplicit)
	assert.False(t, r.OK())
	assert.Equal(t, []string{filepath.Join(dir, "here.png")}, r.Present)
	assert.Equal(t, []string{filepath.Join(dir, "gone.png")}, r.Missing)
	assert.Equal(t, []string{filepath.Join(dir, "gone.svg")}, doc.Alternatives(filepath.Join(dir, "gone.png")))

	r = doc.Check(PolicySource)
	assert.True(t, r.OK())
}

func TestAlternatives_StripsOnlyLastSuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("![a](a.tar.gz)\n"), 0o600))
	for _, name := range []string{"a.tar.xz", "a.zip"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.tar.xz")}, doc.Alternatives(filepath.Join(dir, "a.tar.gz")))
}

func TestCheck_ParentOfSymlinkedDirectory(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(filepath.Join(realDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "fig.png"), nil, 0o600))
	link := filepath.Join(root, "link")
	if err := os.Symlink(filepath.Join(realDir, "sub"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	path := filepath.Join(link, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("![x](../fig.png)\n"), 0o600))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	want := link + string(filepath.Separator) + filepath.Join("..", "fig.png")
	assert.Equal(t, []string{want}, doc.ImagePaths())

	r := doc.Check(PolicyExplicit)
	assert.True(t, r.OK())
	assert.Equal(t, []string{want}, r.Present)
}

func TestCopy(t *testing.T) {
	src := writeFixture(t)
	doc, err := Load(filepath.Join(src, "test.md"), Options{})
	require.NoError(t, err)

	t.Run("into existing directory", func(t *testing.T) {
		target := t.TempDir()
		res, err := doc.Copy(target, PolicyBoth)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(target, "test.md"), res.Document)
		assert.FileExists(t, filepath.Join(target, "test.md"))
		assert.FileExists(t, filepath.Join(target, "example.png"))
		assert.FileExists(t, filepath.Join(target, "example.svg"))
		assert.Len(t, res.Images, 2)
	})

	t.Run("to new document path", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "out", "renamed.md")
		res, err := doc.Copy(target, PolicySource)
		require.NoError(t, err)
		assert.Equal(t, target, res.Document)
		assert.FileExists(t, target)
		assert.FileExists(t, filepath.Join(filepath.Dir(target), "example.svg"))
		assert.NoFileExists(t, filepath.Join(filepath.Dir(target), "example.png"))
	})
}

func TestCopy_ImageOutsideDocumentDirectory(t *testing.T) {
	root := t.TempDir()
	docDir := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(docDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shared.png"), nil, 0o600))
	path := filepath.Join(docDir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("![s](../shared.png)\n"), 0o600))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	_, err = doc.Copy(t.TempDir(), PolicyExplicit)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}
