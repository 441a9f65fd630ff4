package htmldoc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Notebook export</title><meta name="author" content="me"></head>
<body>
  <h1>Intro</h1>
  <p>See <img src="fig.png" alt="Figure"> and <a href="https://example.com">example</a>.</p>
  <div class="cell">
    <div class="output"><img src="generated.png"></div>
  </div>
  <pre><img src="ignored-in-pre.png"></pre>
  <script>var x = "<img src='nope.png'>";</script>
</body>
</html>`

func TestParse_ImagesLinksAndTitle(t *testing.T) {
	doc, err := ParseBytes([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Notebook export", doc.Title())
	assert.Equal(t, "me", doc.Meta["author"])

	images := doctree.Collect[*doctree.Image](doc)
	require.Len(t, images, 2)
	assert.Equal(t, "fig.png", images[0].URL)
	assert.Equal(t, "Figure", doctree.Stringify(images[0]))
	assert.Equal(t, "generated.png", images[1].URL)

	links := doctree.Collect[*doctree.Link](doc)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].URL)
	assert.Equal(t, "example", doctree.Stringify(links[0]))

	headers := doctree.Collect[*doctree.Header](doc)
	require.Len(t, headers, 1)
	assert.Equal(t, 1, headers[0].Level)
}

func TestParse_OutputImagesSitInClassifiedDivs(t *testing.T) {
	doc, err := ParseBytes([]byte(page))
	require.NoError(t, err)

	images := doctree.Collect[*doctree.Image](doc)
	require.Len(t, images, 2)

	_, isPlain := images[1].Parent().(*doctree.Plain)
	assert.True(t, isPlain, "inline runs inside divs are wrapped in Plain")
	gp, ok := doctree.Ancestor(images[1], 2)
	require.True(t, ok)
	assert.True(t, gp.HasClass("output"))

	gp, ok = doctree.Ancestor(images[0], 2)
	require.True(t, ok)
	assert.False(t, gp.HasClass("output"))
}

func TestParse_DeclaredCharset(t *testing.T) {
	src := []byte(`<html><head><meta charset="iso-8859-1"><title>Caf` + "\xe9" + `</title></head><body><img src="caf` + "\xe9" + `.png"></body></html>`)

	doc, err := ParseBytes(src)
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Title())

	images := doctree.Collect[*doctree.Image](doc)
	require.Len(t, images, 1)
	assert.Equal(t, "café.png", images[0].URL)
}

func TestParseFragmentInto(t *testing.T) {
	div := doctree.NewDiv("output")
	require.NoError(t, ParseFragmentInto(div, []byte(`<img src="plot.png"><p>text</p>`)))

	images := doctree.Collect[*doctree.Image](div)
	require.Len(t, images, 1)
	gp, ok := doctree.Ancestor(images[0], 2)
	require.True(t, ok)
	assert.True(t, gp.HasClass("output"))
}

func TestRender_LinkList(t *testing.T) {
	header := doctree.Append(&doctree.Header{Level: 2},
		doctree.Append(&doctree.Link{URL: "test.md"}, doctree.NewText("Test file")))
	list := doctree.Append(&doctree.BulletList{},
		doctree.Append(&doctree.ListItem{},
			doctree.Append(&doctree.Plain{},
				doctree.Append(&doctree.Link{URL: "https://example.com/?a=1&b=2"}, doctree.NewText("a <b>")))))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, header, list))
	assert.Equal(t,
		"<h2><a href=\"test.md\">Test file</a></h2>\n"+
			"<ul><li><a href=\"https://example.com/?a=1&amp;b=2\">a &lt;b&gt;</a></li></ul>\n",
		buf.String())
}
