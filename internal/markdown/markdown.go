// Package markdown converts Markdown documents into doctree trees and renders
// small trees back to Markdown.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
	"git.home.luguber.info/inful/mdimages/internal/frontmatter"
)

// Options controls how Markdown is parsed.
type Options struct {
	// Strict disables the permissive pass that accepts link and image
	// destinations containing spaces.
	Strict bool
}

func newParser() parser.Parser {
	md := goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	))
	return md.Parser()
}

// Parse converts a full Markdown document, including an optional YAML
// metadata block, into a document tree.
func Parse(content []byte, opts Options) (*doctree.Document, error) {
	fm, body, had, err := frontmatter.Split(content)
	if err != nil {
		return nil, err
	}

	doc := doctree.NewDocument()
	if had {
		meta, err := frontmatter.ParseYAML(fm)
		if err != nil {
			return nil, err
		}
		doc.Meta = meta
	} else {
		var title string
		if title, body = splitTitleBlock(body); title != "" {
			doc.Meta["title"] = title
		}
	}

	ParseInto(doc, body, opts)
	return doc, nil
}

// ParseInto parses a Markdown body (no metadata block) and appends the
// resulting blocks to parent. It never fails: any byte sequence is Markdown.
func ParseInto(parent doctree.Node, body []byte, opts Options) {
	if !opts.Strict {
		body = normalizeDestinations(body)
	}
	root := newParser().Parse(text.NewReader(body))
	c := converter{source: body}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		doctree.Append(parent, c.block(child))
	}
}

// splitTitleBlock recognizes a leading "% Title" line.
func splitTitleBlock(body []byte) (string, []byte) {
	if !bytes.HasPrefix(body, []byte("% ")) {
		return "", body
	}
	line, rest, _ := bytes.Cut(body, []byte("\n"))
	return strings.TrimSpace(string(line[2:])), rest
}

type converter struct {
	source []byte
}

func (c converter) block(n gmast.Node) doctree.Node {
	switch node := n.(type) {
	case *gmast.Paragraph:
		return c.inlines(&doctree.Para{}, n)
	case *gmast.TextBlock:
		return c.inlines(&doctree.Plain{}, n)
	case *gmast.Heading:
		return c.inlines(&doctree.Header{Level: node.Level}, n)
	case *gmast.Blockquote:
		return c.blocks(doctree.NewDiv("blockquote"), n)
	case *gmast.List:
		return c.blocks(&doctree.BulletList{Ordered: node.IsOrdered()}, n)
	case *gmast.ListItem:
		return c.blocks(&doctree.ListItem{}, n)
	case *gmast.CodeBlock, *gmast.FencedCodeBlock:
		return &doctree.CodeBlock{Text: c.lines(n)}
	case *extast.Table:
		return c.blocks(doctree.NewDiv("table"), n)
	case *extast.TableHeader, *extast.TableRow:
		return c.blocks(doctree.NewDiv("row"), n)
	case *extast.TableCell:
		return doctree.Append(doctree.NewDiv("cell"), c.inlines(&doctree.Plain{}, n))
	default:
		// Raw HTML, thematic breaks and unknown extension blocks carry no references.
		return nil
	}
}

func (c converter) blocks(parent doctree.Node, n gmast.Node) doctree.Node {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		doctree.Append(parent, c.block(child))
	}
	return parent
}

func (c converter) inlines(parent doctree.Node, n gmast.Node) doctree.Node {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		doctree.Append(parent, c.inline(child))
	}
	return parent
}

func (c converter) inline(n gmast.Node) doctree.Node {
	switch node := n.(type) {
	case *gmast.Text:
		value := string(node.Segment.Value(c.source))
		if node.SoftLineBreak() || node.HardLineBreak() {
			value += " "
		}
		return doctree.NewText(value)
	case *gmast.String:
		return doctree.NewText(string(node.Value))
	case *gmast.CodeSpan:
		span := &doctree.Span{}
		doctree.SetClasses(span, "code")
		return c.inlines(span, n)
	case *gmast.Emphasis:
		span := &doctree.Span{}
		if node.Level >= 2 {
			doctree.SetClasses(span, "strong")
		} else {
			doctree.SetClasses(span, "emph")
		}
		return c.inlines(span, n)
	case *extast.Strikethrough:
		span := &doctree.Span{}
		doctree.SetClasses(span, "strikeout")
		return c.inlines(span, n)
	case *gmast.Link:
		return c.inlines(&doctree.Link{URL: string(node.Destination), Title: string(node.Title)}, n)
	case *gmast.Image:
		return c.inlines(&doctree.Image{URL: string(node.Destination), Title: string(node.Title)}, n)
	case *gmast.AutoLink:
		label := string(node.Label(c.source))
		url := string(node.URL(c.source))
		if node.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return doctree.Append(&doctree.Link{URL: url}, doctree.NewText(label))
	default:
		// raw inline HTML and task checkboxes
		return nil
	}
}

func (c converter) lines(n gmast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}
