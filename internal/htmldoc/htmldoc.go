// Package htmldoc converts HTML documents into doctree trees and renders
// small trees as HTML fragments.
package htmldoc

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
)

// Parse reads an HTML document, honouring its declared or sniffed charset.
func Parse(r io.Reader) (*doctree.Document, error) {
	utf8Reader, err := charset.NewReader(r, "")
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, err
	}

	doc := doctree.NewDocument()
	c := converter{doc: doc}
	c.blocks(doc, root)
	return doc, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(content []byte) (*doctree.Document, error) {
	return Parse(bytes.NewReader(content))
}

// ParseFragmentInto parses an HTML fragment (no html/body required) and
// appends its content to parent.
func ParseFragmentInto(parent doctree.Node, content []byte) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(content), ctx)
	if err != nil {
		return err
	}
	wrapper := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	c := converter{}
	c.blocks(parent, wrapper)
	return nil
}

type converter struct {
	doc *doctree.Document
}

var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true,
	atom.Head: true,
}

var blockContainers = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Main: true, atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Aside: true,
	atom.Figure: true, atom.Blockquote: true, atom.Table: true, atom.Thead: true,
	atom.Tbody: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Details: true, atom.Dl: true, atom.Dd: true, atom.Dt: true, atom.Form: true,
	atom.Figcaption: true, atom.Center: true,
}

// blocks converts the children of n, which sit at block level, into parent.
// Runs of inline content are wrapped in Plain nodes.
func (c converter) blocks(parent doctree.Node, n *html.Node) {
	var run *doctree.Plain
	flush := func() {
		if run != nil && (strings.TrimSpace(doctree.Stringify(run)) != "" || hasReferences(run)) {
			doctree.Append(parent, run)
		}
		run = nil
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			switch child.DataAtom {
			case atom.Head:
				c.head(child)
				continue
			case atom.Html, atom.Body:
				flush()
				c.blocks(parent, child)
				continue
			}
		}
		if b := c.block(child); b != nil {
			flush()
			doctree.Append(parent, b)
			continue
		}
		if isBlockElement(child) {
			continue
		}
		if in := c.inline(child); in != nil {
			if run == nil {
				run = &doctree.Plain{}
			}
			doctree.Append(run, in)
		}
	}
	flush()
}

func hasReferences(n doctree.Node) bool {
	for node := range doctree.All(n) {
		switch node.(type) {
		case *doctree.Image, *doctree.Link:
			return true
		}
	}
	return false
}

func isBlockElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if blockContainers[n.DataAtom] || skipped[n.DataAtom] {
		return true
	}
	switch n.DataAtom {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Pre, atom.Hr:
		return true
	}
	return false
}

// block converts a block-level element; it returns nil for inline content.
func (c converter) block(n *html.Node) doctree.Node {
	if n.Type != html.ElementNode || skipped[n.DataAtom] {
		return nil
	}
	switch n.DataAtom {
	case atom.P:
		return c.inlines(&doctree.Para{}, n)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(n.Data[1:])
		return c.inlines(&doctree.Header{Level: level}, n)
	case atom.Ul, atom.Ol:
		list := &doctree.BulletList{Ordered: n.DataAtom == atom.Ol}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.DataAtom == atom.Li {
				item := &doctree.ListItem{}
				c.blocks(item, child)
				doctree.Append(list, item)
			}
		}
		return list
	case atom.Li:
		item := &doctree.ListItem{}
		c.blocks(item, n)
		return item
	case atom.Pre:
		return &doctree.CodeBlock{Text: textContent(n)}
	case atom.Hr:
		return nil
	}
	if blockContainers[n.DataAtom] {
		div := doctree.NewDiv(classes(n)...)
		c.blocks(div, n)
		return div
	}
	return nil
}

// inlines converts every child of n as inline content into parent.
func (c converter) inlines(parent doctree.Node, n *html.Node) doctree.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		doctree.Append(parent, c.inline(child))
	}
	return parent
}

func (c converter) inline(n *html.Node) doctree.Node {
	switch n.Type {
	case html.TextNode:
		return doctree.NewText(collapseSpace(n.Data))
	case html.ElementNode:
	default:
		return nil
	}
	if skipped[n.DataAtom] {
		return nil
	}

	switch n.DataAtom {
	case atom.Img:
		img := &doctree.Image{URL: attr(n, "src"), Title: attr(n, "title")}
		if alt := attr(n, "alt"); alt != "" {
			doctree.Append(img, doctree.NewText(alt))
		}
		doctree.SetClasses(img, classes(n)...)
		return img
	case atom.A:
		href, ok := attrOK(n, "href")
		if !ok {
			break
		}
		link := &doctree.Link{URL: href, Title: attr(n, "title")}
		doctree.SetClasses(link, classes(n)...)
		return c.inlines(link, n)
	case atom.Br:
		return doctree.NewText(" ")
	}

	span := &doctree.Span{}
	cls := classes(n)
	switch n.DataAtom {
	case atom.Em, atom.I:
		cls = append(cls, "emph")
	case atom.Strong, atom.B:
		cls = append(cls, "strong")
	case atom.Code:
		cls = append(cls, "code")
	case atom.S, atom.Del:
		cls = append(cls, "strikeout")
	}
	doctree.SetClasses(span, cls...)
	return c.inlines(span, n)
}

func (c converter) head(n *html.Node) {
	if c.doc == nil {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.DataAtom {
		case atom.Title:
			if title := strings.TrimSpace(textContent(child)); title != "" {
				c.doc.Meta["title"] = title
			}
		case atom.Meta:
			if name := attr(child, "name"); name != "" {
				if _, exists := c.doc.Meta[name]; !exists {
					c.doc.Meta[name] = attr(child, "content")
				}
			}
		}
	}
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpace(s[0]) && out != "" {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r' || b == '\f'
}
