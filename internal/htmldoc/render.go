package htmldoc

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
)

// Render writes blocks as an HTML fragment, one top-level element per line.
func Render(w io.Writer, blocks ...doctree.Node) error {
	for _, b := range blocks {
		for _, n := range toHTML(b) {
			if err := html.Render(w, n); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withChildren(parent *html.Node, n doctree.Node) *html.Node {
	for _, c := range n.Children() {
		for _, h := range toHTML(c) {
			parent.AppendChild(h)
		}
	}
	return parent
}

func classAttr(n doctree.Node) []html.Attribute {
	if len(n.Classes()) == 0 {
		return nil
	}
	return []html.Attribute{{Key: "class", Val: strings.Join(n.Classes(), " ")}}
}

// toHTML maps one tree node to zero or more HTML nodes.
func toHTML(n doctree.Node) []*html.Node {
	switch node := n.(type) {
	case *doctree.Document, *doctree.Plain:
		var out []*html.Node
		for _, c := range n.Children() {
			out = append(out, toHTML(c)...)
		}
		return out
	case *doctree.Div:
		return []*html.Node{withChildren(element(atom.Div, classAttr(n)...), n)}
	case *doctree.Para:
		return []*html.Node{withChildren(element(atom.P), n)}
	case *doctree.Header:
		level := min(max(node.Level, 1), 6)
		h := &html.Node{Type: html.ElementNode, Data: "h" + strconv.Itoa(level)}
		h.DataAtom = atom.Lookup([]byte(h.Data))
		return []*html.Node{withChildren(h, n)}
	case *doctree.BulletList:
		a := atom.Ul
		if node.Ordered {
			a = atom.Ol
		}
		return []*html.Node{withChildren(element(a), n)}
	case *doctree.ListItem:
		return []*html.Node{withChildren(element(atom.Li), n)}
	case *doctree.CodeBlock:
		code := element(atom.Code)
		code.AppendChild(&html.Node{Type: html.TextNode, Data: node.Text})
		pre := element(atom.Pre)
		pre.AppendChild(code)
		return []*html.Node{pre}
	case *doctree.Link:
		attrs := []html.Attribute{{Key: "href", Val: node.URL}}
		if node.Title != "" {
			attrs = append(attrs, html.Attribute{Key: "title", Val: node.Title})
		}
		return []*html.Node{withChildren(element(atom.A, attrs...), n)}
	case *doctree.Image:
		attrs := []html.Attribute{{Key: "src", Val: node.URL}, {Key: "alt", Val: doctree.Stringify(n)}}
		if node.Title != "" {
			attrs = append(attrs, html.Attribute{Key: "title", Val: node.Title})
		}
		return []*html.Node{element(atom.Img, attrs...)}
	case *doctree.Span:
		a := atom.Span
		switch {
		case node.HasClass("code"):
			a = atom.Code
		case node.HasClass("strong"):
			a = atom.Strong
		case node.HasClass("emph"):
			a = atom.Em
		case node.HasClass("strikeout"):
			a = atom.Del
		}
		return []*html.Node{withChildren(element(a), n)}
	case *doctree.Text:
		return []*html.Node{{Type: html.TextNode, Data: node.Value}}
	}
	return nil
}
