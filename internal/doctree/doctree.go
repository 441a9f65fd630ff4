// Package doctree is the format-neutral document tree produced by the
// converters (markdown, HTML, notebooks) and consumed by the reference model.
//
// The set of node variants is closed: every node embeds an unexported base,
// so packages outside doctree cannot add new kinds.
package doctree

import "slices"

// Node is any element of a document tree.
type Node interface {
	Parent() Node
	Children() []Node
	Classes() []string
	HasClass(class string) bool

	base() *nodeBase
}

type nodeBase struct {
	parent   Node
	children []Node
	classes  []string
}

func (b *nodeBase) base() *nodeBase { return b }
func (b *nodeBase) Parent() Node { return b.parent }
func (b *nodeBase) Children() []Node { return b.children }
func (b *nodeBase) Classes() []string { return b.classes }
func (b *nodeBase) HasClass(c string) bool { return slices.Contains(b.classes, c) }

// Document is the root of a tree.
type Document struct {
	nodeBase
	// Meta holds document metadata, e.g. YAML frontmatter or notebook metadata.
	Meta map[string]any
}

// Title returns the "title" metadata entry, if it is a string.
func (d *Document) Title() string {
	if d == nil || d.Meta == nil {
		return ""
	}
	title, _ := d.Meta["title"].(string)
	return title
}

// Div is a generic block container (HTML div, notebook cell, table cell, quote).
type Div struct{ nodeBase }

// Para is a paragraph.
type Para struct{ nodeBase }

// Plain is a run of inline content that is not a paragraph of its own.
type Plain struct{ nodeBase }

// Header is a section heading.
type Header struct {
	nodeBase
	Level int
}

// BulletList is a list of ListItem nodes.
type BulletList struct {
	nodeBase
	Ordered bool
}

// ListItem is one entry of a BulletList.
type ListItem struct{ nodeBase }

// CodeBlock is preformatted text; its content is not searched for references.
type CodeBlock struct {
	nodeBase
	Text string
}

// Image is an image reference; children are the alt text.
type Image struct {
	nodeBase
	URL   string
	Title string
}

// Link is a hyperlink; children are the link text.
type Link struct {
	nodeBase
	URL   string
	Title string
}

// Span is a generic inline container (emphasis, strong, code span, ...).
type Span struct{ nodeBase }

// Text is literal text.
type Text struct {
	nodeBase
	Value string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Meta: map[string]any{}}
}

// NewDiv returns a div carrying classes.
func NewDiv(classes ...string) *Div {
	d := &Div{}
	d.classes = classes
	return d
}

// NewText returns a text node.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// SetClasses replaces the class list of n.
func SetClasses(n Node, classes ...string) {
	n.base().classes = classes
}

// Append attaches children to parent and returns parent. A child that already
// has a parent is moved.
func Append[N Node](parent N, children ...Node) N {
	pb := parent.base()
	for _, c := range children {
		if c == nil {
			continue
		}
		cb := c.base()
		if old := cb.parent; old != nil {
			ob := old.base()
			ob.children = slices.DeleteFunc(ob.children, func(n Node) bool { return n == c })
		}
		cb.parent = parent
		pb.children = append(pb.children, c)
	}
	return parent
}
