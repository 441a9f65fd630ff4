package markdown

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
)

// Render writes blocks as Markdown. It covers the node variants produced by
// the converters; metadata is not emitted.
func Render(w io.Writer, blocks ...doctree.Node) error {
	var b strings.Builder
	for i, n := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		renderBlock(&b, n, "")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderBlock(b *strings.Builder, n doctree.Node, indent string) {
	switch node := n.(type) {
	case *doctree.Document, *doctree.Div:
		for i, c := range n.Children() {
			if i > 0 {
				b.WriteString("\n")
			}
			renderBlock(b, c, indent)
		}
	case *doctree.Header:
		fmt.Fprintf(b, "%s%s %s\n", indent, strings.Repeat("#", max(node.Level, 1)), renderInlines(n))
	case *doctree.Para, *doctree.Plain:
		fmt.Fprintf(b, "%s%s\n", indent, renderInlines(n))
	case *doctree.CodeBlock:
		fmt.Fprintf(b, "%s```\n", indent)
		for _, line := range strings.Split(strings.TrimSuffix(node.Text, "\n"), "\n") {
			fmt.Fprintf(b, "%s%s\n", indent, line)
		}
		fmt.Fprintf(b, "%s```\n", indent)
	case *doctree.BulletList:
		for i, item := range n.Children() {
			marker := "-   "
			if node.Ordered {
				marker = fmt.Sprintf("%-4s", fmt.Sprintf("%d.", i+1))
			}
			renderListItem(b, item, indent, marker)
		}
	default:
		// stray inline at block level
		fmt.Fprintf(b, "%s%s\n", indent, renderInline(n))
	}
}

func renderListItem(b *strings.Builder, item doctree.Node, indent, marker string) {
	var inner strings.Builder
	for _, c := range item.Children() {
		renderBlock(&inner, c, "")
	}
	lines := strings.Split(strings.TrimSuffix(inner.String(), "\n"), "\n")
	pad := strings.Repeat(" ", len(marker))
	for i, line := range lines {
		switch {
		case i == 0:
			fmt.Fprintf(b, "%s%s%s\n", indent, marker, line)
		case line == "":
			b.WriteString("\n")
		default:
			fmt.Fprintf(b, "%s%s%s\n", indent, pad, line)
		}
	}
}

func renderInlines(n doctree.Node) string {
	var b strings.Builder
	for _, c := range n.Children() {
		b.WriteString(renderInline(c))
	}
	return b.String()
}

func renderInline(n doctree.Node) string {
	switch node := n.(type) {
	case *doctree.Text:
		return escapeText(node.Value)
	case *doctree.Link:
		return "[" + renderInlines(n) + "](" + destination(node.URL, node.Title) + ")"
	case *doctree.Image:
		return "![" + renderInlines(n) + "](" + destination(node.URL, node.Title) + ")"
	case *doctree.Span:
		inner := renderInlines(n)
		switch {
		case node.HasClass("code"):
			return "`" + doctree.Stringify(n) + "`"
		case node.HasClass("strong"):
			return "**" + inner + "**"
		case node.HasClass("emph"):
			return "*" + inner + "*"
		case node.HasClass("strikeout"):
			return "~~" + inner + "~~"
		}
		return inner
	default:
		return renderInlines(n)
	}
}

func destination(url, title string) string {
	if strings.ContainsAny(url, " \t()") {
		url = "<" + url + ">"
	}
	if title != "" {
		return url + ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
	}
	return url
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "*", `\*`, "_", `\_`, "`", "\\`")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
