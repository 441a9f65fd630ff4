package commands

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/convert"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	"git.home.luguber.info/inful/mdimages/internal/doctree"
	"git.home.luguber.info/inful/mdimages/internal/pathutil"
)

// LinksCmd lists the links of documents.
type LinksCmd struct {
	Output string   `short:"o" default:"tabbed" enum:"tabbed,url,markdown,html" help:"Output format: tabbed (document, URL and text), url, markdown or html"`
	Files  []string `arg:"" name:"file" help:"Documents to analyze"`
}

// Run executes the links command.
func (l *LinksCmd) Run(g *Global) error {
	var blocks []doctree.Node
	_, err := g.Runner(nil).Run(g.Context(), l.Files, func(doc *docmodel.Document) error {
		links := doc.Links()
		switch l.Output {
		case "url":
			for _, link := range links {
				g.println(link.URL)
			}
		case "tabbed":
			for _, link := range links {
				g.println(strings.Join([]string{doc.Path(), link.URL, doctree.Stringify(link)}, "\t"))
			}
		default:
			blocks = append(blocks, linkSection(doc, links)...)
		}
		return nil
	})
	if err != nil || len(blocks) == 0 {
		return err
	}

	format, err := convert.ParseFormat(l.Output)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := convert.Render(&buf, format, blocks...); err != nil {
		return err
	}
	_, err = g.Stdout.Write(buf.Bytes())
	return err
}

// linkSection builds a level 2 header linking to the document followed by a
// bullet list of its links. The document tree itself is left untouched.
func linkSection(doc *docmodel.Document, links []*doctree.Link) []doctree.Node {
	title := doc.Title()
	if title == "" {
		title = pathutil.Stem(doc.Path())
	}
	header := doctree.Append(&doctree.Header{Level: 2},
		doctree.Append(&doctree.Link{URL: doc.Path()}, doctree.NewText(title)))

	list := &doctree.BulletList{}
	for _, link := range links {
		item := doctree.Append(&doctree.Link{URL: link.URL, Title: link.Title}, doctree.NewText(doctree.Stringify(link)))
		doctree.Append(list, doctree.Append(&doctree.ListItem{}, doctree.Append(&doctree.Plain{}, item)))
	}
	return []doctree.Node{header, list}
}
