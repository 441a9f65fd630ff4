// Package notebook converts Jupyter notebooks (nbformat 4) into doctree trees.
//
// Markdown cells become Div("cell", "markdown") blocks holding the parsed
// Markdown. Code cells become Div("cell", "code") blocks holding the source as
// a CodeBlock followed by one Div("output", <output_type>) per output. Images
// carried in outputs are emitted as data: URLs inside a Plain, so the image's
// grandparent is always the output div.
package notebook

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
	"git.home.luguber.info/inful/mdimages/internal/htmldoc"
	"git.home.luguber.info/inful/mdimages/internal/markdown"
)

// Notebook is the subset of nbformat the converter reads.
type Notebook struct {
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Cells         []Cell         `json:"cells"`
}

// Cell is one notebook cell.
type Cell struct {
	CellType string    `json:"cell_type"`
	Source   MultiLine `json:"source"`
	Outputs  []Output  `json:"outputs,omitempty"`
	// Attachments maps attachment names to mime bundles; markdown cells refer
	// to them as attachment:<name>.
	Attachments map[string]map[string]MultiLine `json:"attachments,omitempty"`
}

// Output is one code cell output.
type Output struct {
	OutputType string               `json:"output_type"`
	Name       string               `json:"name,omitempty"`
	Text       MultiLine            `json:"text,omitempty"`
	Data       map[string]MultiLine `json:"data,omitempty"`
}

// MultiLine is an nbformat multiline string: either a single string or a list
// of lines that are concatenated as-is.
type MultiLine string

// UnmarshalJSON accepts both encodings.
func (m *MultiLine) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = MultiLine(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("multiline string: %w", err)
	}
	*m = MultiLine(strings.Join(lines, ""))
	return nil
}

// imageTypes lists the image mime types in the order they are preferred when
// an output carries more than one.
var imageTypes = []string{"image/svg+xml", "image/png", "image/jpeg", "image/gif"}

// Parse decodes notebook JSON into a document tree. Notebook metadata is
// copied into the document metadata.
func Parse(content []byte, opts markdown.Options) (*doctree.Document, error) {
	var nb Notebook
	if err := json.Unmarshal(content, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	if nb.NBFormat != 0 && nb.NBFormat < 4 {
		return nil, fmt.Errorf("unsupported nbformat %d", nb.NBFormat)
	}

	doc := doctree.NewDocument()
	for k, v := range nb.Metadata {
		doc.Meta[k] = v
	}
	for _, cell := range nb.Cells {
		block, err := convertCell(cell, opts)
		if err != nil {
			return nil, err
		}
		doctree.Append(doc, block)
	}
	return doc, nil
}

func convertCell(cell Cell, opts markdown.Options) (doctree.Node, error) {
	switch cell.CellType {
	case "markdown":
		div := doctree.NewDiv("cell", "markdown")
		markdown.ParseInto(div, []byte(cell.Source), opts)
		return div, nil
	case "code":
		div := doctree.NewDiv("cell", "code")
		doctree.Append(div, &doctree.CodeBlock{Text: string(cell.Source)})
		for _, out := range cell.Outputs {
			block, err := convertOutput(out, opts)
			if err != nil {
				return nil, err
			}
			doctree.Append(div, block)
		}
		return div, nil
	case "raw":
		return doctree.NewDiv("cell", "raw"), nil
	}
	return nil, nil
}

func convertOutput(out Output, opts markdown.Options) (doctree.Node, error) {
	div := doctree.NewDiv("output", out.OutputType)
	if out.OutputType == "stream" {
		doctree.Append(div, &doctree.CodeBlock{Text: string(out.Text)})
		return div, nil
	}

	for _, mime := range imageTypes {
		if data, ok := out.Data[mime]; ok {
			doctree.Append(div, doctree.Append(&doctree.Plain{}, &doctree.Image{URL: dataURL(mime, string(data))}))
			return div, nil
		}
	}
	if md, ok := out.Data["text/markdown"]; ok {
		markdown.ParseInto(div, []byte(md), opts)
		return div, nil
	}
	if h, ok := out.Data["text/html"]; ok {
		if err := htmldoc.ParseFragmentInto(div, []byte(h)); err != nil {
			return nil, fmt.Errorf("html output: %w", err)
		}
		return div, nil
	}
	if plain, ok := out.Data["text/plain"]; ok {
		doctree.Append(div, &doctree.CodeBlock{Text: string(plain)})
	}
	return div, nil
}

// dataURL embeds an output payload. Binary image payloads are already base64
// in nbformat; SVG is stored as text.
func dataURL(mime, payload string) string {
	if mime == "image/svg+xml" {
		return "data:" + mime + "," + payload
	}
	payload = strings.Join(strings.Fields(payload), "")
	return "data:" + mime + ";base64," + payload
}
