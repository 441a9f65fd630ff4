// Package convert turns document files into doctree trees, picking the reader
// by file extension unless a format is given explicitly.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"git.home.luguber.info/inful/mdimages/internal/doctree"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/foundation/normalization"
	"git.home.luguber.info/inful/mdimages/internal/htmldoc"
	"git.home.luguber.info/inful/mdimages/internal/markdown"
	"git.home.luguber.info/inful/mdimages/internal/notebook"
)

// Format names an input or output document format.
type Format string

const (
	FormatAuto     Format = ""
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatNotebook Format = "ipynb"
)

var formatNormalizer = normalization.NewEnumNormalizer("format", map[string]Format{
	"markdown":   FormatMarkdown,
	"md":         FormatMarkdown,
	"gfm":        FormatMarkdown,
	"commonmark": FormatMarkdown,
	"html":       FormatHTML,
	"htm":        FormatHTML,
	"ipynb":      FormatNotebook,
	"notebook":   FormatNotebook,
}, FormatAuto)

// ParseFormat normalizes a user supplied format name. The empty string
// selects inference from the file extension.
func ParseFormat(s string) (Format, error) {
	if strings.TrimSpace(s) == "" {
		return FormatAuto, nil
	}
	f, err := formatNormalizer.NormalizeWithValidation(s)
	if err != nil {
		return FormatAuto, ferrors.WrapError(err, ferrors.CategoryValidation, "unknown document format").
			WithContext("format", s).
			Fatal().
			Build()
	}
	return f, nil
}

var extensions = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".mdown":    FormatMarkdown,
	".mkd":      FormatMarkdown,
	".txt":      FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xhtml":    FormatHTML,
	".ipynb":    FormatNotebook,
}

// FormatFor infers the format of path from its extension, defaulting to
// Markdown.
func FormatFor(path string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatMarkdown
}

// Options controls conversion.
type Options struct {
	Format   Format
	Markdown markdown.Options
}

// File reads and converts path. Markdown and notebook input must be UTF-8
// or UTF-16 with a byte order mark. Read and decoding failures are reported as
// document read errors, conversion failures as document parse errors; both
// carry the path.
func File(path string, opts Options) (*doctree.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.DocumentReadError(path, err).Build()
	}
	format := opts.Format
	if format == FormatAuto {
		format = FormatFor(path)
	}

	// HTML declares its own charset; the HTML reader transcodes it.
	content := raw
	if format != FormatHTML {
		if content, err = Decode(raw); err != nil {
			return nil, ferrors.DocumentReadError(path, err).Build()
		}
	}
	doc, err := Bytes(content, format, opts.Markdown)
	if err != nil {
		return nil, ferrors.DocumentParseError(path, err).WithContext("format", string(format)).Build()
	}
	return doc, nil
}

// Bytes converts already decoded content in the given format.
func Bytes(content []byte, format Format, opts markdown.Options) (*doctree.Document, error) {
	switch format {
	case FormatMarkdown, FormatAuto:
		return markdown.Parse(content, opts)
	case FormatHTML:
		return htmldoc.ParseBytes(content)
	case FormatNotebook:
		return notebook.Parse(content, opts)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Decode strips a byte order mark, transcodes UTF-16 input to UTF-8 and
// rejects content that is not valid UTF-8 afterwards.
func Decode(raw []byte) ([]byte, error) {
	// BOMOverride switches to UTF-16 when a UTF-16 BOM is present and strips
	// a UTF-8 BOM; anything else passes through unchanged for validation.
	dec := unicode.BOMOverride(transform.Nop)
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}
	return out, nil
}

// Render writes blocks in an output format. Notebook output is not
// supported; the empty format renders Markdown.
func Render(w io.Writer, format Format, blocks ...doctree.Node) error {
	switch format {
	case FormatMarkdown, FormatAuto:
		return markdown.Render(w, blocks...)
	case FormatHTML:
		return htmldoc.Render(w, blocks...)
	}
	return ferrors.ValidationError(fmt.Sprintf("cannot render %s output", format)).Build()
}
