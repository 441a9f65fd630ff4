// Package frontmatter splits a YAML metadata block off a Markdown document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter from the Markdown body.
//
// The block opens with a `---` line at the very start of the document and is
// closed by a `---` or `...` line. If the document does not start with the
// opening delimiter, had is false and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	offset := 0
	for offset <= len(rest) {
		end := bytes.Index(rest[offset:], []byte(nl))
		line := rest[offset:]
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + len(nl)
		}
		if isClosingDelimiter(line) {
			return rest[:offset], rest[next:], true, nil
		}
		if end < 0 {
			break
		}
		offset = next
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func isClosingDelimiter(line []byte) bool {
	line = bytes.TrimRight(line, " \t")
	return bytes.Equal(line, []byte("---")) || bytes.Equal(line, []byte("..."))
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
