package markdown

import (
	"strings"
)

// normalizeDestinations rewrites link and image destinations that contain
// whitespace into CommonMark's angle-bracket form so that goldmark accepts
// them: `![a](my fig.png "t")` becomes `![a](<my fig.png> "t")`.
// Code blocks and inline code spans are left untouched.
func normalizeDestinations(body []byte) []byte {
	lines := strings.Split(string(body), "\n")

	inCodeBlock := false
	activeFence := ""
	changed := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		rewritten := rewriteReferenceDefinition(line)
		if rewritten == line {
			rewritten = rewriteInlineDestinations(line)
		}
		if rewritten != line {
			lines[i] = rewritten
			changed = true
		}
	}

	if !changed {
		return body
	}
	return []byte(strings.Join(lines, "\n"))
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

// rewriteInlineDestinations handles every `](dest)` outside code spans.
func rewriteInlineDestinations(line string) string {
	if !strings.Contains(line, "](") {
		return line
	}

	var out strings.Builder
	out.Grow(len(line) + 8)

	for i := 0; i < len(line); {
		if line[i] == '`' {
			end := codeSpanEnd(line, i)
			out.WriteString(line[i:end])
			i = end
			continue
		}
		if line[i] != ']' || i+1 >= len(line) || line[i+1] != '(' {
			out.WriteByte(line[i])
			i++
			continue
		}

		closeRel := strings.IndexByte(line[i+2:], ')')
		if closeRel == -1 {
			out.WriteString(line[i:])
			break
		}
		inner := line[i+2 : i+2+closeRel]
		out.WriteString("](")
		out.WriteString(bracketDestination(inner))
		out.WriteByte(')')
		i = i + 2 + closeRel + 1
	}

	return out.String()
}

// codeSpanEnd returns the index just past the code span starting at i, or
// i+run when the span is unclosed (the backticks are then literal).
func codeSpanEnd(s string, i int) int {
	run := 1
	for i+run < len(s) && s[i+run] == '`' {
		run++
	}
	marker := strings.Repeat("`", run)
	closeRel := strings.Index(s[i+run:], marker)
	if closeRel == -1 {
		return i + run
	}
	return i + run + closeRel + run
}

func rewriteReferenceDefinition(line string) string {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > 3 {
		return line
	}
	trimmed := line[indent:]
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		// footnote definitions are not link reference definitions
		return line
	}
	label, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return line
	}
	rest := strings.TrimSpace(after)
	if rest == "" || !strings.ContainsAny(rest, "./") {
		// prose such as "[note]: see below" is not a definition
		return line
	}
	bracketed := bracketDestination(rest)
	if bracketed == rest {
		return line
	}
	return line[:indent] + label + "]: " + bracketed
}

// bracketDestination wraps a whitespace-containing destination in angle
// brackets, keeping a trailing quoted title separate.
func bracketDestination(inner string) string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" || strings.HasPrefix(trimmed, "<") || strings.ContainsAny(trimmed, "<>") {
		return inner
	}

	dest, title := splitTitle(trimmed)
	if !strings.ContainsAny(dest, " \t") {
		return inner
	}
	if title == "" {
		return "<" + dest + ">"
	}
	return "<" + dest + "> " + title
}

func splitTitle(s string) (dest, title string) {
	last := s[len(s)-1]
	if last != '"' && last != '\'' || len(s) < 2 {
		return s, ""
	}
	open := strings.LastIndexByte(s[:len(s)-1], last)
	if open <= 0 || (s[open-1] != ' ' && s[open-1] != '\t') {
		return s, ""
	}
	return strings.TrimSpace(s[:open]), s[open:]
}
