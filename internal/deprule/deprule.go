// Package deprule renders Makefile-style dependency rules for documents.
//
// A rule has the form "target : prerequisite ...". Every path in it is made
// relative to a base directory when it lies below it and is quoted for a
// POSIX shell.
package deprule

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/alessio/shellescape"

	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/pathutil"
)

// Document is what a rule is rendered from.
type Document interface {
	Path() string
	ImagePaths() []string
}

// Render returns the dependency rule for doc.
//
// With an empty pattern the document itself is the target and its images are
// the prerequisites. A pattern containing "%" names a file next to the
// document, with "%" replaced by the document stem; any other pattern is a
// suffix replacing the document's. In both cases the document becomes the
// first prerequisite, followed by its images in lexical order.
func Render(doc Document, pattern, base string) string {
	var prereqs []string
	if pattern != "" {
		prereqs = append(prereqs, doc.Path())
	}
	images := doc.ImagePaths()
	slices.Sort(images)
	prereqs = append(prereqs, images...)

	var b strings.Builder
	b.WriteString(RelativeFSPath(Target(doc.Path(), pattern), base))
	b.WriteString(" :")
	for _, p := range prereqs {
		b.WriteByte(' ')
		b.WriteString(RelativeFSPath(p, base))
	}
	return b.String()
}

// Target returns the rule target for docPath under pattern.
func Target(docPath, pattern string) string {
	switch {
	case pattern == "":
		return docPath
	case strings.Contains(pattern, "%"):
		return pathutil.WithName(docPath, strings.ReplaceAll(pattern, "%", pathutil.Stem(docPath)))
	default:
		return pathutil.WithSuffix(docPath, pattern)
	}
}

// ValidatePattern rejects patterns Target cannot apply: a suffix pattern must
// start with a dot and neither kind may contain a path separator.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	if strings.ContainsRune(pattern, '/') || strings.ContainsRune(pattern, filepath.Separator) {
		return ferrors.ValidationError(fmt.Sprintf("invalid target pattern %q: must not contain a path separator", pattern)).Build()
	}
	if !strings.Contains(pattern, "%") && (!strings.HasPrefix(pattern, ".") || pattern == ".") {
		return ferrors.ValidationError(fmt.Sprintf("invalid target pattern %q: a suffix must start with a dot", pattern)).Build()
	}
	return nil
}

// SplitPatterns splits each value on whitespace, so "-d '.pdf .html'" and
// "-d .pdf -d .html" are equivalent. Empty values are dropped.
func SplitPatterns(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

// RelativeFSPath renders path for a rule: relative to base when, after making
// both absolute and resolving symlinks, path lies inside base; otherwise
// unchanged. The result is shell-quoted.
func RelativeFSPath(path, base string) string {
	if rel, ok := relativeTo(path, base); ok {
		path = rel
	}
	return shellescape.Quote(path)
}

func relativeTo(path, base string) (string, bool) {
	absBase, err := resolveExisting(base)
	if err != nil {
		return "", false
	}
	absPath, err := resolveExisting(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// resolveExisting makes p absolute and resolves symlinks in the longest
// prefix of it that exists; the rest is appended unchanged. p is not cleaned
// before symlinks are resolved, so ".." steps out of the link target rather
// than the link.
func resolveExisting(p string) (string, error) {
	abs, err := absNoClean(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	dir, name := filepath.Split(abs)
	if trimmed := strings.TrimRight(dir, string(filepath.Separator)); trimmed != "" {
		dir = trimmed
	}
	if dir == abs || name == "" {
		return abs, nil
	}
	parent, err := resolveExisting(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, name), nil
}

func absNoClean(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return wd + string(filepath.Separator) + p, nil
}

// ErrorComment renders the line emitted in place of a document's rules when
// the document failed and processing continues.
func ErrorComment(path string, err error) string {
	msg := strings.TrimPrefix(err.Error(), path+": ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return "# " + path + ": " + msg
}

var suffixPattern = regexp.MustCompile(`^\.[^./\\]+$`)

// ValidateSuffix rejects anything but a single dot-suffix such as ".d".
func ValidateSuffix(suffix string) error {
	if !suffixPattern.MatchString(suffix) {
		return ferrors.ValidationError(fmt.Sprintf("invalid suffix %q: must be a suffix such as .d", suffix)).Build()
	}
	return nil
}

// IndividualPath returns the per-document dependency file path for suffix.
func IndividualPath(docPath, suffix string) string {
	return pathutil.WithSuffix(docPath, suffix)
}

// WriteIndividual writes lines, newline terminated, to the per-document
// dependency file and returns its path.
func WriteIndividual(docPath, suffix string, lines []string) (string, error) {
	target := IndividualPath(docPath, suffix)
	if target == docPath {
		return "", ferrors.ValidationError(fmt.Sprintf("dependency file suffix %q would overwrite the document", suffix)).
			WithContext("path", docPath).
			Build()
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(target, []byte(b.String()), 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write dependency file").
			WithContext("path", target).
			Build()
	}
	return target, nil
}
