// Package resolve turns references found in a document into local paths or
// leaves them as external URLs.
package resolve

import (
	"path/filepath"
	"strings"
)

// Reference is the result of resolving one raw reference.
//
// Exactly one of Path and URL is set: Path for local resources, URL for
// references carrying a scheme.
type Reference struct {
	Path string
	URL  string
}

// IsPath reports whether the reference resolved to a filesystem path.
func (r Reference) IsPath() bool { return r.URL == "" }

// String returns the path or the URL.
func (r Reference) String() string {
	if r.IsPath() {
		return r.Path
	}
	return r.URL
}

// Resolve resolves url as found in the document at documentPath.
//
// URLs with a scheme are returned unchanged, references starting with a
// separator are absolute paths, and everything else is appended to the
// directory containing the document. The result is not cleaned: "a/link/../x"
// names a different file than "a/x" when link is a symlink. Resolve never
// touches the filesystem.
func Resolve(url, documentPath string) Reference {
	if Scheme(url) != "" {
		return Reference{URL: url}
	}
	if strings.HasPrefix(url, "/") || strings.HasPrefix(url, string(filepath.Separator)) {
		return Reference{Path: filepath.FromSlash(url)}
	}
	return Reference{Path: joinDir(filepath.Dir(documentPath), filepath.FromSlash(url))}
}

func joinDir(dir, rel string) string {
	if dir == "." {
		return rel
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + rel
	}
	return dir + string(filepath.Separator) + rel
}

// Scheme returns the URI scheme of s, or "" when s has none.
//
// A scheme is a letter followed by letters, digits, '+', '-' or '.',
// terminated by ':'. net/url is not used because it rejects inputs such as
// malformed percent escapes that are still valid relative file names.
func Scheme(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return ""
			}
		case c == ':':
			if i == 0 {
				return ""
			}
			return strings.ToLower(s[:i])
		default:
			return ""
		}
	}
	return ""
}
