// Package pathutil implements suffix and stem arithmetic on slash- or
// OS-separated paths without touching the filesystem.
//
// A suffix is the final dot-separated part of the last path element,
// including the dot. Leading dots do not start a suffix and a trailing dot
// is not one: ".bashrc" and "name." have no suffix.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Suffix returns the final suffix of p's last element, or "".
func Suffix(p string) string {
	name := filepath.Base(p)
	if i := suffixIndex(name); i >= 0 {
		return name[i:]
	}
	return ""
}

// Stem returns the last element of p without its suffix.
func Stem(p string) string {
	name := filepath.Base(p)
	if i := suffixIndex(name); i >= 0 {
		return name[:i]
	}
	return name
}

// StripSuffix removes exactly one suffix from p, keeping the directory.
// "archive.tar.gz" becomes "archive.tar".
func StripSuffix(p string) string {
	dir, name := filepath.Split(p)
	if i := suffixIndex(name); i >= 0 {
		return dir + name[:i]
	}
	return p
}

// WithSuffix replaces p's suffix with suffix (or appends it when p has none).
func WithSuffix(p, suffix string) string {
	return StripSuffix(p) + suffix
}

// WithName replaces the last element of p with name.
func WithName(p, name string) string {
	dir, _ := filepath.Split(p)
	return dir + name
}

func suffixIndex(name string) int {
	if name == "." || name == string(filepath.Separator) {
		return -1
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return -1
	}
	return i
}
