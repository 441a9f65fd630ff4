package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument = "document"
	KeyFormat   = "format"
	KeyImage    = "image"
	KeyTarget   = "target"
	KeyPolicy   = "selection"
	KeyCount    = "count"
	KeyOutcome  = "outcome"
	KeyPath     = "path"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(path string) slog.Attr { return slog.String(KeyDocument, path) }
func Format(f string) slog.Attr      { return slog.String(KeyFormat, f) }
func Image(path string) slog.Attr    { return slog.String(KeyImage, path) }
func Target(path string) slog.Attr   { return slog.String(KeyTarget, path) }
func Policy(p string) slog.Attr      { return slog.String(KeyPolicy, p) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr     { return slog.String(KeyOutcome, o) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
