package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyProject    = "project"
	KeySource     = "source"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyLine       = "line"
	KeyCommand    = "command"
	KeyExample    = "example"
	KeyURL        = "url"
	KeyKind       = "manifest_kind"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Project(p string) slog.Attr      { return slog.String(KeyProject, p) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Example(name string) slog.Attr   { return slog.String(KeyExample, name) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
