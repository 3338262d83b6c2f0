// Package docmodel defines the documentation graph built from annotated
// source comments: parsed doc comments, the entity variants topic commands
// create, and the graph the manifest compiler queries.
package docmodel

import "fmt"

// Location identifies a position in an annotated source file.
type Location struct {
	File string
	Line int
}

// String renders the location in file:line form for diagnostics.
func (l Location) String() string {
	if l.File == "" {
		return "<unknown location>"
	}
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether the location carries no position information.
func (l Location) IsZero() bool { return l.File == "" && l.Line == 0 }

// Command is a single annotation command occurrence inside a doc comment:
// the command name (without the leading backslash), its raw argument text,
// and where it was found. The comment locator produces these pre-split; the
// interpreter never scans raw comment text itself.
type Command struct {
	Name string
	Arg  string
	Loc  Location
}

// Doc is one parsed documentation comment: the raw annotation text plus the
// ordered command occurrences found inside it. Raw, Commands and Loc are
// fixed at parse time. The brief text and the meta-tag map are attached
// during interpretation and read-only afterwards.
type Doc struct {
	Raw      string
	Commands []Command
	Loc      Location

	briefRaw   string
	briefPlain string
	metaTags   MetaTagMap
}

// NewDoc creates a Doc from pre-split command occurrences.
func NewDoc(raw string, loc Location, commands []Command) *Doc {
	return &Doc{Raw: raw, Commands: commands, Loc: loc}
}

// SetBrief records the brief description markup and derives its plain-text
// form once. Later calls replace the stored brief.
func (d *Doc) SetBrief(markup string) {
	d.briefRaw = markup
	d.briefPlain = plainText(markup)
}

// BriefText returns the plain-text brief description, or "" when the comment
// carried no brief.
func (d *Doc) BriefText() string { return d.briefPlain }

// BriefMarkup returns the brief argument as written in the comment.
func (d *Doc) BriefMarkup() string { return d.briefRaw }

// AddMetaTag stores a key/value pair from a generic meta command verbatim.
func (d *Doc) AddMetaTag(key, value string) {
	if d.metaTags == nil {
		d.metaTags = make(MetaTagMap)
	}
	d.metaTags.Add(key, value)
}

// MetaTagMap returns the meta-tag multimap, which may be nil when the
// comment carried no meta commands.
func (d *Doc) MetaTagMap() MetaTagMap { return d.metaTags }

// MetaTagMap is a multi-valued mapping from meta key to values. Values for a
// key are kept in insertion order; Value returns the most recently added one.
type MetaTagMap map[string][]string

// Add appends value under key.
func (m MetaTagMap) Add(key, value string) {
	m[key] = append(m[key], value)
}

// Values returns every value stored under key.
func (m MetaTagMap) Values(key string) []string {
	if m == nil {
		return nil
	}
	return m[key]
}

// Value returns the most recently added value for key, or "".
func (m MetaTagMap) Value(key string) string {
	if m == nil {
		return ""
	}
	vals := m[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}
