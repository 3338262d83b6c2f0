package manifest

import (
	"strings"

	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/util/sets"
)

// ModuleNameTags splits a camel-case module identifier into lowercase tag
// candidates. A segment is an uppercase run followed by lowercase letters and
// digits; a literal "3D" or "GL" suffix stays fused with its segment, so
// "QtQuick3D" yields "qt" and "quick3d", never "quick3" and "d".
func ModuleNameTags(module string) []string {
	var tags []string
	i := 0
	for i < len(module) {
		if !isUpper(module[i]) {
			i++
			continue
		}
		start := i
		for i < len(module) && isUpper(module[i]) {
			i++
		}
		for i < len(module) {
			if strings.HasPrefix(module[i:], "3D") {
				i += 2
				break
			}
			if !isLowerOrDigit(module[i]) {
				break
			}
			i++
		}
		if strings.HasPrefix(module[i:], "GL") {
			i += 2
		}
		tags = append(tags, strings.ToLower(module[start:i]))
	}
	return tags
}

func isUpper(c byte) bool        { return c >= 'A' && c <= 'Z' }
func isLowerOrDigit(c byte) bool { return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' }

// TitleTags lowercases the example title and splits it on whitespace.
func TitleTags(title string) []string {
	return strings.Fields(strings.ToLower(title))
}

// MetaTags collects tags declared with \meta {tag} {one[,two,...]}: every
// value stored under the "tag" key, comma-split and lowercased. Values are
// not trimmed beyond the split; the cleanup step decides what survives.
func MetaTags(meta docmodel.MetaTagMap) []string {
	var tags []string
	for _, value := range meta.Values("tag") {
		tags = append(tags, strings.Split(strings.ToLower(value), ",")...)
	}
	return tags
}

// Tags dropped outright during cleanup.
var excludedTags = sets.New("qt", "the", "and")

// CleanTags drops invalid and common words from the candidate set and
// returns the survivors as a new set. Cleaning is idempotent: a cleaned set
// passes through unchanged.
//
// A candidate starting with '(' loses that parenthesis and its final
// character; a trailing ':' is stripped. After stripping, candidates shorter
// than two characters, starting with a digit or '-', equal to "qt"/"the"/
// "and", or starting with "example" or "chapter" are dropped.
func CleanTags(tags sets.Set[string]) sets.Set[string] {
	cleaned := sets.New[string]()
	for tag := range tags {
		if strings.HasPrefix(tag, "(") {
			tag = tag[1:]
			if len(tag) > 0 {
				tag = tag[:len(tag)-1]
			}
		}
		tag = strings.TrimSuffix(tag, ":")

		if len(tag) < 2 {
			continue
		}
		if c := tag[0]; c >= '0' && c <= '9' || c == '-' {
			continue
		}
		if excludedTags.Has(tag) {
			continue
		}
		if strings.HasPrefix(tag, "example") || strings.HasPrefix(tag, "chapter") {
			continue
		}
		cleaned.Add(tag)
	}
	return cleaned
}

// DeriveTags accumulates every tag source for one example and cleans the
// result: module-name segments, explicit \meta tags, title words, and any
// extra tags the caller collected from filter rules. The returned set is
// fresh per example; nothing leaks between calls.
func DeriveTags(ex *docmodel.ExampleNode, project string, filterTags []string) sets.Set[string] {
	tagSet := sets.New(filterTags...)
	for _, tag := range ModuleNameTags(project) {
		tagSet.Add(tag)
	}
	if ex.Doc != nil {
		for _, tag := range MetaTags(ex.Doc.MetaTagMap()) {
			tagSet.Add(tag)
		}
	}
	for _, tag := range TitleTags(ex.Title) {
		tagSet.Add(tag)
	}
	return CleanTags(tagSet)
}
