package manifest

import (
	"strings"

	"git.home.luguber.info/inful/exdoc/internal/config"
)

// Attribute is one attribute a filter rule writes onto matching example
// elements.
type Attribute struct {
	Key   string
	Value string
}

// Filter is one compiled manifest_meta rule: name patterns to match against
// an example's "project/title" full name, plus the attributes and tags
// applied on a match. Rules are evaluated in configuration order and an
// attribute key is written by the first rule that claims it.
type Filter struct {
	Name       string
	Patterns   []string
	Attributes []Attribute
	Tags       []string
}

// CompileFilters turns the raw configuration entries into filters. A bare
// attribute spec "key" becomes key="true"; in "key:value" everything after
// the first colon is the value, colons included.
func CompileFilters(rules []config.ManifestFilter) []Filter {
	filters := make([]Filter, 0, len(rules))
	for _, rule := range rules {
		f := Filter{
			Name:     rule.Name,
			Patterns: rule.Names,
			Tags:     rule.Tags,
		}
		for _, spec := range rule.Attributes {
			key, value, found := strings.Cut(spec, ":")
			if !found {
				value = "true"
			}
			f.Attributes = append(f.Attributes, Attribute{Key: key, Value: value})
		}
		filters = append(filters, f)
	}
	return filters
}

// Matches reports whether any of the filter's patterns matches fullName.
// A pattern without '*' must match exactly; a lone leading '*' matches
// everything; otherwise the text before the first '*' is a required prefix.
func (f Filter) Matches(fullName string) bool {
	for _, pattern := range f.Patterns {
		switch wildcard := strings.Index(pattern, "*"); wildcard {
		case -1:
			if fullName == pattern {
				return true
			}
		case 0:
			return true
		default:
			if strings.HasPrefix(fullName, pattern[:wildcard]) {
				return true
			}
		}
	}
	return false
}
