package docmodel

import (
	"errors"
	"fmt"
	"sort"

	"git.home.luguber.info/inful/exdoc/internal/util/sets"
)

// ErrDuplicateEntity reports a topic command naming an entity that already
// exists in the graph. Duplicates are never merged.
var ErrDuplicateEntity = errors.New("entity already registered")

// Graph is the semantic documentation graph built by interpretation.
// It is populated once, read by the manifest compiler, and cleared in bulk
// after manifest generation. Not safe for concurrent mutation; the
// generation pipeline is strictly sequential.
type Graph struct {
	nodes        map[string]Node
	examples     map[string]*ExampleNode
	dontDocument sets.Set[string]
}

// NewGraph creates an empty documentation graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:        make(map[string]Node),
		examples:     make(map[string]*ExampleNode),
		dontDocument: sets.New[string](),
	}
}

// Insert registers a new entity keyed by name. Inserting a name that is
// already present fails with ErrDuplicateEntity; the existing entity is
// left untouched.
func (g *Graph) Insert(n Node) error {
	name := n.Base().Name
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, name)
	}
	g.nodes[name] = n
	if ex, ok := n.(*ExampleNode); ok {
		g.examples[ex.Name] = ex
	}
	return nil
}

// Lookup returns the entity registered under name.
func (g *Graph) Lookup(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of registered entities.
func (g *Graph) Len() int { return len(g.nodes) }

// Examples returns all example entities in deterministic name order.
func (g *Graph) Examples() []*ExampleNode {
	names := make([]string, 0, len(g.examples))
	for name := range g.examples {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*ExampleNode, 0, len(names))
	for _, name := range names {
		out = append(out, g.examples[name])
	}
	return out
}

// ExampleCount returns the number of example entities.
func (g *Graph) ExampleCount() int { return len(g.examples) }

// ClearExamples drops the example collection. The manifest compiler calls
// this as an end-of-run cleanup signal once both manifests are written.
func (g *Graph) ClearExamples() {
	g.examples = make(map[string]*ExampleNode)
}

// MarkDontDocument records a name excluded from documentation by a
// \dontdocument topic command.
func (g *Graph) MarkDontDocument(name string) {
	g.dontDocument.Add(name)
}

// IsDontDocument reports whether name was excluded via \dontdocument.
func (g *Graph) IsDontDocument(name string) bool {
	return g.dontDocument.Has(name)
}

// Nodes returns all registered entities in deterministic name order.
func (g *Graph) Nodes() []Node {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Node, 0, len(names))
	for _, name := range names {
		out = append(out, g.nodes[name])
	}
	return out
}
