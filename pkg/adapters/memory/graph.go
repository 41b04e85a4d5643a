// Package memory provides the reference in-memory implementation of the
// core live-graph contract.
//
// Topics live in an arena keyed by a stable internal numeric identifier,
// with a side index from lowercased unique key to identifier. Associations
// between topics are stored as identifiers rather than raw pointers, so
// topics created lazily mid-traversal cannot dangle.
package memory

import (
	"strings"

	"github.com/aretw0/graft/pkg/core"
)

// Graph implements core.Graph. It is not safe for concurrent mutation;
// callers serialize imports and exports against the same graph.
type Graph struct {
	nodes  map[int64]*Topic
	index  map[string]int64
	nextID int64
	root   *Topic
}

// New creates a graph with a single root topic.
func New(rootKey, contentType string) *Graph {
	g := &Graph{
		nodes: make(map[int64]*Topic),
		index: make(map[string]int64),
	}
	g.root = g.newTopic(nil, rootKey, contentType)
	return g
}

// Root implements core.Graph.
func (g *Graph) Root() core.Topic { return g.root }

// Lookup implements core.Graph. Matching is case-insensitive.
func (g *Graph) Lookup(uniqueKey string) (core.Topic, bool) {
	id, ok := g.index[strings.ToLower(uniqueKey)]
	if !ok {
		return nil, false
	}
	t, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return t, true
}

// LookupID implements core.Graph.
func (g *Graph) LookupID(id int64) (core.Topic, bool) {
	t, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return t, true
}

// Len returns the number of topics in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) newTopic(parent *Topic, key, contentType string) *Topic {
	g.nextID++
	t := &Topic{
		graph:       g,
		id:          g.nextID,
		parent:      parent,
		key:         key,
		contentType: contentType,
		attrs:       newAttributeStore(),
		rels:        make(map[string][]int64),
		refs:        make(map[string]core.Reference),
	}
	g.nodes[t.id] = t
	g.index[strings.ToLower(t.UniqueKey())] = t.id
	return t
}

// detach removes t and its whole subtree from the arena and the index.
func (g *Graph) detach(t *Topic) {
	for _, child := range t.children {
		g.detach(child)
	}
	delete(g.index, strings.ToLower(t.UniqueKey()))
	delete(g.nodes, t.id)
	t.children = nil
}
