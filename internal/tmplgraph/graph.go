// SPDX-License-Identifier: MPL-2.0

// Package tmplgraph records which markup templates include which.
//
// The graph only grows: nodes move from unloaded to loaded once, and edges
// are never removed, so repeated discovery passes accumulate. Root nodes are
// the templates scheduled for compilation; included templates get nodes on
// first mention.
package tmplgraph

import (
	"slices"
	"sync"

	"github.com/minipack/minipack/internal/issue"
)

type (
	// Node is a read-only snapshot of one template.
	Node struct {
		Path   string
		IsRoot bool
		// Deps lists included templates in first-recorded order.
		Deps   []string
		Loaded bool
	}

	node struct {
		path   string
		isRoot bool
		deps   []string
		depSet map[string]struct{}
		loaded bool
	}

	// Graph is the template dependency graph. It is safe for concurrent use.
	Graph struct {
		mu    sync.Mutex
		nodes map[string]*node
		order []string
	}
)

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddRoot records path as a root template. Calling it again, or for a
// template already known as a dependency, only sets the root flag.
func (g *Graph) AddRoot(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensure(path).isRoot = true
}

// AddEdges links root to each of deps, creating dependency nodes on first
// mention, then marks root loaded. root must already have a node.
func (g *Graph) AddEdges(root string, deps []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	target, ok := g.nodes[root]
	if !ok {
		return issue.Violation("tmplgraph.AddEdges", "template %s has no node", root)
	}

	for _, dep := range deps {
		g.ensure(dep)
		if _, linked := target.depSet[dep]; linked {
			continue
		}
		target.depSet[dep] = struct{}{}
		target.deps = append(target.deps, dep)
	}
	target.loaded = true
	return nil
}

// Node returns a snapshot of the node at path.
func (g *Graph) Node(path string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[path]
	if !ok {
		return Node{}, false
	}
	return Node{Path: n.path, IsRoot: n.isRoot, Deps: slices.Clone(n.deps), Loaded: n.loaded}, true
}

// Deps returns the templates path includes directly.
func (g *Graph) Deps(path string) []string {
	n, _ := g.Node(path)
	return n.Deps
}

// Dependents returns the templates that include path directly, in node
// creation order.
func (g *Graph) Dependents(path string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []string
	for _, p := range g.order {
		if _, ok := g.nodes[p].depSet[path]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Paths returns every template in node creation order.
func (g *Graph) Paths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.order)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.order)
}

func (g *Graph) ensure(path string) *node {
	if n, ok := g.nodes[path]; ok {
		return n
	}
	n := &node{path: path, depSet: make(map[string]struct{})}
	g.nodes[path] = n
	g.order = append(g.order, path)
	return n
}
