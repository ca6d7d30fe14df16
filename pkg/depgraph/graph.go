// Package depgraph computes the dependency closure of a package and renders
// it as a node-link diagram.
//
// The closure is walked the same way the installer walks it: depth first,
// dependencies before dependents, each package visited once. Cycles are
// kept as edges. Dependency names the registry does not know become
// missing nodes instead of failing the build.
package depgraph

import (
	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/registry"
)

// Node is a package in the closure.
type Node struct {
	ID       string
	Revision string // Latest revision, empty if none
	Missing  bool   // Not present in the registry
}

// Edge points from a dependent to one of its dependencies.
type Edge struct {
	From, To string
}

// Graph is the dependency closure of Root.
type Graph struct {
	Root  string
	nodes []Node
	edges []Edge
	index map[string]int
}

// Nodes returns the nodes in install order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edges in declaration order.
func (g *Graph) Edges() []Edge { return g.edges }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Missing returns the IDs of dependencies absent from the registry.
func (g *Graph) Missing() []string {
	var ids []string
	for _, n := range g.nodes {
		if n.Missing {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Build returns the closure of root. The root itself must exist in cat.
func Build(cat *registry.Catalog, root string) (*Graph, error) {
	if !cat.Has(root) {
		return nil, errors.New(errors.ErrCodeUnknownPackage, "package %q not found in registry", root)
	}

	g := &Graph{Root: root, index: make(map[string]int)}
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		d, ok := cat.Lookup(name)
		if !ok {
			g.add(Node{ID: name, Missing: true})
			return
		}
		for _, dep := range d.Dependencies {
			g.edges = append(g.edges, Edge{From: name, To: dep})
			visit(dep)
		}
		rev, _ := d.Latest()
		g.add(Node{ID: name, Revision: rev})
	}
	visit(root)

	return g, nil
}

func (g *Graph) add(n Node) {
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}
