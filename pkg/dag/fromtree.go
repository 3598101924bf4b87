package dag

import "github.com/nasimstg/skilltree/pkg/tree"

// FromTree builds a Graph from skill-tree nodes and edges.
//
// Dangling edges (endpoints missing from the node set) and duplicate node
// IDs are skipped rather than rejected: the builder mutates nodes and edges
// live, and layout must work on whatever it currently holds. Strict
// structural checks belong to the validator.
func FromTree(nodes []tree.Node, edges []tree.Edge) *Graph {
	g := New()
	for _, n := range nodes {
		_ = g.AddNode(n.ID)
	}
	for _, e := range edges {
		if g.Has(e.Source) && g.Has(e.Target) {
			_ = g.AddEdge(e.Source, e.Target)
		}
	}
	return g
}
