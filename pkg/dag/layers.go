package dag

// Layers assigns each node to a horizontal layer (rank) based on its depth
// in the graph, using longest-path layering via topological sort (Kahn's
// algorithm). Each node lands at one plus the maximum layer of any of its
// parents, so:
//   - Source nodes (no incoming edges) are at layer 0
//   - All prerequisites are strictly above their dependents
//   - Isolated nodes are at layer 0
//
// Layers assumes the graph is acyclic. Nodes trapped in a cycle never reach
// zero in-degree and stay at their default layer 0; run [Graph.BreakCycles]
// first when the input may be invalid.
//
// Time complexity is O(N+E).
func (g *Graph) Layers() map[string]int {
	inDegree := make(map[string]int, len(g.nodes))
	layers := make(map[string]int, len(g.nodes))
	queue := make([]string, 0, len(g.nodes))

	for _, id := range g.order {
		degree := g.InDegree(id)
		inDegree[id] = degree
		layers[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.outgoing[curr] {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return layers
}
