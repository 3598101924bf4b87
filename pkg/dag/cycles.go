package dag

// Colors for the three-color depth-first cycle search.
// White nodes are unvisited, gray nodes are on the current DFS path, and
// black nodes are fully explored. Reaching a gray node proves a cycle;
// black nodes are safe to revisit via a different path.
const (
	white = iota
	gray
	black
)

// HasCycle reports whether the graph contains a directed cycle.
//
// The search starts from every unvisited node, so disconnected components
// and multiple roots are handled. It runs in O(N+E) time.
func (g *Graph) HasCycle() bool {
	return len(g.BackEdges()) > 0
}

// BackEdges returns every edge that closes a directed cycle, as (from, to)
// pairs in deterministic order. An acyclic graph returns nil.
//
// The traversal uses an explicit stack rather than recursion so that trees
// with hundreds of chained nodes cannot exhaust the call stack.
func (g *Graph) BackEdges() [][2]string {
	color := make(map[string]int, len(g.nodes))
	var backEdges [][2]string

	// Each frame remembers how many children have been expanded so the
	// node can be blackened once the last child returns.
	type frame struct {
		id   string
		next int
	}

	for _, start := range g.order {
		if color[start] != white {
			continue
		}
		stack := []frame{{id: start}}
		color[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]

			if top.next >= len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			child := children[top.next]
			top.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				backEdges = append(backEdges, [2]string{top.id, child})
			}
		}
	}
	return backEdges
}

// BreakCycles removes every back-edge from the graph and returns the number
// removed. After BreakCycles the graph is acyclic.
//
// The layout engine uses this permissively: a builder graph may transiently
// hold a cycle while a user is drawing an edge, and layout must still
// terminate. Validation rejects cycles separately; this never runs on a
// canonical tree.
func (g *Graph) BreakCycles() int {
	backEdges := g.BackEdges()
	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}
