package dag

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// build constructs a graph from node IDs and from->to pairs, failing the
// test on any error.
func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodes {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%s) error: %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s) error: %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(""); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(\"\") = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode("a"); err != nil {
		t.Fatalf("AddNode(a) error: %v", err)
	}
	if err := g.AddNode("a"); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode = %v, want ErrDuplicateNodeID", err)
	}
	if !g.Has("a") || g.Has("b") {
		t.Error("Has should reflect membership")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, nil)
	if err := g.AddEdge("x", "b"); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge("a", "x"); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target = %v, want ErrUnknownTargetNode", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if got := g.Children("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Children(a) = %v", got)
	}
	if got := g.Parents("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Parents(b) = %v", got)
	}
	if g.InDegree("b") != 1 || g.OutDegree("a") != 1 {
		t.Error("degree counts wrong after AddEdge")
	}
}

func TestRemoveEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})
	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 0 {
		t.Errorf("RemoveEdge should drop parallel edges too, EdgeCount = %d", g.EdgeCount())
	}
	// Removing an absent edge is a no-op.
	g.RemoveEdge("a", "b")
	g.RemoveEdge("x", "y")
}

func TestSourcesAndSinks(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "iso"}, [][2]string{{"a", "b"}, {"b", "c"}})
	if got := g.Sources(); !reflect.DeepEqual(got, []string{"a", "iso"}) {
		t.Errorf("Sources = %v, want [a iso]", got)
	}
	if got := g.Sinks(); !reflect.DeepEqual(got, []string{"c", "iso"}) {
		t.Errorf("Sinks = %v, want [c iso]", got)
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  bool
	}{
		{"empty graph", nil, nil, false},
		{"single node", []string{"a"}, nil, false},
		{"chain", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}, false},
		{"diamond", []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, false},
		{"self loop", []string{"a"}, [][2]string{{"a", "a"}}, true},
		{"two cycle", []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, true},
		{"long cycle", []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}}, true},
		{"cycle in second component", []string{"a", "b", "x", "y"}, [][2]string{{"a", "b"}, {"x", "y"}, {"y", "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes, tt.edges)
			if got := g.HasCycle(); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackEdges(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	back := g.BackEdges()
	if len(back) != 1 {
		t.Fatalf("BackEdges = %v, want exactly one", back)
	}
	// With insertion-order traversal the closing edge is c->a.
	if back[0] != [2]string{"c", "a"} {
		t.Errorf("BackEdges[0] = %v, want [c a]", back[0])
	}

	if acyclic := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}}); acyclic.BackEdges() != nil {
		t.Error("acyclic graph should return nil back edges")
	}
}

func TestBreakCycles(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "a"}, // cycle one
		{"c", "d"}, {"d", "c"}, // cycle two
	})
	removed := g.BreakCycles()
	if removed != 2 {
		t.Errorf("BreakCycles removed %d edges, want 2", removed)
	}
	if g.HasCycle() {
		t.Error("graph should be acyclic after BreakCycles")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount after break = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCyclesDeepChain(t *testing.T) {
	// A long chain must not blow the stack in the iterative DFS.
	nodes := make([]string, 0, 500)
	edges := make([][2]string, 0, 500)
	prev := ""
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("n%03d", i)
		nodes = append(nodes, id)
		if prev != "" {
			edges = append(edges, [2]string{prev, id})
		}
		prev = id
	}
	g := build(t, nodes, edges)
	if g.HasCycle() {
		t.Error("chain should be acyclic")
	}
}

func TestLayers(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d", "iso"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"},
		{"a", "d"}, // shortcut edge: longest path still wins
	})
	layers := g.Layers()
	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "iso": 0}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("Layers() = %v, want %v", layers, want)
	}
}

func TestLayersEmpty(t *testing.T) {
	if layers := New().Layers(); len(layers) != 0 {
		t.Errorf("Layers of empty graph = %v, want empty", layers)
	}
}

func TestFromTree(t *testing.T) {
	nodes := []tree.Node{
		{ID: "a"}, {ID: "b"}, {ID: "a"}, // duplicate skipped
	}
	edges := []tree.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "ghost"}, // dangling skipped
	}
	g := FromTree(nodes, edges)
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
}

func TestPosMap(t *testing.T) {
	m := PosMap([]string{"x", "y", "z"})
	if m["x"] != 0 || m["y"] != 1 || m["z"] != 2 {
		t.Errorf("PosMap = %v", m)
	}
}

func TestNodesAndEdgesAreCopies(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	nodes := g.Nodes()
	nodes[0] = "mutated"
	if g.Nodes()[0] != "a" {
		t.Error("Nodes should return a copy")
	}
	edges := g.Edges()
	edges[0].From = "mutated"
	if g.Edges()[0].From != "a" {
		t.Error("Edges should return a copy")
	}
}
