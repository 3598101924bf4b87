package layout

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/nasimstg/skilltree/pkg/tree"
)

func node(id string) tree.Node {
	return tree.Node{ID: id, Label: id, Zone: "general"}
}

func edge(source, target string) tree.Edge {
	return tree.Edge{ID: "edge-" + source + "-" + target, Source: source, Target: target}
}

func TestComputeTotality(t *testing.T) {
	tests := []struct {
		name  string
		nodes []tree.Node
		edges []tree.Edge
	}{
		{"empty graph", nil, nil},
		{"single node", []tree.Node{node("a")}, nil},
		{"isolated nodes", []tree.Node{node("a"), node("b"), node("c")}, nil},
		{"chain", []tree.Node{node("a"), node("b")}, []tree.Edge{edge("a", "b")}},
		{"cycle", []tree.Node{node("a"), node("b")}, []tree.Edge{edge("a", "b"), edge("b", "a")}},
		{"dangling edge", []tree.Node{node("a")}, []tree.Edge{edge("a", "ghost")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := Compute(tt.nodes, tt.edges, Options{})
			if len(positions) != len(tt.nodes) {
				t.Fatalf("got %d positions for %d nodes", len(positions), len(tt.nodes))
			}
			for _, n := range tt.nodes {
				if _, ok := positions[n.ID]; !ok {
					t.Errorf("node %s has no position", n.ID)
				}
			}
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	nodes := []tree.Node{
		node("html"), node("css"), node("js"), node("react"), node("http"), node("git"),
	}
	edges := []tree.Edge{
		edge("html", "css"),
		edge("html", "js"),
		edge("js", "react"),
		edge("css", "react"),
		edge("http", "react"),
	}

	want := Compute(nodes, edges, Options{Direction: DirectionTB, Theme: ThemeConstellation})

	// Shuffling the input slices must not change any position.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffledNodes := append([]tree.Node(nil), nodes...)
		shuffledEdges := append([]tree.Edge(nil), edges...)
		rng.Shuffle(len(shuffledNodes), func(a, b int) {
			shuffledNodes[a], shuffledNodes[b] = shuffledNodes[b], shuffledNodes[a]
		})
		rng.Shuffle(len(shuffledEdges), func(a, b int) {
			shuffledEdges[a], shuffledEdges[b] = shuffledEdges[b], shuffledEdges[a]
		})

		got := Compute(shuffledNodes, shuffledEdges, Options{Direction: DirectionTB, Theme: ThemeConstellation})
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed the layout:\ngot  %v\nwant %v", i, got, want)
		}
	}
}

func TestComputeRankSeparation(t *testing.T) {
	nodes := []tree.Node{node("a"), node("b"), node("c")}
	edges := []tree.Edge{edge("a", "b"), edge("b", "c")}

	tb := Compute(nodes, edges, Options{Direction: DirectionTB})
	if !(tb["a"].Y < tb["b"].Y && tb["b"].Y < tb["c"].Y) {
		t.Errorf("TB ranks should advance down: %v", tb)
	}

	lr := Compute(nodes, edges, Options{Direction: DirectionLR})
	if !(lr["a"].X < lr["b"].X && lr["b"].X < lr["c"].X) {
		t.Errorf("LR ranks should advance right: %v", lr)
	}
}

func TestComputeSiblingsDoNotOverlap(t *testing.T) {
	nodes := []tree.Node{node("root"), node("a"), node("b"), node("c")}
	edges := []tree.Edge{edge("root", "a"), edge("root", "b"), edge("root", "c")}

	positions := Compute(nodes, edges, Options{Direction: DirectionTB, Theme: ThemeConstellation})
	size := NodeSize(ThemeConstellation)

	siblings := []string{"a", "b", "c"}
	for i, p := range siblings {
		for _, q := range siblings[i+1:] {
			dx := positions[p].X - positions[q].X
			if dx < 0 {
				dx = -dx
			}
			if dx < size.Width {
				t.Errorf("siblings %s and %s overlap: %v vs %v", p, q, positions[p], positions[q])
			}
			if positions[p].Y != positions[q].Y {
				t.Errorf("siblings %s and %s should share a rank", p, q)
			}
		}
	}
}

func TestComputeBarycenterReducesCrossings(t *testing.T) {
	// Two independent chains: a->a2, b->b2. The initial ID-sorted order of
	// rank 1 is [a2 b2], which already matches the parents; barycenter
	// sweeps must keep each child under its own parent.
	nodes := []tree.Node{node("a"), node("b"), node("a2"), node("b2")}
	edges := []tree.Edge{edge("a", "a2"), edge("b", "b2")}

	positions := Compute(nodes, edges, Options{Direction: DirectionTB})
	if (positions["a"].X < positions["b"].X) != (positions["a2"].X < positions["b2"].X) {
		t.Errorf("children should not cross their parents: %v", positions)
	}
}

func TestComputeDefaults(t *testing.T) {
	nodes := []tree.Node{node("a"), node("b")}
	edges := []tree.Edge{edge("a", "b")}

	got := Compute(nodes, edges, Options{})
	want := Compute(nodes, edges, Options{Direction: DirectionTB, Theme: ThemeConstellation})
	if !reflect.DeepEqual(got, want) {
		t.Error("zero options should default to TB constellation")
	}

	bad := Compute(nodes, edges, Options{Direction: "diagonal", Theme: "vaporwave"})
	if !reflect.DeepEqual(bad, want) {
		t.Error("unknown direction and theme should fall back to defaults")
	}
}

func TestDirectionValid(t *testing.T) {
	if !DirectionLR.Valid() || !DirectionTB.Valid() {
		t.Error("LR and TB should be valid")
	}
	if Direction("").Valid() || Direction("RL").Valid() {
		t.Error("unknown directions should be invalid")
	}
}

func TestThemeTable(t *testing.T) {
	for _, theme := range Themes {
		if !theme.Valid() {
			t.Errorf("theme %s should be valid", theme)
		}
		size := NodeSize(theme)
		if size.Width <= 0 || size.Height <= 0 {
			t.Errorf("theme %s has degenerate footprint %v", theme, size)
		}
	}
	if Theme("neon").Valid() {
		t.Error("unknown theme should be invalid")
	}
	if NodeSize(Theme("neon")) != NodeSize(ThemeConstellation) {
		t.Error("unknown theme should get the constellation footprint")
	}
}

func TestBounds(t *testing.T) {
	if w, h := Bounds(nil, ThemeConstellation); w != 0 || h != 0 {
		t.Errorf("Bounds(nil) = %v, %v, want zeros", w, h)
	}

	size := NodeSize(ThemeTerminal)
	positions := map[string]tree.Position{
		"a": {X: 0, Y: 0},
		"b": {X: 300, Y: 120},
	}
	w, h := Bounds(positions, ThemeTerminal)
	if w != 300+size.Width {
		t.Errorf("width = %v, want %v", w, 300+size.Width)
	}
	if h != 120+size.Height {
		t.Errorf("height = %v, want %v", h, 120+size.Height)
	}
}
