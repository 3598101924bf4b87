package render

import (
	"strings"
	"testing"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

func testTree() *tree.Tree {
	t := tree.Assemble(tree.Meta{
		TreeID:          "render-test",
		Title:           "Render Test",
		Category:        "testing",
		Difficulty:      tree.DifficultyEasy,
		Description:     "x",
		EstimatedMonths: 1,
		Icon:            "star",
	}, []tree.Node{
		{ID: "a", Label: "Basics", Zone: "foundations"},
		{ID: "b", Label: "Advanced", Zone: "depth"},
	}, []tree.Edge{
		{ID: "edge-a-b", Source: "a", Target: "b"},
	})
	return &t
}

func TestToDOTStatusStyling(t *testing.T) {
	tr := testTree()
	completed := tree.NewSet()
	completed.Add("a")

	dot := ToDOT(tr, Options{Completed: completed})

	if !strings.Contains(dot, "digraph skilltree {") {
		t.Fatal("missing digraph header")
	}
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("default rankdir should be TB")
	}
	// "a" is completed: green fill. "b" is available: bold white.
	if !strings.Contains(dot, `"a" [label="Basics", style="rounded,filled", fillcolor="#2f9e44"`) {
		t.Errorf("completed node styling missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" [label="Advanced", style="rounded,filled,bold"`) {
		t.Errorf("available node styling missing:\n%s", dot)
	}
	// Edge out of a completed node is emphasized.
	if !strings.Contains(dot, `"a" -> "b" [color="#2f9e44", penwidth=2];`) {
		t.Errorf("traveled edge styling missing:\n%s", dot)
	}
}

func TestToDOTLockedAndDirections(t *testing.T) {
	tr := testTree()

	dot := ToDOT(tr, Options{Direction: layout.DirectionLR})

	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("rankdir should follow direction option")
	}
	// With nothing completed, "b" has an unmet prerequisite.
	if !strings.Contains(dot, `"b" [label="Advanced", style="rounded,filled,dashed"`) {
		t.Errorf("locked node styling missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "b" [color="#adb5bd"];`) {
		t.Errorf("neutral edge styling missing:\n%s", dot)
	}
}

func TestToDOTZoneLabels(t *testing.T) {
	tr := testTree()
	dot := ToDOT(tr, Options{ShowZones: true})
	if !strings.Contains(dot, `label="Basics\nfoundations"`) {
		t.Errorf("zone label missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}
	if strings.Contains(out, "pt\"") {
		t.Errorf("point units survived: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><g></g></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("SVG without viewBox should pass through unchanged, got %s", got)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.svg", "svg"},
		{"out.png", "png"},
		{"out.pdf", "pdf"},
		{"out.jpeg", "svg"},
		{"out", "svg"},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
