package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func writeTestTree(t *testing.T, valid bool) string {
	t.Helper()
	meta := tree.Meta{
		TreeID:          "cli-test",
		Title:           "CLI Test",
		Category:        "testing",
		Difficulty:      tree.DifficultyEasy,
		Description:     "x",
		EstimatedMonths: 1,
		Icon:            "star",
	}
	if !valid {
		meta.Title = ""
	}
	tr := tree.Assemble(meta, []tree.Node{
		{ID: "a", Label: "A", Zone: "z", Resources: []tree.Resource{
			{ID: "r", Title: "t", URL: "https://x.test", Type: tree.ResourceDocs},
		}},
		{ID: "b", Label: "B", Zone: "z", Resources: []tree.Resource{
			{ID: "r2", Title: "t", URL: "https://x.test", Type: tree.ResourceDocs},
		}},
	}, []tree.Edge{
		{ID: "edge-a-b", Source: "a", Target: "b"},
	})

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := tree.WriteFile(tr, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLayoutFlags(t *testing.T) {
	tests := []struct {
		direction string
		theme     string
		wantErr   bool
	}{
		{"TB", "constellation", false},
		{"LR", "world-map", false},
		{"LR", "terminal", false},
		{"UP", "constellation", true},
		{"TB", "vaporwave", true},
		{"", "constellation", true},
	}
	for _, tt := range tests {
		_, err := parseLayoutFlags(tt.direction, tt.theme)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLayoutFlags(%q, %q) err = %v, wantErr %v", tt.direction, tt.theme, err, tt.wantErr)
		}
	}
}

func TestRunValidate(t *testing.T) {
	c := testCLI()

	if err := c.runValidate(writeTestTree(t, true)); err != nil {
		t.Errorf("valid tree: %v", err)
	}
	if err := c.runValidate(writeTestTree(t, false)); err == nil {
		t.Error("expected error for invalid tree")
	}
	if err := c.runValidate("/nope/tree.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunLayoutWritesPositions(t *testing.T) {
	c := testCLI()
	input := writeTestTree(t, true)
	output := filepath.Join(t.TempDir(), "out.json")

	if err := c.runLayout(input, output, "LR", string(layout.ThemeCircuit)); err != nil {
		t.Fatalf("runLayout: %v", err)
	}

	got, err := tree.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, n := range got.Nodes {
		if n.Position == nil {
			t.Errorf("node %s has no position after layout", n.ID)
		}
	}

	// Input untouched when -o is given.
	src, err := tree.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range src.Nodes {
		if n.Position != nil {
			t.Errorf("input node %s gained a position", n.ID)
		}
	}
}

func TestRunLayoutRejectsBadFlags(t *testing.T) {
	c := testCLI()
	if err := c.runLayout(writeTestTree(t, true), "", "diagonal", "constellation"); err == nil {
		t.Error("expected error for bad direction")
	}
}

func TestDefaultUser(t *testing.T) {
	t.Setenv("SKILLTREE_USER", "mallory")
	if got := defaultUser(); got != "mallory" {
		t.Errorf("defaultUser = %q, want mallory", got)
	}

	t.Setenv("SKILLTREE_USER", "")
	t.Setenv("USER", "carol")
	if got := defaultUser(); got != "carol" {
		t.Errorf("defaultUser = %q, want carol", got)
	}
}

func TestRunProgressShowAndReset(t *testing.T) {
	c := testCLI()
	path := writeTestTree(t, true)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := c.runProgressShow(t.Context(), path, "alice"); err != nil {
		t.Errorf("runProgressShow: %v", err)
	}
}
