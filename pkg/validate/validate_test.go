package validate

import (
	"strings"
	"testing"

	"github.com/nasimstg/skilltree/pkg/tree"
)

func validMeta() tree.Meta {
	return tree.Meta{
		TreeID:          "web-development",
		Title:           "Web Development",
		Category:        "programming",
		Difficulty:      tree.DifficultyMedium,
		Description:     "From markup to deployment.",
		EstimatedMonths: 6,
		Icon:            "globe",
	}
}

func validNode(id string, requires ...string) tree.Node {
	return tree.Node{
		ID:    id,
		Label: strings.ToUpper(id),
		Zone:  "general",
		Resources: []tree.Resource{
			{ID: id + "-r1", Title: "Intro", URL: "https://example.com/" + id, Type: tree.ResourceArticle},
		},
		Requires: requires,
	}
}

func edge(source, target string) tree.Edge {
	return tree.Edge{ID: "edge-" + source + "-" + target, Source: source, Target: target}
}

// hasError reports whether the result contains an error for the field.
func hasError(r Result, field string) bool {
	for _, e := range r {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidTree(t *testing.T) {
	result := Validate(validMeta(),
		[]tree.Node{validNode("html"), validNode("css", "html")},
		[]tree.Edge{edge("html", "css")},
	)
	if !result.OK() {
		t.Errorf("valid tree should pass, got %v", result)
	}
}

func TestMetaErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*tree.Meta)
		field  string
	}{
		{"missing treeId", func(m *tree.Meta) { m.TreeID = "" }, "treeId"},
		{"uppercase treeId", func(m *tree.Meta) { m.TreeID = "WebDev" }, "treeId"},
		{"trailing dash treeId", func(m *tree.Meta) { m.TreeID = "web-" }, "treeId"},
		{"missing title", func(m *tree.Meta) { m.Title = "" }, "title"},
		{"missing category", func(m *tree.Meta) { m.Category = "" }, "category"},
		{"bad difficulty", func(m *tree.Meta) { m.Difficulty = "brutal" }, "difficulty"},
		{"missing description", func(m *tree.Meta) { m.Description = "" }, "description"},
		{"zero months", func(m *tree.Meta) { m.EstimatedMonths = 0 }, "estimatedMonths"},
		{"negative months", func(m *tree.Meta) { m.EstimatedMonths = -2 }, "estimatedMonths"},
		{"missing icon", func(m *tree.Meta) { m.Icon = "" }, "icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := validMeta()
			tt.mutate(&meta)
			result := Validate(meta, []tree.Node{validNode("a")}, nil)
			if !hasError(result, tt.field) {
				t.Errorf("expected error on %q, got %v", tt.field, result)
			}
		})
	}
}

func TestEmptyTreeIDReportsOnce(t *testing.T) {
	meta := validMeta()
	meta.TreeID = ""
	result := Validate(meta, []tree.Node{validNode("a")}, nil)
	count := 0
	for _, e := range result {
		if e.Field == "treeId" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("empty treeId reported %d times, want 1: %v", count, result)
	}
}

func TestNodeErrors(t *testing.T) {
	nodes := []tree.Node{
		{ID: "", Label: "", Zone: ""},    // everything missing
		validNode("a"),
		validNode("a"),                   // duplicate id
		{ID: "b", Label: "B", Zone: "z"}, // no resources
		{
			ID: "c", Label: "C", Zone: "z",
			Resources: []tree.Resource{{Title: "", URL: "http://insecure.example.com"}},
		},
	}
	result := Validate(validMeta(), nodes, nil)

	for _, field := range []string{
		"nodes[0].id",
		"nodes[0].label",
		"nodes[0].zone",
		"nodes[0].resources",
		"nodes[2].id",
		"nodes[3].resources",
		"nodes[4].resources[0].title",
		"nodes[4].resources[0].url",
	} {
		if !hasError(result, field) {
			t.Errorf("expected error on %q, got %v", field, result)
		}
	}
}

func TestEdgeErrors(t *testing.T) {
	nodes := []tree.Node{validNode("a"), validNode("b")}
	edges := []tree.Edge{
		edge("a", "b"),
		edge("a", "b"), // duplicate pair
		edge("ghost", "b"),
		edge("a", "phantom"),
	}
	result := Validate(validMeta(), nodes, edges)

	for _, field := range []string{"edges[1]", "edges[2].source", "edges[3].target"} {
		if !hasError(result, field) {
			t.Errorf("expected error on %q, got %v", field, result)
		}
	}
}

func TestCycleError(t *testing.T) {
	nodes := []tree.Node{validNode("a"), validNode("b")}
	edges := []tree.Edge{edge("a", "b"), edge("b", "a")}
	result := Validate(validMeta(), nodes, edges)
	if !hasError(result, "edges") {
		t.Errorf("expected aggregate cycle error on edges, got %v", result)
	}
}

// All categories are evaluated in one pass; a broken meta must not hide a
// broken graph.
func TestAllCategoriesReported(t *testing.T) {
	meta := validMeta()
	meta.Title = ""
	nodes := []tree.Node{validNode("a"), validNode("b")}
	edges := []tree.Edge{edge("a", "b"), edge("b", "a")}

	result := Validate(meta, nodes, edges)
	if !hasError(result, "title") || !hasError(result, "edges") {
		t.Errorf("expected both meta and cycle errors, got %v", result)
	}
}

func TestTreeWrapper(t *testing.T) {
	tr := tree.Assemble(validMeta(),
		[]tree.Node{validNode("a"), validNode("b")},
		[]tree.Edge{edge("a", "b")},
	)
	if result := Tree(tr); !result.OK() {
		t.Errorf("assembled valid tree should pass, got %v", result)
	}
}

func TestErrorString(t *testing.T) {
	e := Error{Field: "nodes[0].id", Message: "is required"}
	if got := e.Error(); got != "nodes[0].id: is required" {
		t.Errorf("Error() = %q", got)
	}
}
