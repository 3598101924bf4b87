package draftstore

import (
	"testing"

	"github.com/nasimstg/skilltree/pkg/builder"
	"github.com/nasimstg/skilltree/pkg/tree"
)

func TestSaveLoadDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	d := &builder.Draft{
		ID:   "draft-1",
		Meta: tree.Meta{TreeID: "go-backend", Title: "Go Backend"},
		Nodes: []tree.Node{
			{ID: "a", Label: "A", Zone: "z"},
		},
		Edges:       []tree.Edge{},
		CustomZones: map[string]string{"z": "#ff8800"},
	}

	if err := store.Save(d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Load("draft-1")
	if !ok {
		t.Fatal("Load: draft not found after save")
	}
	if got.Meta.Title != "Go Backend" || len(got.Nodes) != 1 {
		t.Errorf("loaded draft = %+v, want saved content", got)
	}
	if got.CustomZones["z"] != "#ff8800" {
		t.Errorf("custom zones not round-tripped: %v", got.CustomZones)
	}

	if err := store.Delete("draft-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.Load("draft-1"); ok {
		t.Error("draft still loadable after delete")
	}

	// Deleting twice must not error.
	if err := store.Delete("draft-1"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, ok := store.Load("nope"); ok {
		t.Error("expected Load of missing draft to report ok=false")
	}
}

func TestList(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	for _, id := range []string{"one", "two"} {
		d := &builder.Draft{ID: id, Meta: tree.Meta{Title: id}}
		if err := store.Save(d); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.ID] = true
	}
	if !seen["one"] || !seen["two"] {
		t.Errorf("entries = %+v, want both drafts listed", entries)
	}
}
