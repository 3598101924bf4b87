package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// Marshal converts a Tree to pretty-printed JSON bytes.
func Marshal(t Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Tree.
func Unmarshal(data []byte) (Tree, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a Tree as JSON to an io.Writer.
func Write(t Tree, w io.Writer) error {
	return writeTo(t, w)
}

// Read decodes a JSON tree from an io.Reader.
func Read(r io.Reader) (Tree, error) {
	return readFrom(r)
}

// WriteFile writes a Tree to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(t Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(t, f)
}

// ReadFile reads a JSON file and returns the decoded Tree.
func ReadFile(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(t Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Tree{}, fmt.Errorf("decode: %w", err)
	}
	// Requires is a projection of the edge list; repair it on load so
	// hand-authored files with stale lists behave like exported ones.
	requires := RequiresFromEdges(t.Edges)
	for i := range t.Nodes {
		t.Nodes[i].Requires = requires[t.Nodes[i].ID]
	}
	return t, nil
}
