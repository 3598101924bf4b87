// Package tree defines the canonical skill-tree schema and the node status
// classifier.
//
// A skill tree is a directed acyclic graph of learning nodes. The schema in
// this package is the unit of content for the whole system: the viewer
// consumes it read-only, the builder exports it, and the stores persist it
// one JSON document per tree.
//
// # Status
//
// Node status (locked/available/completed) is derived, never stored. Given
// a node and a completion [Set]:
//
//	status := tree.Classify(node, completed)
//
// # Serialization
//
// Read/Write helpers mirror the JSON file format bit for bit:
//
//	t, err := tree.ReadFile("golang-backend.json")
//	...
//	err = tree.WriteFile(t, "out.json")
//
// On decode, each node's Requires list is recomputed from the edge list so
// that the edge list stays the single source of truth for dependencies.
package tree
