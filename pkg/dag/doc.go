// Package dag provides the directed-graph core shared by the validator,
// the layout engine, and the builder.
//
// A [Graph] holds pure structure - node IDs and directed edges - with
// adjacency indexes for O(1) parent/child lookups. The algorithms on top:
//
//   - [Graph.BackEdges] / [Graph.HasCycle]: three-color depth-first cycle
//     detection with an explicit stack
//   - [Graph.BreakCycles]: permissive back-edge removal for layout of
//     transiently-invalid builder graphs
//   - [Graph.Layers]: longest-path rank assignment (Kahn's algorithm)
//
// Build a graph from tree data with [FromTree], which tolerates dangling
// edge references by skipping them - the builder's live editing path may
// briefly hold edges whose endpoint was just deleted.
package dag
