package tree

import (
	"slices"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Difficulty levels for a skill tree.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Resource types.
const (
	ResourceVideo       = "video"
	ResourceArticle     = "article"
	ResourceInteractive = "interactive"
	ResourceCourse      = "course"
	ResourceDocs        = "docs"
)

// Difficulties lists all valid difficulty values.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ResourceTypes lists all valid resource type values.
var ResourceTypes = []string{
	ResourceVideo, ResourceArticle, ResourceInteractive, ResourceCourse, ResourceDocs,
}

// =============================================================================
// Tree - Canonical Skill-Tree Schema
// =============================================================================

// Tree is the canonical serialization format for a skill tree.
// One JSON file per tree; the same schema is consumed by the viewer and
// produced by the builder's export path.
//
// The node list order carries no semantics. The edge list is the single
// source of truth for dependencies; each node's Requires field is a
// projection of its incoming edges and is kept consistent on export.
type Tree struct {
	TreeID          string `json:"treeId" bson:"treeId"`
	Title           string `json:"title" bson:"title"`
	Category        string `json:"category" bson:"category"`
	Difficulty      string `json:"difficulty" bson:"difficulty"`
	Description     string `json:"description" bson:"description"`
	Version         string `json:"version" bson:"version"`
	EstimatedMonths int    `json:"estimatedMonths" bson:"estimatedMonths"`
	TotalNodes      int    `json:"totalNodes" bson:"totalNodes"`
	Icon            string `json:"icon" bson:"icon"`
	Nodes           []Node `json:"nodes" bson:"nodes"`
	Edges           []Edge `json:"edges" bson:"edges"`
}

// Meta holds the scalar fields of a tree, without nodes and edges.
// The builder edits Meta separately from graph structure.
type Meta struct {
	TreeID          string `json:"treeId" bson:"treeId" validate:"required"`
	Title           string `json:"title" bson:"title" validate:"required"`
	Category        string `json:"category" bson:"category" validate:"required"`
	Difficulty      string `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium hard"`
	Description     string `json:"description" bson:"description" validate:"required"`
	Version         string `json:"version" bson:"version"`
	EstimatedMonths int    `json:"estimatedMonths" bson:"estimatedMonths" validate:"gt=0"`
	Icon            string `json:"icon" bson:"icon" validate:"required"`
}

// Meta extracts the scalar fields of the tree.
func (t *Tree) Meta() Meta {
	return Meta{
		TreeID:          t.TreeID,
		Title:           t.Title,
		Category:        t.Category,
		Difficulty:      t.Difficulty,
		Description:     t.Description,
		Version:         t.Version,
		EstimatedMonths: t.EstimatedMonths,
		Icon:            t.Icon,
	}
}

// Assemble builds a Tree from meta plus graph structure. TotalNodes is set
// from the node count and Requires is recomputed from the edge list, so the
// result always satisfies the export invariants.
func Assemble(meta Meta, nodes []Node, edges []Edge) Tree {
	nodes = slices.Clone(nodes)
	requires := RequiresFromEdges(edges)
	for i := range nodes {
		nodes[i].Requires = requires[nodes[i].ID]
	}
	return Tree{
		TreeID:          meta.TreeID,
		Title:           meta.Title,
		Category:        meta.Category,
		Difficulty:      meta.Difficulty,
		Description:     meta.Description,
		Version:         meta.Version,
		EstimatedMonths: meta.EstimatedMonths,
		TotalNodes:      len(nodes),
		Icon:            meta.Icon,
		Nodes:           nodes,
		Edges:           slices.Clone(edges),
	}
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (t *Tree) Node(id string) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Node - Learning Unit
// =============================================================================

// Node is a single learning unit in a skill tree.
//
// Zone is a free-text grouping label used only for visual color-coding;
// it never participates in dependency logic. Position is optional - absent
// positions are derivable from the layout engine.
type Node struct {
	ID          string     `json:"id" bson:"id"`
	Label       string     `json:"label" bson:"label"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string     `json:"icon,omitempty" bson:"icon,omitempty"`
	Zone        string     `json:"zone" bson:"zone"`
	Resources   []Resource `json:"resources" bson:"resources"`
	Position    *Position  `json:"position,omitempty" bson:"position,omitempty"`
	Requires    []string   `json:"requires" bson:"requires"`
}

// Resource is a single learning reference attached to a node.
type Resource struct {
	ID             string  `json:"id" bson:"id"`
	Title          string  `json:"title" bson:"title"`
	URL            string  `json:"url" bson:"url"`
	Type           string  `json:"type" bson:"type"`
	Author         string  `json:"author,omitempty" bson:"author,omitempty"`
	EstimatedHours float64 `json:"estimatedHours" bson:"estimatedHours"`
	IsFree         *bool   `json:"isFree,omitempty" bson:"isFree,omitempty"`
	Language       string  `json:"language,omitempty" bson:"language,omitempty"`
}

// Free reports whether the resource is free. Absent IsFree defaults to true.
func (r Resource) Free() bool {
	return r.IsFree == nil || *r.IsFree
}

// Edge is a directed prerequisite relationship: Source must be completed
// before Target becomes available.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Position is a 2D canvas coordinate (top-left corner of the node footprint).
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Requires Projection
// =============================================================================

// RequiresFromEdges derives each node's inbound dependency list from the
// edge list. The returned lists are sorted for deterministic output.
// Nodes with no incoming edges are absent from the map.
func RequiresFromEdges(edges []Edge) map[string][]string {
	requires := make(map[string][]string)
	for _, e := range edges {
		requires[e.Target] = append(requires[e.Target], e.Source)
	}
	for id := range requires {
		slices.Sort(requires[id])
	}
	return requires
}
