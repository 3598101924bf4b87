// Package validate implements the structural validator that gates a skill
// tree's export path.
//
// Validation is all-or-nothing: either the error list is empty and the tree
// is a well-formed DAG with complete content, or the tree is rejected
// wholesale. Every check runs - nothing short-circuits - so a contributor
// sees every problem at once. Validation never blocks editing; the builder
// tolerates transiently invalid drafts and only consults this package at
// the export/submit boundary.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nasimstg/skilltree/pkg/dag"
	skerrors "github.com/nasimstg/skilltree/pkg/errors"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Error names a field path and a human-readable message.
// Field paths follow the JSON schema, e.g. "nodes[2].resources[0].url".
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the full list of validation errors. An empty result means the
// tree is valid.
type Result []Error

// OK reports whether validation passed.
func (r Result) OK() bool { return len(r) == 0 }

// metaValidate checks struct tags on tree.Meta (required fields, enum
// membership, positive estimates). Shared instance per the validator docs -
// it caches struct metadata.
var metaValidate = validator.New(validator.WithRequiredStructEnabled())

// metaFieldNames maps Go field names back to their JSON schema names for
// error reporting.
var metaFieldNames = map[string]string{
	"TreeID":          "treeId",
	"Title":           "title",
	"Category":        "category",
	"Difficulty":      "difficulty",
	"Description":     "description",
	"EstimatedMonths": "estimatedMonths",
	"Icon":            "icon",
}

// Tree validates a fully-assembled tree.
func Tree(t tree.Tree) Result {
	return Validate(t.Meta(), t.Nodes, t.Edges)
}

// Validate checks metadata completeness, node and resource content, edge
// referential integrity, and acyclicity. All categories are evaluated
// independently.
func Validate(meta tree.Meta, nodes []tree.Node, edges []tree.Edge) Result {
	var errs Result
	errs = append(errs, checkMeta(meta)...)
	errs = append(errs, checkNodes(nodes)...)
	errs = append(errs, checkEdges(nodes, edges)...)
	errs = append(errs, checkCycles(nodes, edges)...)
	return errs
}

func checkMeta(meta tree.Meta) Result {
	var errs Result

	if err := metaValidate.Struct(meta); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				field := metaFieldNames[ve.Field()]
				if field == "" {
					field = ve.Field()
				}
				errs = append(errs, Error{Field: field, Message: metaMessage(ve)})
			}
		} else {
			errs = append(errs, Error{Field: "meta", Message: err.Error()})
		}
	}

	// The slug format is stricter than "required"; report it separately so
	// an empty treeId doesn't produce two messages for one problem.
	if meta.TreeID != "" {
		if err := skerrors.ValidateTreeID(meta.TreeID); err != nil {
			errs = append(errs, Error{Field: "treeId", Message: skerrors.UserMessage(err)})
		}
	}

	return errs
}

func metaMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func checkNodes(nodes []tree.Node) Result {
	var errs Result
	seen := make(map[string]bool, len(nodes))

	for i, n := range nodes {
		path := fmt.Sprintf("nodes[%d]", i)

		if n.ID == "" {
			errs = append(errs, Error{Field: path + ".id", Message: "is required"})
		} else if seen[n.ID] {
			errs = append(errs, Error{Field: path + ".id", Message: fmt.Sprintf("duplicate node id %q", n.ID)})
		}
		seen[n.ID] = true

		if n.Label == "" {
			errs = append(errs, Error{Field: path + ".label", Message: "is required"})
		}
		if n.Zone == "" {
			errs = append(errs, Error{Field: path + ".zone", Message: "is required"})
		}
		if len(n.Resources) == 0 {
			errs = append(errs, Error{Field: path + ".resources", Message: "must contain at least one resource"})
		}
		for j, r := range n.Resources {
			rpath := fmt.Sprintf("%s.resources[%d]", path, j)
			if r.Title == "" {
				errs = append(errs, Error{Field: rpath + ".title", Message: "is required"})
			}
			if err := skerrors.ValidateResourceURL(r.URL); err != nil {
				errs = append(errs, Error{Field: rpath + ".url", Message: skerrors.UserMessage(err)})
			}
		}
	}
	return errs
}

func checkEdges(nodes []tree.Node, edges []tree.Edge) Result {
	var errs Result
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	seen := make(map[[2]string]bool, len(edges))
	for i, e := range edges {
		path := fmt.Sprintf("edges[%d]", i)
		if !ids[e.Source] {
			errs = append(errs, Error{Field: path + ".source", Message: fmt.Sprintf("references unknown node %q", e.Source)})
		}
		if !ids[e.Target] {
			errs = append(errs, Error{Field: path + ".target", Message: fmt.Sprintf("references unknown node %q", e.Target)})
		}
		pair := [2]string{e.Source, e.Target}
		if seen[pair] {
			errs = append(errs, Error{Field: path, Message: fmt.Sprintf("duplicate edge %s → %s", e.Source, e.Target)})
		}
		seen[pair] = true
	}
	return errs
}

// checkCycles reports a single aggregate error when the edge set contains a
// directed cycle. Dangling edges are already reported by checkEdges and are
// skipped by the graph construction, so a cycle error here always refers to
// real nodes.
func checkCycles(nodes []tree.Node, edges []tree.Edge) Result {
	g := dag.FromTree(nodes, edges)
	if g.HasCycle() {
		return Result{{Field: "edges", Message: "graph contains a circular dependency"}}
	}
	return nil
}
