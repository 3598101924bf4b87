package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/tree"
	"github.com/nasimstg/skilltree/pkg/validate"
)

// validateCommand creates the validate command for checking tree files.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [tree.json]",
		Short: "Validate a skill-tree file",
		Long: `Validate a skill-tree file against the schema rules.

All rule categories are checked in one pass: metadata completeness,
node content (labels, zones, resources with https URLs), edge endpoint
existence, duplicate edges, and dependency cycles. Every violation is
reported with its JSON field path, so a broken file surfaces all its
problems at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}
	return cmd
}

func (c *CLI) runValidate(path string) error {
	t, err := tree.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", path, err)
	}

	result := validate.Tree(t)
	if result.OK() {
		printSuccess("%s is valid (%d nodes, %d edges)", path, len(t.Nodes), len(t.Edges))
		return nil
	}

	printError("%s has %d problem(s)", path, len(result))
	for _, e := range result {
		printDetail("%s: %s", e.Field, e.Message)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(result))
}
