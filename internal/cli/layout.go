package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// layoutCommand creates the layout command for assigning node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		direction string
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute deterministic node positions for a skill tree",
		Long: `Compute deterministic node positions for a skill tree.

Nodes are ranked by dependency depth, ordered within each rank to reduce
edge crossings, and spaced using the selected theme's node footprint.
The same tree, direction, and theme always produce identical positions.

Positions are written back into each node's "position" field. By default
the input file is updated in place; use -o to write elsewhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], output, direction, theme)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: update input in place)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "TB", "flow direction: TB (default), LR")
	cmd.Flags().StringVarP(&theme, "theme", "t", string(layout.ThemeConstellation), "theme: world-map, constellation (default), circuit, terminal")

	return cmd
}

func (c *CLI) runLayout(input, output, direction, theme string) error {
	opts, err := parseLayoutFlags(direction, theme)
	if err != nil {
		return err
	}

	t, err := tree.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	c.Logger.Debug("computing layout", "tree", t.TreeID, "direction", opts.Direction, "theme", opts.Theme)
	positions := layout.Compute(t.Nodes, t.Edges, opts)
	for i := range t.Nodes {
		if pos, ok := positions[t.Nodes[i].ID]; ok {
			t.Nodes[i].Position = &pos
		}
	}

	if output == "" {
		output = input
	}
	if err := tree.WriteFile(t, output); err != nil {
		return fmt.Errorf("write tree %s: %w", output, err)
	}

	width, height := layout.Bounds(positions, opts.Theme)
	printSuccess("laid out %d nodes (%s, %s)", len(t.Nodes), opts.Direction, opts.Theme)
	printDetail("canvas %.0f x %.0f, written to %s", width, height, output)
	return nil
}

// parseLayoutFlags converts flag strings to layout options, rejecting
// unknown values with the accepted set in the message.
func parseLayoutFlags(direction, theme string) (layout.Options, error) {
	opts := layout.Options{
		Direction: layout.Direction(direction),
		Theme:     layout.Theme(theme),
	}
	if !opts.Direction.Valid() {
		return opts, fmt.Errorf("unknown direction %q, want TB or LR", direction)
	}
	if !opts.Theme.Valid() {
		return opts, fmt.Errorf("unknown theme %q, want one of %v", theme, layout.Themes)
	}
	return opts, nil
}
