package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/cache"
	"github.com/nasimstg/skilltree/pkg/render"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// renderCommand creates the render command for producing tree images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		direction string
		user      string
		scale     float64
		showZones bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a skill tree to SVG, PNG, or PDF",
		Long: `Render a skill tree to a static image.

The output format follows the output file extension: .svg (default),
.png, or .pdf. PNG and PDF conversion require librsvg's rsvg-convert.

With --user, that user's local progress colors the image: completed
nodes are filled in, the available frontier is outlined, and locked
nodes are greyed out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, direction, user, scale, showZones, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "TB", "flow direction: TB (default), LR")
	cmd.Flags().StringVarP(&user, "user", "u", "", "color the image with this user's progress")
	cmd.Flags().Float64Var(&scale, "scale", 2.0, "PNG resolution scale")
	cmd.Flags().BoolVar(&showZones, "zones", false, "show zone names under node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, direction, user string, scale float64, showZones, noCache bool) error {
	opts, err := parseLayoutFlags(direction, "constellation")
	if err != nil {
		return err
	}

	t, err := tree.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	completed := tree.NewSet()
	if user != "" {
		store, err := newProgressStore()
		if err != nil {
			return err
		}
		defer store.Close()
		completed, err = store.Get(ctx, user, t.TreeID)
		if err != nil {
			return fmt.Errorf("load progress for %s: %w", user, err)
		}
	}

	if output == "" {
		output = input + ".svg"
	}

	dot := render.ToDOT(&t, render.Options{
		Direction: opts.Direction,
		Completed: completed,
		ShowZones: showZones,
	})

	format := render.FormatFromPath(output)
	c.Logger.Debug("rendering tree", "tree", t.TreeID, "format", format)

	artifacts, err := newCache(noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	// PNG output varies with scale, so the scale is part of the key.
	key := cache.RenderKey(dot, format)
	if format == "png" {
		key = cache.RenderKey(dot, fmt.Sprintf("png@%g", scale))
	}

	data, hit, err := artifacts.Get(ctx, key)
	if err != nil {
		c.Logger.Debug("cache read failed", "error", err)
	}
	if hit {
		c.Logger.Debug("cache hit", "key", key)
	} else {
		switch format {
		case "png":
			data, err = render.RenderPNG(ctx, dot, scale)
		case "pdf":
			data, err = render.RenderPDF(ctx, dot)
		default:
			data, err = render.RenderSVG(ctx, dot)
		}
		if err != nil {
			return fmt.Errorf("render tree: %w", err)
		}
		if err := artifacts.Set(ctx, key, data, renderCacheTTL); err != nil {
			c.Logger.Debug("cache write failed", "error", err)
		}
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("rendered %s (%d nodes) to %s", t.TreeID, len(t.Nodes), output)
	return nil
}
