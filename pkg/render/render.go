// Package render produces static images of skill trees. Trees are
// converted to Graphviz DOT with per-status node styling, rendered to SVG
// in-process via go-graphviz, and optionally converted to PNG or PDF by
// shelling out to rsvg-convert.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Options configure the DOT conversion.
type Options struct {
	// Direction is the flow direction; defaults to TB.
	Direction layout.Direction
	// Completed marks nodes rendered as done. Nil renders a fresh tree.
	Completed tree.Set
	// ShowZones appends the zone name under each node label.
	ShowZones bool
}

// Per-status node styling. Completed nodes read as filled-in progress,
// available nodes as the actionable frontier, locked nodes as greyed out.
var statusAttrs = map[tree.Status]string{
	tree.StatusCompleted: `style="rounded,filled", fillcolor="#2f9e44", fontcolor=white, color="#2b8a3e"`,
	tree.StatusAvailable: `style="rounded,filled,bold", fillcolor=white, fontcolor=black, color="#2f9e44"`,
	tree.StatusLocked:    `style="rounded,filled,dashed", fillcolor="#f1f3f5", fontcolor="#868e96", color="#adb5bd"`,
}

// ToDOT converts a tree to Graphviz DOT. Node fill and outline encode the
// status each node would have for the given completion set, and edges out
// of completed nodes are drawn solid while the rest stay light.
func ToDOT(t *tree.Tree, opts Options) string {
	rankdir := "TB"
	if opts.Direction == layout.DirectionLR {
		rankdir = "LR"
	}
	completed := opts.Completed
	if completed == nil {
		completed = tree.NewSet()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph skilltree {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fontsize=20, margin=\"0.25,0.15\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.35;\n")
	buf.WriteString("\n")

	for _, n := range t.Nodes {
		status := tree.Classify(n, completed)
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if opts.ShowZones && n.Zone != "" {
			label += "\n" + n.Zone
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID, label, statusAttrs[status])
	}

	buf.WriteString("\n")
	for _, e := range t.Edges {
		if completed.Has(e.Source) {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"#2f9e44\", penwidth=2];\n", e.Source, e.Target)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"#adb5bd\"];\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at
// the origin and width/height are explicit pixels. Graphviz emits point
// units and offset viewboxes that embed poorly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// FormatFromPath guesses the output format from a file extension.
// Unknown extensions default to SVG.
func FormatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "png"
	case strings.HasSuffix(path, ".pdf"):
		return "pdf"
	default:
		return "svg"
	}
}
