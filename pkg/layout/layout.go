// Package layout implements the deterministic layered layout engine for
// skill trees.
//
// The algorithm is Sugiyama-style: rank assignment by longest path,
// in-rank ordering by barycenter sweeps, then coordinate assignment using
// per-theme node footprints and per-direction spacing. Every step breaks
// ties by node ID, so the same graph, direction, and theme always produce
// bit-identical positions - re-running layout after a non-structural edit
// never reshuffles unrelated nodes. Determinism, not raw layout quality,
// is the contract.
//
// The engine is total: isolated nodes, single-node graphs, and empty
// graphs all lay out fine, and a transiently cyclic builder graph is
// handled permissively by ignoring back-edges during ranking.
package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/nasimstg/skilltree/pkg/dag"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Direction is the flow direction of the layered layout.
type Direction string

const (
	// DirectionLR lays ranks out left to right.
	DirectionLR Direction = "LR"
	// DirectionTB lays ranks out top to bottom.
	DirectionTB Direction = "TB"
)

// Valid reports whether the direction is one of LR or TB.
func (d Direction) Valid() bool {
	return d == DirectionLR || d == DirectionTB
}

// Spacing constants in canvas pixels. Node aspect ratio differs by flow
// direction, so TB uses wider inter-node gaps and LR wider inter-rank gaps.
const (
	nodeGapLR = 40.0
	nodeGapTB = 80.0
	rankGapLR = 140.0
	rankGapTB = 90.0

	barycenterSweeps = 4
)

// Options parameterize a layout computation.
type Options struct {
	Direction Direction
	Theme     Theme
}

func (o *Options) setDefaults() {
	if !o.Direction.Valid() {
		o.Direction = DirectionTB
	}
	if !o.Theme.Valid() {
		o.Theme = ThemeConstellation
	}
}

// Compute assigns a top-left corner position to every node.
//
// Every node in the input receives exactly one position in the output map,
// including isolated nodes. The result depends only on (nodes' IDs, edges,
// direction, theme) - node order in the input slice is irrelevant.
func Compute(nodes []tree.Node, edges []tree.Edge, opts Options) map[string]tree.Position {
	opts.setDefaults()

	positions := make(map[string]tree.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	g := dag.FromTree(nodes, edges)
	// A cycle would trap its members at rank 0 and stall the sweep order;
	// drop back-edges and lay the rest out as if forward.
	g.BreakCycles()

	ranks := g.Layers()
	order := orderRanks(g, ranks)

	size := NodeSize(opts.Theme)
	nodeGap, rankGap := nodeGapTB, rankGapTB
	if opts.Direction == DirectionLR {
		nodeGap, rankGap = nodeGapLR, rankGapLR
	}

	// Footprint along each axis depends on direction: ranks advance along
	// the flow axis, siblings along the cross axis.
	flowExtent, crossExtent := size.Height, size.Width
	if opts.Direction == DirectionLR {
		flowExtent, crossExtent = size.Width, size.Height
	}

	// Center each rank around the cross-axis origin so short ranks sit in
	// the middle of wide ones.
	maxWidth := 0.0
	for _, ids := range order {
		if w := rankSpan(len(ids), crossExtent, nodeGap); w > maxWidth {
			maxWidth = w
		}
	}

	rankIDs := slices.Sorted(maps.Keys(order))
	for _, rank := range rankIDs {
		ids := order[rank]
		span := rankSpan(len(ids), crossExtent, nodeGap)
		crossStart := (maxWidth - span) / 2
		flow := float64(rank) * (flowExtent + rankGap)

		for i, id := range ids {
			cross := crossStart + float64(i)*(crossExtent+nodeGap)
			if opts.Direction == DirectionLR {
				positions[id] = tree.Position{X: flow, Y: cross}
			} else {
				positions[id] = tree.Position{X: cross, Y: flow}
			}
		}
	}

	return positions
}

// rankSpan returns the cross-axis extent of a rank with n nodes.
func rankSpan(n int, extent, gap float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*extent + float64(n-1)*gap
}

// orderRanks determines the left-to-right sequence of nodes within each
// rank. The initial order is sorted by ID; a fixed number of alternating
// downward/upward barycenter sweeps then reduces crossings. Ties break by
// current position and then ID, keeping the result deterministic.
func orderRanks(g *dag.Graph, ranks map[string]int) map[int][]string {
	order := make(map[int][]string)
	for _, id := range g.Nodes() {
		r := ranks[id]
		order[r] = append(order[r], id)
	}
	for r := range order {
		slices.Sort(order[r])
	}

	rankIDs := slices.Sorted(maps.Keys(order))
	if len(rankIDs) < 2 {
		return order
	}

	for sweep := 0; sweep < barycenterSweeps; sweep++ {
		// Downward: order each rank by the mean position of its parents.
		for i := 1; i < len(rankIDs); i++ {
			sortByBarycenter(order[rankIDs[i]], dag.PosMap(order[rankIDs[i-1]]), g.Parents)
		}
		// Upward: order each rank by the mean position of its children.
		for i := len(rankIDs) - 2; i >= 0; i-- {
			sortByBarycenter(order[rankIDs[i]], dag.PosMap(order[rankIDs[i+1]]), g.Children)
		}
	}

	return order
}

// sortByBarycenter stably reorders ids by the mean adjacent-rank position
// of their neighbors. Nodes with no neighbors in the adjacent rank keep
// their current slot as the sort key, so isolated nodes don't drift.
func sortByBarycenter(ids []string, adjPos map[string]int, neighbors func(string) []string) {
	current := dag.PosMap(ids)
	keys := make(map[string]float64, len(ids))
	for _, id := range ids {
		sum, count := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			keys[id] = float64(current[id])
		} else {
			keys[id] = sum / float64(count)
		}
	}

	slices.SortStableFunc(ids, func(a, b string) int {
		switch {
		case keys[a] < keys[b]:
			return -1
		case keys[a] > keys[b]:
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}

// Bounds returns the width and height of the canvas occupied by positions
// under the given theme, including the node footprints. Useful for SVG
// viewports and TUI scroll limits. Returns zeros for an empty map.
func Bounds(positions map[string]tree.Position, theme Theme) (width, height float64) {
	if len(positions) == 0 {
		return 0, 0
	}
	size := NodeSize(theme)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range positions {
		maxX = math.Max(maxX, p.X+size.Width)
		maxY = math.Max(maxY, p.Y+size.Height)
	}
	return maxX, maxY
}
