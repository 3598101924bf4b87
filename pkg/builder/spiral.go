package builder

import (
	"math"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Placement search constants. Slot pitch is the theme footprint plus a
// margin so newly placed nodes never visually touch. The ring bound keeps
// the search finite on a pathologically dense canvas; past it we fall back
// to a diagonal cascade, which always terminates because each step is a
// fresh coordinate.
const (
	slotMargin      = 24.0
	maxSpiralRings  = 12
	cascadeStep     = 32.0
	maxCascadeSteps = 256
)

// FindFreePosition returns a position for a new node near center that does
// not collide with any existing node. It walks an expanding square spiral
// of grid slots sized to the theme footprint, nearest ring first, and
// within a ring in a fixed clockwise order so the result is deterministic
// for a given graph. If every slot inside the ring bound is taken, it
// cascades diagonally down-right from center until a free spot appears.
func (b *Builder) FindFreePosition(center tree.Position) tree.Position {
	size := layout.NodeSize(b.theme)
	pitchX := size.Width + slotMargin
	pitchY := size.Height + slotMargin

	if b.free(center, size) {
		return center
	}

	for ring := 1; ring <= maxSpiralRings; ring++ {
		for _, slot := range ringSlots(ring) {
			pos := tree.Position{
				X: center.X + float64(slot.dx)*pitchX,
				Y: center.Y + float64(slot.dy)*pitchY,
			}
			if b.free(pos, size) {
				return pos
			}
		}
	}

	pos := center
	for i := 0; i < maxCascadeSteps; i++ {
		pos.X += cascadeStep
		pos.Y += cascadeStep
		if b.free(pos, size) {
			return pos
		}
	}
	return pos
}

type slot struct{ dx, dy int }

// ringSlots enumerates the grid offsets on the square ring at the given
// radius, starting directly right of center and proceeding clockwise.
func ringSlots(ring int) []slot {
	slots := make([]slot, 0, 8*ring)
	// right edge, top to bottom
	for dy := -ring; dy <= ring; dy++ {
		slots = append(slots, slot{ring, dy})
	}
	// bottom edge, right to left
	for dx := ring - 1; dx >= -ring; dx-- {
		slots = append(slots, slot{dx, ring})
	}
	// left edge, bottom to top
	for dy := ring - 1; dy >= -ring; dy-- {
		slots = append(slots, slot{-ring, dy})
	}
	// top edge, left to right
	for dx := -ring + 1; dx <= ring-1; dx++ {
		slots = append(slots, slot{dx, -ring})
	}
	return slots
}

// free reports whether a node of the given size centered at pos would stay
// clear of every placed node.
func (b *Builder) free(pos tree.Position, size layout.Size) bool {
	for _, n := range b.draft.Nodes {
		if n.Position == nil {
			continue
		}
		if math.Abs(n.Position.X-pos.X) < size.Width+slotMargin &&
			math.Abs(n.Position.Y-pos.Y) < size.Height+slotMargin {
			return false
		}
	}
	return true
}
