package layout

// Theme is one of the four visual renderings of a skill tree. A theme only
// selects a node footprint for layout and presentation hints downstream;
// it never changes graph semantics.
type Theme string

const (
	// ThemeWorldMap renders nodes as large diamond/hex territory markers.
	ThemeWorldMap Theme = "world-map"
	// ThemeConstellation renders nodes as medium star clusters.
	ThemeConstellation Theme = "constellation"
	// ThemeCircuit renders nodes as chip-like rectangles.
	ThemeCircuit Theme = "circuit"
	// ThemeTerminal renders compact monospace cells.
	ThemeTerminal Theme = "terminal"
)

// Themes lists all valid themes.
var Themes = []Theme{ThemeWorldMap, ThemeConstellation, ThemeCircuit, ThemeTerminal}

// Valid reports whether the theme is one of the four known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeWorldMap, ThemeConstellation, ThemeCircuit, ThemeTerminal:
		return true
	}
	return false
}

// Size is a node footprint in canvas pixels.
type Size struct {
	Width  float64
	Height float64
}

// footprints is the per-theme node size table. World-map nodes are the
// largest and need the most clearance; terminal nodes are the smallest.
var footprints = map[Theme]Size{
	ThemeWorldMap:      {Width: 220, Height: 140},
	ThemeConstellation: {Width: 180, Height: 100},
	ThemeCircuit:       {Width: 170, Height: 90},
	ThemeTerminal:      {Width: 150, Height: 60},
}

// NodeSize returns the footprint for the theme.
// Unknown themes get the constellation footprint so layout stays total.
func NodeSize(t Theme) Size {
	if s, ok := footprints[t]; ok {
		return s
	}
	return footprints[ThemeConstellation]
}
