// Package builder implements the mutable in-memory editor for skill-tree
// drafts: node and edge mutation, multi-select, the select/pan/connect
// tool-mode machine, auto-layout, free-slot placement for new nodes, and
// export to the canonical tree schema.
//
// The builder never validates during editing - a draft may be transiently
// invalid while the user works. Validation happens only at the export
// boundary, in pkg/validate. Every mutating operation marks the draft
// dirty and schedules a debounced best-effort save through the local
// draft store.
package builder

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Tool is the active canvas tool.
type Tool string

const (
	// ToolSelect picks and drags nodes.
	ToolSelect Tool = "select"
	// ToolPan moves the canvas; node interaction is disabled.
	ToolPan Tool = "pan"
	// ToolConnect draws edges between nodes.
	ToolConnect Tool = "connect"
)

// ViewMode switches the builder between editing and read-only preview.
type ViewMode string

const (
	// ModeBuild makes the graph editable.
	ModeBuild ViewMode = "build"
	// ModePreview renders the draft read-only through the viewer, as a
	// completion-free tree.
	ModePreview ViewMode = "preview"
)

// saveDebounce is the quiet period after the last mutation before the
// draft is persisted locally.
const saveDebounce = 750 * time.Millisecond

// Builder is the in-memory draft editor. It is mutated only from the
// single UI goroutine; the mutex guards the debounced save timer, which is
// the one piece touched from a timer goroutine.
type Builder struct {
	draft    *Draft
	theme    layout.Theme
	tool     Tool
	viewMode ViewMode
	selected []string // selection order preserved; no duplicates

	dirty  bool
	store  Store
	logger *log.Logger

	mu        sync.Mutex
	saveTimer *time.Timer
}

// Options configure a Builder.
type Options struct {
	// Store receives debounced draft saves. Nil disables autosave.
	Store Store
	// Theme selects the node footprint used for placement and auto-layout.
	Theme layout.Theme
	// Logger for best-effort save failures. Nil uses the default logger.
	Logger *log.Logger
}

// New creates a builder over an empty draft.
func New(opts Options) *Builder {
	return fromDraft(&Draft{
		ID:          uuid.NewString(),
		CustomZones: map[string]string{},
	}, opts)
}

// FromTree creates a builder hydrated from an existing tree, for editing a
// published tree into a new version.
func FromTree(t tree.Tree, opts Options) *Builder {
	d := &Draft{
		ID:          uuid.NewString(),
		Meta:        t.Meta(),
		Nodes:       slices.Clone(t.Nodes),
		Edges:       slices.Clone(t.Edges),
		CustomZones: map[string]string{},
	}
	return fromDraft(d, opts)
}

// FromDraft resumes editing a previously-saved draft.
func FromDraft(d *Draft, opts Options) *Builder {
	if d.CustomZones == nil {
		d.CustomZones = map[string]string{}
	}
	return fromDraft(d, opts)
}

func fromDraft(d *Draft, opts Options) *Builder {
	if !opts.Theme.Valid() {
		opts.Theme = layout.ThemeConstellation
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Builder{
		draft:    d,
		theme:    opts.Theme,
		tool:     ToolSelect,
		viewMode: ModeBuild,
		store:    opts.Store,
		logger:   opts.Logger,
	}
}

// Draft returns the draft under edit. The pointer is live; treat it as
// read-only outside this package.
func (b *Builder) Draft() *Draft { return b.draft }

// Dirty reports whether unsaved mutations exist.
func (b *Builder) Dirty() bool { return b.dirty }

// Theme returns the active theme.
func (b *Builder) Theme() layout.Theme { return b.theme }

// =============================================================================
// Tool / View Mode State Machine
// =============================================================================

// SetTool switches the active tool. Unknown tools are ignored.
func (b *Builder) SetTool(t Tool) {
	switch t {
	case ToolSelect, ToolPan, ToolConnect:
		b.tool = t
	}
}

// Tool returns the active tool.
func (b *Builder) Tool() Tool { return b.tool }

// CanConnect reports whether edge drawing is currently possible. Connecting
// is available in every non-pan tool (drag-from-handle), not only with the
// dedicated connect tool.
func (b *Builder) CanConnect() bool { return b.tool != ToolPan }

// SetViewMode switches between build and preview. Entering preview clears
// the active tool back to select so a pan drag can't leak into the
// read-only view.
func (b *Builder) SetViewMode(m ViewMode) {
	switch m {
	case ModeBuild, ModePreview:
		b.viewMode = m
		if m == ModePreview {
			b.tool = ToolSelect
		}
	}
}

// ViewMode returns the active view mode.
func (b *Builder) ViewMode() ViewMode { return b.viewMode }

// Editable reports whether graph mutation is currently allowed.
func (b *Builder) Editable() bool { return b.viewMode == ModeBuild }

// =============================================================================
// Selection
// =============================================================================

// SetSelected replaces the selection with a single node id, or clears it
// when id is empty.
func (b *Builder) SetSelected(id string) {
	if id == "" {
		b.selected = nil
		return
	}
	if _, ok := b.node(id); !ok {
		return
	}
	b.selected = []string{id}
}

// AddSelected adds a node to the multi-selection.
func (b *Builder) AddSelected(id string) {
	if _, ok := b.node(id); !ok {
		return
	}
	if !slices.Contains(b.selected, id) {
		b.selected = append(b.selected, id)
	}
}

// SelectAll selects every node.
func (b *Builder) SelectAll() {
	b.selected = make([]string, len(b.draft.Nodes))
	for i, n := range b.draft.Nodes {
		b.selected[i] = n.ID
	}
}

// Selected returns the selected node ids in selection order.
func (b *Builder) Selected() []string { return slices.Clone(b.selected) }

// =============================================================================
// Node Operations
// =============================================================================

// AddNode creates a node with placeholder content at the given position
// and selects it. It never fails; content completeness is the validator's
// concern at export time.
func (b *Builder) AddNode(pos tree.Position, zone string) tree.Node {
	if zone == "" {
		zone = "general"
	}
	n := tree.Node{
		ID:       uuid.NewString(),
		Label:    "New Node",
		Zone:     zone,
		Position: &tree.Position{X: pos.X, Y: pos.Y},
	}
	b.draft.Nodes = append(b.draft.Nodes, n)
	b.selected = []string{n.ID}
	b.markDirty()
	return n
}

// DeleteNode removes the node and every edge touching it, and drops it
// from the selection. Deleting an unknown id is a no-op.
func (b *Builder) DeleteNode(id string) {
	before := len(b.draft.Nodes)
	b.draft.Nodes = slices.DeleteFunc(b.draft.Nodes, func(n tree.Node) bool { return n.ID == id })
	if len(b.draft.Nodes) == before {
		return
	}
	b.draft.Edges = slices.DeleteFunc(b.draft.Edges, func(e tree.Edge) bool {
		return e.Source == id || e.Target == id
	})
	b.selected = slices.DeleteFunc(b.selected, func(s string) bool { return s == id })
	b.markDirty()
}

// DuplicateNode clones a node's content under a new id, places the clone
// at the nearest free slot, and selects it. Resources get fresh ids so the
// copies are independently editable. Returns the clone and true, or false
// for an unknown id.
func (b *Builder) DuplicateNode(id string) (tree.Node, bool) {
	src, ok := b.node(id)
	if !ok {
		return tree.Node{}, false
	}

	clone := src
	clone.ID = uuid.NewString()
	clone.Requires = nil
	clone.Resources = slices.Clone(src.Resources)
	for i := range clone.Resources {
		clone.Resources[i].ID = uuid.NewString()
	}

	center := tree.Position{}
	if src.Position != nil {
		center = *src.Position
	}
	pos := b.FindFreePosition(center)
	clone.Position = &pos

	b.draft.Nodes = append(b.draft.Nodes, clone)
	b.selected = []string{clone.ID}
	b.touchNodeIcon(clone.Icon)
	b.markDirty()
	return clone, true
}

// UpdateNode replaces a node's content by id, preserving its place in the
// node list. Returns false for an unknown id.
func (b *Builder) UpdateNode(n tree.Node) bool {
	for i := range b.draft.Nodes {
		if b.draft.Nodes[i].ID == n.ID {
			b.draft.Nodes[i] = n
			b.touchNodeIcon(n.Icon)
			b.markDirty()
			return true
		}
	}
	return false
}

// MoveNode sets a node's position. Returns false for an unknown id.
func (b *Builder) MoveNode(id string, pos tree.Position) bool {
	for i := range b.draft.Nodes {
		if b.draft.Nodes[i].ID == id {
			b.draft.Nodes[i].Position = &tree.Position{X: pos.X, Y: pos.Y}
			b.markDirty()
			return true
		}
	}
	return false
}

func (b *Builder) node(id string) (tree.Node, bool) {
	for _, n := range b.draft.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return tree.Node{}, false
}

func (b *Builder) touchNodeIcon(icon string) {
	b.draft.touchIcon(icon)
}

// =============================================================================
// Edge Operations
// =============================================================================

// EdgeID derives the deterministic edge id for a (source, target) pair, so
// re-adding the same logical edge is idempotent at the id level.
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge-%s-%s", source, target)
}

// Connect adds a directed edge from source to target and returns it.
// Connecting an already-connected pair returns the existing edge with
// ok=false - duplicate edges are never stored, resolving the schema's
// ambiguity in favor of explicit dedup. Self-edges are rejected the same
// way; a cycle through longer paths is allowed to exist transiently and
// is caught by validation at export.
func (b *Builder) Connect(source, target string) (tree.Edge, bool) {
	if source == target {
		return tree.Edge{}, false
	}
	if _, ok := b.node(source); !ok {
		return tree.Edge{}, false
	}
	if _, ok := b.node(target); !ok {
		return tree.Edge{}, false
	}
	for _, e := range b.draft.Edges {
		if e.Source == source && e.Target == target {
			return e, false
		}
	}

	e := tree.Edge{ID: EdgeID(source, target), Source: source, Target: target}
	b.draft.Edges = append(b.draft.Edges, e)
	b.markDirty()
	return e, true
}

// Disconnect removes the edge from source to target, if present.
func (b *Builder) Disconnect(source, target string) {
	before := len(b.draft.Edges)
	b.draft.Edges = slices.DeleteFunc(b.draft.Edges, func(e tree.Edge) bool {
		return e.Source == source && e.Target == target
	})
	if len(b.draft.Edges) != before {
		b.markDirty()
	}
}

// =============================================================================
// Layout
// =============================================================================

// ApplyAutoLayout invokes the layout engine with the current graph and
// theme and overwrites every node's position with the result. Edges,
// selection, and content are untouched - this is a pure geometry rewrite.
func (b *Builder) ApplyAutoLayout(direction layout.Direction) {
	positions := layout.Compute(b.draft.Nodes, b.draft.Edges, layout.Options{
		Direction: direction,
		Theme:     b.theme,
	})
	for i := range b.draft.Nodes {
		if pos, ok := positions[b.draft.Nodes[i].ID]; ok {
			b.draft.Nodes[i].Position = &pos
		}
	}
	b.markDirty()
}

// =============================================================================
// Zones
// =============================================================================

// SetZoneColor records a user-defined zone color.
func (b *Builder) SetZoneColor(zone, color string) {
	if zone == "" {
		return
	}
	b.draft.CustomZones[zone] = color
	b.markDirty()
}

// =============================================================================
// Export
// =============================================================================

// Export derives the canonical tree from the draft. Each node's requires
// list is recomputed from the edge list's incoming edges - the edge list
// is the single source of truth and requires is always a projection - and
// TotalNodes is set to the node count.
//
// Export does not validate; callers gate on pkg/validate before treating
// the result as a candidate tree.
func (b *Builder) Export() tree.Tree {
	return tree.Assemble(b.draft.Meta, b.draft.Nodes, b.draft.Edges)
}

// =============================================================================
// Dirty Tracking / Debounced Save
// =============================================================================

// markDirty flags the draft and (re)schedules the debounced local save.
func (b *Builder) markDirty() {
	b.dirty = true
	if b.store == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveTimer != nil {
		b.saveTimer.Stop()
	}
	b.saveTimer = time.AfterFunc(saveDebounce, b.saveNow)
}

// saveNow persists the draft best-effort. Failures are logged, never
// surfaced - losing an autosave must not interrupt editing.
func (b *Builder) saveNow() {
	if err := b.store.Save(b.draft); err != nil {
		b.logger.Warn("draft autosave failed", "draft", b.draft.ID, "err", err)
		return
	}
	b.dirty = false
}

// Flush persists the draft immediately, canceling any pending debounce.
// Used on quit so the last few keystrokes aren't lost to the timer.
func (b *Builder) Flush() {
	b.mu.Lock()
	if b.saveTimer != nil {
		b.saveTimer.Stop()
		b.saveTimer = nil
	}
	b.mu.Unlock()

	if b.store != nil {
		b.saveNow()
	}
}
