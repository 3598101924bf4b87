// Package viewer derives renderable state for a skill tree: per-node
// status and position, per-edge styling from the pairwise completion state
// of its endpoints, focus-mode highlighting of unmet prerequisite chains,
// and transient animation tags for newly completed or unlocked nodes.
//
// The derivation is pure - a [View] owns nothing but the current completed
// set, selection, and animation tags. The only side effects are the
// explicit persistence calls on [View.Persist], which implement optimistic
// update with rollback on failure.
package viewer

import (
	"context"
	"slices"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// EdgeStyle describes how an edge should be drawn, derived from the
// completion state of its endpoints.
type EdgeStyle string

const (
	// EdgeNeutral: neither endpoint completed.
	EdgeNeutral EdgeStyle = "neutral"
	// EdgeNext: source completed, target not - the learner's next step.
	EdgeNext EdgeStyle = "next"
	// EdgeTraveled: both endpoints completed; drawn with motion.
	EdgeTraveled EdgeStyle = "traveled"
	// EdgeRequired: lies on the highlighted prerequisite path in focus mode.
	EdgeRequired EdgeStyle = "required"
)

// Anim is a transient animation tag, cleared after the presentation
// layer's display window.
type Anim string

const (
	// AnimCompleting marks a node that just entered the completed set.
	AnimCompleting Anim = "completing"
	// AnimUnlocking marks a node whose prerequisites were just all met.
	AnimUnlocking Anim = "unlocking"
)

// RenderNode is a node annotated with everything the presentation layer
// needs to draw it.
type RenderNode struct {
	tree.Node
	Status            tree.Status
	Position          tree.Position
	Anim              Anim
	Selected          bool
	Dimmed            bool
	HighlightRequired bool
}

// RenderEdge is an edge annotated with derived styling.
type RenderEdge struct {
	tree.Edge
	Style    EdgeStyle
	Animated bool
	Dimmed   bool
}

// View holds the per-session viewer state for one tree: the completed set,
// the current selection, and transient animation tags. Tree content is
// treated as read-only; the completed set is the only mutable state
// layered on top.
//
// View is single-session and not safe for concurrent use.
type View struct {
	tree      tree.Tree
	completed tree.Set
	theme     layout.Theme
	direction layout.Direction
	selected  string
	anims     map[string]Anim
	positions map[string]tree.Position

	// Write sequencing: seq numbers every optimistic mutation; a pending
	// write's rollback only applies while it is still the latest.
	seq uint64
}

// Options configure a View.
type Options struct {
	Theme     layout.Theme
	Direction layout.Direction
}

// New creates a View over a tree and an initial completed set.
// The set is cloned; callers keep ownership of theirs.
func New(t tree.Tree, completed tree.Set, opts Options) *View {
	if completed == nil {
		completed = tree.NewSet()
	}
	if !opts.Theme.Valid() {
		opts.Theme = layout.ThemeConstellation
	}
	if !opts.Direction.Valid() {
		opts.Direction = layout.DirectionTB
	}
	v := &View{
		tree:      t,
		completed: completed.Clone(),
		theme:     opts.Theme,
		direction: opts.Direction,
		anims:     make(map[string]Anim),
	}
	v.relayout()
	return v
}

func (v *View) relayout() {
	v.positions = layout.Compute(v.tree.Nodes, v.tree.Edges, layout.Options{
		Direction: v.direction,
		Theme:     v.theme,
	})
}

// Tree returns the tree under view.
func (v *View) Tree() tree.Tree { return v.tree }

// Completed returns a copy of the current completed set.
func (v *View) Completed() tree.Set { return v.completed.Clone() }

// Theme returns the active theme.
func (v *View) Theme() layout.Theme { return v.theme }

// SetDirection switches the layout direction and recomputes positions.
func (v *View) SetDirection(d layout.Direction) {
	if !d.Valid() || d == v.direction {
		return
	}
	v.direction = d
	v.relayout()
}

// SetTheme switches the visual theme and recomputes positions for the new
// node footprint.
func (v *View) SetTheme(t layout.Theme) {
	if !t.Valid() || t == v.theme {
		return
	}
	v.theme = t
	v.relayout()
}

// Select sets the selected node. An empty id clears the selection; an
// unknown id is ignored.
func (v *View) Select(id string) {
	if id != "" {
		if _, ok := v.tree.Node(id); !ok {
			return
		}
	}
	v.selected = id
}

// Selected returns the currently selected node id, or "".
func (v *View) Selected() string { return v.selected }

// Status classifies a node by id against the current completed set.
// Unknown ids report locked.
func (v *View) Status(id string) tree.Status {
	n, ok := v.tree.Node(id)
	if !ok {
		return tree.StatusLocked
	}
	return tree.Classify(n, v.completed)
}

// Projection returns the derived level/XP state for the current set.
func (v *View) Projection(streakDays int) progress.Projection {
	return progress.Project(v.completed.Len(), streakDays)
}

// ClearAnimations drops all transient animation tags. The presentation
// layer calls this once its display window elapses.
func (v *View) ClearAnimations() {
	clear(v.anims)
}

// =============================================================================
// Snapshot Derivation
// =============================================================================

// Snapshot derives the renderable node and edge lists for the current
// state. Nodes appear in tree order; positions come from the node's own
// stored position when present, otherwise from the layout engine.
func (v *View) Snapshot() ([]RenderNode, []RenderEdge) {
	focus := v.focusClosure()
	inFocus := focus != nil

	nodes := make([]RenderNode, len(v.tree.Nodes))
	for i, n := range v.tree.Nodes {
		pos := v.positions[n.ID]
		if n.Position != nil {
			pos = *n.Position
		}
		rn := RenderNode{
			Node:     n,
			Status:   tree.Classify(n, v.completed),
			Position: pos,
			Anim:     v.anims[n.ID],
			Selected: n.ID == v.selected,
		}
		if inFocus {
			if focus.Has(n.ID) {
				rn.HighlightRequired = n.ID != v.selected
			} else {
				rn.Dimmed = true
			}
		}
		nodes[i] = rn
	}

	edges := make([]RenderEdge, len(v.tree.Edges))
	for i, e := range v.tree.Edges {
		re := RenderEdge{Edge: e, Style: v.edgeStyle(e)}
		re.Animated = re.Style == EdgeTraveled
		if inFocus {
			// An edge lies on the required path when it feeds a node in
			// the unmet-ancestor closure (or the selected node itself).
			if focus.Has(e.Target) {
				re.Style = EdgeRequired
				re.Animated = false
			} else {
				re.Dimmed = true
			}
		}
		edges[i] = re
	}

	return nodes, edges
}

// edgeStyle derives styling from the pairwise completion state of the
// edge's endpoints.
func (v *View) edgeStyle(e tree.Edge) EdgeStyle {
	srcDone := v.completed.Has(e.Source)
	dstDone := v.completed.Has(e.Target)
	switch {
	case srcDone && dstDone:
		return EdgeTraveled
	case srcDone:
		return EdgeNext
	default:
		return EdgeNeutral
	}
}

// focusClosure returns the focus-mode participant set when the selection
// is a locked node: the selected node plus the transitive closure of its
// unmet ancestors, stopping expansion at completed nodes. Returns nil when
// focus mode is inactive.
func (v *View) focusClosure() tree.Set {
	if v.selected == "" {
		return nil
	}
	sel, ok := v.tree.Node(v.selected)
	if !ok || tree.Classify(sel, v.completed) != tree.StatusLocked {
		return nil
	}

	byID := make(map[string]tree.Node, len(v.tree.Nodes))
	for _, n := range v.tree.Nodes {
		byID[n.ID] = n
	}

	closure := tree.NewSet(v.selected)
	queue := slices.Clone(sel.Requires)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if closure.Has(id) || v.completed.Has(id) {
			continue
		}
		closure.Add(id)
		if n, ok := byID[id]; ok {
			queue = append(queue, n.Requires...)
		}
	}
	return closure
}

// RequiredNodeIDs returns the unmet-ancestor ids highlighted by focus
// mode, excluding the selected node itself, in sorted order. Returns nil
// when focus mode is inactive.
func (v *View) RequiredNodeIDs() []string {
	focus := v.focusClosure()
	if focus == nil {
		return nil
	}
	focus.Remove(v.selected)
	return focus.IDs()
}

// =============================================================================
// Mutation - Optimistic Completion
// =============================================================================

// Pending is the deferred half of an optimistic mutation: the in-memory
// set is already updated, and the caller resolves the persistence outcome
// by calling Confirm or Rollback exactly once.
type Pending struct {
	view  *View
	seq   uint64
	prior tree.Set
	ids   []string
}

// IDs returns the full completed-id list to persist, sorted.
func (p Pending) IDs() []string { return slices.Clone(p.ids) }

// Confirm marks the write as durable. No state changes.
func (p Pending) Confirm() {}

// Rollback restores the set captured before the mutation - but only while
// this mutation is still the latest. If a newer completion or reversal has
// been applied since, the stale rollback is a no-op: the newer write's own
// outcome governs, which gives rapid toggle sequences last-writer-wins
// semantics.
func (p Pending) Rollback() {
	if p.view == nil || p.view.seq != p.seq {
		return
	}
	p.view.completed = p.prior
	clear(p.view.anims)
}

// Complete marks a node completed, optimistically and in memory only.
//
// Precondition: the node's status must be available. The UI never offers
// completion of a locked node, so a violated precondition is a silent
// no-op (ok=false), not an error. Newly-completed and newly-unlocked
// nodes get animation tags.
func (v *View) Complete(id string) (Pending, bool) {
	n, ok := v.tree.Node(id)
	if !ok || tree.Classify(n, v.completed) != tree.StatusAvailable {
		return Pending{}, false
	}
	return v.apply(func(s tree.Set) { s.Add(id) }, id), true
}

// Uncomplete removes a node from the completed set. Unlike Complete there
// is no precondition - a completed node can always be reverted. Removing
// an id that is not present still returns a Pending for a full-list
// upsert, keeping persistence symmetric.
func (v *View) Uncomplete(id string) Pending {
	return v.apply(func(s tree.Set) { s.Remove(id) }, "")
}

func (v *View) apply(mutate func(tree.Set), completedID string) Pending {
	prior := v.completed.Clone()
	next := v.completed.Clone()
	mutate(next)

	v.completed = next
	v.seq++
	v.retag(prior, completedID)

	return Pending{
		view:  v,
		seq:   v.seq,
		prior: prior,
		ids:   next.IDs(),
	}
}

// retag recomputes animation tags as a set-difference between the previous
// and current completed sets over one frame: newly-present ids tag
// completing, nodes whose requirements just became fully met tag
// unlocking.
func (v *View) retag(prior tree.Set, completedID string) {
	clear(v.anims)
	if completedID != "" && !prior.Has(completedID) {
		v.anims[completedID] = AnimCompleting
	}
	for _, n := range v.tree.Nodes {
		if v.completed.Has(n.ID) || len(n.Requires) == 0 {
			continue
		}
		if allIn(n.Requires, v.completed) && !allIn(n.Requires, prior) {
			v.anims[n.ID] = AnimUnlocking
		}
	}
}

func allIn(ids []string, s tree.Set) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Persist drives a pending mutation through a progress store: upsert the
// full id list, confirm on success, roll back on failure. The caller
// decides the execution context - the TUI runs it from an async command so
// the optimistic update never blocks on the network.
func (v *View) Persist(ctx context.Context, store progress.Store, user string, p Pending) error {
	if store == nil {
		p.Confirm()
		return nil
	}
	if err := store.Upsert(ctx, user, v.tree.TreeID, p.ids); err != nil {
		p.Rollback()
		return err
	}
	p.Confirm()
	return nil
}
