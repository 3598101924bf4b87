package builder

import (
	"slices"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// Draft is an in-progress, possibly-invalid skill tree under edit. It
// carries the tree's scalar fields, positioned nodes, edges, and
// builder-only auxiliary state that never reaches the exported schema.
//
// A draft becomes a candidate tree only after passing validation; until
// then every builder operation may leave it transiently invalid (a node
// with no resources, a dangling edge mid-delete) by design.
type Draft struct {
	ID          string            `json:"id"`
	Meta        tree.Meta         `json:"meta"`
	Nodes       []tree.Node       `json:"nodes"`
	Edges       []tree.Edge       `json:"edges"`
	CustomZones map[string]string `json:"customZones,omitempty"` // zone name -> color
	RecentIcons []string          `json:"recentIcons,omitempty"` // MRU, newest first
}

// maxRecentIcons caps the MRU icon list.
const maxRecentIcons = 12

// touchIcon moves an icon to the front of the MRU list.
func (d *Draft) touchIcon(icon string) {
	if icon == "" {
		return
	}
	d.RecentIcons = slices.DeleteFunc(d.RecentIcons, func(s string) bool { return s == icon })
	d.RecentIcons = append([]string{icon}, d.RecentIcons...)
	if len(d.RecentIcons) > maxRecentIcons {
		d.RecentIcons = d.RecentIcons[:maxRecentIcons]
	}
}

// Store is the local-draft persistence port the builder saves through.
// Implementations are best-effort: the builder logs failures and moves on,
// never surfacing them to the user.
type Store interface {
	// Save persists a draft under its ID.
	Save(d *Draft) error
	// Load returns the draft and true, or nil and false if absent.
	Load(draftID string) (*Draft, bool)
	// Delete removes a stored draft. Deleting an absent draft is a no-op.
	Delete(draftID string) error
}
