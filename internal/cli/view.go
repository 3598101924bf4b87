package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/tree"
	"github.com/nasimstg/skilltree/pkg/viewer"
)

// viewCommand creates the view command for interactive tree exploration.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		user      string
		direction string
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "view [tree.json]",
		Short: "Explore a skill tree interactively",
		Long: `Explore a skill tree interactively in the terminal.

Navigate nodes with the arrow keys and toggle completion with enter or
space. Completing a node unlocks every node whose prerequisites are now
all met. Selecting a locked node highlights the full chain of unmet
prerequisites leading to it.

Completions are written to the local progress store as you go; failed
writes roll the change back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], user, direction, theme)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", defaultUser(), "user whose progress to load")
	cmd.Flags().StringVarP(&direction, "direction", "d", "TB", "flow direction: TB (default), LR")
	cmd.Flags().StringVarP(&theme, "theme", "t", string(layout.ThemeConstellation), "theme: world-map, constellation (default), circuit, terminal")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path, user, direction, theme string) error {
	opts, err := parseLayoutFlags(direction, theme)
	if err != nil {
		return err
	}

	t, err := tree.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", path, err)
	}

	store, err := newProgressStore()
	if err != nil {
		return err
	}
	defer store.Close()

	completed, err := store.Get(ctx, user, t.TreeID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	view := viewer.New(t, completed, viewer.Options{
		Theme:     opts.Theme,
		Direction: opts.Direction,
	})

	model := newViewModel(ctx, view, store, user, c)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// ViewModel - Interactive Tree Viewer
// =============================================================================

// animWindow is how long completing/unlocking markers stay visible.
const animWindow = 900 * time.Millisecond

// clearAnimsMsg expires transient animation markers.
type clearAnimsMsg struct{}

// persistedMsg reports the outcome of an async progress write.
type persistedMsg struct {
	err error
}

// ViewModel is the bubbletea model for the interactive viewer.
type ViewModel struct {
	ctx   context.Context
	view  *viewer.View
	store progress.Store
	user  string
	cli   *CLI

	order   []string // node ids in display order (layout rank order)
	cursor  int
	height  int
	offset  int
	lastErr error
}

func newViewModel(ctx context.Context, view *viewer.View, store progress.Store, user string, cli *CLI) *ViewModel {
	nodes, _ := view.Snapshot()
	order := make([]string, len(nodes))
	for i, n := range nodes {
		order[i] = n.ID
	}

	m := &ViewModel{
		ctx:    ctx,
		view:   view,
		store:  store,
		user:   user,
		cli:    cli,
		order:  order,
		height: 15,
	}
	if len(order) > 0 {
		view.Select(order[0])
	}
	return m
}

func (m *ViewModel) Init() tea.Cmd {
	return nil
}

func (m *ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
				m.view.Select(m.order[m.cursor])
			}
		case "down", "j":
			if m.cursor < len(m.order)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
				m.view.Select(m.order[m.cursor])
			}
		case "enter", " ":
			return m, m.toggle()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	case clearAnimsMsg:
		m.view.ClearAnimations()
	case persistedMsg:
		m.lastErr = msg.err
	}
	return m, nil
}

// toggle flips the selected node's completion optimistically and persists
// the change in the background.
func (m *ViewModel) toggle() tea.Cmd {
	if len(m.order) == 0 {
		return nil
	}
	id := m.order[m.cursor]

	var pending viewer.Pending
	if m.view.Status(id) == tree.StatusCompleted {
		pending = m.view.Uncomplete(id)
	} else {
		p, ok := m.view.Complete(id)
		if !ok {
			// Locked nodes don't complete; the highlight already explains why.
			return nil
		}
		pending = p
	}

	persist := func() tea.Msg {
		err := m.view.Persist(m.ctx, m.store, m.user, pending)
		if err != nil {
			m.cli.Logger.Warn("progress write failed", "node", id, "err", err)
		}
		return persistedMsg{err: err}
	}
	expire := tea.Tick(animWindow, func(time.Time) tea.Msg {
		return clearAnimsMsg{}
	})
	return tea.Batch(persist, expire)
}

func (m *ViewModel) View() string {
	nodes, _ := m.view.Snapshot()
	byID := make(map[string]viewer.RenderNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	t := m.view.Tree()
	proj := m.view.Projection(0)

	var b strings.Builder
	b.WriteString(StyleTitle.Render(t.Title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("level %d · %d XP · %d/%d nodes",
		proj.Level, proj.XP, m.view.Completed().Len(), len(nodes))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎/space toggle  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.order) {
		end = len(m.order)
	}
	for i := m.offset; i < end; i++ {
		n := byID[m.order[i]]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		label := statusStyle(n.Status).Render(n.Label)
		switch {
		case n.Dimmed:
			label = StyleDim.Render(n.Label)
		case n.HighlightRequired:
			label = StyleWarning.Render(n.Label)
		}

		marker := ""
		switch n.Anim {
		case viewer.AnimCompleting:
			marker = " " + StyleSuccess.Render("+xp")
		case viewer.AnimUnlocking:
			marker = " " + StyleWarning.Render("unlocked")
		}

		fmt.Fprintf(&b, "%s%s %s%s\n", cursor, statusIcon(n.Status), label, marker)
	}

	if required := m.view.RequiredNodeIDs(); len(required) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("requires: "))
		labels := make([]string, len(required))
		for i, id := range required {
			if n, ok := byID[id]; ok {
				labels[i] = n.Label
			} else {
				labels[i] = id
			}
		}
		b.WriteString(StyleWarning.Render(strings.Join(labels, ", ")))
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + StyleDim.Render("last save failed, change rolled back"))
		b.WriteString("\n")
	}

	return b.String()
}
