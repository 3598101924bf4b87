package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// newProgressStore opens the local progress store, honoring XDG_CONFIG_HOME.
func newProgressStore() (*progress.FileStore, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return progress.NewFileStore(filepath.Join(configHome, appName, "progress"))
	}
	return progress.NewFileStore("")
}

// progressCommand creates the progress command group.
func (c *CLI) progressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect and manage local learning progress",
	}
	cmd.AddCommand(c.progressShowCommand())
	cmd.AddCommand(c.progressResetCommand())
	return cmd
}

func (c *CLI) progressShowCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "show [tree.json]",
		Short: "Show completion, level, and XP for a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProgressShow(cmd.Context(), args[0], user)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", defaultUser(), "user whose progress to show")
	return cmd
}

func (c *CLI) runProgressShow(ctx context.Context, path, user string) error {
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

	proj := progress.Project(completed.Len(), 0)

	fmt.Println(StyleTitle.Render(t.Title))
	printDetail("%s, level %d, %d XP (%d/%d into this level)",
		user, proj.Level, proj.XP, proj.LevelXP, proj.NextLevelXP)
	fmt.Println()

	var done, avail, locked int
	for _, n := range t.Nodes {
		status := tree.Classify(n, completed)
		switch status {
		case tree.StatusCompleted:
			done++
		case tree.StatusAvailable:
			avail++
		default:
			locked++
		}
		fmt.Printf("  %s %s\n", statusIcon(status), statusStyle(status).Render(n.Label))
	}

	fmt.Println()
	printInfo("%d/%d completed, %d available, %d locked", done, len(t.Nodes), avail, locked)
	return nil
}

func (c *CLI) progressResetCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "reset [tree.json]",
		Short: "Clear all completions for a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tree.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load tree %s: %w", args[0], err)
			}

			store, err := newProgressStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Upsert(cmd.Context(), user, t.TreeID, nil); err != nil {
				return fmt.Errorf("reset progress: %w", err)
			}
			printSuccess("cleared progress for %s on %s", user, t.TreeID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", defaultUser(), "user whose progress to reset")
	return cmd
}

// defaultUser falls back through common env vars to a fixed name, so the
// single-user local flow never needs the flag.
func defaultUser() string {
	for _, key := range []string{"SKILLTREE_USER", "USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "learner"
}
