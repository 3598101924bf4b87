package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/pkg/builder"
	"github.com/nasimstg/skilltree/pkg/errors"
	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/tree"
	"github.com/nasimstg/skilltree/pkg/validate"
)

// draftCommand creates the draft command group for authoring trees.
func (c *CLI) draftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Author skill trees locally",
	}
	cmd.AddCommand(c.draftNewCommand())
	cmd.AddCommand(c.draftListCommand())
	cmd.AddCommand(c.draftExportCommand())
	cmd.AddCommand(c.draftDeleteCommand())
	return cmd
}

// =============================================================================
// draft new
// =============================================================================

func (c *CLI) draftNewCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft, with a guided metadata wizard",
		Long: `Create a new draft.

An interactive wizard collects the tree metadata (id, title, category,
difficulty). With --from, the draft starts as a copy of an existing
tree file instead of empty, for editing a published tree into a new
version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraftNew(from)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "seed the draft from an existing tree.json")
	return cmd
}

func (c *CLI) runDraftNew(from string) error {
	store, err := newDraftStore()
	if err != nil {
		return err
	}

	var b *builder.Builder
	if from != "" {
		t, err := tree.ReadFile(from)
		if err != nil {
			return fmt.Errorf("load tree %s: %w", from, err)
		}
		b = builder.FromTree(t, builder.Options{Store: store, Logger: c.Logger})
	} else {
		b = builder.New(builder.Options{Store: store, Logger: c.Logger})
		meta, err := metaWizard(b.Draft().Meta)
		if err != nil {
			return err
		}
		b.Draft().Meta = meta
	}

	if err := store.Save(b.Draft()); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	printSuccess("created draft %s (%s)", b.Draft().ID, b.Draft().Meta.Title)
	printDetail("stored in %s", store.Path())
	return nil
}

// metaWizard collects tree metadata interactively.
func metaWizard(initial tree.Meta) (tree.Meta, error) {
	meta := initial
	months := "3"
	if meta.EstimatedMonths > 0 {
		months = strconv.Itoa(meta.EstimatedMonths)
	}
	if meta.Difficulty == "" {
		meta.Difficulty = tree.DifficultyMedium
	}
	if meta.Version == "" {
		meta.Version = "1.0.0"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tree ID (kebab-case)").
				Placeholder("go-backend").
				Value(&meta.TreeID).
				Validate(func(s string) error { return errors.ValidateTreeID(s) }),
			huh.NewInput().
				Title("Title").
				Placeholder("Go Backend Development").
				Value(&meta.Title).
				Validate(requiredField("title")),
			huh.NewInput().
				Title("Category").
				Placeholder("programming").
				Value(&meta.Category).
				Validate(requiredField("category")),
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(
					huh.NewOption("Easy", tree.DifficultyEasy),
					huh.NewOption("Medium", tree.DifficultyMedium),
					huh.NewOption("Hard", tree.DifficultyHard),
				).
				Value(&meta.Difficulty),
			huh.NewInput().
				Title("Estimated months").
				Placeholder("3").
				Value(&months).
				Validate(validatePositiveInt),
			huh.NewText().
				Title("Description").
				Value(&meta.Description),
			huh.NewInput().
				Title("Icon").
				Placeholder("code").
				Value(&meta.Icon).
				Validate(requiredField("icon")),
		),
	)

	if err := form.Run(); err != nil {
		return meta, err
	}
	meta.EstimatedMonths, _ = strconv.Atoi(months)
	return meta, nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// =============================================================================
// draft list
// =============================================================================

func (c *CLI) draftListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List local drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newDraftStore()
			if err != nil {
				return err
			}

			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("no drafts yet, create one with 'skilltree draft new'")
				return nil
			}

			for _, e := range entries {
				title := e.Title
				if title == "" {
					title = StyleDim.Render("(untitled)")
				}
				fmt.Printf("  %s  %s\n", StyleValue.Render(title), StyleDim.Render(
					fmt.Sprintf("%s · %d nodes · %s", e.ID, e.Nodes, e.Modified.Format("2006-01-02 15:04"))))
			}
			return nil
		},
	}
}

// =============================================================================
// draft export
// =============================================================================

func (c *CLI) draftExportCommand() *cobra.Command {
	var (
		output string
		force  bool
		doLay  bool
	)

	cmd := &cobra.Command{
		Use:   "export [draft-id]",
		Short: "Export a draft to a canonical tree file",
		Long: `Export a draft to a canonical tree file.

Each node's requires list is recomputed from the edge list and the node
count is stamped into totalNodes. The result is validated before
writing; use --force to write an invalid tree anyway (for sharing
work-in-progress).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraftExport(args[0], output, force, doLay)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <treeId>.json)")
	cmd.Flags().BoolVar(&force, "force", false, "export even when validation fails")
	cmd.Flags().BoolVar(&doLay, "layout", false, "run auto-layout before exporting")
	return cmd
}

func (c *CLI) runDraftExport(draftID, output string, force, doLay bool) error {
	store, err := newDraftStore()
	if err != nil {
		return err
	}

	d, ok := store.Load(draftID)
	if !ok {
		return errors.New(errors.ErrCodeDraftNotFound, "draft %q not found", draftID)
	}

	b := builder.FromDraft(d, builder.Options{Logger: c.Logger})
	if doLay {
		b.ApplyAutoLayout(layout.DirectionTB)
	}
	t := b.Export()

	if result := validate.Tree(t); !result.OK() {
		printError("draft %s has %d problem(s)", draftID, len(result))
		for _, e := range result {
			printDetail("%s: %s", e.Field, e.Message)
		}
		if !force {
			return fmt.Errorf("validation failed, use --force to export anyway")
		}
	}

	if output == "" {
		output = t.TreeID + ".json"
		if t.TreeID == "" {
			output = draftID + ".json"
		}
	}
	if err := tree.WriteFile(t, output); err != nil {
		return fmt.Errorf("write tree %s: %w", output, err)
	}

	printSuccess("exported %s (%d nodes, %d edges) to %s", draftID, len(t.Nodes), len(t.Edges), output)
	return nil
}

// =============================================================================
// draft delete
// =============================================================================

func (c *CLI) draftDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [draft-id]",
		Short: "Delete a local draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newDraftStore()
			if err != nil {
				return err
			}
			if _, ok := store.Load(args[0]); !ok {
				return errors.New(errors.ErrCodeDraftNotFound, "draft %q not found", args[0])
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			printSuccess("deleted draft %s", args[0])
			return nil
		},
	}
}
