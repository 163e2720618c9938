package main

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/types"
	"github.com/steveyegge/td/internal/ui"
)

// parsePositions parses every argument and returns distinct store indexes,
// highest first so removing them in order never shifts a pending one.
func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, arg := range args {
		pos, err := parsePosition(arg)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	positions = slices.Compact(positions)
	slices.Reverse(positions)
	return positions, nil
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm N [N...]",
		Aliases: []string{"remove", "delete"},
		GroupID: "tasks",
		Short:   "Remove tasks",
		Long:    `Remove the tasks at the given positions. Later tasks move up.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			positions, err := parsePositions(args)
			if err != nil {
				return err
			}

			var removed []taskJSON
			for _, pos := range positions {
				t, _ := tasks.Task(pos)
				if tasks.Remove(ctx, pos) {
					removed = append(removed, taskJSON{Position: pos + 1, Task: t})
				}
			}
			slices.Reverse(removed)

			if jsonOutput {
				if removed == nil {
					removed = []taskJSON{}
				}
				return outputJSON(removed)
			}
			for _, r := range removed {
				debug.PrintNormal("%s Removed #%d: %s\n", ui.RenderFail(ui.IconFail), r.Position, r.Text)
			}
			return nil
		},
	}
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done N [N...]",
		Aliases: []string{"toggle"},
		GroupID: "tasks",
		Short:   "Toggle tasks between active and completed",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			positions, err := parsePositions(args)
			if err != nil {
				return err
			}
			slices.Reverse(positions)

			toggled := make([]taskJSON, 0, len(positions))
			for _, pos := range positions {
				if !tasks.ToggleComplete(ctx, pos) {
					continue
				}
				t, _ := tasks.Task(pos)
				toggled = append(toggled, taskJSON{Position: pos + 1, Task: t})
			}

			if jsonOutput {
				return outputJSON(toggled)
			}
			for _, t := range toggled {
				debug.PrintNormal("%s #%d: %s\n", doneVerb(t.Task), t.Position, t.Text)
			}
			return nil
		},
	}
}

func doneVerb(t types.Task) string {
	if t.Completed {
		return ui.RenderPass(ui.IconPass + " Completed")
	}
	return ui.RenderWarn(ui.IconOpen + " Reopened")
}
