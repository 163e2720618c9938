package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/types"
	"github.com/steveyegge/td/internal/ui"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		GroupID: "views",
		Short:   "Summarise the task list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := tasks.Stats()
			if jsonOutput {
				return outputJSON(s)
			}
			printf("%s", formatStats(s))
			return nil
		},
	}
}

func formatStats(s types.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.RenderHeader("tasks"))
	fmt.Fprintf(&b, "  Total:     %d\n", s.Total)
	fmt.Fprintf(&b, "  Active:    %d\n", s.Active)
	fmt.Fprintf(&b, "  Completed: %d\n", s.Completed)
	overdue := fmt.Sprintf("%d", s.Overdue)
	if s.Overdue > 0 {
		overdue = ui.RenderFail(overdue)
	}
	fmt.Fprintf(&b, "  Overdue:   %s\n", overdue)

	fmt.Fprintf(&b, "\n%s\n", ui.RenderHeader("by category"))
	for _, c := range types.Categories {
		fmt.Fprintf(&b, "  %-9s %d\n", string(c)+":", s.ByCategory[c])
	}
	fmt.Fprintf(&b, "\n%s\n", ui.RenderHeader("by priority"))
	for _, p := range types.Priorities {
		fmt.Fprintf(&b, "  %-9s %d\n", string(p)+":", s.ByPriority[p])
	}
	return b.String()
}
