package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/types"
	"github.com/steveyegge/td/internal/ui"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show N",
		GroupID: "views",
		Short:   "Show one task with its notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			t, _ := tasks.Task(pos)
			if jsonOutput {
				return outputJSON(taskJSON{Position: pos + 1, Task: t})
			}
			return ui.ToPager(stdout, formatTask(pos+1, t), ui.PagerOptions{NoPager: config.GetBool("no-pager")})
		},
	}
}

func formatTask(pos int, t types.Task) string {
	var b strings.Builder
	status := ui.RenderWarn("active")
	if t.Completed {
		status = ui.RenderPass("completed")
	}
	fmt.Fprintf(&b, "%s %s\n", ui.RenderAccent(fmt.Sprintf("#%d", pos)), t.Text)
	fmt.Fprintf(&b, "%s\n", ui.RenderSeparator())
	fmt.Fprintf(&b, "Status:   %s\n", status)
	fmt.Fprintf(&b, "Category: %s\n", ui.RenderCategory(t.Category))
	fmt.Fprintf(&b, "Priority: %s\n", ui.RenderPriority(t.Priority))
	if t.DueDate != "" {
		due := t.DueDate
		if t.IsOverdue(nowFunc()) {
			due = ui.RenderFail(due + " (overdue)")
		}
		fmt.Fprintf(&b, "Due:      %s\n", due)
	}
	if strings.TrimSpace(t.Notes) != "" {
		fmt.Fprintf(&b, "\n%s\n", ui.RenderHeader("notes"))
		b.WriteString(ui.RenderMarkdown(t.Notes))
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
