package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/types"
	"github.com/steveyegge/td/internal/ui"
)

func newAddCmd() *cobra.Command {
	var (
		fields  draftFlags
		useForm bool
	)
	cmd := &cobra.Command{
		Use:     "add [text...]",
		GroupID: "tasks",
		Short:   "Add a task",
		Long: `Add a task built from the draft plus any text and flags given.

Fields you do not set keep their draft values, which default to category
Work and priority Medium. After 'td edit N' the draft holds the edited task,
so 'td add -p High' re-adds it with only the priority changed.

Empty text adds nothing and keeps the draft.`,
		Example: `  td add Buy milk -c Personal -p Low
  td add "Fix login bug" --priority High --due tomorrow
  td add --form`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := tasks.Draft()
			if len(args) > 0 {
				d.Text = strings.Join(args, " ")
			}
			if err := fields.apply(cmd, &d); err != nil {
				return err
			}

			if useForm {
				if !ui.IsTerminal() {
					return withHint(errors.New("--form needs an interactive terminal"), "pass the text and flags directly instead")
				}
				if err := runTaskForm(ctx, &d); err != nil {
					if errors.Is(err, errFormAborted) {
						tasks.SetDraft(ctx, d)
						debug.PrintlnNormal("Form cancelled; draft kept.")
						return nil
					}
					return err
				}
			}

			if !tasks.Add(ctx, d) {
				warnf("task text is empty; nothing added (draft kept)")
				if jsonOutput {
					return outputJSON(map[string]bool{"added": false})
				}
				return nil
			}

			pos := tasks.Len()
			added, _ := tasks.Task(pos - 1)
			if jsonOutput {
				return outputJSON(taskJSON{Position: pos, Task: added})
			}
			debug.PrintNormal("%s Added #%d: %s\n", ui.RenderPass(ui.IconPass), pos, added.Text)
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().BoolVarP(&useForm, "form", "f", false, "Fill in the task with an interactive form")
	return cmd
}

func describeDraft(d types.Draft) string {
	var b strings.Builder
	text := d.Text
	if strings.TrimSpace(text) == "" {
		text = ui.RenderMuted("(no text)")
	}
	fmt.Fprintf(&b, "Text:     %s\n", text)
	fmt.Fprintf(&b, "Category: %s\n", ui.RenderCategory(d.Category))
	fmt.Fprintf(&b, "Priority: %s\n", ui.RenderPriority(d.Priority))
	due := d.DueDate
	if due == "" {
		due = ui.RenderMuted("none")
	}
	fmt.Fprintf(&b, "Due:      %s\n", due)
	if d.Notes != "" {
		fmt.Fprintf(&b, "Notes:    %s\n", ui.FirstLine(d.Notes, 60))
	}
	return b.String()
}
