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

func newEditCmd() *cobra.Command {
	var (
		fields  draftFlags
		text    string
		useForm bool
	)
	cmd := &cobra.Command{
		Use:     "edit N",
		GroupID: "tasks",
		Short:   "Move a task into the draft for editing",
		Long: `Edit removes task N from the list and loads it into the draft.

With no other flags the task waits in the draft until 'td add' saves it
(it is re-added at the end of the list). With --text, field flags or --form
the changes are applied and the task is re-added straight away.

A task left in the draft is lost if the draft is cleared.`,
		Example: `  td edit 3
  td edit 3 --priority High --due +2d
  td edit 1 --form`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			original, _ := tasks.Task(pos)

			immediate := useForm || cmd.Flags().Changed("text")
			for _, name := range []string{"category", "priority", "due", "notes"} {
				immediate = immediate || cmd.Flags().Changed(name)
			}

			// Validate every flag before the task leaves the list.
			d := types.DraftFromTask(original)
			if cmd.Flags().Changed("text") {
				d.Text = text
			}
			if err := fields.apply(cmd, &d); err != nil {
				return withHint(err, fmt.Sprintf("task #%d is unchanged", pos+1))
			}
			if useForm && !ui.IsTerminal() {
				return withHint(errors.New("--form needs an interactive terminal"), "pass the changes as flags instead")
			}
			if immediate && !useForm && strings.TrimSpace(d.Text) == "" {
				warnf("task text is empty; task #%d is unchanged", pos+1)
				return nil
			}

			if !tasks.Edit(ctx, pos) {
				return withHint(errors.New("task could not be moved to the draft"), "run 'td list' to see positions")
			}
			if !immediate {
				if jsonOutput {
					return outputJSON(map[string]interface{}{"draft": tasks.Draft(), "removed": pos + 1})
				}
				debug.PrintNormal("Moved #%d to the draft: %s\n", pos+1, original.Text)
				debug.PrintNormal("%s\n", ui.RenderMuted("Run 'td add' to save it, or 'td draft clear' to discard it."))
				return nil
			}

			if useForm {
				if err := runTaskForm(ctx, &d); err != nil {
					tasks.SetDraft(ctx, d)
					if errors.Is(err, errFormAborted) {
						debug.PrintlnNormal("Form cancelled; the task is in the draft.")
						return nil
					}
					return err
				}
			}

			if !tasks.Add(ctx, d) {
				warnf("task text is empty; the task stays in the draft")
				return nil
			}
			newPos := tasks.Len()
			updated, _ := tasks.Task(newPos - 1)
			if jsonOutput {
				return outputJSON(taskJSON{Position: newPos, Task: updated})
			}
			debug.PrintNormal("%s Updated #%d -> #%d: %s\n", ui.RenderPass(ui.IconPass), pos+1, newPos, updated.Text)
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().StringVarP(&text, "text", "t", "", "New task text")
	cmd.Flags().BoolVarP(&useForm, "form", "f", false, "Edit the task with an interactive form")
	return cmd
}
