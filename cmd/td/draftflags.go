package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/timeparsing"
	"github.com/steveyegge/td/internal/types"
)

// draftFlags are the form fields settable from the command line.
type draftFlags struct {
	category string
	priority string
	due      string
	notes    string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category: Work, Personal or Urgent")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority: High, Medium or Low")
	cmd.Flags().StringVarP(&f.due, "due", "d", "", "Due date: 2025-01-31, +3d, tomorrow, next friday ('none' clears)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "Free-form notes (markdown)")
}

// apply copies the flags the user actually set onto d.
func (f *draftFlags) apply(cmd *cobra.Command, d *types.Draft) error {
	flags := cmd.Flags()
	if flags.Changed("category") {
		c, err := types.ParseCategory(f.category)
		if err != nil {
			return err
		}
		d.Category = c
	}
	if flags.Changed("priority") {
		p, err := types.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		d.Priority = p
	}
	if flags.Changed("due") {
		due, err := timeparsing.ParseDueDate(f.due, nowFunc())
		if err != nil {
			return err
		}
		d.DueDate = due
	}
	if flags.Changed("notes") {
		d.Notes = f.notes
	}
	return nil
}

// taskJSON is the --json shape of a task: its 1-based position plus the
// stored fields.
type taskJSON struct {
	Position int `json:"position"`
	types.Task
}
