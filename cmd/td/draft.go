package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/debug"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "draft",
		GroupID: "tasks",
		Short:   "Show the draft the next 'td add' starts from",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := tasks.Draft()
			if jsonOutput {
				return outputJSON(d)
			}
			printf("%s", describeDraft(d))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Reset the draft to its defaults",
		Long:  `Reset the draft. A task moved into the draft by 'td edit' is discarded.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			discarded := tasks.Draft()
			tasks.ResetDraft(cmd.Context())
			if jsonOutput {
				return outputJSON(map[string]interface{}{"cleared": true, "discarded": discarded})
			}
			if discarded.Text != "" {
				debug.PrintNormal("Draft cleared (discarded %q).\n", discarded.Text)
			} else {
				debug.PrintNormal("Draft cleared.\n")
			}
			return nil
		},
	})
	return cmd
}
