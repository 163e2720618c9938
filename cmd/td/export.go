package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/export"
	"github.com/steveyegge/td/internal/types"
	"github.com/steveyegge/td/internal/view"
)

// resolveFormat uses --format when set, else the file extension.
func resolveFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path == "" || path == "-" {
		return export.FormatJSON, nil
	}
	return export.FormatFromPath(path)
}

func newExportCmd() *cobra.Command {
	var (
		output string
		format string
		filter string
	)
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "data",
		Short:   "Export tasks to json, csv, yaml, toml, msgpack or pdf",
		Long: `Export the task list. Without -o the export is written to stdout.
The format comes from --format or the output file's extension.`,
		Example: `  td export -o tasks.csv
  td export --format yaml
  td export --filter Active -o active.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}
			vf, err := view.ParseFilter(filter)
			if err != nil {
				return err
			}
			selected := view.Tasks(view.Apply(tasks.Tasks(), view.Options{Filter: vf}))

			if output == "" || output == "-" {
				return export.Encode(stdout, selected, f)
			}
			if err := export.WriteFile(output, selected, f); err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(map[string]interface{}{"path": output, "format": f, "count": len(selected)})
			}
			debug.PrintNormal("Exported %d tasks to %s (%s)\n", len(selected), output, f)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "json, csv, yaml, toml, msgpack or pdf (default: from extension, else json)")
	cmd.Flags().StringVar(&filter, "filter", "All", "Only export tasks matching this filter")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		format    string
		appendAll bool
	)
	cmd := &cobra.Command{
		Use:     "import FILE",
		GroupID: "data",
		Short:   "Replace (or extend) the task list from an export",
		Long: `Import tasks from a json, csv, yaml, toml or msgpack export.

The imported list replaces the current one unless --append is given. Missing
categories and priorities get the defaults; a task with empty text or an
invalid field rejects the whole import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}
			var imported []types.Task
			if path == "-" {
				imported, err = export.Decode(os.Stdin, f)
			} else {
				imported, err = export.ReadFile(path, f)
			}
			if err != nil {
				return err
			}

			next := imported
			if appendAll {
				next = append(tasks.Tasks(), imported...)
			}
			if err := tasks.ReplaceAll(cmd.Context(), next); err != nil {
				return withHint(fmt.Errorf("import rejected: %w", err), "fix the file and try again; the task list is unchanged")
			}
			if err := tasks.LastFlushError(); err != nil {
				return errors.New("imported tasks could not be saved")
			}

			if jsonOutput {
				return outputJSON(map[string]interface{}{"imported": len(imported), "total": tasks.Len()})
			}
			debug.PrintNormal("Imported %d tasks (%d total)\n", len(imported), tasks.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json, csv, yaml, toml or msgpack (default: from extension)")
	cmd.Flags().BoolVarP(&appendAll, "append", "a", false, "Append to the current list instead of replacing it")
	return cmd
}
