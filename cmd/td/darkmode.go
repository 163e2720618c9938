package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/debug"
)

func newDarkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "dark-mode [on|off|toggle]",
		GroupID:   "data",
		Short:     "Show or change the dark-mode preference",
		Long:      `Dark mode picks the colour variants and the notes style. It is stored with the tasks.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				on  bool
				err error
			)
			switch {
			case len(args) == 0:
				on, err = prefs.DarkMode(ctx)
			case strings.EqualFold(args[0], "toggle"):
				on, err = prefs.ToggleDarkMode(ctx)
			case strings.EqualFold(args[0], "on"), strings.EqualFold(args[0], "true"):
				on = true
				err = prefs.SetDarkMode(ctx, on)
			case strings.EqualFold(args[0], "off"), strings.EqualFold(args[0], "false"):
				err = prefs.SetDarkMode(ctx, on)
			default:
				return fmt.Errorf("invalid dark-mode value %q (want on, off or toggle)", args[0])
			}
			if err != nil {
				return err
			}
			applyColorPrefs(on)

			if jsonOutput {
				return outputJSON(map[string]bool{"darkMode": on})
			}
			state := "off"
			if on {
				state = "on"
			}
			debug.PrintNormal("Dark mode: %s\n", state)
			return nil
		},
	}
}
