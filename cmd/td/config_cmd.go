package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage/factory"
	"github.com/steveyegge/td/internal/view"
)

// validateConfigSetting adds domain checks on top of config.ValidateValue.
func validateConfigSetting(key, value string) error {
	switch key {
	case "storage.backend":
		if !slices.Contains(factory.Backends(), strings.ToLower(value)) {
			return fmt.Errorf("unknown storage backend %q (supported: %s)", value, strings.Join(factory.Backends(), ", "))
		}
	case "list.filter":
		if _, err := view.ParseFilter(value); err != nil {
			return err
		}
	case "form.theme":
		switch strings.ToLower(value) {
		case "dracula", "charm", "catppuccin", "base":
		default:
			return fmt.Errorf("unknown form theme %q (want dracula, charm, catppuccin or base)", value)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	noStore := map[string]string{noStoreAnnotation: "true"}
	cmd := &cobra.Command{
		Use:         "config",
		GroupID:     "data",
		Short:       "Show and change settings in config.yaml",
		Annotations: noStore,
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "get KEY",
		Short:       "Print the effective value of a setting",
		Args:        cobra.ExactArgs(1),
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsKnownKey(key) {
				return withHint(fmt.Errorf("unknown config key %q", key), "run 'td config list' to see keys")
			}
			if jsonOutput {
				return outputJSON(map[string]string{"key": key, "value": config.GetString(key), "source": config.SourceOf(key)})
			}
			printf("%s\n", config.GetString(key))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "set KEY VALUE",
		Short:       "Write a setting to config.yaml",
		Args:        cobra.ExactArgs(2),
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateConfigSetting(key, value); err != nil {
				return err
			}
			if err := config.SetYamlConfig(key, value); err != nil {
				return err
			}
			if config.SourceOf(key) == "env" {
				warnf("%s is overridden by the environment; the new value applies once it is unset", key)
			}
			if jsonOutput {
				return outputJSON(map[string]string{"key": key, "value": value, "path": config.ConfigFileUsed()})
			}
			debug.PrintNormal("Set %s = %s in %s\n", key, value, config.ConfigFileUsed())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "unset KEY",
		Short:       "Remove a setting from config.yaml",
		Args:        cobra.ExactArgs(1),
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.UnsetYamlConfig(args[0]); err != nil {
				return err
			}
			debug.PrintNormal("Unset %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "list",
		Short:       "List every setting with its value and source",
		Args:        cobra.NoArgs,
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := config.KnownKeys()
			if jsonOutput {
				out := make(map[string]map[string]string, len(keys))
				for _, k := range keys {
					out[k] = map[string]string{"value": config.GetString(k), "source": config.SourceOf(k)}
				}
				return outputJSON(out)
			}
			for _, k := range keys {
				printf("%-24s %-20s %s\n", k, config.GetString(k), "("+config.SourceOf(k)+")")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			printf("%s\n", config.ConfigFileUsed())
			return nil
		},
	})
	return cmd
}
