package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of td (overridden by ldflags at build time)
	Version = "0.1.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		GroupID:     "data",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noStoreAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			commit := resolveCommitHash()
			if jsonOutput {
				result := map[string]string{"version": Version, "build": Build}
				if commit != "" {
					result["commit"] = commit
				}
				return outputJSON(result)
			}
			printVersion()
			return nil
		},
	}
}

func printVersion() {
	if commit := resolveCommitHash(); commit != "" {
		printf("td version %s (%s: %s)\n", Version, Build, shortCommit(commit))
		return
	}
	printf("td version %s (%s)\n", Version, Build)
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}
	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
