// Command td is a single-user task list for the terminal.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/telemetry"
)

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
	dbPath      string
	backendFlag string
	ephemeral   bool
	noPager     bool
	noColor     bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// nowFunc is the clock for due dates and overdue checks.
	nowFunc = time.Now
)

// noStoreAnnotation marks commands that run without opening storage.
const noStoreAnnotation = "td/no-store"

func newRootCmd() *cobra.Command {
	jsonOutput, verboseFlag, quietFlag, ephemeral, noPager, noColor = false, false, false, false, false, false
	dbPath, backendFlag = "", ""

	rootCmd := &cobra.Command{
		Use:   "td",
		Short: "td - a small task list for the terminal",
		Long: `td keeps one task list with categories, priorities, due dates and notes.

Positions shown by 'td list' address tasks in edit, rm, done and show.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Initialize(); err != nil {
				warnf("failed to initialize config: %v", err)
			}
			if err := bindGlobalFlags(cmd); err != nil {
				return err
			}
			jsonOutput = config.GetBool("json")
			debug.SetVerbose(verboseFlag)
			debug.SetQuiet(quietFlag)

			if err := telemetry.Init(cmd.Context(), config.GetString("telemetry.service-name"), Version); err != nil {
				debug.Logf("telemetry init failed: %v\n", err)
			}

			if !needsStore(cmd) {
				applyColorPrefs(false)
				return nil
			}
			return openStore(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	pf.StringVar(&dbPath, "db", "", "Storage file for the file backend (default: $XDG_DATA_HOME/td/storage.json)")
	pf.StringVar(&backendFlag, "backend", "", "Storage backend: file, memory, mysql or dolt (default: storage.backend)")
	pf.BoolVar(&ephemeral, "ephemeral", false, "Use in-memory storage; nothing is saved")
	pf.BoolVar(&noPager, "no-pager", false, "Do not pipe output through a pager")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(&cobra.Group{ID: "tasks", Title: "Working With Tasks:"})
	rootCmd.AddGroup(&cobra.Group{ID: "views", Title: "Views & Reports:"})
	rootCmd.AddGroup(&cobra.Group{ID: "data", Title: "Data & Settings:"})

	rootCmd.AddCommand(
		newAddCmd(),
		newEditCmd(),
		newRmCmd(),
		newDoneCmd(),
		newDraftCmd(),
		newListCmd(),
		newShowCmd(),
		newStatsCmd(),
		newExportCmd(),
		newImportCmd(),
		newDarkModeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// needsStore is false for commands annotated with noStoreAnnotation, the
// root command, and cobra's help and completion commands.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noStoreAnnotation] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return cmd.HasParent()
}

// bindGlobalFlags lets set flags override config and env.
func bindGlobalFlags(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"json":            "json",
		"no-pager":        "no-pager",
		"no-color":        "no-color",
		"storage.backend": "backend",
		"storage.path":    "db",
	} {
		if err := config.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// run executes one td invocation and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	stdout, stderr = out, errOut
	restore := debug.SetOutput(out, errOut)
	defer restore()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)
	closeStore()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	telemetry.Shutdown(shutdownCtx)
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		printError(err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if code != 0 {
		os.Exit(code)
	}
}
