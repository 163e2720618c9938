package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage/factory"
	"github.com/steveyegge/td/internal/taskstore"
	"github.com/steveyegge/td/internal/ui"
	"github.com/steveyegge/td/internal/view"
)

func newListCmd() *cobra.Command {
	var (
		filter       string
		search       string
		sortPriority bool
		watch        bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "views",
		Short:   "List tasks",
		Long: `List tasks through the view pipeline: filter, then search, then an
optional priority sort (High, Medium, Low; ties keep list order).

Filters: All, Active, Completed, Work, Personal, Urgent.
The numbers shown are the positions edit, rm, done and show take.`,
		Example: `  td list --filter Active
  td list -s milk
  td list --sort-priority --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindPFlag("list.filter", cmd.Flags().Lookup("filter")); err != nil {
				return err
			}
			if err := config.BindPFlag("list.sort-priority", cmd.Flags().Lookup("sort-priority")); err != nil {
				return err
			}
			f, err := view.ParseFilter(config.GetString("list.filter"))
			if err != nil {
				return err
			}
			opts := view.Options{
				Filter:         f,
				Search:         search,
				SortByPriority: config.GetBool("list.sort-priority"),
			}

			if !watch {
				return printList(opts, false)
			}
			return watchTasks(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "All", "Show All, Active, Completed, Work, Personal or Urgent tasks")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tasks whose text contains this (case-insensitive)")
	cmd.Flags().BoolVarP(&sortPriority, "sort-priority", "P", false, "Sort by priority, High first")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and redraw when the task file changes")
	return cmd
}

func printList(opts view.Options, clear bool) error {
	entries := view.Apply(tasks.Tasks(), opts)

	if jsonOutput {
		out := make([]taskJSON, len(entries))
		for i, e := range entries {
			out[i] = taskJSON{Position: e.Position + 1, Task: e.Task}
		}
		return outputJSON(out)
	}

	var b strings.Builder
	if clear {
		b.WriteString("\033[H\033[2J")
	}
	fmt.Fprintf(&b, "%s %s\n", ui.RenderHeader(string(opts.Filter)), ui.RenderMuted(fmt.Sprintf("(%d of %d)", len(entries), tasks.Len())))
	if opts.Search != "" {
		fmt.Fprintf(&b, "%s\n", ui.RenderMuted(fmt.Sprintf("matching %q", opts.Search)))
	}
	if len(entries) == 0 {
		if tasks.Len() == 0 {
			b.WriteString("No tasks yet. Add one with 'td add'.\n")
		} else {
			b.WriteString("No tasks match.\n")
		}
	}
	now := nowFunc()
	for _, e := range entries {
		b.WriteString(ui.RenderTaskLine(e.Position+1, e.Task, now))
		b.WriteByte('\n')
	}
	return ui.ToPager(stdout, b.String(), ui.PagerOptions{NoPager: clear || config.GetBool("no-pager")})
}

// watchTasks redraws the list whenever the storage file changes, until ctx
// is cancelled. One goroutine debounces file events, another redraws.
func watchTasks(ctx context.Context, opts view.Options) error {
	if ephemeral || !strings.EqualFold(storageOptions().Backend, factory.BackendFile) {
		return withHint(errors.New("--watch needs the file storage backend"), "set storage.backend to file or drop --watch")
	}
	path, err := filepath.Abs(config.StoragePath())
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: atomic saves replace the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	redraw := func() error {
		if err := printList(opts, ui.IsTerminal()); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Fprintf(stderr, "\n%s\n", ui.RenderMuted("Watching for changes... (Press Ctrl+C to exit)"))
		}
		return nil
	}
	if err := redraw(); err != nil {
		return err
	}

	debounce := config.GetDuration("list.watch-debounce")
	changes := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var timer <-chan time.Time
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					timer = time.After(debounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(stderr, "Watcher error: %v\n", err)
			case <-timer:
				timer = nil
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changes:
				reloaded, err := taskstore.Open(gctx, kv, taskstore.WithWarn(warnf), taskstore.WithClock(nowFunc))
				if err != nil {
					fmt.Fprintf(stderr, "Error refreshing tasks: %v\n", err)
					continue
				}
				tasks = reloaded
				debug.Logf("watch: reloaded %d tasks\n", tasks.Len())
				if err := redraw(); err != nil {
					return err
				}
			}
		}
	})

	err = g.Wait()
	fmt.Fprintf(stderr, "\nStopped watching.\n")
	return err
}
