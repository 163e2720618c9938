// Package taskstore owns the task list and the draft form fields.
//
// The in-memory list is the source of truth. Open loads it once from the
// key/value store; every mutation updates memory and then re-serialises the
// whole list under storage.KeyTodos. A failed write is reported through the
// warn func and never undoes the in-memory change.
//
// Tasks are addressed by position (0-based index). A Store is not safe for
// concurrent use.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage"
	"github.com/steveyegge/td/internal/types"
)

// ErrInvalidPosition is returned when a position does not address a task.
var ErrInvalidPosition = errors.New("no task at that position")

// WarnFunc reports a non-fatal problem to the user.
type WarnFunc func(format string, args ...interface{})

// Option configures a Store.
type Option func(*Store)

// WithWarn sets the func used for load and write warnings.
// The default logs through debug.Logf.
func WithWarn(fn WarnFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.warn = fn
		}
	}
}

// WithClock overrides time.Now for Stats.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds the task list and the draft.
type Store struct {
	kv    storage.Storage
	tasks []types.Task
	draft types.Draft
	warn  WarnFunc
	now   func() time.Time

	lastFlushErr error
}

// Open loads the task list and draft from kv.
//
// A missing list is empty. A list that cannot be parsed is discarded with a
// warning and the store starts empty. Entries with blank text are dropped
// with a warning, and tasks with an unknown category or priority get the
// defaults. Only a failure to read kv is returned as an error.
func Open(ctx context.Context, kv storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    kv,
		draft: types.NewDraft(),
		warn:  func(format string, args ...interface{}) { debug.Logf("warning: "+format+"\n", args...) },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := storage.GetOrDefault(ctx, kv, storage.KeyTodos, "")
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks, err := DecodeTasks(raw)
	if err != nil {
		s.warn("stored task list is malformed (%v); starting with an empty list", err)
		tasks = []types.Task{}
	}
	kept := make([]types.Task, 0, len(tasks))
	for i, t := range tasks {
		// entries without text (including null) cannot be shown or addressed
		if strings.TrimSpace(t.Text) == "" {
			s.warn("task %d has no text; dropping it", i+1)
			continue
		}
		s.normalize(i, &t)
		kept = append(kept, t)
	}
	s.tasks = kept

	rawDraft, err := storage.GetOrDefault(ctx, kv, storage.KeyDraft, "")
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if rawDraft != "" {
		d, err := decodeDraft(rawDraft)
		if err != nil {
			s.warn("stored draft is malformed (%v); discarding it", err)
		}
		s.draft = normalizeDraft(d)
	}

	debug.Logf("taskstore: loaded %d tasks\n", len(s.tasks))
	return s, nil
}

func (s *Store) normalize(pos int, t *types.Task) {
	if !t.Category.IsValid() {
		if t.Category != "" {
			s.warn("task %d has unknown category %q; using %s", pos+1, t.Category, types.DefaultCategory)
		}
		t.Category = types.DefaultCategory
	}
	if !t.Priority.IsValid() {
		if t.Priority != "" {
			s.warn("task %d has unknown priority %q; using %s", pos+1, t.Priority, types.DefaultPriority)
		}
		t.Priority = types.DefaultPriority
	}
}

func normalizeDraft(d types.Draft) types.Draft {
	if !d.Category.IsValid() {
		d.Category = types.DefaultCategory
	}
	if !d.Priority.IsValid() {
		d.Priority = types.DefaultPriority
	}
	return d
}

// Tasks returns a copy of the task list.
func (s *Store) Tasks() []types.Task {
	out := make([]types.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Task returns the task at pos.
func (s *Store) Task(pos int) (types.Task, error) {
	if pos < 0 || pos >= len(s.tasks) {
		return types.Task{}, fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	return s.tasks[pos], nil
}

// Draft returns the current form fields.
func (s *Store) Draft() types.Draft {
	return s.draft
}

// SetDraft replaces the form fields and persists them.
func (s *Store) SetDraft(ctx context.Context, d types.Draft) {
	s.draft = normalizeDraft(d)
	s.saveDraft(ctx)
}

// ResetDraft restores the form fields to their defaults.
func (s *Store) ResetDraft(ctx context.Context) {
	s.SetDraft(ctx, types.NewDraft())
}

// Add appends a task built from d. Empty or whitespace-only text is rejected
// silently: nothing is appended, d is kept as the current draft, and Add
// returns false. On success the draft resets to its defaults.
func (s *Store) Add(ctx context.Context, d types.Draft) bool {
	d = normalizeDraft(d)
	if strings.TrimSpace(d.Text) == "" {
		s.draft = d
		s.saveDraft(ctx)
		return false
	}

	s.tasks = append(s.tasks, d.Task())
	s.flush(ctx)

	s.draft = types.NewDraft()
	s.saveDraft(ctx)
	return true
}

// AddDraft adds a task from the current draft.
func (s *Store) AddDraft(ctx context.Context) bool {
	return s.Add(ctx, s.draft)
}

// Edit moves the task at pos into the draft and removes it from the list.
// The edit completes when the draft is added again; abandoning the draft
// loses the task. Returns false when pos is invalid.
func (s *Store) Edit(ctx context.Context, pos int) bool {
	if pos < 0 || pos >= len(s.tasks) {
		return false
	}
	s.draft = types.DraftFromTask(s.tasks[pos])
	s.saveDraft(ctx)
	return s.Remove(ctx, pos)
}

// Remove drops the task at pos. Later tasks shift down by one.
// An out-of-range position removes nothing and returns false.
func (s *Store) Remove(ctx context.Context, pos int) bool {
	kept := make([]types.Task, 0, len(s.tasks))
	for i, t := range s.tasks {
		if i != pos {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		return false
	}
	s.tasks = kept
	s.flush(ctx)
	return true
}

// ToggleComplete flips the completed flag of the task at pos.
// Returns false when pos is invalid.
func (s *Store) ToggleComplete(ctx context.Context, pos int) bool {
	if pos < 0 || pos >= len(s.tasks) {
		return false
	}
	s.tasks[pos].Completed = !s.tasks[pos].Completed
	s.flush(ctx)
	return true
}

// ReplaceAll swaps in a new task list, e.g. from an import. Every task must
// validate after defaults are applied; on error the list is unchanged.
func (s *Store) ReplaceAll(ctx context.Context, tasks []types.Task) error {
	next := make([]types.Task, len(tasks))
	for i, t := range tasks {
		t.SetDefaults()
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		next[i] = t
	}
	s.tasks = next
	s.flush(ctx)
	return nil
}

// Stats summarises the task list.
func (s *Store) Stats() types.Stats {
	return types.ComputeStats(s.tasks, s.now())
}

// LastFlushError returns the error of the most recent write, or nil if it
// succeeded.
func (s *Store) LastFlushError() error {
	return s.lastFlushErr
}

// flush writes the whole task list.
func (s *Store) flush(ctx context.Context) {
	raw, err := EncodeTasks(s.tasks)
	if err == nil {
		err = s.kv.Set(ctx, storage.KeyTodos, raw)
	}
	s.lastFlushErr = err
	if err != nil {
		s.warn("failed to save task list: %v", err)
		return
	}
	debug.Logf("taskstore: flushed %d tasks\n", len(s.tasks))
}

func (s *Store) saveDraft(ctx context.Context) {
	var err error
	if s.draft.IsZero() {
		err = s.kv.Delete(ctx, storage.KeyDraft)
	} else {
		var raw string
		raw, err = encodeDraft(s.draft)
		if err == nil {
			err = s.kv.Set(ctx, storage.KeyDraft, raw)
		}
	}
	if err != nil {
		s.warn("failed to save draft: %v", err)
	}
}
