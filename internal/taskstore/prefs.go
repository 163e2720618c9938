package taskstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/steveyegge/td/internal/storage"
)

// Preferences holds settings persisted next to the task list.
type Preferences struct {
	kv storage.Storage
}

// NewPreferences returns preferences backed by kv.
func NewPreferences(kv storage.Storage) *Preferences {
	return &Preferences{kv: kv}
}

// DarkMode reports the stored dark-mode flag. Only the exact string "true"
// is on; absent or any other value reads as false.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	raw, err := storage.GetOrDefault(ctx, p.kv, storage.KeyDarkMode, "false")
	if err != nil {
		return false, fmt.Errorf("load dark mode: %w", err)
	}
	return raw == "true", nil
}

// SetDarkMode stores the flag as "true" or "false".
func (p *Preferences) SetDarkMode(ctx context.Context, on bool) error {
	if err := p.kv.Set(ctx, storage.KeyDarkMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// ToggleDarkMode flips the flag and returns the new value.
func (p *Preferences) ToggleDarkMode(ctx context.Context) (bool, error) {
	on, err := p.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	on = !on
	return on, p.SetDarkMode(ctx, on)
}
