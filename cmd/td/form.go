package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/timeparsing"
	"github.com/steveyegge/td/internal/types"
)

var errFormAborted = errors.New("form aborted")

func formTheme() *huh.Theme {
	switch strings.ToLower(config.GetString("form.theme")) {
	case "charm":
		return huh.ThemeCharm()
	case "catppuccin":
		return huh.ThemeCatppuccin()
	case "base":
		return huh.ThemeBase()
	default:
		return huh.ThemeDracula()
	}
}

// runTaskForm lets the user edit d interactively. The form starts from d's
// current values.
func runTaskForm(ctx context.Context, d *types.Draft) error {
	text := d.Text
	category := d.Category
	priority := d.Priority
	due := d.DueDate
	notes := d.Notes

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return types.ErrEmptyText
					}
					return nil
				}),
			huh.NewSelect[types.Category]().
				Title("Category").
				Options(huh.NewOptions(types.Categories...)...).
				Value(&category),
			huh.NewSelect[types.Priority]().
				Title("Priority").
				Options(huh.NewOptions(types.Priorities...)...).
				Value(&priority),
			huh.NewInput().
				Title("Due date").
				Description("2025-01-31, +3d, tomorrow; empty for none").
				Value(&due).
				Validate(func(s string) error {
					_, err := timeparsing.ParseDueDate(s, nowFunc())
					return err
				}),
			huh.NewText().
				Title("Notes").
				Value(&notes),
		),
	).WithTheme(formTheme())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errFormAborted
		}
		return err
	}

	parsedDue, err := timeparsing.ParseDueDate(due, nowFunc())
	if err != nil {
		return err
	}
	*d = types.Draft{Text: text, Category: category, Priority: priority, DueDate: parsedDue, Notes: notes}
	return nil
}
