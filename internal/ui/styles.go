// Package ui provides terminal styling for td output.
// Colours are adaptive: the dark-mode preference picks the Dark variant.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/td/internal/types"
)

// Ayu palette
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
	ColorPurple = lipgloss.AdaptiveColor{
		Light: "#a37acc",
		Dark:  "#d2a6ff",
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Completed tasks are struck through and muted.
	DoneStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(ColorMuted)
)

// High is red, Medium yellow, Low green.
var priorityStyles = map[types.Priority]lipgloss.Style{
	types.PriorityHigh:   FailStyle.Bold(true),
	types.PriorityMedium: WarnStyle,
	types.PriorityLow:    PassStyle,
}

var categoryStyles = map[types.Category]lipgloss.Style{
	types.CategoryWork:     AccentStyle,
	types.CategoryPersonal: lipgloss.NewStyle().Foreground(ColorPurple),
	types.CategoryUrgent:   FailStyle.Bold(true),
}

const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconOpen = "○"
	IconDone = "●"
)

const SeparatorLight = "──────────────────────────────────────────"

func RenderPass(s string) string   { return PassStyle.Render(s) }
func RenderWarn(s string) string   { return WarnStyle.Render(s) }
func RenderFail(s string) string   { return FailStyle.Render(s) }
func RenderMuted(s string) string  { return MutedStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderHeader renders a section header in uppercase.
func RenderHeader(s string) string {
	return HeaderStyle.Render(strings.ToUpper(s))
}

func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

// RenderPriority renders a priority label in its colour. Unknown values
// render unstyled.
func RenderPriority(p types.Priority) string {
	if st, ok := priorityStyles[p]; ok {
		return st.Render(string(p))
	}
	return string(p)
}

func RenderCategory(c types.Category) string {
	if st, ok := categoryStyles[c]; ok {
		return st.Render(string(c))
	}
	return string(c)
}

// RenderCheckbox renders the completion marker.
func RenderCheckbox(completed bool) string {
	if completed {
		return PassStyle.Render("[" + IconPass + "]")
	}
	return MutedStyle.Render("[ ]")
}

// RenderDue renders a due date, red when it has passed on an active task.
func RenderDue(t types.Task, now time.Time) string {
	if t.DueDate == "" {
		return ""
	}
	label := "due " + t.DueDate
	if t.IsOverdue(now) {
		return FailStyle.Render(label + " (overdue)")
	}
	return MutedStyle.Render(label)
}

// TaskLineWidth caps the task text column in list output.
const TaskLineWidth = 60

// RenderTaskLine renders one list row. pos is the 1-based position shown to
// the user.
func RenderTaskLine(pos int, t types.Task, now time.Time) string {
	text := TruncateSimple(t.Text, TaskLineWidth)
	if t.Completed {
		text = DoneStyle.Render(text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", MutedStyle.Render(fmt.Sprintf("%3d.", pos)), RenderCheckbox(t.Completed), text)
	fmt.Fprintf(&b, "  %s %s", RenderCategory(t.Category), RenderPriority(t.Priority))
	if due := RenderDue(t, now); due != "" {
		b.WriteString("  " + due)
	}
	if strings.TrimSpace(t.Notes) != "" {
		b.WriteString("  " + MutedStyle.Render("+notes"))
	}
	return b.String()
}
