package ui

import (
	"strings"

	"charm.land/glamour/v2"
)

// maxReadableWidth caps word wrap for task notes.
const maxReadableWidth = 100

// RenderMarkdown renders task notes with glamour, using the dark or light
// style from the dark-mode preference. Without colour, or if glamour fails,
// the notes come back word-wrapped but otherwise untouched.
func RenderMarkdown(markdown string) string {
	width := TerminalWidth(80)
	if width > maxReadableWidth {
		width = maxReadableWidth
	}
	if !ShouldUseColor() {
		return WrapText(markdown, width)
	}

	style := "light"
	if DarkMode() {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return WrapText(markdown, width)
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return WrapText(markdown, width)
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
