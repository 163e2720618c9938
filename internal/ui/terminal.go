package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	colorDisabled bool
	darkMode      = true
)

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions.
// NO_COLOR wins over CLICOLOR_FORCE; otherwise colour needs a terminal.
func ShouldUseColor() bool {
	if colorDisabled {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if f := os.Getenv("CLICOLOR_FORCE"); f != "" && f != "0" {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji is false when TD_NO_EMOJI is set or stdout is not a terminal.
func ShouldUseEmoji() bool {
	if os.Getenv("TD_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// Configure applies the colour and dark-mode preferences to every style in
// this package. Call it once the preferences are loaded.
func Configure(noColor, dark bool) {
	colorDisabled = noColor
	darkMode = dark

	lipgloss.SetHasDarkBackground(dark)
	switch {
	case !ShouldUseColor():
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") != "" && !IsTerminal():
		// forced colour into a pipe: termenv would detect Ascii
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}
}

// DarkMode reports the dark-mode preference last passed to Configure.
func DarkMode() bool {
	return darkMode
}
