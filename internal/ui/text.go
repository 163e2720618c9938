package ui

import (
	"strings"
	"unicode/utf8"
)

// TruncateSimple performs simple end truncation with "..." suffix.
// UTF-8 safe.
func TruncateSimple(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// FirstLine returns the first non-blank line of text, truncated to maxLen.
func FirstLine(text string, maxLen int) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return TruncateSimple(line, maxLen)
		}
	}
	return ""
}

// WrapText wraps text at word boundaries to fit within maxWidth.
// Preserves existing line breaks.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, maxWidth int) string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	currentLen := 0
	for _, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)

		// a word longer than the line still gets a line of its own
		if currentLen == 0 {
			result.WriteString(word)
			currentLen = wordLen
			continue
		}

		if currentLen+1+wordLen <= maxWidth {
			result.WriteString(" ")
			result.WriteString(word)
			currentLen += 1 + wordLen
		} else {
			result.WriteString("\n")
			result.WriteString(word)
			currentLen = wordLen
		}
	}
	return result.String()
}
