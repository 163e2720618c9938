package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables the pager (--no-pager or no-pager: true)
	NoPager bool
}

// shouldUsePager is false for --no-pager, TD_NO_PAGER, or when out is not
// the terminal's stdout.
func shouldUsePager(out io.Writer, opts PagerOptions) bool {
	if opts.NoPager || os.Getenv("TD_NO_PAGER") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok || f != os.Stdout {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// getPagerCommand checks TD_PAGER, then PAGER, defaulting to less.
func getPagerCommand() string {
	if pager := os.Getenv("TD_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

func getTerminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(content, "\n"), "\n") + 1
}

// ToPager writes content to out, through a pager when out is an interactive
// terminal and content is taller than the screen.
func ToPager(out io.Writer, content string, opts PagerOptions) error {
	if !shouldUsePager(out, opts) {
		_, err := fmt.Fprint(out, content)
		return err
	}

	termHeight := getTerminalHeight()
	if termHeight > 0 && contentHeight(content) <= termHeight-1 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	parts := strings.Fields(getPagerCommand())
	if len(parts) == 0 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	// -R: ANSI colours, -F: quit if one screen, -X: keep screen on exit
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}
	return cmd.Run()
}
