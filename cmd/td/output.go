package main

import (
	"encoding/json"
	"fmt"
)

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// printf writes to stdout unconditionally; use debug.PrintNormal for output
// that --quiet should hide.
func printf(format string, args ...interface{}) {
	fmt.Fprintf(stdout, format, args...)
}
