// Package export writes the task list to files in several formats and reads
// it back for `td import`.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
	FormatPDF     Format = "pdf"
)

// Formats lists every export format. All but PDF can be imported.
var Formats = []Format{FormatJSON, FormatCSV, FormatYAML, FormatTOML, FormatMsgpack, FormatPDF}

// CanImport reports whether Decode accepts f.
func (f Format) CanImport() bool {
	return f != FormatPDF && f.IsValid()
}

func (f Format) IsValid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat matches case-insensitively and accepts "yml" and "mp".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "yml":
		return FormatYAML, nil
	case "mp":
		return FormatMsgpack, nil
	default:
		if f.IsValid() {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, formatList())
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format from %q: no extension (use --format)", path)
	}
	return ParseFormat(ext)
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
