package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jung-kurt/gofpdf"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/td/internal/types"
)

// csvHeader is the column order of CSV exports. Import matches columns by
// name, so reordered files still load.
var csvHeader = []string{"text", "completed", "category", "dueDate", "priority", "notes"}

// document wraps the list for formats that need a top-level table.
type document struct {
	Todos []types.Task `toml:"todos" yaml:"todos"`
}

// Encode writes tasks to w in format f.
func Encode(w io.Writer, tasks []types.Task, f Format) error {
	if tasks == nil {
		tasks = []types.Task{}
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatCSV:
		return encodeCSV(w, tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Todos: tasks}); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(document{Todos: tasks})
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(tasks)
	case FormatPDF:
		return encodePDF(w, tasks, time.Now())
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func encodeCSV(w io.Writer, tasks []types.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{t.Text, strconv.FormatBool(t.Completed), string(t.Category), t.DueDate, string(t.Priority), t.Notes}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodePDF(w io.Writer, tasks []types.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("td tasks", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Task list")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, fmt.Sprintf("Exported %s - %d tasks", now.Format("2006-01-02 15:04"), len(tasks)))
	pdf.Ln(10)

	for i, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		pdf.SetFont("Arial", "B", 11)
		r, g, b := priorityRGB(t.Priority)
		pdf.SetTextColor(r, g, b)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s %s", i+1, box, t.Text)), "0", "L", false)

		meta := fmt.Sprintf("%s / %s", t.Category, t.Priority)
		if t.DueDate != "" {
			meta += " / due " + t.DueDate
		}
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(0, 5, tr(meta), "0", "L", false)

		if t.Notes != "" {
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(0, 5, tr(t.Notes), "0", "L", false)
		}
		pdf.Ln(3)
	}
	return pdf.Output(w)
}

// High red, Medium amber, Low green, matching the terminal colours.
func priorityRGB(p types.Priority) (int, int, int) {
	switch p {
	case types.PriorityHigh:
		return 200, 40, 40
	case types.PriorityLow:
		return 60, 140, 40
	default:
		return 200, 130, 0
	}
}

// WriteFile encodes tasks into path, replacing it atomically.
func WriteFile(path string, tasks []types.Task, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tasks, f); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()    // may already be closed before rename
		_ = os.Remove(tempPath) // may already be renamed
	}()

	if _, err := tempFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set export permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace export file: %w", err)
	}
	return nil
}
