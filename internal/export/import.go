package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/td/internal/types"
)

// Decode reads a task list written by Encode. Tasks are returned as found;
// the caller applies defaults and validation.
func Decode(r io.Reader, f Format) ([]types.Task, error) {
	var tasks []types.Task
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&tasks); err != nil {
			return nil, err
		}
	case FormatCSV:
		return decodeCSV(r)
	case FormatYAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		tasks = doc.Todos
	case FormatTOML:
		var doc document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
		tasks = doc.Todos
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&tasks); err != nil {
			return nil, err
		}
	case FormatPDF:
		return nil, fmt.Errorf("pdf exports cannot be imported")
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

func decodeCSV(r io.Reader) ([]types.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []types.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["text"]; !ok {
		return nil, fmt.Errorf("csv header has no %q column", "text")
	}

	field := func(row []string, name string) string {
		i, ok := col[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	tasks := []types.Task{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t := types.Task{
			Text:     field(row, "text"),
			Category: types.Category(field(row, "category")),
			DueDate:  field(row, "dueDate"),
			Priority: types.Priority(field(row, "priority")),
			Notes:    field(row, "notes"),
		}
		if raw := field(row, "completed"); raw != "" {
			done, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: completed: %w", line, err)
			}
			t.Completed = done
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ReadFile decodes the task list stored at path.
func ReadFile(path string, f Format) ([]types.Task, error) {
	if !f.CanImport() {
		return nil, fmt.Errorf("%s files cannot be imported", f)
	}
	file, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	tasks, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tasks, nil
}
