package taskstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/steveyegge/td/internal/types"
)

// errNotArray is returned when the stored value parses but is not a list.
var errNotArray = errors.New("value is not a JSON array")

// EncodeTasks serialises a task list to the persisted wire format: a JSON
// array of {text, completed, category, dueDate, priority, notes}.
// A nil list encodes as "[]".
func EncodeTasks(tasks []types.Task) (string, error) {
	if tasks == nil {
		tasks = []types.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// DecodeTasks parses the persisted wire format. "null" decodes as an empty list.
func DecodeTasks(raw string) ([]types.Task, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []types.Task{}, nil
	}
	if trimmed[0] != '[' {
		return nil, errNotArray
	}
	var tasks []types.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

func encodeDraft(d types.Draft) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode draft: %w", err)
	}
	return string(data), nil
}

func decodeDraft(raw string) (types.Draft, error) {
	d := types.NewDraft()
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return types.NewDraft(), err
	}
	return d, nil
}
