package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SetYamlConfig writes key: value into config.yaml, creating the file if
// needed. Dotted keys become nested mappings (list.filter -> list: {filter}).
// Existing comments and key order are kept.
func SetYamlConfig(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (run 'td config list' to see keys)", key)
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}
	path := ConfigFileUsed()
	doc, err := loadYamlDoc(path)
	if err != nil {
		return err
	}
	setYamlKey(doc.Content[0], strings.Split(key, "."), scalarNode(value))
	return writeYamlDoc(path, doc)
}

// UnsetYamlConfig removes key from config.yaml. Parents left empty are
// removed as well. A missing file or key is not an error.
func UnsetYamlConfig(key string) error {
	path := ConfigFileUsed()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	doc, err := loadYamlDoc(path)
	if err != nil {
		return err
	}
	if !unsetYamlKey(doc.Content[0], strings.Split(key, ".")) {
		return nil
	}
	return writeYamlDoc(path, doc)
}

// GetYamlConfig reads key straight from config.yaml, bypassing env and flags.
func GetYamlConfig(key string) (string, bool, error) {
	path := ConfigFileUsed()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	doc, err := loadYamlDoc(path)
	if err != nil {
		return "", false, err
	}
	node := doc.Content[0]
	for _, part := range strings.Split(key, ".") {
		_, node = mappingEntry(node, part)
		if node == nil {
			return "", false, nil
		}
	}
	if node.Kind != yaml.ScalarNode {
		return "", false, fmt.Errorf("config key %q is not a scalar", key)
	}
	return node.Value, true, nil
}

// ValidateValue checks value parses as the type of key's default.
func ValidateValue(key, value string) error {
	switch defaults[key].(type) {
	case bool:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
	case time.Duration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s expects a duration like 5s or 500ms, got %q", key, value)
		}
	}
	return nil
}

func loadYamlDoc(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level must be a mapping", path)
	}
	return &doc, nil
}

func writeYamlDoc(path string, doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// mappingEntry returns the key and value nodes for name in a mapping node.
func mappingEntry(m *yaml.Node, name string) (*yaml.Node, *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			return m.Content[i], m.Content[i+1]
		}
	}
	return nil, nil
}

func setYamlKey(m *yaml.Node, path []string, value *yaml.Node) {
	name := path[0]
	_, existing := mappingEntry(m, name)

	if len(path) == 1 {
		if existing != nil {
			// keep line comments attached to the old value
			value.LineComment = existing.LineComment
			*existing = *value
			return
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, value)
		return
	}

	if existing == nil || existing.Kind != yaml.MappingNode {
		child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if existing != nil {
			*existing = *child
			child = existing
		} else {
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, child)
		}
		existing = child
	}
	setYamlKey(existing, path[1:], value)
}

func unsetYamlKey(m *yaml.Node, path []string) bool {
	if m == nil || m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != path[0] {
			continue
		}
		if len(path) > 1 {
			child := m.Content[i+1]
			if !unsetYamlKey(child, path[1:]) {
				return false
			}
			if len(child.Content) > 0 {
				return true
			}
		}
		m.Content = append(m.Content[:i], m.Content[i+2:]...)
		return true
	}
	return false
}

// scalarNode tags value so booleans and integers are written unquoted.
// Durations stay plain strings; viper parses them on read.
func scalarNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	lower := strings.ToLower(value)
	switch {
	case lower == "true" || lower == "false":
		n.Tag, n.Value = "!!bool", lower
	case isInteger(value):
		n.Tag = "!!int"
	}
	return n
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
