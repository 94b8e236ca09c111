// Package yamldoc provides tolerant field lookups over hand-authored YAML
// documents. Workflow config and task files are edited by people and agents,
// so every lookup fails soft: a missing key, a malformed value, or an
// unparsable document yields the caller's fallback, never an error.
package yamldoc

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Doc wraps a parsed YAML document. The zero value behaves like an empty
// document: every lookup returns its fallback.
type Doc struct {
	root *yaml.Node
}

// Parse parses data into a Doc. Invalid YAML yields an empty Doc.
func Parse(data []byte) Doc {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Doc{}
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return Doc{}
	}
	root := node.Content[0]
	if root.Kind != yaml.MappingNode {
		return Doc{}
	}
	return Doc{root: root}
}

// OK reports whether the document parsed into a mapping.
func (d Doc) OK() bool {
	return d.root != nil
}

// Has reports whether key exists at the top level of the document.
func (d Doc) Has(key string) bool {
	_, ok := child(d.root, key)
	return ok
}

// Scalar walks the given key path through nested mappings and returns the
// scalar value at the end, or "" if any step is missing.
func (d Doc) Scalar(path ...string) string {
	node := d.root
	for _, key := range path {
		next, ok := child(node, key)
		if !ok {
			return ""
		}
		node = next
	}
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}
	return strings.TrimSpace(node.Value)
}

// Seq walks the key path to a sequence and returns its scalar items.
func (d Doc) Seq(path ...string) []string {
	node := d.root
	for _, key := range path {
		next, ok := child(node, key)
		if !ok {
			return nil
		}
		node = next
	}
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	var items []string
	for _, item := range node.Content {
		if item.Kind == yaml.ScalarNode {
			items = append(items, strings.TrimSpace(item.Value))
		}
	}
	return items
}

// Bool returns the first occurrence of key at any depth when its value is a
// true/false literal, otherwise fallback.
func (d Doc) Bool(key string, fallback bool) bool {
	node, ok := find(d.root, key)
	if !ok || node.Kind != yaml.ScalarNode {
		return fallback
	}
	switch node.Value {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}

// Int returns the first occurrence of key at any depth when its value parses
// as an integer, otherwise fallback.
func (d Doc) Int(key string, fallback int) int {
	node, ok := find(d.root, key)
	if !ok || node.Kind != yaml.ScalarNode {
		return fallback
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fallback
	}
	return n
}

// child returns the value node for key among the direct entries of a mapping.
func child(node *yaml.Node, key string) (*yaml.Node, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

// find searches depth-first for the first mapping entry named key.
func find(node *yaml.Node, key string) (*yaml.Node, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	if value, ok := child(node, key); ok {
		return value, true
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if value, ok := find(node.Content[i+1], key); ok {
			return value, true
		}
	}
	return nil, false
}
