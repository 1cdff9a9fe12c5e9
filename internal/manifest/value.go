// Package manifest implements the compose document engine: parsing remote
// compose files, extracting requested services and extension fragments, and
// merging them into a single output document.
package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the shapes a YAML subtree can take.
type ValueKind int

const (
	// KindScalar is a single scalar value (string, number, bool, null).
	KindScalar ValueKind = iota

	// KindSequence is an ordered list of values.
	KindSequence

	// KindMapping is a key-ordered mapping of string keys to values.
	KindMapping
)

// Value is a YAML document subtree with key order preserved. Anchors and
// aliases are expanded during decoding, so a Value never references nodes
// outside itself.
type Value struct {
	// Kind selects which of the fields below is populated.
	Kind ValueKind

	// Scalar is the scalar text (KindScalar).
	Scalar string

	// Tag is the resolved YAML tag, e.g. "!!str" or "!!int" (KindScalar).
	Tag string

	// Style preserves the source scalar style, e.g. quoting (KindScalar).
	Style yaml.Style

	// Items are the sequence elements in source order (KindSequence).
	Items []*Value

	// Entries are the mapping entries in source key order (KindMapping).
	Entries []MapEntry
}

// MapEntry is one key/value pair of an ordered mapping.
type MapEntry struct {
	Key   string
	Value *Value
}

// ErrNotMapping indicates a document whose root is not a YAML mapping.
var ErrNotMapping = errors.New("document root is not a mapping")

// ParseDocument parses YAML text into a root mapping Value.
// An empty document yields an empty mapping.
func ParseDocument(text string) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return &Value{Kind: KindMapping}, nil
	}

	value, err := fromNode(&root)
	if err != nil {
		return nil, err
	}
	if value.Kind != KindMapping {
		return nil, ErrNotMapping
	}
	return value, nil
}

// fromNode converts a yaml.Node tree into a Value, following alias nodes to
// their anchors. Cross-document anchor references cannot survive extraction,
// so aliases are expanded to their full value here.
func fromNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Value{Kind: KindMapping}, nil
		}
		return fromNode(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("unresolvable alias *%s", n.Value)
		}
		return fromNode(n.Alias)

	case yaml.ScalarNode:
		return &Value{Kind: KindScalar, Scalar: n.Value, Tag: n.Tag, Style: n.Style}, nil

	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &Value{Kind: KindSequence, Items: items}, nil

	case yaml.MappingNode:
		return mappingFromNode(n)

	default:
		return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
	}
}

// mappingFromNode converts a mapping node, expanding "<<" merge keys inline.
// Entries from a merged mapping are inserted at the merge key's position;
// keys spelled out explicitly in the mapping always win over merged ones.
func mappingFromNode(n *yaml.Node) (*Value, error) {
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Tag != "!!merge" {
			explicit[keyText(n.Content[i])] = true
		}
	}

	result := &Value{Kind: KindMapping}
	seen := make(map[string]bool, len(n.Content)/2)

	addMerged := func(source *Value) {
		for _, entry := range source.Entries {
			if explicit[entry.Key] || seen[entry.Key] {
				continue
			}
			seen[entry.Key] = true
			result.Entries = append(result.Entries, entry)
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]

		if keyNode.Tag == "!!merge" {
			merged, err := fromNode(valueNode)
			if err != nil {
				return nil, err
			}
			switch merged.Kind {
			case KindMapping:
				addMerged(merged)
			case KindSequence:
				for _, item := range merged.Items {
					if item.Kind != KindMapping {
						return nil, fmt.Errorf("merge key references a non-mapping value")
					}
					addMerged(item)
				}
			default:
				return nil, fmt.Errorf("merge key references a non-mapping value")
			}
			continue
		}

		key := keyText(keyNode)
		if seen[key] {
			continue
		}
		value, err := fromNode(valueNode)
		if err != nil {
			return nil, err
		}
		seen[key] = true
		result.Entries = append(result.Entries, MapEntry{Key: key, Value: value})
	}

	return result, nil
}

// keyText resolves a mapping key node to its text, following aliases.
func keyText(n *yaml.Node) string {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias.Value
	}
	return n.Value
}

// toNode converts a Value back into a yaml.Node tree for serialization.
// The result contains no anchors or aliases.
func (v *Value) toNode() *yaml.Node {
	switch v.Kind {
	case KindScalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: v.Tag, Value: v.Scalar, Style: v.Style}

	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			n.Content = append(n.Content, item.toNode())
		}
		return n

	default:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range v.Entries {
			n.Content = append(n.Content, scalarKey(entry.Key), entry.Value.toNode())
		}
		return n
	}
}

// scalarKey builds a plain string key node.
func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

// Lookup returns the value for key in a mapping, or nil when absent or when
// the receiver is not a mapping.
func (v *Value) Lookup(key string) *Value {
	if v == nil || v.Kind != KindMapping {
		return nil
	}
	for _, entry := range v.Entries {
		if entry.Key == key {
			return entry.Value
		}
	}
	return nil
}

// Equal reports whether two values are structurally identical: same kind,
// same resolved scalar tag and text, same sequence items, and same mapping
// keys and values in the same order. Scalar quoting style is ignored.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindScalar:
		return v.Tag == other.Tag && v.Scalar == other.Scalar

	case KindSequence:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true

	default:
		if len(v.Entries) != len(other.Entries) {
			return false
		}
		for i := range v.Entries {
			if v.Entries[i].Key != other.Entries[i].Key {
				return false
			}
			if !v.Entries[i].Value.Equal(other.Entries[i].Value) {
				return false
			}
		}
		return true
	}
}
