package manifest

import (
	"fmt"
	"strings"
)

// CompositeEntry is one named entry accumulated into the composite, together
// with the source that first contributed it.
type CompositeEntry struct {
	Name   string
	Value  *Value
	Source string
}

// Composite is the accumulated output document. Services and extensions keep
// first-seen order: later sources contributing new names append, never
// reorder. Sources are folded in strictly sequentially.
type Composite struct {
	Services   []CompositeEntry
	Extensions []CompositeEntry
}

// NewComposite returns an empty composite.
func NewComposite() *Composite {
	return &Composite{}
}

// ConflictError reports two sources defining the same name, under the same
// kind, with differing values.
type ConflictError struct {
	Name        string
	Kind        EntryKind
	First       string
	Conflicting string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting definition for %s %q: first defined by %s, redefined differently by %s",
		e.Kind, e.Name, e.First, e.Conflicting)
}

// Merge folds one source's entries into the composite, in the order given.
// An incoming entry whose name already exists under the same kind is a no-op
// when the values are structurally identical; differing values reject the
// merge with a ConflictError and leave the composite untouched.
func (c *Composite) Merge(source string, entries []Entry) error {
	var services, extensions []CompositeEntry

	for _, entry := range entries {
		list := &services
		have := c.Services
		if entry.Kind == Extension {
			list = &extensions
			have = c.Extensions
		}

		if existing := find(have, entry.Name); existing != nil {
			if existing.Value.Equal(entry.Value) {
				continue
			}
			return &ConflictError{
				Name:        entry.Name,
				Kind:        entry.Kind,
				First:       existing.Source,
				Conflicting: source,
			}
		}
		// Same-source duplicate, still pending in this invocation.
		if existing := find(*list, entry.Name); existing != nil {
			if existing.Value.Equal(entry.Value) {
				continue
			}
			return &ConflictError{
				Name:        entry.Name,
				Kind:        entry.Kind,
				First:       source,
				Conflicting: source,
			}
		}

		*list = append(*list, CompositeEntry{Name: entry.Name, Value: entry.Value, Source: source})
	}

	c.Services = append(c.Services, services...)
	c.Extensions = append(c.Extensions, extensions...)
	return nil
}

// find returns the entry with the given name, or nil.
func find(entries []CompositeEntry, name string) *CompositeEntry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

// Seed folds every service and root-level x- fragment of an existing output
// document into the composite. Used when merging into a file that already
// exists; seeded entries participate in the normal conflict policy.
func (c *Composite) Seed(text, source string) error {
	doc, err := ParseDocument(text)
	if err != nil {
		return err
	}

	var entries []Entry
	if services := doc.Lookup("services"); services != nil {
		if services.Kind != KindMapping {
			return fmt.Errorf("services key is not a mapping")
		}
		for _, e := range services.Entries {
			entries = append(entries, Entry{Name: e.Key, Kind: Service, Value: e.Value})
		}
	}
	for _, e := range doc.Entries {
		if strings.HasPrefix(e.Key, ExtensionPrefix) {
			entries = append(entries, Entry{Name: e.Key, Kind: Extension, Value: e.Value})
		}
	}

	return c.Merge(source, entries)
}
