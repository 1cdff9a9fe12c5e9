package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ExtensionPrefix marks root-level keys that hold reusable fragments.
const ExtensionPrefix = "x-"

// EntryKind distinguishes services from extension fragments.
type EntryKind int

const (
	// Service is an entry from the document's services mapping.
	Service EntryKind = iota

	// Extension is a root-level x- fragment.
	Extension
)

// String returns the lowercase label used in diagnostics.
func (k EntryKind) String() string {
	if k == Extension {
		return "extension"
	}
	return "service"
}

// Entry is one named subtree extracted from a compose document.
type Entry struct {
	Name  string
	Kind  EntryKind
	Value *Value
}

// ErrUnknownEntry indicates a requested name absent from both the services
// mapping and the root-level x- keys of a document.
var ErrUnknownEntry = errors.New("unknown entry")

// Extract parses a compose document and pulls out the requested entries, in
// the order the names were requested. Candidates are the keys of the
// top-level services mapping plus root-level keys carrying the x- prefix;
// when a name matches both, the service wins. Extraction is atomic: any
// missing name fails the whole call.
func Extract(text string, names []string) ([]Entry, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}

	services := doc.Lookup("services")
	if services != nil && services.Kind != KindMapping {
		return nil, fmt.Errorf("services key is not a mapping")
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if svc := services.Lookup(name); svc != nil {
			entries = append(entries, Entry{Name: name, Kind: Service, Value: svc})
			continue
		}
		if strings.HasPrefix(name, ExtensionPrefix) {
			if ext := doc.Lookup(name); ext != nil {
				entries = append(entries, Entry{Name: name, Kind: Extension, Value: ext})
				continue
			}
		}
		return nil, fmt.Errorf("%w %q: not in services and no root-level %s key", ErrUnknownEntry, name, ExtensionPrefix)
	}

	return entries, nil
}
