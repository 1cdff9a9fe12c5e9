// Package selector parses the selector strings that identify compose entries
// in remote repositories.
package selector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates a selector string that does not match the grammar.
var ErrMalformed = errors.New("malformed selector")

// A Selector identifies a set of named entries in a compose file hosted in a
// remote repository. The string form is:
//
//	owner/repo+ref:path@name1,name2,...
//
// where ref is a branch, tag, or commit.
type Selector struct {
	// Coordinate is the owner/repo pair identifying the repository.
	Coordinate string

	// Reference is the branch, tag, or commit to read the file at.
	Reference string

	// Path is the file path within the repository.
	Path string

	// Names are the requested service and extension names, in request order.
	Names []string
}

// Parse parses a selector string. Every delimiter is mandatory, every segment
// must be non-empty, and duplicate names within one selector are rejected.
func Parse(raw string) (Selector, error) {
	coordinate, rest, ok := strings.Cut(raw, "+")
	if !ok {
		return Selector{}, fmt.Errorf("%w %q: missing %q between coordinate and reference", ErrMalformed, raw, "+")
	}
	if coordinate == "" {
		return Selector{}, fmt.Errorf("%w %q: empty coordinate", ErrMalformed, raw)
	}
	owner, repo, ok := strings.Cut(coordinate, "/")
	if !ok || owner == "" || repo == "" {
		return Selector{}, fmt.Errorf("%w %q: coordinate %q is not an owner/repo pair", ErrMalformed, raw, coordinate)
	}

	reference, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return Selector{}, fmt.Errorf("%w %q: missing %q between reference and path", ErrMalformed, raw, ":")
	}
	if reference == "" {
		return Selector{}, fmt.Errorf("%w %q: empty reference", ErrMalformed, raw)
	}

	path, namesCSV, ok := strings.Cut(rest, "@")
	if !ok {
		return Selector{}, fmt.Errorf("%w %q: missing %q between path and names", ErrMalformed, raw, "@")
	}
	if path == "" {
		return Selector{}, fmt.Errorf("%w %q: empty path", ErrMalformed, raw)
	}

	names := strings.Split(namesCSV, ",")
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return Selector{}, fmt.Errorf("%w %q: empty entry name", ErrMalformed, raw)
		}
		if seen[name] {
			return Selector{}, fmt.Errorf("%w %q: duplicate entry name %q", ErrMalformed, raw, name)
		}
		seen[name] = true
	}

	return Selector{
		Coordinate: coordinate,
		Reference:  reference,
		Path:       path,
		Names:      names,
	}, nil
}

// String renders the selector back into its string form. Parsing the result
// yields an equivalent selector.
func (s Selector) String() string {
	return s.Coordinate + "+" + s.Reference + ":" + s.Path + "@" + strings.Join(s.Names, ",")
}

// OwnerRepo splits the coordinate into its owner and repository parts.
func (s Selector) OwnerRepo() (string, string) {
	owner, repo, _ := strings.Cut(s.Coordinate, "/")
	return owner, repo
}
