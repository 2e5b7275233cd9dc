package hierarchy

import (
	"fmt"
	"strings"
)

// Supertypes captures the direct supertypes a host reports for one type.
// Identifiers may still carry generic arguments; the walker erases them.
type Supertypes struct {
	Interfaces []string
	Superclass string // empty when the type has no superclass
}

// Source is the type-introspection capability the walker consumes.
// Lookup reports false for types the host knows nothing about.
type Source interface {
	Lookup(id string) (Supertypes, bool)
}

// MapSource is an in-memory Source keyed by erased identifier.
type MapSource map[string]Supertypes

// Lookup implements Source.
func (m MapSource) Lookup(id string) (Supertypes, bool) {
	st, ok := m[Erase(id)]
	return st, ok
}

// ClassCandidates selects which ancestor classes count as contracts.
type ClassCandidates int

const (
	// ClassesNone collects interfaces only.
	ClassesNone ClassCandidates = iota
	// ClassesDirect adds the direct superclass.
	ClassesDirect
	// ClassesAll adds every non-root ancestor class.
	ClassesAll
)

func (c ClassCandidates) String() string {
	switch c {
	case ClassesNone:
		return "none"
	case ClassesDirect:
		return "direct"
	case ClassesAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseClassCandidates parses "none", "direct" or "all".
func ParseClassCandidates(s string) (ClassCandidates, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ClassesNone, nil
	case "", "direct":
		return ClassesDirect, nil
	case "all":
		return ClassesAll, nil
	default:
		return ClassesDirect, fmt.Errorf("unknown class candidates mode: %s (valid: none, direct, all)", s)
	}
}
