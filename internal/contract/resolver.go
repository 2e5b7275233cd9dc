// Package contract reconciles the contracts an implementation actually
// satisfies with the contracts it explicitly declares.
package contract

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/spigen/internal/hierarchy"
)

// Implementation is a type submitted for registration.
type Implementation struct {
	// ID is the erased, fully-qualified identifier of the type.
	ID string
	// Declared lists the contracts named in the registration marker, as authored.
	Declared []string
}

// NoContractPolicy decides what happens to an implementation with no candidates.
type NoContractPolicy int

const (
	// SkipNoContract reports the implementation and leaves it unregistered.
	SkipNoContract NoContractPolicy = iota
	// FailNoContract makes the implementation a batch failure.
	FailNoContract
)

func (p NoContractPolicy) String() string {
	if p == FailNoContract {
		return "fail"
	}
	return "skip"
}

// ParseNoContractPolicy parses "skip" or "fail".
func ParseNoContractPolicy(s string) (NoContractPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipNoContract, nil
	case "fail":
		return FailNoContract, nil
	default:
		return SkipNoContract, fmt.Errorf("unknown no-contract policy: %s (valid: skip, fail)", s)
	}
}

// Resolution is the outcome for one implementation. A skipped resolution
// still carries its NoContractFound error for reporting.
type Resolution struct {
	Implementation string
	Contracts      []string
	Skipped        bool
	Err            *Error
}

// OK reports whether the implementation resolved to at least one contract.
func (r Resolution) OK() bool {
	return r.Err == nil && len(r.Contracts) > 0
}

// Failed reports whether the resolution must block emission.
func (r Resolution) Failed() bool {
	return r.Err != nil && !r.Skipped
}

// Resolver applies the resolution rules.
type Resolver struct {
	policy NoContractPolicy
	root   string
}

// NewResolver creates a Resolver. rootType is dropped from declarations.
func NewResolver(policy NoContractPolicy, rootType string) *Resolver {
	return &Resolver{policy: policy, root: hierarchy.Erase(rootType)}
}

// Resolve produces the final contract set for impl.
//
// Without a declaration a single candidate is inferred and several are
// ambiguous. With a declaration, every declared contract must be a candidate
// and the declaration, in authored order, is the result.
func (r *Resolver) Resolve(impl Implementation, candidates hierarchy.CandidateSet) Resolution {
	res := Resolution{Implementation: impl.ID}

	if candidates.Len() == 0 {
		if r.policy == SkipNoContract {
			res.Skipped = true
		}
		res.Err = &Error{Kind: NoContractFound, Implementation: impl.ID}
		return res
	}

	declared := r.normalize(impl.Declared)
	if len(declared) == 0 {
		if candidates.Len() == 1 {
			res.Contracts = candidates.Members()
			return res
		}
		res.Err = &Error{
			Kind:           AmbiguousContract,
			Implementation: impl.ID,
			Candidates:     candidates.Members(),
		}
		return res
	}

	var missing []string
	for _, c := range declared {
		if !candidates.Contains(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		res.Err = &Error{
			Kind:           UnsatisfiedDeclaration,
			Implementation: impl.ID,
			Contracts:      missing,
			Candidates:     candidates.Members(),
		}
		return res
	}

	res.Contracts = declared
	return res
}

// normalize erases declared contracts, drops the root type and duplicates.
func (r *Resolver) normalize(declared []string) []string {
	var out []string
	seen := make(map[string]bool, len(declared))
	for _, d := range declared {
		id := hierarchy.Erase(d)
		if id == "" || id == r.root || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
