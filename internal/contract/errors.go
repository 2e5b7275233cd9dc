package contract

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching against *Error.
var (
	ErrNoContractFound        = errors.New("no contract found")
	ErrAmbiguousContract      = errors.New("ambiguous contract")
	ErrUnsatisfiedDeclaration = errors.New("unsatisfied declaration")
)

// Kind classifies a resolution failure.
type Kind int

const (
	NoContractFound Kind = iota + 1
	AmbiguousContract
	UnsatisfiedDeclaration
)

// String returns the diagnostic code for the kind.
func (k Kind) String() string {
	switch k {
	case NoContractFound:
		return "no-contract"
	case AmbiguousContract:
		return "ambiguous-contract"
	case UnsatisfiedDeclaration:
		return "unsatisfied-declaration"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case NoContractFound:
		return ErrNoContractFound
	case AmbiguousContract:
		return ErrAmbiguousContract
	case UnsatisfiedDeclaration:
		return ErrUnsatisfiedDeclaration
	default:
		return nil
	}
}

// Error is a resolution failure for one implementation.
type Error struct {
	Kind           Kind
	Implementation string
	// Contracts holds the offending declared contracts for
	// UnsatisfiedDeclaration, and is empty otherwise.
	Contracts []string
	// Candidates is the computed candidate set, in discovery order.
	Candidates []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoContractFound:
		return fmt.Sprintf("%s has no interface or abstract superclass to register as a service", e.Implementation)
	case AmbiguousContract:
		return fmt.Sprintf("%s implements several interfaces or abstract classes (%s); declare the intended contract explicitly",
			e.Implementation, strings.Join(e.Candidates, ", "))
	case UnsatisfiedDeclaration:
		return fmt.Sprintf("%s does not implement or extend %s declared as its contract",
			e.Implementation, strings.Join(e.Contracts, ", "))
	default:
		return e.Implementation + ": contract resolution failed"
	}
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
