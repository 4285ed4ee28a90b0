package flatten

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a data-integrity failure found while flattening a complex.
//
// Flatten errors are fatal to the complex being exported but never to the run.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ComplexAc is the top-level complex the failure is attributed to.
	ComplexAc string

	// ParentAc is the complex directly containing the failing participant.
	ParentAc string

	// InteractorAc identifies the failing participant, when there is one.
	InteractorAc string

	// Path is the chain of complex accessions from the top-level complex.
	// For cycle errors it ends with the repeated accession.
	Path []string
}

// ErrorCode categorizes flatten errors.
type ErrorCode string

const (
	// ErrCodeCyclicComplex indicates a complex contains itself, directly or
	// through a chain of sub-complexes.
	ErrCodeCyclicComplex ErrorCode = "CYCLIC_COMPLEX"

	// ErrCodeDepthExceeded indicates nesting deeper than the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeMissingIdentifier indicates a protein without a preferred identifier.
	ErrCodeMissingIdentifier ErrorCode = "MISSING_IDENTIFIER"

	// ErrCodeMissingUniprot indicates a protein without a UniProtKB accession.
	ErrCodeMissingUniprot ErrorCode = "MISSING_UNIPROT"

	// ErrCodeUnresolvedComplex indicates a complex participant without a body.
	ErrCodeUnresolvedComplex ErrorCode = "UNRESOLVED_COMPLEX"
)

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (complex=%s", e.Code, e.Message, e.ComplexAc)
	if e.ParentAc != "" && e.ParentAc != e.ComplexAc {
		fmt.Fprintf(&b, ", parent=%s", e.ParentAc)
	}
	if e.InteractorAc != "" {
		fmt.Fprintf(&b, ", interactor=%s", e.InteractorAc)
	}
	if e.Code == ErrCodeCyclicComplex && len(e.Path) > 0 {
		fmt.Fprintf(&b, ", path=%s", strings.Join(e.Path, " → "))
	}
	b.WriteString(")")
	return b.String()
}

// IsCycleError returns true if the error is a cyclic complex error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeCyclicComplex
	}
	return false
}

// IsDataError returns true if err is any flatten error.
func IsDataError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

func newCycleError(root string, path []string, repeated string) *Error {
	full := append(append([]string{}, path...), repeated)
	return &Error{
		Code:      ErrCodeCyclicComplex,
		Message:   "cyclic complex: complex contains itself",
		ComplexAc: root,
		ParentAc:  path[len(path)-1],
		Path:      full,
	}
}

func newDepthError(root string, path []string, limit int) *Error {
	return &Error{
		Code:      ErrCodeDepthExceeded,
		Message:   fmt.Sprintf("complex nesting exceeds max depth %d", limit),
		ComplexAc: root,
		ParentAc:  path[len(path)-1],
		Path:      append([]string{}, path...),
	}
}
