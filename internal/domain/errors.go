package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyStopSet       = errors.New("stop set: at least one stop is required")
	ErrNoCandidates       = errors.New("plan: at least one candidate driver count is required")
	ErrInvalidDriverCount = errors.New("plan: driver count must be at least 1")
	ErrUnknownObjective   = errors.New("unknown objective")
	ErrUnknownMetric      = errors.New("unknown cost metric")
	ErrInvalidDepot       = errors.New("invalid depot coordinates")
)

// InvalidStopError reports a record rejected during StopSet construction.
type InvalidStopError struct {
	Index  int
	ID     string
	Reason string
}

func (e *InvalidStopError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid stop at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid stop %q at index %d: %s", e.ID, e.Index, e.Reason)
}

// DuplicateStopError reports a repeated stop id.
type DuplicateStopError struct {
	ID         string
	FirstIndex int
	Index      int
}

func (e *DuplicateStopError) Error() string {
	return fmt.Sprintf("duplicate stop %q at index %d (first seen at index %d)", e.ID, e.Index, e.FirstIndex)
}

// IncompleteCostMatrixError names an (origin, destination) pair missing from a cost matrix.
type IncompleteCostMatrixError struct {
	From string
	To   string
}

func (e *IncompleteCostMatrixError) Error() string {
	return fmt.Sprintf("cost matrix has no entry for %q -> %q", e.From, e.To)
}

// ProviderError wraps any failure of the external travel cost provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("travel cost provider: %v", e.Err)
	}
	return fmt.Sprintf("travel cost provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var inv *InvalidStopError
	var dup *DuplicateStopError
	switch {
	case errors.As(err, &inv), errors.As(err, &dup):
		return true
	case errors.Is(err, ErrEmptyStopSet),
		errors.Is(err, ErrNoCandidates),
		errors.Is(err, ErrInvalidDriverCount),
		errors.Is(err, ErrUnknownObjective),
		errors.Is(err, ErrUnknownMetric),
		errors.Is(err, ErrInvalidDepot):
		return true
	}
	return false
}
