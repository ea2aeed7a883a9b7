package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSealed = errors.New("container is sealed")
	ErrClosed = errors.New("container is closed")
)

type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return "no registration for " + e.Key
}

type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	return "already registered: " + e.Key
}

// CycleError reports a key that was requested again while it was still being
// built. Chain starts and ends with that key.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "circular dependency: " + strings.Join(e.Chain, " -> ")
}

type CanceledError struct {
	Key string
	Err error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Key, e.Err)
}

func (e *CanceledError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Missing []string
	Cycles  [][]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing dependencies: "+strings.Join(e.Missing, ", "))
	}
	for _, cycle := range e.Cycles {
		parts = append(parts, "circular dependency: "+strings.Join(cycle, " -> "))
	}
	return strings.Join(parts, "; ")
}

// IsResolutionError reports whether err was produced by the container itself
// while resolving, as opposed to by a provider.
func IsResolutionError(err error) bool {
	var (
		notFound *NotFoundError
		cycle    *CycleError
		canceled *CanceledError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &cycle) ||
		errors.As(err, &canceled) ||
		errors.Is(err, ErrClosed)
}
