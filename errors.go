package ioc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pikciu/ioc/internal/container"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateRegistration
	ErrCodeUnregisteredType
	ErrCodeModuleNotFound
	ErrCodeInstallerNotFound
	ErrCodeConstruction
	ErrCodeCyclicDependency
	ErrCodeInvalidRegistration
	ErrCodeContainerSealed
	ErrCodeContainerClosed
	ErrCodeValidationFailed
	ErrCodeModuleInstallFailed
	ErrCodeResolutionFailed
	ErrCodeHealthCheckFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:               "UNKNOWN",
	ErrCodeDuplicateRegistration: "DUPLICATE_REGISTRATION",
	ErrCodeUnregisteredType:      "UNREGISTERED_TYPE",
	ErrCodeModuleNotFound:        "MODULE_NOT_FOUND",
	ErrCodeInstallerNotFound:     "INSTALLER_NOT_FOUND",
	ErrCodeConstruction:          "CONSTRUCTION",
	ErrCodeCyclicDependency:      "CYCLIC_DEPENDENCY",
	ErrCodeInvalidRegistration:   "INVALID_REGISTRATION",
	ErrCodeContainerSealed:       "CONTAINER_SEALED",
	ErrCodeContainerClosed:       "CONTAINER_CLOSED",
	ErrCodeValidationFailed:      "VALIDATION_FAILED",
	ErrCodeModuleInstallFailed:   "MODULE_INSTALL_FAILED",
	ErrCodeResolutionFailed:      "RESOLUTION_FAILED",
	ErrCodeHealthCheckFailed:     "HEALTH_CHECK_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Sentinels for errors.Is. Any *Error matches the sentinel with the same code.
var (
	ErrDuplicateRegistration = &Error{Code: ErrCodeDuplicateRegistration}
	ErrUnregisteredType      = &Error{Code: ErrCodeUnregisteredType}
	ErrModuleNotFound        = &Error{Code: ErrCodeModuleNotFound}
	ErrInstallerNotFound     = &Error{Code: ErrCodeInstallerNotFound}
	ErrConstruction          = &Error{Code: ErrCodeConstruction}
	ErrCyclicDependency      = &Error{Code: ErrCodeCyclicDependency}
	ErrInvalidRegistration   = &Error{Code: ErrCodeInvalidRegistration}
	ErrContainerSealed       = &Error{Code: ErrCodeContainerSealed}
	ErrContainerClosed       = &Error{Code: ErrCodeContainerClosed}
	ErrValidationFailed      = &Error{Code: ErrCodeValidationFailed}
	ErrModuleInstallFailed   = &Error{Code: ErrCodeModuleInstallFailed}
	ErrResolutionFailed      = &Error{Code: ErrCodeResolutionFailed}
	ErrHealthCheckFailed     = &Error{Code: ErrCodeHealthCheckFailed}
)

// Error is returned by every container operation. Type names the contract,
// implementation or module the error is about; Stack holds the resolution
// chain of a cyclic dependency.
type Error struct {
	Code    ErrorCode
	Message string
	Type    string
	Cause   error
	Stack   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Type != "" {
		b.WriteString(fmt.Sprintf(" type=%q:", e.Type))
	}

	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithType(name string) *Error {
	e.Type = name
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errDuplicateRegistration(contract string) *Error {
	return newError(
		ErrCodeDuplicateRegistration,
		fmt.Sprintf("a registration for %s already exists", contract),
		nil,
	).WithType(contract)
}

func errUnregisteredType(contract string) *Error {
	return newError(
		ErrCodeUnregisteredType,
		fmt.Sprintf("no registration for %s", contract),
		nil,
	).WithType(contract)
}

func errModuleNotFound(id string, cause error) *Error {
	return newError(
		ErrCodeModuleNotFound,
		fmt.Sprintf("module %s could not be loaded", id),
		cause,
	).WithType(id)
}

func errInstallerNotFound(id string) *Error {
	return newError(
		ErrCodeInstallerNotFound,
		fmt.Sprintf("module %s exports no installer", id),
		nil,
	).WithType(id)
}

func errConstruction(implementation string, cause error) *Error {
	return newError(
		ErrCodeConstruction,
		fmt.Sprintf("failed to construct %s", implementation),
		cause,
	).WithType(implementation)
}

func errCyclicDependency(chain []string) *Error {
	return newError(
		ErrCodeCyclicDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithStack(chain)
}

func errInvalidRegistration(contract string, reason string) *Error {
	return newError(ErrCodeInvalidRegistration, reason, nil).WithType(contract)
}

func errContainerSealed(contract string) *Error {
	return newError(
		ErrCodeContainerSealed,
		"container is sealed, registrations are no longer accepted",
		nil,
	).WithType(contract)
}

func errContainerClosed() *Error {
	return newError(ErrCodeContainerClosed, "container is closed", nil)
}

func errValidationFailed(cause error) *Error {
	return newError(ErrCodeValidationFailed, "container validation failed", cause)
}

func errModuleInstallFailed(name string, cause error) *Error {
	return newError(
		ErrCodeModuleInstallFailed,
		fmt.Sprintf("installing %s failed", name),
		cause,
	).WithType(name)
}

func errResolutionFailed(contract string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", contract),
		cause,
	).WithType(contract)
}

func errHealthCheckFailed(name string, cause error) *Error {
	return newError(
		ErrCodeHealthCheckFailed,
		fmt.Sprintf("health check failed for %s", name),
		cause,
	).WithType(name)
}

// translate turns errors from the internal container into *Error. Errors that
// already are *Error pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var (
		notFound  *container.NotFoundError
		duplicate *container.DuplicateError
		cycle     *container.CycleError
		canceled  *container.CanceledError
		invalid   *container.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return errUnregisteredType(notFound.Key)
	case errors.As(err, &duplicate):
		return errDuplicateRegistration(duplicate.Key)
	case errors.As(err, &cycle):
		return errCyclicDependency(cycle.Chain)
	case errors.As(err, &canceled):
		return errResolutionFailed(canceled.Key, canceled.Err)
	case errors.As(err, &invalid):
		return errValidationFailed(invalid)
	case errors.Is(err, container.ErrClosed):
		return errContainerClosed()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errResolutionFailed("", err)
	default:
		return newError(ErrCodeUnknown, "", err)
	}
}

func IsDuplicateRegistration(err error) bool { return hasCode(err, ErrCodeDuplicateRegistration) }

func IsUnregisteredType(err error) bool { return hasCode(err, ErrCodeUnregisteredType) }

func IsModuleNotFound(err error) bool { return hasCode(err, ErrCodeModuleNotFound) }

func IsInstallerNotFound(err error) bool { return hasCode(err, ErrCodeInstallerNotFound) }

func IsConstruction(err error) bool { return hasCode(err, ErrCodeConstruction) }

func IsCyclicDependency(err error) bool { return hasCode(err, ErrCodeCyclicDependency) }

func IsInvalidRegistration(err error) bool { return hasCode(err, ErrCodeInvalidRegistration) }

func IsContainerSealed(err error) bool { return hasCode(err, ErrCodeContainerSealed) }

func IsContainerClosed(err error) bool { return hasCode(err, ErrCodeContainerClosed) }

func IsValidationFailed(err error) bool { return hasCode(err, ErrCodeValidationFailed) }

func IsModuleInstallFailed(err error) bool { return hasCode(err, ErrCodeModuleInstallFailed) }

func IsResolutionFailed(err error) bool { return hasCode(err, ErrCodeResolutionFailed) }

func IsHealthCheckFailed(err error) bool { return hasCode(err, ErrCodeHealthCheckFailed) }

// hasCode checks the outermost *Error only, so a ConstructionError caused by
// a missing dependency is not also reported as UnregisteredType.
func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
