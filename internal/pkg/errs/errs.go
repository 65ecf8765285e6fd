package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each kind in the taxonomy. Use errors.Is against these
// to classify a failure regardless of the concrete struct carrying it.
var (
	ErrValueIsInvalid  = errors.New("value is invalid")
	ErrValueIsRequired = errors.New("value is required")
	ErrObjectNotFound  = errors.New("object not found")
	ErrConflict        = errors.New("conflict: concurrent update won")
	ErrTransport       = errors.New("transport failure")
	ErrAuth            = errors.New("authentication or authorization failure")
	ErrCorruptData     = errors.New("corrupt data")
)

// sanitize flattens an error message to a single line.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ValueIsInvalidError reports that a supplied value violates a validation rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError reports that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ObjectNotFoundError reports that a referenced entity does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports that a conditional write matched zero rows: another
// actor changed the row between read and write. The caller is expected to
// refresh its view and re-decide; the retry policy never retries conflicts.
type ConflictError struct {
	Entity string
	ID     any
	Rule   string
	Cause  error
}

func NewConflictError(entity string, id any, rule string) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, Rule: rule}
}

func NewConflictErrorWithCause(entity string, id any, rule string, cause error) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, Rule: rule, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s %s no longer satisfies %q (cause: %s)",
			ErrConflict, e.Entity, e.ID, e.Rule, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s %s no longer satisfies %q", ErrConflict, e.Entity, e.ID, e.Rule))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// TransportError reports a network-level failure: timeouts, connection resets,
// unreachable backend. Transport errors are the only kind the retry policy
// re-attempts.
type TransportError struct {
	Op    string
	Cause error
}

func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, Cause: cause}
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrTransport, e.Op, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrTransport, e.Op))
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// AuthError reports an authentication or authorization failure. It is never
// retried; the calling layer is expected to refresh the session.
type AuthError struct {
	Op    string
	Cause error
}

func NewAuthError(op string) *AuthError {
	return &AuthError{Op: op}
}

func NewAuthErrorWithCause(op string, cause error) *AuthError {
	return &AuthError{Op: op, Cause: cause}
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrAuth, e.Op, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrAuth, e.Op))
}

func (e *AuthError) Unwrap() error {
	return ErrAuth
}

// CorruptDataError reports that a fetched record failed to parse. A single
// corrupt record is normally replaced with a structurally valid default
// projection rather than propagated; it only escapes when an entire response
// is unusable.
type CorruptDataError struct {
	Entity string
	ID     any
	Cause  error
}

func NewCorruptDataError(entity string, id any, cause error) *CorruptDataError {
	return &CorruptDataError{Entity: entity, ID: id, Cause: cause}
}

func (e *CorruptDataError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s %s (cause: %s)", ErrCorruptData, e.Entity, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s %s", ErrCorruptData, e.Entity, e.ID))
}

func (e *CorruptDataError) Unwrap() error {
	return ErrCorruptData
}
