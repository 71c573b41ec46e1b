package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorKind classifies every failure a saved objects operation may surface.
type ErrorKind string

// Error kinds.
const (
	KindNotFound        ErrorKind = "NotFound"
	KindConflict        ErrorKind = "Conflict"
	KindBadRequest      ErrorKind = "BadRequest"
	KindInvalidArgument ErrorKind = "InvalidArgument"
	KindForbidden       ErrorKind = "Forbidden"
	KindUnavailable     ErrorKind = "Unavailable"
)

// ErrorMetadata carries kind-specific detail. IsNotOverwritable marks an
// unresolvable conflict: the id belongs to a multi-namespace object outside
// the caller's namespace.
type ErrorMetadata struct {
	IsNotOverwritable bool `json:"isNotOverwritable,omitempty"`
}

// Error is the structured failure returned by the repository and the client.
// It matches the package sentinels with errors.Is by kind.
type Error struct {
	Kind     ErrorKind
	Message  string
	Type     string
	ID       string
	Metadata *ErrorMetadata
	Err      error
}

// Sentinels for errors.Is. They carry no type or id.
var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict             = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnresolvableConflict = &Error{Kind: KindConflict, Message: "unresolvable conflict", Metadata: &ErrorMetadata{IsNotOverwritable: true}}
	ErrBadRequest           = &Error{Kind: KindBadRequest, Message: "bad request"}
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrUnavailable          = &Error{Kind: KindUnavailable, Message: "storage unavailable"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind. The unresolvable
// conflict sentinel only matches conflicts flagged as not overwritable.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Metadata != nil && t.Metadata.IsNotOverwritable {
		return e.Metadata != nil && e.Metadata.IsNotOverwritable
	}
	return t.Type == "" && t.ID == ""
}

// StatusCode maps the kind onto the HTTP status the original store reports.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest, KindInvalidArgument:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON is the wire form of an Error inside bulk results and API bodies.
type errorJSON struct {
	StatusCode int            `json:"statusCode"`
	Error      string         `json:"error"`
	Kind       ErrorKind      `json:"kind"`
	Message    string         `json:"message"`
	Type       string         `json:"type,omitempty"`
	ID         string         `json:"id,omitempty"`
	Metadata   *ErrorMetadata `json:"metadata,omitempty"`
}

// MarshalJSON renders the error as {statusCode, error, kind, message, ...}.
func (e *Error) MarshalJSON() ([]byte, error) {
	code := e.StatusCode()
	return json.Marshal(errorJSON{
		StatusCode: code,
		Error:      http.StatusText(code),
		Kind:       e.Kind,
		Message:    e.Error(),
		Type:       e.Type,
		ID:         e.ID,
		Metadata:   e.Metadata,
	})
}

// UnmarshalJSON restores an Error from its wire form. The cause is flattened
// into Message.
func (e *Error) UnmarshalJSON(data []byte) error {
	var w errorJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Error{
		Kind:     w.Kind,
		Message:  w.Message,
		Type:     w.Type,
		ID:       w.ID,
		Metadata: w.Metadata,
	}
	return nil
}

// NewNotFoundError reports that (typ, id) does not exist in the caller's scope.
func NewNotFoundError(typ, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Saved object [%s/%s] not found", typ, id),
		Type:    typ,
		ID:      id,
	}
}

// NewConflictError reports a version mismatch or a resolvable id collision.
func NewConflictError(typ, id string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("Saved object [%s/%s] conflict", typ, id),
		Type:    typ,
		ID:      id,
	}
}

// NewUnresolvableConflictError reports an id held by a multi-namespace object
// outside the caller's namespace.
func NewUnresolvableConflictError(typ, id string) *Error {
	return &Error{
		Kind:     KindConflict,
		Message:  fmt.Sprintf("Saved object [%s/%s] conflict", typ, id),
		Type:     typ,
		ID:       id,
		Metadata: &ErrorMetadata{IsNotOverwritable: true},
	}
}

// NewBadRequestError reports an operation that is invalid for the object's type.
func NewBadRequestError(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewUnsupportedTypeError reports a type missing from the registry.
func NewUnsupportedTypeError(typ string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Message: fmt.Sprintf("Unsupported saved object type: '%s'", typ),
		Type:    typ,
	}
}

// NewInvalidArgumentError reports structurally invalid caller input.
func NewInvalidArgumentError(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewForbiddenError reports an operation disallowed by the permission descriptor.
func NewForbiddenError(typ, id string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: fmt.Sprintf("Saved object [%s/%s] forbidden", typ, id),
		Type:    typ,
		ID:      id,
	}
}

// NewUnavailableError wraps a storage failure.
func NewUnavailableError(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: "storage unavailable", Err: err}
}

// NewCanceledError reports a request its caller abandoned. The kind stays
// Unavailable and the context error is kept for errors.Is.
func NewCanceledError(err error) *Error {
	msg := "request canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request deadline exceeded"
	}
	return &Error{Kind: KindUnavailable, Message: msg, Err: err}
}

// IsContextError reports whether err comes from a canceled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// WithObject returns a copy of e tagged with the offending (typ, id).
func (e *Error) WithObject(typ, id string) *Error {
	cp := *e
	cp.Type = typ
	cp.ID = id
	return &cp
}

// AsError extracts the *Error from err. Any other non-nil error is reported
// as Unavailable, the kind for failures the taxonomy does not name.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewUnavailableError(err)
}

// KindOf returns the kind of err, or "" when err is nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a Conflict error of either sub-kind.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) || IsUnresolvableConflict(err) }

// IsUnresolvableConflict reports whether err is a not-overwritable conflict.
func IsUnresolvableConflict(err error) bool { return errors.Is(err, ErrUnresolvableConflict) }

// IsBadRequest reports whether err is a BadRequest error.
func IsBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }

// IsInvalidArgument reports whether err is an InvalidArgument error.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnavailable reports whether err is a storage failure.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
