// Package errors is the coded error type shared by the control, its
// transports and the CLI. Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for callers and the wire. Values are part of
// the API; append only.
type ErrorCode uint16

const (
	// ErrorCodeUnknown is anything unclassified
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is a panic recovered by middleware or the scheduler loop
	ErrorCodePanic
	// ErrorCodeUnavailable is a control that is detached, stopped or not ready yet
	ErrorCodeUnavailable
	// ErrorCodeConflict is lifecycle misuse such as attaching twice
	ErrorCodeConflict
	// ErrorCodeInvalidArgument is an operation argument out of its domain
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a request payload failing its tags
	ErrorCodeValidation
	// ErrorCodeJSON is a body that does not decode
	ErrorCodeJSON
	// ErrorCodeNotFound is a missing layer, source or route
	ErrorCodeNotFound
	// ErrorCodeInvalidOption is a construction option the control cannot run with
	ErrorCodeInvalidOption
	// ErrorCodeUnsupportedFilterShape is a layer filter the composer cannot install onto
	ErrorCodeUnsupportedFilterShape
	// ErrorCodeNotComposed is a refresh against a filter that was never installed
	ErrorCodeNotComposed
	// ErrorCodeMethodNotAllowed is a known route hit with the wrong verb
	ErrorCodeMethodNotAllowed
)

var codes = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:                {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:                  {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:            {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeConflict:               {"conflict", http.StatusConflict},
	ErrorCodeInvalidArgument:        {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:             {"validation", http.StatusBadRequest},
	ErrorCodeJSON:                   {"json", http.StatusBadRequest},
	ErrorCodeNotFound:               {"not_found", http.StatusNotFound},
	ErrorCodeInvalidOption:          {"invalid_option", http.StatusUnprocessableEntity},
	ErrorCodeUnsupportedFilterShape: {"unsupported_filter_shape", http.StatusUnprocessableEntity},
	ErrorCodeNotComposed:            {"not_composed", http.StatusInternalServerError},
	ErrorCodeMethodNotAllowed:       {"method_not_allowed", http.StatusMethodNotAllowed},
}

// String is the snake_case name of c
func (c ErrorCode) String() string {
	if int(c) < len(codes) {
		return codes[c].name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode is the status a transport answers with for c. Unregistered
// codes are 500.
func HTTPStatusCode(c ErrorCode) int {
	if int(c) < len(codes) {
		return codes[c].status
	}
	return http.StatusInternalServerError
}

// Error carries a code plus an optional field (option name, layer id, payload
// key), an operation tag and a wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form of an Error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig != nil:
		return e.msg + ": " + e.orig.Error()
	default:
		return e.msg
	}
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.orig }

// Is matches a bare sentinel of the same code, so errors.Is(err, ErrNotFound)
// holds for any not found error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.code == e.code && t.orig == nil && t.field == "" && t.op == ""
}

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation tag, if any
func (e *Error) Op() string { return e.op }

// ToWire drops the cause and keeps what a client may see
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// ErrNotFound is the sentinel for errors.Is checks
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// As finds our *Error anywhere in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns err's code, or Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom maps any error to a Wire; nil gives the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// WithField returns a copy of err naming field. Foreign errors pass through.
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a format
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and msg to orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a format
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Conflictf(format string, a ...any) error    { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Internalf(format string, a ...any) error    { return Newf(ErrorCodeUnknown, format, a...) }

// MethodNotAllowedf is a wrong verb on a known route
func MethodNotAllowedf(format string, a ...any) error {
	return Newf(ErrorCodeMethodNotAllowed, format, a...)
}

// InvalidOptionf names the construction option that was rejected
func InvalidOptionf(option, format string, a ...any) error {
	return &Error{code: ErrorCodeInvalidOption, msg: fmt.Sprintf(format, a...), field: option}
}

// UnsupportedFilterShapef is an install failure on layerID
func UnsupportedFilterShapef(layerID, format string, a ...any) error {
	return &Error{code: ErrorCodeUnsupportedFilterShape, msg: fmt.Sprintf(format, a...), field: layerID, op: "install"}
}

// NotComposedf is a refresh against a filter without the date gate
func NotComposedf(format string, a ...any) error {
	return &Error{code: ErrorCodeNotComposed, msg: fmt.Sprintf(format, a...), op: "refresh"}
}
