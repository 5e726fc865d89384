// Package errors carries coded errors from stores and adapters up to the HTTP envelope
// Import it as perr so the stdlib package stays reachable as errors
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for callers and for the wire
// The numbers are sent to clients, so new codes go at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// a FHIR server or database that may come back
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	// a malformed reference, id or document
	ErrorCodeInvalidArgument
	// input rejected by a validator or a constraint
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
}

// HTTPStatusCode is the status an envelope carrying c is sent with, 500 when unmapped
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error
// msg goes to clients; op and the cause stay in logs
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

// Wire is the client-facing part of an Error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := e.msg
	if e.op != "" {
		s = e.op + ": " + s
	}
	if e.cause == nil {
		return s
	}
	return s + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) ToWire() Wire    { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

func (e *Error) with(f func(*Error)) error {
	c := *e
	f(&c)
	return &c
}

// WireFrom is ToWire for any error; foreign errors become Unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root follows Unwrap to the innermost error
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the status err is reported with
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField names the offending input on a copy of err
// Foreign errors are returned unchanged, as with WithOp
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		return e.with(func(c *Error) { c.field = field })
	}
	return err
}

// WithOp prefixes a copy of err with the failing operation
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		return e.with(func(c *Error) { c.op = op })
	}
	return err
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap codes cause; its text is kept out of the wire message
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Forbiddenf(format string, a ...any) error    { return Newf(ErrorCodeForbidden, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func Internalf(format string, a ...any) error     { return Newf(ErrorCodeUnknown, format, a...) }
