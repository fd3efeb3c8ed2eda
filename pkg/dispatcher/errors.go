package dispatcher

import (
	"errors"
	"fmt"
)

// Kind identifies one entry of the dispatcher error taxonomy.
type Kind int

const (
	KindUnknownError Kind = iota
	KindMissingURL
	KindInvalidRequest
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindError4xx
	KindServerError
	KindError5xx
	KindEncodingError
	KindDecodingError
	KindNetworkError
)

var kindNames = map[Kind]string{
	KindUnknownError:   "unknown error",
	KindMissingURL:     "missing url",
	KindInvalidRequest: "invalid request",
	KindBadRequest:     "bad request",
	KindUnauthorized:   "unauthorized",
	KindForbidden:      "forbidden",
	KindNotFound:       "not found",
	KindError4xx:       "client error",
	KindServerError:    "server error",
	KindError5xx:       "server error",
	KindEncodingError:  "encoding error",
	KindDecodingError:  "decoding error",
	KindNetworkError:   "network error",
}

// String returns string representation of Kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknownError]
}

// Error is the error type delivered by the dispatcher. Code is only
// meaningful for KindError4xx and KindError5xx.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	msg := "dispatcher: " + e.Kind.String()
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, and by code when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Code == 0 || t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrMissingURL     = &Error{Kind: KindMissingURL}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrBadRequest     = &Error{Kind: KindBadRequest}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrError4xx       = &Error{Kind: KindError4xx}
	ErrServerError    = &Error{Kind: KindServerError}
	ErrError5xx       = &Error{Kind: KindError5xx}
	ErrEncodingError  = &Error{Kind: KindEncodingError}
	ErrDecodingError  = &Error{Kind: KindDecodingError}
	ErrNetworkError   = &Error{Kind: KindNetworkError}
	ErrUnknownError   = &Error{Kind: KindUnknownError}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Error4xx returns the client error for the given status code.
func Error4xx(code int) *Error {
	return &Error{Kind: KindError4xx, Code: code}
}

// Error5xx returns the server error for the given status code.
func Error5xx(code int) *Error {
	return &Error{Kind: KindError5xx, Code: code}
}

// KindOf returns the Kind of err, or KindUnknownError when err is not a
// dispatcher error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknownError
}
