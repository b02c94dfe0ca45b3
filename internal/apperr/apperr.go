package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a request failure. Every kind maps to exactly one status
// code and one client-facing message.
type Kind int

const (
	InternalServerError Kind = iota
	NotFoundURL
	NotFoundUser
	InvalidID
	InvalidBody
	MethodNotImplemented
)

var messages = map[Kind]string{
	NotFoundURL:          "Resource that you requested doesn't exist",
	NotFoundUser:         "Person with entered uuid doesn't exist",
	InvalidID:            "Incorrect request, please enter correct uuid after '/api/users/'",
	InvalidBody:          "Incorrect request body. Body should be JSON object with information about person. Please try again with using template from readme.md",
	InternalServerError:  "We have some problems on server side. Please try again a little bit later",
	MethodNotImplemented: "This method is not implemented on this server, please use GET, POST, PUT or DELETE methods",
}

var statuses = map[Kind]int{
	NotFoundURL:          http.StatusNotFound,
	NotFoundUser:         http.StatusNotFound,
	InvalidID:            http.StatusBadRequest,
	InvalidBody:          http.StatusBadRequest,
	InternalServerError:  http.StatusInternalServerError,
	MethodNotImplemented: http.StatusNotImplemented,
}

// Message returns the catalog text for k.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return messages[InternalServerError]
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	if code, ok := statuses[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case NotFoundURL:
		return "not_found_url"
	case NotFoundUser:
		return "not_found_user"
	case InvalidID:
		return "invalid_id"
	case InvalidBody:
		return "invalid_body"
	case MethodNotImplemented:
		return "method_not_implemented"
	default:
		return "internal_server_error"
	}
}

// Error attaches a Kind to an underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind carried by err, or InternalServerError when err
// carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return InternalServerError
}
