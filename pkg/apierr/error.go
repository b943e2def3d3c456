package apierr

import "fmt"

// Error is a structured API error: a machine-readable code and client-facing
// message plus the HTTP status it maps to. A wrapped cause, when present, is
// for logs only and never reaches the wire.
type Error struct {
	code    Code
	status  int
	message string
	cause   error
}

// New creates an Error with no underlying cause.
func New(code Code, status int, message string) *Error {
	return &Error{code: code, status: status, message: message}
}

// Wrap creates an Error carrying an underlying cause.
func Wrap(code Code, status int, message string, cause error) *Error {
	return &Error{code: code, status: status, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Code() Code      { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Status() int     { return e.status }

// ErrorResponse is the JSON body written to the client.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Response renders the error in wire format, without the cause.
func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: e.code, Message: e.message}}
}
