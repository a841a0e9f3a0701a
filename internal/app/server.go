// Package app holds errors shared by the services and the HTTP server.
package app

import "net/http"

// ServerResponseError is an error whose message and status code are
// safe to return to HTTP clients. The wrapped error is for logs only.
type ServerResponseError struct {
	error

	msg        string
	statusCode int
}

func NewServerResponseError(err error, msg string, statusCode int) *ServerResponseError {
	return &ServerResponseError{
		error:      err,
		msg:        msg,
		statusCode: statusCode,
	}
}

// NotFound wraps err as a 404 with msg.
func NotFound(err error, msg string) *ServerResponseError {
	return NewServerResponseError(err, msg, http.StatusNotFound)
}

// BadRequest wraps err as a 400 with msg.
func BadRequest(err error, msg string) *ServerResponseError {
	return NewServerResponseError(err, msg, http.StatusBadRequest)
}

// ServerErrorResponse returns the status code and the client message.
func (e *ServerResponseError) ServerErrorResponse() (int, string) {
	return e.statusCode, e.msg
}

func (e *ServerResponseError) Unwrap() error {
	return e.error
}
