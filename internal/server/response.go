package server

import (
	"errors"
	"net/http"
)

type Response struct {
	Status int
	Body   any
}

type ErrorResponse struct {
	Status   int    `json:"-"`
	ErrorMsg string `json:"error_msg"`
}

func (e *ErrorResponse) AsResponse() Response {
	return Response{
		Status: e.Status,
		Body:   e,
	}
}

// errorMessage returns the status and the message of err that are safe
// to show to clients.
func errorMessage(err error) (int, string) {
	var apiError ServerErrorResponser
	if errors.As(err, &apiError) {
		return apiError.ServerErrorResponse()
	}

	return http.StatusInternalServerError, "Something went wrong"
}
