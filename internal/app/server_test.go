package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerResponseError(t *testing.T) {
	cause := errors.New("zone not in catalog")
	err := fmt.Errorf("getting zone: %w", NotFound(cause, "Zone does not exist"))

	var respErr *ServerResponseError
	assert.True(t, errors.As(err, &respErr))

	status, msg := respErr.ServerErrorResponse()
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Zone does not exist", msg)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "zone not in catalog")

	status, _ = BadRequest(cause, "Unknown layer").ServerErrorResponse()
	assert.Equal(t, http.StatusBadRequest, status)
}
