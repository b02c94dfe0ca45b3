package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusAndMessage(t *testing.T) {
	tests := []struct {
		kind    Kind
		status  int
		message string
	}{
		{NotFoundURL, http.StatusNotFound, "Resource that you requested doesn't exist"},
		{NotFoundUser, http.StatusNotFound, "Person with entered uuid doesn't exist"},
		{InvalidID, http.StatusBadRequest, "Incorrect request, please enter correct uuid after '/api/users/'"},
		{InvalidBody, http.StatusBadRequest, "Incorrect request body. Body should be JSON object with information about person. Please try again with using template from readme.md"},
		{MethodNotImplemented, http.StatusNotImplemented, "This method is not implemented on this server, please use GET, POST, PUT or DELETE methods"},
		{InternalServerError, http.StatusInternalServerError, "We have some problems on server side. Please try again a little bit later"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.message, tt.kind.Message())
		})
	}
}

func TestUnknownKindFallsBackToServerError(t *testing.T) {
	k := Kind(99)
	assert.Equal(t, http.StatusInternalServerError, k.Status())
	assert.Equal(t, InternalServerError.Message(), k.Message())
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("decode: %w", New(InvalidBody, cause))

	assert.Equal(t, InvalidBody, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, InternalServerError, KindOf(cause))
	assert.Equal(t, InternalServerError, KindOf(nil))
}
