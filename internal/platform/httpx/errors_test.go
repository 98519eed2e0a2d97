package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(Errorf(ErrInvalidArgument, "bad")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(Errorf(ErrValidation, "bad")))
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("lookup: %w", Errorf(ErrNotFound, "gone"))))
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(fmt.Errorf("find customer: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("disk on fire")))
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", Errorf(ErrValidation, "email must be a valid email address"))
	assert.Equal(t, "email must be a valid email address", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{Errorf(ErrNotFound, "Customer with ID 9 not found"), http.StatusNotFound, "Customer with ID 9 not found"},
		{Errorf(ErrInvalidArgument, "Invalid customer ID"), http.StatusBadRequest, "Invalid customer ID"},
		{errors.New("pq: relation does not exist"), http.StatusInternalServerError, "Internal server error"},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Request timed out"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.status, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, tc.body, body.Error)
	}
}

func TestJSONIndentsOutput(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, map[string]int{"a": 1})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", rr.Body.String())
}
