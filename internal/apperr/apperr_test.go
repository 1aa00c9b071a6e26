package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestError_IsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperr.Forbidden("Permission", "no permission"))

	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, http.StatusForbidden, apperr.HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		apperr.NotFound("Booking", "missing"):             http.StatusNotFound,
		apperr.InvalidRequest("Assets", "bad"):            http.StatusBadRequest,
		apperr.Conflict("Qr", "duplicate", nil):           http.StatusConflict,
		apperr.Internal("Booking", "boom", errors.New("")): http.StatusInternalServerError,
		errors.New("plain"):                               http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, apperr.HTTPStatus(err), err.Error())
	}
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	msg, label := apperr.Message(apperr.Internal("Booking", "db exploded", errors.New("conn reset")))
	assert.Equal(t, "Something went wrong", msg)
	assert.Equal(t, "Booking", label)

	msg, label = apperr.Message(apperr.InvalidRequest("Assets", "booking dates are needed"))
	assert.Equal(t, "booking dates are needed", msg)
	assert.Equal(t, "Assets", label)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := apperr.Internal("Jobs", "failed", cause).With("id", "x")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "x", err.Fields["id"])
}
