package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  Conflict("equipment is fully booked", nil),
			want: "CONFLICT: equipment is fully booked",
		},
		{
			name: "with cause",
			err:  Internal("failed to create booking", errors.New("connection reset")),
			want: "INTERNAL_ERROR: failed to create booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("write concern failed")
	err := Persistence("failed to persist booking", cause)

	assert.ErrorIs(t, err, cause)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("Booking"), http.StatusNotFound},
		{Validation("bad spec", nil), http.StatusUnprocessableEntity},
		{InvalidInput("missing equipment_id"), http.StatusBadRequest},
		{Conflict("overbooked", nil), http.StatusConflict},
		{LockTimeout("equipment eq-1"), http.StatusServiceUnavailable},
		{Persistence("storage down", nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestRetryableOnlyForLockTimeout(t *testing.T) {
	assert.True(t, IsRetryable(LockTimeout("equipment eq-1")))
	assert.False(t, IsRetryable(Conflict("overbooked", nil)))
	assert.False(t, IsRetryable(Persistence("storage down", nil)))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("commit spec 2: %w", LockTimeout("equipment eq-9"))

	assert.True(t, IsCode(err, CodeLockTimeout))
	assert.False(t, IsCode(err, CodeConflict))
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)

	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
}
