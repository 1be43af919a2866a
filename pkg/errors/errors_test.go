package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"not found", NotFound("service"), http.StatusNotFound},
		{"invalid argument", InvalidArgument("date is required"), http.StatusBadRequest},
		{"conflict", Conflict("slug already exists"), http.StatusConflict},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestFromError(t *testing.T) {
	appErr := NotFound("booking")
	wrapped := fmt.Errorf("lookup failed: %w", appErr)

	got := FromError(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "booking not found", got.Message)

	plain := FromError(fmt.Errorf("driver: bad connection"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode())
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("validate: %w", Conflict("code already exists"))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindConflict))
}

func TestErrorMessage(t *testing.T) {
	e := Wrap(NotFound("service"), fmt.Errorf("sql: no rows in result set"))
	assert.Equal(t, "service not found: sql: no rows in result set", e.Error())
	assert.Equal(t, "service not found", NotFound("service").Error())
}
