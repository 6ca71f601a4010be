package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", NewNotFound("ticket", nil)), CodeNotFound, http.StatusNotFound},
		{"conflict", NewConflict("dup", nil), CodeConflict, http.StatusConflict},
		{"duplicate input", NewDuplicate("dup", nil), CodeConflict, http.StatusBadRequest},
		{"credentials", NewInvalidCredentials(), CodeInvalidCredentials, http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{"plain error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
		{"fiber 404", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber 429", fiber.ErrTooManyRequests, "Too Many Requests", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	de := ToDomainError(NewInternalError(cause))

	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFound("ticket", map[string]any{"ticket_id": "x"}))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.Nil(t, MapError(nil))
}
