package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewDomainError("FORBIDDEN", "nope", http.StatusForbidden, nil)

	mapped := ToDomainError(original)

	assert.Same(t, original, mapped)
}

func TestToDomainErrorMapsFrameworkErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        *fiber.Error
		wantCode   string
		wantStatus int
	}{
		{"not found", fiber.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"method not allowed", fiber.ErrMethodNotAllowed, "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed},
		{"unauthorized", fiber.ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
		{"generic client error", fiber.NewError(http.StatusRequestEntityTooLarge), "BAD_REQUEST", http.StatusRequestEntityTooLarge},
		{"upstream failure", fiber.NewError(http.StatusServiceUnavailable), "INTERNAL_ERROR", http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := ToDomainError(tc.err)

			assert.Equal(t, tc.wantCode, mapped.Code)
			assert.Equal(t, tc.wantStatus, mapped.HTTPStatus)
			assert.Equal(t, tc.err.Message, mapped.Message)
		})
	}
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")

	mapped := ToDomainError(cause)

	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.ErrorIs(t, mapped, cause)
}
