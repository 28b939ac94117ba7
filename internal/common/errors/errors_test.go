package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, CodeOf(NewNotFoundError("Offre", "offer-1")))
	assert.Equal(t, ErrCodeInternal, CodeOf(fmt.Errorf("plain error")))

	wrapped := fmt.Errorf("store: %w", NewDuplicateApplicationError("student-1", "offer-1"))
	assert.Equal(t, ErrCodeDuplicateApplication, CodeOf(wrapped))
	assert.True(t, Is(wrapped, ErrCodeDuplicateApplication))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewForbiddenError("nope"), http.StatusForbidden},
		{NewNotOwnerError("cand-1"), http.StatusForbidden},
		{NewNotFoundError("Offre", "x"), http.StatusNotFound},
		{NewDuplicateApplicationError("s", "o"), http.StatusConflict},
		{NewConflictError("busy"), http.StatusConflict},
		{NewOfferNotOpenError("o", "Refusée"), http.StatusBadRequest},
		{NewCapacityExceededError("o", 5), http.StatusBadRequest},
		{NewInvalidStatusError("Acceptee"), http.StatusBadRequest},
		{NewInvalidStateError("EnAttente"), http.StatusBadRequest},
		{NewInvalidTransitionError("o", "Validée", "validation"), http.StatusBadRequest},
		{NewValidationError("champ manquant"), http.StatusBadRequest},
		{NewInternalError(fmt.Errorf("db down")), http.StatusInternalServerError},
		{fmt.Errorf("untyped"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error %v", tt.err)
	}
}

func TestNormalize(t *testing.T) {
	std := NewForbiddenError("nope")
	assert.Same(t, std, Normalize(std))

	norm := Normalize(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, norm.Code)
	assert.Equal(t, "plain", norm.Details)
}
