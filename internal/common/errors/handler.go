// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"
	"time"
)

// HTTPStatus maps an error to the status class the boundary layer should
// answer with. Engine code never deals in statuses itself.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeForbidden, ErrCodeNotOwner:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateApplication, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeOfferNotOpen, ErrCodeCapacityExceeded, ErrCodeInvalidStatus,
		ErrCodeInvalidState, ErrCodeInvalidTransition, ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures any error is a StandardError for boundary serialization.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Erreur interne",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
