// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy of the offer and
// candidature lifecycle engines.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeOfferNotOpen         ErrorCode = "OFFER_NOT_OPEN"
	ErrCodeCapacityExceeded     ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidState         ErrorCode = "INVALID_STATE"
	ErrCodeNotOwner             ErrorCode = "NOT_OWNER"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Newf creates a StandardError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *StandardError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetails attaches free-text details to the error.
func (e *StandardError) WithDetails(details string) *StandardError {
	e.Details = details
	return e
}

// WithMetadata attaches a metadata map to the error.
func (e *StandardError) WithMetadata(md map[string]interface{}) *StandardError {
	e.Metadata = md
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ==========================
// Constructors per code
// ==========================

// NewForbiddenError: the actor lacks the role or ownership required.
func NewForbiddenError(details string) *StandardError {
	return New(ErrCodeForbidden, "Vous n'avez pas la permission d'effectuer cette action").WithDetails(details)
}

// NewNotFoundError: the referenced resource does not exist.
func NewNotFoundError(resource, id string) *StandardError {
	return Newf(ErrCodeNotFound, "%s introuvable", resource).WithMetadata(map[string]interface{}{
		"resource": resource,
		"id":       id,
	})
}

// NewDuplicateApplicationError: uniqueness violation on (student, offer).
func NewDuplicateApplicationError(studentID, offerID string) *StandardError {
	return New(ErrCodeDuplicateApplication, "Vous avez déjà candidaté à cette offre").WithMetadata(map[string]interface{}{
		"studentId": studentID,
		"offerId":   offerID,
	})
}

// NewOfferNotOpenError: apply attempted against a non-validated offer.
func NewOfferNotOpenError(offerID, state string) *StandardError {
	return New(ErrCodeOfferNotOpen, "Cette offre n'est pas disponible pour candidature").WithMetadata(map[string]interface{}{
		"offerId": offerID,
		"state":   state,
	})
}

// NewCapacityExceededError: defensive cap violation.
func NewCapacityExceededError(offerID string, count int) *StandardError {
	return New(ErrCodeCapacityExceeded, "Cette offre a atteint le nombre maximum de candidatures").WithMetadata(map[string]interface{}{
		"offerId": offerID,
		"count":   count,
	})
}

// NewInvalidStatusError: caller supplied a status outside the enumerated set.
func NewInvalidStatusError(status string) *StandardError {
	return New(ErrCodeInvalidStatus, "Statut invalide").WithDetails(status)
}

// NewInvalidStateError: caller supplied a state outside the enumerated set.
func NewInvalidStateError(state string) *StandardError {
	return New(ErrCodeInvalidState, "État invalide").WithDetails(state)
}

// NewNotOwnerError: withdrawal attempted by a non-applicant.
func NewNotOwnerError(details string) *StandardError {
	return New(ErrCodeNotOwner, "Vous ne pouvez retirer que vos propres candidatures").WithDetails(details)
}

// NewInvalidTransitionError: the offer state does not permit the transition.
func NewInvalidTransitionError(offerID, from, attempted string) *StandardError {
	return Newf(ErrCodeInvalidTransition, "transition %s non permise depuis l'état %q", attempted, from).
		WithMetadata(map[string]interface{}{"offerId": offerID, "from": from})
}

// NewConflictError: a uniqueness constraint other than the application pair.
func NewConflictError(message string) *StandardError {
	return New(ErrCodeConflict, message)
}

// NewValidationError: the submitted payload failed schema validation.
func NewValidationError(details string) *StandardError {
	return New(ErrCodeValidationFailed, "Données invalides").WithDetails(details)
}

// NewInternalError wraps an unexpected failure. Marked retryable so callers
// at the boundary may surface it as a transient condition.
func NewInternalError(err error) *StandardError {
	e := New(ErrCodeInternal, "Erreur interne")
	if err != nil {
		e.Details = err.Error()
	}
	e.Retryable = true
	return e
}
