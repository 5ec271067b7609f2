package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/p-devianne/flashmind/internal/api/shared"
	"github.com/p-devianne/flashmind/internal/auth"
	"github.com/p-devianne/flashmind/internal/backup"
	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/service"
	"github.com/p-devianne/flashmind/internal/store"
)

// MapErrorToStatusCode maps an error from any layer to an HTTP status.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, study.ErrInvalidFeedback):
		return http.StatusConflict

	case errors.Is(err, study.ErrEmptyTopic):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, backup.ErrInvalidFormat),
		errors.Is(err, backup.ErrEmptyCSV),
		errors.Is(err, backup.ErrUnrecognizedCSV),
		errors.Is(err, backup.ErrUnsupportedFormat):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrStorageFailure):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrTopicNotFound):
		return "Topic not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, service.ErrSessionNotFound):
		return "Study session not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, study.ErrEmptyTopic):
		return "Add some flashcards first!"
	case errors.Is(err, study.ErrInvalidFeedback):
		return "Flip the card first!"

	case errors.Is(err, domain.ErrValidation):
		return SanitizeValidationError(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, backup.ErrEmptyCSV):
		return backup.ErrEmptyCSV.Error()
	case errors.Is(err, backup.ErrUnrecognizedCSV):
		return backup.ErrUnrecognizedCSV.Error()
	case errors.Is(err, backup.ErrUnsupportedFormat):
		return "Unsupported backup format"
	case errors.Is(err, backup.ErrInvalidFormat):
		return "Invalid backup file"

	case errors.Is(err, service.ErrStorageFailure):
		return "Failed to save progress, please try again"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a domain or request validation error into
// a short message naming the field.
func SanitizeValidationError(err error) string {
	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) && domainErr.Field != "" {
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status and safe message and writes the
// reply. fallback replaces the generic message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
