package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/service"
	"github.com/learnflow/learnflow-api/internal/service/auth"
	"github.com/learnflow/learnflow-api/internal/store"
)

// MapErrorToStatusCode translates internal errors into HTTP status codes.
// Unknown errors map to 500 so that nothing internal leaks by accident.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the given error.
// Internal errors are reduced to a generic message; expected domain errors
// keep enough detail to be actionable.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or missing authentication token"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrOutlineNotFound):
		return "Outline not found"
	case errors.Is(err, store.ErrArticleNotFound):
		return "Article not found"
	case errors.Is(err, store.ErrDocumentNotFound):
		return "Document not found"
	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"
	case errors.Is(err, store.ErrInterviewQuestionNotFound):
		return "Interview question not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "A user with this email already exists"
	case errors.Is(err, store.ErrUsernameExists):
		return "A user with this username already exists"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An internal error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message, logs it,
// and writes the response. It is the single exit path handlers use for
// service and store failures.
func HandleAPIError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	logger *slog.Logger,
) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err, logger)
}
