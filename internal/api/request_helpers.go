package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/api/middleware"
	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// getUserIDFromContext extracts the authenticated user ID placed in the
// context by the auth middleware. A missing ID means the route was wired
// without authentication; the caller should treat it as a server error.
func getUserIDFromContext(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}

// getPathUUID parses a UUID path parameter, mapping parse failures to a
// validation error so they surface as a 400.
func getPathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, param)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", domain.ErrInvalidID, param)
	}
	return id, nil
}

// getPathString reads a non-empty string path parameter.
func getPathString(r *http.Request, param string) (string, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return "", fmt.Errorf("%w: missing %s", domain.ErrInvalidID, param)
	}
	return raw, nil
}

// respondUnauthenticated is the shared exit path for the context-lookup
// failure that can only come from a wiring mistake.
func respondUnauthenticated(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusInternalServerError, "An internal error occurred")
}
