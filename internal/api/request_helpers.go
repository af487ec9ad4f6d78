package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// Messages for malformed path parameters.
const msgInvalidTaskID = "Invalid task ID"

// getPathUUID extracts and parses a UUID path parameter. A missing or
// malformed value yields a *domain.ValidationError naming field with message.
func getPathUUID(r *http.Request, paramName, field, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, message, domain.ErrInvalidID)
	}
	return id, nil
}

// requireUserID returns the authenticated user's ID, writing a 401 response
// when the request carries none.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndTaskID extracts the user ID from the context and the task ID
// from the path. It writes an error response and returns false if either is
// missing or invalid.
func handleUserIDAndTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	taskID, err := getPathUUID(r, "id", "id", msgInvalidTaskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, taskID, true
}
