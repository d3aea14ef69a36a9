package handler

import (
	"errors"
	"net/http"
	"strconv"

	"granth/internal/domain"
	"granth/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidReference):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]any{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn to retrieve the existing resource
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func() (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		existing, fetchErr := fetchFn()
		if fetchErr != nil {
			handleError(w, fetchErr)
			return
		}

		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, err)
}

// setRevision exposes the document revision as a strong ETag
func setRevision(w http.ResponseWriter, revision string) {
	if revision != "" {
		w.Header().Set("ETag", strconv.Quote(revision))
	}
}

// respondBadBody answers an unreadable request body: 413 past the size limit,
// 400 otherwise
func respondBadBody(w http.ResponseWriter, err error, detail string) {
	if httputil.IsBodyTooLarge(err) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body exceeds the size limit")
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, detail)
}

// requireParams reads path values and responds 400 naming the first one missing
func requireParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = r.PathValue(name)
		if values[i] == "" {
			httputil.RespondError(w, http.StatusBadRequest, name+" is required")
			return nil, false
		}
	}
	return values, true
}
