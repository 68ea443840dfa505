package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/logging"
	"climbtracker/internal/model"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// urlUUID parses a UUID path parameter, writing a 400 when it is malformed.
func urlUUID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses a required UUID query parameter.
func queryUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		httputil.WriteBadRequest(w, "Query parameter '"+name+"' is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "Query parameter '"+name+"' must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning def when absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

// queryFloat parses a float query parameter. required controls whether absence is an error.
func queryFloat(w http.ResponseWriter, r *http.Request, name string, def float64, required bool) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			httputil.WriteBadRequest(w, "Query parameter '"+name+"' is required")
			return 0, false
		}
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

// decodeBody binds and validates a JSON body, writing the 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := httputil.DecodeAndValidate(r, dst)
	if err == nil {
		return true
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		httputil.WriteValidationError(w, verr)
		return false
	}
	httputil.WriteBadRequest(w, "Invalid request body")
	return false
}

// writeServiceError maps domain errors to HTTP responses. Anything unrecognised
// is logged and reported as a 500 carrying fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteValidationError(w, verr)

	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrSessionNotFound):
		httputil.WriteNotFound(w, "Session not found")
	case errors.Is(err, model.ErrLocationNotFound):
		httputil.WriteNotFound(w, "Location not found")
	case errors.Is(err, model.ErrClimbNotFound):
		httputil.WriteNotFound(w, "Climb not found")
	case errors.Is(err, model.ErrFriendshipNotFound):
		httputil.WriteNotFound(w, "Friendship not found")
	case errors.Is(err, model.ErrNotLiked):
		httputil.WriteNotFound(w, "Like not found")

	case errors.Is(err, model.ErrFriendshipExists):
		httputil.WriteConflict(w, "Friendship already exists")
	case errors.Is(err, model.ErrAlreadyLiked):
		httputil.WriteConflict(w, "Session already liked")
	case errors.Is(err, model.ErrUsernameExists):
		httputil.WriteConflict(w, "Username already exists")
	case errors.Is(err, model.ErrEmailExists):
		httputil.WriteConflict(w, "Email already exists")

	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Media exceeds 25MB limit")
	case errors.Is(err, model.ErrInvalidContentType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidContentType, "Unsupported media type. Allowed: jpeg, png, gif, webp, mp4")

	case errors.Is(err, model.ErrCannotFriendSelf),
		errors.Is(err, model.ErrInvalidDays),
		errors.Is(err, model.ErrInvalidCoordinates),
		errors.Is(err, model.ErrInvalidRadius),
		errors.Is(err, model.ErrInvalidLocationType),
		errors.Is(err, model.ErrContentRequired),
		errors.Is(err, model.ErrContentTooLong):
		httputil.WriteBadRequest(w, err.Error())

	default:
		logger := logging.Component("http")
		logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(fallback)
		httputil.WriteInternalError(w, fallback)
	}
}
