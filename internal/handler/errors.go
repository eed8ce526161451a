package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong. Fields is set only for validation
// errors and maps each offending request field to its messages.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func errorBody(code, message string, fields map[string][]string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Fields: fields}}
}

// requestError is a request rejected before reaching the service layer
// (malformed JSON, unparseable path or query parameter).
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// errUnauthenticated means no user id was found in the request context.
var errUnauthenticated = errors.New("authentication credentials were not provided")

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and error body. Errors that match no
// known category are logged and reported as 500 without leaking details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr   *requestError
		maxErr   *http.MaxBytesError
		validErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", reqErr.msg, nil))
	case errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", "Request body too large.", nil))
	case errors.As(err, &validErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", validErr.Summary(), validErr.Fields))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", err.Error(), nil))
	case errors.Is(err, errUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "Authentication credentials were not provided.", nil))
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden", "You do not have permission to perform this action.", nil))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "Not found.", nil))
	default:
		s.log.ErrorContext(r.Context(), "unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "Internal server error.", nil))
	}
}
