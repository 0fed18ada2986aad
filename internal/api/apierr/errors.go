package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/questions"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details maps request fields to what was wrong with them
	Details map[string]string `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeQuestionNotFound    = "QUESTION_NOT_FOUND"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeEmptyQuestionPool   = "EMPTY_QUESTION_POOL"
	CodeDuplicatePlayerName = "DUPLICATE_PLAYER_NAME"
	CodeRosterFull          = "ROSTER_FULL"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var impErr *questions.ImportError
	if errors.As(err, &impErr) {
		he := *toHTTPError(impErr.Err)
		details := map[string]string{"imported": strconv.Itoa(impErr.Imported)}
		for k, v := range he.apiError.Details {
			details[k] = v
		}
		he.apiError.Details = details
		return &he
	}

	var recErr *questions.RecordError
	if errors.As(err, &recErr) {
		return &httpError{http.StatusBadRequest, APIError{
			Code:    CodeInvalidRequest,
			Message: "Invalid question file",
			Details: map[string]string{"questions": recErr.Error()},
		}}
	}

	switch {
	// Lookups
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeUserNotFound, Message: "User not found"}}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeQuestionNotFound, Message: "Question not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeSessionNotFound, Message: "Session not found"}}

	// Session state machine
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{Code: CodeInvalidTransition, Message: "Operation not valid in the current session state"}}
	case errors.Is(err, model.ErrEmptyQuestionPool):
		return &httpError{http.StatusConflict, APIError{Code: CodeEmptyQuestionPool, Message: "No questions available for this type and mode"}}
	case errors.Is(err, model.ErrDuplicatePlayerName):
		return &httpError{http.StatusConflict, APIError{Code: CodeDuplicatePlayerName, Message: "A player with this name already joined"}}
	case errors.Is(err, model.ErrRosterFull):
		return &httpError{http.StatusConflict, APIError{Code: CodeRosterFull, Message: "All players have already been added"}}

	// Malformed input that got past request validation
	case errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrInvalidChallengeType),
		errors.Is(err, model.ErrInvalidPlayerCount),
		errors.Is(err, model.ErrBlankPlayerName),
		errors.Is(err, model.ErrInvalidOutcome),
		errors.Is(err, model.ErrInvalidLocale),
		errors.Is(err, model.ErrInvalidScoreEntry),
		errors.Is(err, model.ErrBlankContent),
		errors.Is(err, questions.ErrInvalidFile):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewValidationError creates an invalid request error listing the bad fields
func NewValidationError(details map[string]string) error {
	return &httpError{http.StatusBadRequest, APIError{
		Code:    CodeInvalidRequest,
		Message: "Request validation failed",
		Details: details,
	}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: "Administrator access required"}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found"}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeMethodNotAllowed, Message: "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
