package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/middleware"
)

// Logging tags every API request with an ID and logs it on completion
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// Recovery turns a panic into the JSON internal error envelope carrying the
// request ID. Install it inside Logging.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, r *http.Request, _ any) {
	body := apierr.ErrorResponse{Error: apierr.APIError{
		Code:    apierr.CodeInternalError,
		Message: "Internal server error",
	}}
	if id := middleware.RequestID(r.Context()); id != "" {
		body.Error.Details = map[string]string{"requestId": id}
	}
	response.JSON(w, http.StatusInternalServerError, body)
}
