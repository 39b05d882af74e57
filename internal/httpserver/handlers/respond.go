package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Error      string   `json:"error,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its HTTP status and writes it as JSON.
// Details of 5xx errors are logged, never returned to the client.
func WriteError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Validation failed",
			Error:      http.StatusText(http.StatusBadRequest),
			Errors:     validationErr.Errors,
		})

	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{
			StatusCode: http.StatusNotFound,
			Message:    notFoundErr.Error(),
			Error:      http.StatusText(http.StatusNotFound),
		})

	case errors.Is(err, domain.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", `Bearer realm="bookmarks"`)
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			StatusCode: http.StatusUnauthorized,
			Message:    "Unauthorized",
		})

	default:
		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err),
		}
		var storageErr *domain.StorageError
		if errors.As(err, &storageErr) {
			fields = append(fields, logger.Op(storageErr.Op))
		}
		log.Error("request failed", fields...)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
		})
	}
}

// WriteStatus writes a bare error body for status.
func WriteStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}
