package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
)

// MessageResponse is the body of every non-validation error.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse is the body of a 400 caused by invalid fields.
type ValidationErrorResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Named("api").Warnw("failed to encode response", "error", err)
		}
	}
}

// Error writes a {"message": ...} body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// ValidationFailed writes a 400 with the structured field list.
func ValidationFailed(w http.ResponseWriter, fields []domain.FieldError) {
	JSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: fields})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes the response for err. Internal details are logged, not returned.
func HandleError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		ValidationFailed(w, verr.Fields)
		return
	}

	status := DomainErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Errorw("request failed", "error", err)
		Error(w, status, http.StatusText(status))
		return
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		Error(w, status, domainErr.Message)
		return
	}
	Error(w, status, err.Error())
}
