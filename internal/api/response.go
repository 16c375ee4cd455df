package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

// UnknownErrorMessage is returned for failures that carry no visitor-safe message.
const UnknownErrorMessage = "Ocorreu um erro desconhecido"

// ErrorResponse is the error body of the chat and voice endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// ResultResponse is the body of the catalog and knowledge endpoints
type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DecodeJSON reads the request body into v. A body cut off by MaxBytesReader
// yields ErrBodyTooLarge; anything else unreadable yields ErrInvalidBody.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ErrBodyTooLarge
		}
		return domain.ErrInvalidBody
	}
	return nil
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Result writes a {success, message} response
func Result(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ResultResponse{Success: status < http.StatusBadRequest, Message: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
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
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeQuotaExceeded:
		return http.StatusServiceUnavailable
	case domain.ErrCodeBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.ErrCodeConfiguration, domain.ErrCodeDataFetch, domain.ErrCodeEmptyKnowledge,
		domain.ErrCodeUpstream, domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the part of err that may be shown to visitors. The
// wrapped cause never leaves the server.
func PublicMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return UnknownErrorMessage
}

// HandleError writes an {error} response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	Error(w, DomainErrorToHTTP(err), PublicMessage(err))
}

// HandleResultError writes a {success:false, message} response based on the error type
func HandleResultError(w http.ResponseWriter, err error) {
	Result(w, DomainErrorToHTTP(err), PublicMessage(err))
}
