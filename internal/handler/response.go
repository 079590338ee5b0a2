package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"propertypulse/internal/service"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
		return err
	}

	return nil
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("ERROR: Failed to write error response: %v", err)
	}
}

// WriteCreated writes a 201 Created response with the given data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteOK writes a 200 OK response with the given data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteValidationError writes a 400 Bad Request response with VALIDATION_ERROR code
func WriteValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// WriteNotFoundError writes a 404 Not Found response with RESOURCE_NOT_FOUND code
func WriteNotFoundError(w http.ResponseWriter, resource string, id int) {
	message := fmt.Sprintf("%s with ID %d not found", resource, id)
	WriteError(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", message)
}

// WriteResolutionError writes a 503 Service Unavailable response. The tenant
// store being unreachable is retryable, so the code signals that.
func WriteResolutionError(w http.ResponseWriter) {
	WriteError(w, http.StatusServiceUnavailable, "RESOLUTION_ERROR", "Recipient data source unavailable, retry the request")
}

// WriteInternalError writes a 500 Internal Server Error response without
// exposing internal details to the client
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

// HandleServiceError maps service layer errors to appropriate HTTP responses
func HandleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *service.NotFoundError:
		WriteNotFoundError(w, e.Resource, e.ID)
	case *service.ValidationError:
		WriteValidationError(w, e.Message)
	case *service.ResolutionError:
		log.Printf("ERROR: Recipient resolution failed: %v", err)
		WriteResolutionError(w)
	default:
		log.Printf("ERROR: Unhandled service error: %v", err)
		WriteInternalError(w)
	}
}
