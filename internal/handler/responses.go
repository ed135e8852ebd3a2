package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/livesource"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgUserNotFoundError      = "User not found"
	ErrMsgAlreadyMonitoredError  = "Handle is already being monitored"
	ErrMsgNotMonitoredError      = "Handle is not being monitored"
	ErrMsgUserOfflineError       = "That handle is not live right now"
	ErrMsgSourceUserNotFoundErr  = "Broadcast not found. Has the stream started?"
	ErrMsgSourceSignatureError   = "Live source rejected the connection. Please try again."
	ErrMsgSessionNotFoundError   = "No open live session"
	ErrMsgSubmissionNotFoundErr  = "No active submission"
	ErrMsgUnknownGoalTypeError   = "Unknown goal type"
)

// mapServiceErrorToUserMessage converts internal service errors to
// appropriate HTTP status codes and messages users can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrAlreadyMonitored):
		return http.StatusConflict, ErrMsgAlreadyMonitoredError
	case errors.Is(err, domain.ErrNotMonitored):
		return http.StatusNotFound, ErrMsgNotMonitoredError
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrMsgSessionNotFoundError
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, ErrMsgSubmissionNotFoundErr
	case errors.Is(err, domain.ErrUnknownGoalType):
		return http.StatusBadRequest, ErrMsgUnknownGoalTypeError
	case errors.Is(err, livesource.ErrUserOffline):
		return http.StatusConflict, ErrMsgUserOfflineError
	case errors.Is(err, livesource.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgSourceUserNotFoundErr
	case errors.Is(err, livesource.ErrSignature):
		return http.StatusBadGateway, ErrMsgSourceSignatureError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
