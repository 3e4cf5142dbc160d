package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim"
)

// Error codes carried in APIError.Code.
const (
	ErrInvalidRequest = "invalid_request"
	ErrConfiguration  = "configuration_error"
	ErrValidation     = "validation_error"
	ErrInternal       = "internal_error"
)

// Response is the standard envelope for every API response.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Index   *int   `json:"index,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondOK writes a success response with the standard envelope.
func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil)
}

// respondError writes an error response with the standard envelope.
func respondError(w http.ResponseWriter, reqID string, status int, apiErr *APIError) {
	respondJSON(w, status, reqID, nil, apiErr)
}

// respondSimError maps engine errors to HTTP statuses: typed configuration and
// validation errors are the caller's fault, anything else is ours.
func respondSimError(w http.ResponseWriter, reqID string, err error) {
	var cerr *sim.ConfigurationError
	var verr *sim.ValidationError
	switch {
	case errors.As(err, &cerr):
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrConfiguration,
			Message: cerr.Error(),
			Details: []FieldError{{Field: cerr.Field, Message: cerr.Msg}},
		})
	case errors.As(err, &verr):
		fe := FieldError{Field: verr.Field, Message: verr.Msg}
		if verr.Index >= 0 {
			idx := verr.Index
			fe.Index = &idx
		}
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: verr.Error(),
			Details: []FieldError{fe},
		})
	default:
		logrus.WithField("request_id", reqID).Errorf("simulation failed: %v", err)
		respondError(w, reqID, http.StatusInternalServerError, &APIError{
			Code:    ErrInternal,
			Message: "simulation failed",
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, apiErr *APIError) {
	resp := Response{
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Error:     apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithField("request_id", reqID).Warnf("writing response: %v", err)
	}
}
