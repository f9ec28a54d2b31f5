// Package handlers provides the HTTP request handlers of the CVD risk API:
// risk estimation, horizon conversion, LDL-C adjustment, combined
// assessments, the therapy catalog and health. Every input passes through
// the validation package before reaching the risk or therapy core.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/metrics"
	"github.com/giygas/cvdrisk-api/validation"
)

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message"`
	Code    int                      `json:"code"`
	Fields  []*validation.FieldError `json:"fields,omitempty"`
}

// RespondWithJSON writes payload as a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// respondWithValidationError maps a validation failure to its status:
// 422 for undefined results, 400 with the offending fields for invalid
// input, 500 for anything else.
func respondWithValidationError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, validation.ErrUndefinedResult):
		metrics.ValidationFailuresTotal.WithLabelValues(operation, "undefined").Inc()
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, validation.ErrInvalidInput):
		metrics.ValidationFailuresTotal.WithLabelValues(operation, "invalid").Inc()
		fields := validation.Fields(err)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: fmt.Sprintf("%d invalid field(s)", len(fields)),
			Code:    http.StatusBadRequest,
			Fields:  fields,
		})

	default:
		logging.Error("Unexpected error", "operation", operation, "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads one JSON object from the request body into v. Unknown
// fields and trailing data are rejected. It writes the error response
// itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, operation string, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errors.New("request body must contain a single JSON object")
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		metrics.ValidationFailuresTotal.WithLabelValues(operation, "too_large").Inc()
		RespondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return false
	}

	metrics.ValidationFailuresTotal.WithLabelValues(operation, "malformed").Inc()
	logging.Debug("Malformed request body", "operation", operation, "error", err)
	RespondWithError(w, http.StatusBadRequest, "Malformed JSON body: "+err.Error())
	return false
}
