package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"catalogo-api/internal/service"
	"catalogo-api/internal/validation"

	"go.uber.org/zap"
)

const (
	notFoundMessage    = "Recurso no encontrado"
	serverErrorMessage = "Error interno del servidor"
)

// Response is the uniform envelope wrapping every API output.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// respondJSON writes the envelope with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondSuccess writes a success envelope. Pass nil data for responses
// without a data field (delete).
func respondSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	respondJSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError writes a failure envelope carrying only a message
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, Response{
		Success: false,
		Message: message,
	})
}

// respondValidationError writes a 422 envelope with the field-keyed errors
// map; the first message doubles as the top-level message
func respondValidationError(w http.ResponseWriter, verr *validation.Error) {
	respondJSON(w, http.StatusUnprocessableEntity, Response{
		Success: false,
		Message: verr.Errors.First(),
		Errors:  verr.Errors.Fields(),
	})
}

// respondServiceError maps service failures onto the envelope: validation
// errors become 422, missing records 404, anything else a generic 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondValidationError(w, verr)
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundMessage)
		return
	}

	logger.Error("Unhandled service error", zap.Error(err))
	respondError(w, http.StatusInternalServerError, serverErrorMessage)
}

// decodeFields reads the request body as a raw field map. A malformed
// body degrades to an empty map so the validation layer reports the
// missing fields instead of a separate decode error.
func decodeFields(r *http.Request) map[string]json.RawMessage {
	fields := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return map[string]json.RawMessage{}
	}
	return fields
}
