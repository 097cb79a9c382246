package utils

import (
	"encoding/json"
	"net/http"

	"rail-ticketing/internal/errs"
)

// Envelope is the response shape for every endpoint: either data or errors,
// never both.
type Envelope struct {
	Status bool        `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Errors []string    `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, statusCode int, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Status: true, Data: data})
}

// WriteError maps err to its HTTP status through the error taxonomy.
func WriteError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak storage details to the caller.
		msg = "internal error"
	}
	WriteJSON(w, status, Envelope{Status: false, Errors: []string{msg}})
}

func WriteValidationErrors(w http.ResponseWriter, messages []string) {
	WriteJSON(w, http.StatusBadRequest, Envelope{Status: false, Errors: messages})
}
