package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// FieldError is one field-level validation failure, reported in the "data"
// array of a 422 response.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// JSONError sends the standard error envelope: {"message": ...}.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// JSONValidationError sends {"message": ..., "data": [...]} with the
// field-level failures. status is 422 for every validation error.
func JSONValidationError(w http.ResponseWriter, message string, data []FieldError, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"message": message}
	if len(data) > 0 {
		out["data"] = data
	}
	json.NewEncoder(w).Encode(out)
}
