package rest

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned by handlers on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError writes an ErrorResponse with the given status. The err details
// are included in the body when present.
func WriteError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	_ = json.NewEncoder(w).Encode(response)
}
