package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse carries a stable machine-readable code plus a human message.
// Internal error detail never reaches the client.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		// best-effort error response; avoid writing partial JSON
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func Error(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, ErrorResponse{Error: code, Message: msg})
}

func ValidationError(w http.ResponseWriter, msg string, details any) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: msg, Details: details})
}
