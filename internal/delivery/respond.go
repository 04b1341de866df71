package delivery

import (
	"encoding/json"
	"net/http"
)

// machine-readable коды для 4xx/5xx
const (
	codeInvalidInput = "invalid_input"
	codeNotFound     = "not_found"
	codeEncoding     = "encoding_error"
	codeStorage      = "storage_error"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
