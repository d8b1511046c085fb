package server

import (
	"encoding/json"
	"net/http"
)

// M is a shorthand for ad-hoc JSON payloads.
type M map[string]interface{}

// respondWithJSON sends a JSON response with the given status code.
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError sends a JSON error payload.
func respondError(w http.ResponseWriter, statusCode int, msg string) {
	respondWithJSON(w, statusCode, M{"error": msg, "status": "error"})
}
