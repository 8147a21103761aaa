package httpserver

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body with the given status code.
// Encoding failures at this point cannot be reported to the client; the
// status line has already been committed.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
