package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/models"
)

// writeError writes an error envelope; used where no handler is available
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.NewAPIResponse(status, nil, message))
}
