package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends data wrapped into the response envelope
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.NewAPIResponse(status, data, message)); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error envelope with empty data
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, nil, message)
}

// respondServiceError maps a service error onto its status code.
// Server side failures are logged together with their cause, the cause never reaches the client.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		h.logger.Error(appErr.Message,
			zap.Error(err),
			zap.String("kind", string(appErr.Kind)),
			zap.String("phase", string(appErr.Phase)),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	h.respondError(w, status, appErr.Message)
}

// decodeJSON decodes the request body into dst, answering 400 on malformed input
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// requireUserID extracts the authenticated user id, answering 401 when it is absent
func (h *BaseHandler) requireUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("user ID not found in context")
		h.respondError(w, http.StatusUnauthorized, "unauthorized access")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// objectIDParam parses a path parameter as an ObjectID, answering 400 when it is malformed
func (h *BaseHandler) objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(urlParam(r, name))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
