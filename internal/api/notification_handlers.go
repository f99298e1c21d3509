package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

func (h *APIHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.dbStore.ListNotificationsByUser(h.profileID(r))
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list notifications", "", "")
		return
	}
	if notifications == nil {
		notifications = []store.Notification{}
	}
	h.respondJSON(w, http.StatusOK, notifications)
}

func (h *APIHandler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "notificationID")
	if err := h.dbStore.MarkNotificationRead(notificationID, h.profileID(r)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "Notification not found", "", "")
			return
		}
		h.logger.Error("Failed to mark notification read",
			zap.String("notification_id", notificationID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to update notification", "", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type BroadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// BroadcastHandler is the admin fan-out: notification rows for every
// registered profile, then one push-relay invocation.
func (h *APIHandler) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "message is required"
	}
	if len(fields) > 0 {
		h.respondValidation(w, fields)
		return
	}

	result, err := h.broadcast.Broadcast(req.Title, req.Message)
	if err != nil {
		h.logger.Error("Broadcast failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to send broadcast", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
