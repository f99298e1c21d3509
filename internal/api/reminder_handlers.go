package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

func (h *APIHandler) ListRemindersHandler(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.dbStore.ListRemindersByUser(h.profileID(r))
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list reminders", "", "")
		return
	}
	if reminders == nil {
		reminders = []store.Reminder{}
	}
	h.respondJSON(w, http.StatusOK, reminders)
}

type CreateReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // RFC 3339
}

func (h *APIHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		fields["due_date"] = "due_date must be an RFC 3339 timestamp"
	}
	if len(fields) > 0 {
		h.respondValidation(w, fields)
		return
	}

	reminder := store.Reminder{
		UserID:      h.profileID(r),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     dueDate,
	}
	if err := h.dbStore.CreateReminder(&reminder); err != nil {
		h.logger.Error("Failed to create reminder", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create reminder", "", "")
		return
	}
	h.respondJSON(w, http.StatusCreated, reminder)
}

func (h *APIHandler) CompleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	reminderID := chi.URLParam(r, "reminderID")
	if err := h.dbStore.CompleteReminder(reminderID, h.profileID(r)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "Reminder not found", "", "")
			return
		}
		h.logger.Error("Failed to complete reminder", zap.String("reminder_id", reminderID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to complete reminder", "", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
