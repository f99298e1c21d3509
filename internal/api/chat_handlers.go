package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/core"
	"tameny.app/tameny-server/internal/store"
)

func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chat.ListSessions(h.profileID(r))
	if err != nil {
		h.logger.Error("Failed to list chat sessions", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list sessions", "", "")
		return
	}
	if sessions == nil {
		sessions = []store.ChatSession{}
	}
	h.respondJSON(w, http.StatusOK, sessions)
}

func (h *APIHandler) SessionMessagesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.chat.SessionMessages(sessionID, h.profileID(r))
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			h.respondError(w, http.StatusNotFound, "Session not found", "", "")
			return
		}
		h.logger.Error("Failed to list messages", zap.String("session_id", sessionID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list messages", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, messages)
}

type SendMessageRequest struct {
	SessionID *string `json:"session_id"` // Null means "unsaved new session"
	Message   string  `json:"message"`
}

func (h *APIHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.respondError(w, http.StatusBadRequest, "Message cannot be empty", "", "")
		return
	}

	result, err := h.chat.Send(h.profileID(r), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			h.respondError(w, http.StatusNotFound, "Session not found", "", "")
			return
		}
		h.logger.Error("Failed to process chat turn", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to send message", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
