package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

type ChildRequest struct {
	Name         string `json:"name"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	BloodType    string `json:"blood_type"`
	Allergies    string `json:"allergies"` // Comma-delimited, parsed to a set
	MedicalNotes string `json:"medical_notes"`
}

// parseAllergies splits the comma-delimited input into a deduplicated set,
// preserving first-seen order.
func parseAllergies(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *APIHandler) childFromRequest(req ChildRequest, parentID string) *store.Child {
	return &store.Child{
		ParentID:     parentID,
		Name:         strings.TrimSpace(req.Name),
		DateOfBirth:  optional(req.DateOfBirth),
		Gender:       optional(req.Gender),
		BloodType:    optional(req.BloodType),
		Allergies:    parseAllergies(req.Allergies),
		MedicalNotes: optional(req.MedicalNotes),
	}
}

func (h *APIHandler) ListChildrenHandler(w http.ResponseWriter, r *http.Request) {
	children, err := h.dbStore.ListChildrenByParent(h.profileID(r))
	if err != nil {
		h.logger.Error("Failed to list children", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list children", "", "")
		return
	}
	if children == nil {
		children = []store.Child{}
	}
	h.respondJSON(w, http.StatusOK, children)
}

func (h *APIHandler) CreateChildHandler(w http.ResponseWriter, r *http.Request) {
	var req ChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) == 0 {
		h.respondValidation(w, map[string]string{"name": "name is required"})
		return
	}

	child := h.childFromRequest(req, h.profileID(r))
	if err := h.dbStore.CreateChild(child); err != nil {
		h.logger.Error("Failed to create child", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create child", "", "")
		return
	}

	h.respondJSON(w, http.StatusCreated, child)
}

func (h *APIHandler) GetChildHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	child, err := h.dbStore.GetChildByID(childID, h.profileID(r))
	if err != nil {
		h.logger.Error("Failed to get child", zap.String("child_id", childID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to get child", "", "")
		return
	}
	if child == nil {
		h.respondError(w, http.StatusNotFound, "Child not found", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, child)
}

func (h *APIHandler) UpdateChildHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req ChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) == 0 {
		h.respondValidation(w, map[string]string{"name": "name is required"})
		return
	}

	child := h.childFromRequest(req, h.profileID(r))
	child.ID = childID
	if err := h.dbStore.UpdateChild(child); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "Child not found", "", "")
			return
		}
		h.logger.Error("Failed to update child", zap.String("child_id", childID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to update child", "", "")
		return
	}

	updated, err := h.dbStore.GetChildByID(childID, h.profileID(r))
	if err != nil || updated == nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to reload child", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteChildHandler is a hard delete: the child row and its growth records
// are gone for good.
func (h *APIHandler) DeleteChildHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	if err := h.dbStore.DeleteChild(childID, h.profileID(r)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "Child not found", "", "")
			return
		}
		h.logger.Error("Failed to delete child", zap.String("child_id", childID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete child", "", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
