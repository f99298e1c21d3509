package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/core"
	"tameny.app/tameny-server/internal/schedule"
	"tameny.app/tameny-server/internal/store"
)

type ScheduleResponse struct {
	Vaccinations []schedule.VaccinationGroup `json:"vaccinations"`
	Milestones   []schedule.MilestoneGroup   `json:"milestones"`
}

// ScheduleHandler serves the fixed schedules the checklists are built from.
func (h *APIHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, ScheduleResponse{
		Vaccinations: schedule.VaccinationSchedule,
		Milestones:   schedule.Milestones,
	})
}

func (h *APIHandler) growthError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, core.ErrChildNotFound):
		h.respondError(w, http.StatusNotFound, "Child not found", "", "")
	case errors.Is(err, core.ErrUnknownVaccine), errors.Is(err, core.ErrUnknownMilestone):
		h.respondError(w, http.StatusBadRequest, "Item is not part of the fixed schedule", "", "")
	case errors.Is(err, core.ErrToggleInFlight):
		h.respondError(w, http.StatusConflict, "A toggle for this item is already in flight", "toggle_in_flight", "")
	default:
		h.logger.Error("Growth operation failed", zap.String("action", action), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to save growth data", "", "")
	}
}

func (h *APIHandler) ListVaccinationsHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	records, err := h.growth.Vaccinations(h.profileID(r), childID)
	if err != nil {
		h.growthError(w, err, "list vaccinations")
		return
	}
	if records == nil {
		records = []store.VaccinationRecord{}
	}
	h.respondJSON(w, http.StatusOK, records)
}

type ToggleVaccinationRequest struct {
	VaccineName string `json:"vaccine_name"`
}

func (h *APIHandler) ToggleVaccinationHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req ToggleVaccinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if req.VaccineName == "" {
		h.respondError(w, http.StatusBadRequest, "vaccine_name is required", "", "")
		return
	}

	result, err := h.growth.ToggleVaccination(h.profileID(r), childID, req.VaccineName)
	if err != nil {
		h.growthError(w, err, "toggle vaccination")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *APIHandler) ListMilestonesHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	records, err := h.growth.Milestones(h.profileID(r), childID)
	if err != nil {
		h.growthError(w, err, "list milestones")
		return
	}
	if records == nil {
		records = []store.MilestoneRecord{}
	}
	h.respondJSON(w, http.StatusOK, records)
}

type ToggleMilestoneRequest struct {
	AgeRange string `json:"age_range"`
	Category string `json:"category"`
	Index    int    `json:"index"`
}

func (h *APIHandler) ToggleMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req ToggleMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if req.AgeRange == "" || req.Category == "" {
		h.respondError(w, http.StatusBadRequest, "age_range and category are required", "", "")
		return
	}

	result, err := h.growth.ToggleMilestone(h.profileID(r), childID, req.AgeRange, req.Category, req.Index)
	if err != nil {
		h.growthError(w, err, "toggle milestone")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
