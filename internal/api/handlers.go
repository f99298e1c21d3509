package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/auth"
	"tameny.app/tameny-server/internal/core"
	"tameny.app/tameny-server/internal/store"
)

type APIHandler struct {
	dbStore   *store.SQLiteStore
	accounts  *core.AccountService
	chat      *core.ChatService
	growth    *core.GrowthService
	broadcast *core.BroadcastService
	logger    *zap.Logger
}

func NewAPIHandler(
	dbStore *store.SQLiteStore,
	accounts *core.AccountService,
	chat *core.ChatService,
	growth *core.GrowthService,
	broadcast *core.BroadcastService,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		dbStore:   dbStore,
		accounts:  accounts,
		chat:      chat,
		growth:    growth,
		broadcast: broadcast,
		logger:    logger,
	}
}

type errorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func (h *APIHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.logger.Error("Failed to encode response", zap.Error(err))
		}
	}
}

func (h *APIHandler) respondError(w http.ResponseWriter, status int, message, code, redirect string) {
	h.respondJSON(w, status, errorResponse{Error: message, Code: code, Redirect: redirect})
}

func (h *APIHandler) respondValidation(w http.ResponseWriter, fields map[string]string) {
	h.respondJSON(w, http.StatusBadRequest, errorResponse{
		Error:  "validation failed",
		Code:   "validation",
		Fields: fields,
	})
}

func (h *APIHandler) profileID(r *http.Request) string {
	id, _ := r.Context().Value(ctxProfileID).(string)
	return id
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}

	fields := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "invalid email address"
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if utf8.RuneCountInString(req.FullName) < 2 {
		fields["full_name"] = "name must be at least 2 characters"
	}
	if len(fields) > 0 {
		h.respondValidation(w, fields)
		return
	}

	profile, err := h.accounts.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, core.ErrAccountExists) {
			h.respondError(w, http.StatusConflict, "An account with this email already exists", "account_exists", "/auth")
			return
		}
		h.logger.Error("Signup failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create account", "", "")
		return
	}

	h.respondJSON(w, http.StatusCreated, profile)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	Profile *store.Profile `json:"profile"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Email and password are required", "", "")
		return
	}

	profile, err := h.accounts.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "Invalid email or password", "invalid_credentials", "")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to sign in", "", "")
		return
	}

	token, err := auth.GenerateJWT(profile.ID)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.String("profile_id", profile.ID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate token", "", "")
		return
	}

	h.respondJSON(w, http.StatusOK, LoginResponse{Token: token, Profile: profile})
}

func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Profile(h.profileID(r))
	if err != nil || profile == nil {
		h.logger.Error("Failed to load profile", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load profile", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), "", "")
		return
	}
	if utf8.RuneCountInString(req.FullName) < 2 {
		h.respondValidation(w, map[string]string{"full_name": "name must be at least 2 characters"})
		return
	}

	profile, err := h.accounts.UpdateProfile(h.profileID(r), req.FullName, req.Phone)
	if err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to update profile", "", "")
		return
	}
	h.respondJSON(w, http.StatusOK, profile)
}

type DashboardResponse struct {
	Children            int `json:"children"`
	ActiveReminders     int `json:"active_reminders"`
	UnreadNotifications int `json:"unread_notifications"`
}

// DashboardHandler serves the home-screen tallies with count-only queries.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	profileID := h.profileID(r)

	children, err := h.dbStore.CountChildrenByParent(profileID)
	if err != nil {
		h.logger.Error("Failed to count children", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard", "", "")
		return
	}
	reminders, err := h.dbStore.CountActiveReminders(profileID)
	if err != nil {
		h.logger.Error("Failed to count reminders", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard", "", "")
		return
	}
	unread, err := h.dbStore.CountUnreadNotifications(profileID)
	if err != nil {
		h.logger.Error("Failed to count notifications", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard", "", "")
		return
	}

	h.respondJSON(w, http.StatusOK, DashboardResponse{
		Children:            children,
		ActiveReminders:     reminders,
		UnreadNotifications: unread,
	})
}
