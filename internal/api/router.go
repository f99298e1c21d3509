package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", apiHandler.SignupHandler)
		r.Post("/auth/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Onboarding-exempt: profile and child management stay reachable
			// for users who have not added their first child yet.
			r.Get("/me", apiHandler.GetProfileHandler)
			r.Put("/me", apiHandler.UpdateProfileHandler)

			r.Route("/children", func(r chi.Router) {
				r.Get("/", apiHandler.ListChildrenHandler)
				r.Post("/", apiHandler.CreateChildHandler)
				r.Get("/{childID}", apiHandler.GetChildHandler)
				r.Put("/{childID}", apiHandler.UpdateChildHandler)
				r.Delete("/{childID}", apiHandler.DeleteChildHandler)
			})

			// Admin broadcast needs auth and role, not onboarding.
			r.Group(func(r chi.Router) {
				r.Use(apiHandler.AdminOnly)
				r.Post("/admin/broadcast", apiHandler.BroadcastHandler)
			})

			// Onboarding-gated feature routes
			r.Group(func(r chi.Router) {
				r.Use(apiHandler.OnboardingGuard)

				r.Get("/dashboard", apiHandler.DashboardHandler)

				r.Route("/chat", func(r chi.Router) {
					r.Get("/sessions", apiHandler.ListSessionsHandler)
					r.Get("/sessions/{sessionID}/messages", apiHandler.SessionMessagesHandler)
					r.Post("/send", apiHandler.SendMessageHandler)
				})

				r.Route("/growth", func(r chi.Router) {
					r.Get("/schedule", apiHandler.ScheduleHandler)
					r.Get("/{childID}/vaccinations", apiHandler.ListVaccinationsHandler)
					r.Post("/{childID}/vaccinations/toggle", apiHandler.ToggleVaccinationHandler)
					r.Get("/{childID}/milestones", apiHandler.ListMilestonesHandler)
					r.Post("/{childID}/milestones/toggle", apiHandler.ToggleMilestoneHandler)
				})

				r.Route("/reminders", func(r chi.Router) {
					r.Get("/", apiHandler.ListRemindersHandler)
					r.Post("/", apiHandler.CreateReminderHandler)
					r.Post("/{reminderID}/complete", apiHandler.CompleteReminderHandler)
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", apiHandler.ListNotificationsHandler)
					r.Post("/{notificationID}/read", apiHandler.MarkNotificationReadHandler)
				})
			})
		})
	})

	return r
}
