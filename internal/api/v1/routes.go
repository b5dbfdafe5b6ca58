package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
)

// Routes mounts every v1 endpoint. Dashboard routes sit behind the guard
// middleware; the auth endpoints are public by nature.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.SweepOnLogoutParam)

	r.Get("/health", h.Health)

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login-firebase", h.LoginFirebase)
		r.Post("/register-firebase", h.RegisterFirebase)
		r.Post("/direct-register", h.DirectRegister)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/reset-special-password", h.ResetSpecialPassword)
		r.Post("/refresh", h.Refresh)
		r.Post("/google", h.GoogleSignIn)
	})
	r.Get("/invites/verify", h.VerifyInvite)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.Store))

		// Reachable by pending accounts so they can see their own status.
		r.Get("/user", h.CurrentUser)

		// Any approved user.
		r.Group(func(r chi.Router) {
			r.Use(auth.Protected())

			r.Get("/players", h.ListPlayers)
			r.Get("/players/{id}", h.GetPlayer)
			r.Post("/players", h.CreatePlayer)
			r.Put("/players/{id}", h.UpdatePlayer)
			r.Post("/players/{id}/photo", h.UploadPlayerPhoto)
			r.Get("/players/{id}/photo-url", h.PlayerPhotoURL)
			r.Get("/players/{id}/meal-plans", h.ListMealPlans)
			r.Get("/players/{id}/fitness", h.ListFitnessRecords)

			r.Get("/sessions", h.ListSessions)
			r.Get("/sessions/{id}", h.GetSession)

			r.Get("/announcements", h.ListAnnouncements)

			r.Get("/academies", h.ListAcademies)
			r.Get("/academies/{id}", h.GetAcademy)

			r.Get("/payments", h.ListPayments)
			r.Post("/payments", h.CreatePayment)
		})

		// Coaching staff.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(h.Cfg, "/dashboard", models.RoleCoach, models.RoleAdmin, models.RoleSuperadmin))

			r.Post("/sessions", h.CreateSession)
			r.Put("/sessions/{id}", h.UpdateSession)
			r.Delete("/sessions/{id}", h.DeleteSession)

			r.Post("/fitness", h.CreateFitnessRecord)
			r.Post("/meal-plans", h.CreateMealPlan)
			r.Delete("/meal-plans/{id}", h.DeleteMealPlan)
		})

		// Administrators.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(h.Cfg, "/dashboard", models.RoleAdmin, models.RoleSuperadmin))

			r.Delete("/players/{id}", h.DeletePlayer)

			r.Post("/announcements", h.CreateAnnouncement)
			r.Delete("/announcements/{id}", h.DeleteAnnouncement)

			r.Put("/payments/{id}/status", h.UpdatePaymentStatus)

			r.Get("/admin/users", h.ListUsers)
			r.Get("/admin/pending", h.ListPendingUsers)
			r.Post("/admin/users/{id}/approve", h.ApproveUser)
			r.Post("/admin/users/{id}/reject", h.RejectUser)
			r.Post("/admin/users/{id}/suspend", h.SuspendUser)
			r.Get("/admin/audit", h.ListAuditLogs)

			r.Post("/invites", h.CreateInvite)
			r.Get("/invites", h.ListInvites)

			r.Post("/academies", h.CreateAcademy)
		})
	})

	return r
}
