package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/hajobja/hajobja-backend/internal/handlers"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)

	// Public browse routes
	r.Get("/api/jobs", handlers.ListJobs)
	r.Get("/api/jobs/{id}", handlers.GetJob)
	r.Get("/api/helpers", handlers.ListHelperProfiles)
	r.Get("/api/helpers/{id}", handlers.GetHelperProfile)
	r.Get("/api/webboard", handlers.ListWebboardPosts)
	r.Get("/api/webboard/{id}", handlers.GetWebboardPost)
	r.Get("/api/blog", handlers.ListBlogPosts)
	r.Get("/api/blog/slug/{slug}", handlers.GetBlogPostBySlug)
	r.Get("/api/users/{id}", handlers.GetPublicProfile)
	r.Get("/api/users/{id}/vouches", handlers.ListUserVouches)
	r.Get("/api/site-config", handlers.GetSiteConfig)

	// WebSocket endpoint for the realtime listing/post feed
	r.Get("/ws/feed", handlers.FeedWebSocket)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/api/auth/signout", handlers.Signout)
		r.Get("/api/auth/me", handlers.GetMe)
		r.Put("/api/users/me", handlers.UpdateProfile)

		// Job listings
		r.Post("/api/jobs", handlers.CreateJob)
		r.Put("/api/jobs/{id}", handlers.UpdateJob)
		r.Delete("/api/jobs/{id}", handlers.DeleteJob)
		r.Post("/api/jobs/{id}/bump", handlers.BumpJob)
		r.Post("/api/jobs/{id}/toggle-hired", handlers.ToggleJobHired)
		r.Post("/api/jobs/{id}/apply", handlers.ApplyToJob)
		r.Get("/api/jobs/{id}/applications", handlers.ListJobApplications)

		// Helper profiles
		r.Post("/api/helpers", handlers.CreateHelperProfile)
		r.Put("/api/helpers/{id}", handlers.UpdateHelperProfile)
		r.Delete("/api/helpers/{id}", handlers.DeleteHelperProfile)
		r.Post("/api/helpers/{id}/bump", handlers.BumpHelperProfile)
		r.Post("/api/helpers/{id}/toggle-unavailable", handlers.ToggleHelperUnavailable)
		r.Post("/api/helpers/{id}/contact", handlers.ContactHelper)

		// Webboard
		r.Post("/api/webboard", handlers.CreateWebboardPost)
		r.Put("/api/webboard/{id}", handlers.UpdateWebboardPost)
		r.Delete("/api/webboard/{id}", handlers.DeleteWebboardPost)
		r.Post("/api/webboard/{id}/like", handlers.ToggleWebboardLike)
		r.Post("/api/webboard/{id}/save", handlers.ToggleSavePost)
		r.Post("/api/webboard/{id}/comments", handlers.CreateWebboardComment)
		r.Put("/api/webboard/{id}/comments/{commentId}", handlers.UpdateWebboardComment)
		r.Delete("/api/webboard/{id}/comments/{commentId}", handlers.DeleteWebboardComment)
		r.Get("/api/webboard/saved", handlers.ListSavedPosts)

		// Blog reader actions
		r.Post("/api/blog/{id}/like", handlers.ToggleBlogLike)
		r.Post("/api/blog/{id}/comments", handlers.CreateBlogComment)
		r.Delete("/api/blog/{id}/comments/{commentId}", handlers.DeleteBlogComment)

		// Interests and vouches
		r.Post("/api/interests/toggle", handlers.ToggleInterest)
		r.Get("/api/interests/me", handlers.ListMyInterests)
		r.Post("/api/vouches", handlers.CreateVouch)
		r.Get("/api/vouches/quota", handlers.GetMyVouchQuota)
		r.Post("/api/vouches/{id}/report", handlers.ReportVouch)

		// File upload
		r.Post("/api/upload", handlers.UploadFile)
	})

	// Moderation routes (Moderator or Admin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleModerator, models.RoleAdmin))

		r.Post("/api/webboard/{id}/pin", handlers.ToggleWebboardPin)
	})

	// Blog author routes (Writer or Admin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleWriter, models.RoleAdmin))

		r.Post("/api/blog", handlers.CreateBlogPost)
		r.Get("/api/blog/mine", handlers.ListMyBlogPosts)
		r.Put("/api/blog/{id}", handlers.UpdateBlogPost)
		r.Put("/api/blog/{id}/status", handlers.SetBlogPostStatus)
		r.Delete("/api/blog/{id}", handlers.DeleteBlogPost)
		r.Post("/api/blog/suggest", handlers.SuggestBlogMeta)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleAdmin))

		r.Get("/api/admin/users", handlers.ListUsers)
		r.Put("/api/admin/users/{id}/role", handlers.SetUserRole)
		r.Post("/api/admin/users/{id}/toggle-badge", handlers.ToggleUserBadge)
		r.Post("/api/admin/{kind}/{id}/toggle/{flag}", handlers.ToggleAdminFlag)
		r.Get("/api/admin/vouch-reports", handlers.ListVouchReports)
		r.Put("/api/admin/vouch-reports/{id}", handlers.ResolveVouchReport)
		r.Put("/api/admin/vouch-reports/{id}/force", handlers.ForceResolveVouchReport)
		r.Get("/api/admin/dashboard", handlers.GetDashboard)
		r.Post("/api/admin/orion", handlers.Orion)
		r.Post("/api/admin/cleanup", handlers.RunCleanup)
		r.Put("/api/admin/site-config", handlers.SetSiteConfig)
		r.Put("/api/admin/unblock-ip", handlers.UnblockIP)
		r.Get("/api/admin/audit-log", handlers.ListAuditLog)
		r.Get("/api/admin/interactions", handlers.ListInteractions)
	})
}
