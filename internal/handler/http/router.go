package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadsDir, when set, is served at /uploads for the local file storage.
	UploadsDir string

	JWTService          jwt.Service
	AuthHandler         AuthHandler
	MemberHandler       MemberHandler
	ScheduleHandler     ScheduleHandler
	OrganizationHandler OrganizationHandler
	NotificationHandler NotificationHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(cfg.JWTService))
	}

	// The portal's original paths, kept for existing clients.
	r.Route("/api/members", func(r chi.Router) {
		authenticated(r)
		mountMembers(r, cfg.MemberHandler)
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			// Authenticated with a stream token in the query string
			r.Get("/stream", cfg.NotificationHandler.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/", cfg.NotificationHandler.List)
				r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
				r.Post("/read", cfg.NotificationHandler.MarkAsRead)
				r.Post("/read-all", cfg.NotificationHandler.MarkAllAsRead)
				r.Post("/stream-token", cfg.AuthHandler.StreamToken)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/members", func(r chi.Router) {
				mountMembers(r, cfg.MemberHandler)

				r.Route("/{id}/schedule", func(r chi.Router) {
					r.Get("/", cfg.ScheduleHandler.GetWeek)
					r.Post("/previous", cfg.ScheduleHandler.Previous)
					r.Post("/next", cfg.ScheduleHandler.Next)
					r.Post("/events", cfg.ScheduleHandler.CreateEvent)
					r.Patch("/events/{eventID}", cfg.ScheduleHandler.UpdateEvent)
					r.Delete("/events/{eventID}", cfg.ScheduleHandler.DeleteEvent)
					r.Post("/commit", cfg.ScheduleHandler.Commit)
					r.Post("/discard", cfg.ScheduleHandler.Discard)
				})
			})

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", cfg.OrganizationHandler.Tree)
				r.Get("/search", cfg.OrganizationHandler.Search)
				r.Get("/{id}", cfg.OrganizationHandler.Get)
			})
		})
	})
	return r
}

// mountMembers registers the member collection routes. Reads are open to any
// authenticated user; mutations need an administrator.
func mountMembers(r chi.Router, h MemberHandler) {
	r.Get("/", h.List)
	r.Get("/meta", h.Metadata)
	r.Get("/{id}", h.Get)

	// Admin only
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminOnly)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/import", h.Import)
		r.Post("/import/xlsx", h.ImportSpreadsheet)
		r.Get("/export", h.ExportSpreadsheet)
		r.Post("/{id}/image", h.UploadImage)
	})
}
