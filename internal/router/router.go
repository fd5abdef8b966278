package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"craftopia-api/internal/config"
	"craftopia-api/internal/handler"
	"craftopia-api/internal/metrics"
	"craftopia-api/internal/middleware"
	"craftopia-api/internal/model"
)

type Handlers struct {
	Health    *handler.HealthHandler
	Docs      *handler.DocsHandler
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Classes   *handler.ClassHandler
	Selection *handler.SelectionHandler
}

func New(cfg *config.Config, m *metrics.Metrics, auth *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, "/jwt")

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/", h.Health.Root)
	r.Get("/health", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	authenticated := middleware.Chain(auth.Authenticate)
	admin := middleware.Chain(auth.Authenticate, auth.RequireRole(model.RoleAdmin))
	instructor := middleware.Chain(auth.Authenticate, auth.RequireRole(model.RoleInstructor))
	student := middleware.Chain(auth.Authenticate, auth.RequireRole(model.RoleStudent))

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/jwt", h.Auth.IssueToken)

		api.Put("/users/{email}", h.Users.Upsert)
		api.Get("/users/{email}", h.Users.Get)
		api.With(admin).Get("/users", h.Users.List)
		api.With(admin).Patch("/users/role/{email}", h.Users.SetRole)
		api.Get("/instructors", h.Users.Instructors)

		api.Get("/classes", h.Classes.List)
		api.Get("/sortedClass", h.Classes.Top)
		api.With(instructor).Post("/classes", h.Classes.Create)
		api.With(instructor).Get("/classes/{email}", h.Classes.ByInstructor)
		api.With(admin).Patch("/classes/status/{id}", h.Classes.SetStatus)
		api.With(admin).Patch("/classes/feedback/{id}", h.Classes.SetFeedback)
		api.With(instructor).Patch("/class/{id}", h.Classes.Update)

		api.With(student).Post("/selectedClasses", h.Selection.Create)
		api.With(authenticated).Get("/selectedClasses/{email}", h.Selection.ByStudent)
		api.With(authenticated).Delete("/selectedClasses/{id}", h.Selection.Delete)
	})

	return r
}
