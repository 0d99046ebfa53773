package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blog-api/internal/handlers"
	"blog-api/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Entries *service.EntryService
	DB      *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
// The entry routes are mounted twice: once at the root for the default
// tenant and once under /tenants/{tenantId}.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	entryHandler := handlers.NewEntryHandler(deps.Entries)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Method(http.MethodGet, "/healthz", healthHandler)

	entryRoutes := func(r chi.Router) {
		r.Get("/entries", entryHandler.List)
		r.Post("/entries", entryHandler.Post)
		r.Get("/entries/{entryId:[0-9]+}", entryHandler.Get)
		r.Put("/entries/{entryId:[0-9]+}", entryHandler.Put)
		r.Delete("/entries/{entryId:[0-9]+}", entryHandler.Delete)
		r.Get("/entries/{entryId:[0-9]+}.md", entryHandler.GetMarkdown)
		r.Get("/entries/{entryId:[0-9]+}.html", entryHandler.GetHTML)
		r.Get("/tags", entryHandler.Tags)
		r.Get("/categories", entryHandler.Categories)
	}
	entryRoutes(r)
	r.Route("/tenants/{tenantId}", entryRoutes)

	adminRoutes := func(r chi.Router) {
		r.Delete("/entries/{entryId:[0-9]+}/tokens", entryHandler.DeleteTokens)
		r.Post("/entries/{entryId:[0-9]+}/tokens", entryHandler.RebuildTokens)
	}
	r.Route("/admin", func(r chi.Router) {
		adminRoutes(r)
		r.Route("/tenants/{tenantId}", adminRoutes)
	})

	return r
}
