package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"marketplace/internal/http/handlers"
	"marketplace/internal/infra"
	"marketplace/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/healthz", app.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.AuthRegister)
		r.Post("/login", app.AuthLogin)
		r.With(middleware.RequireAuth(app.Tokens)).Get("/me", app.AuthMe)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", app.UsersCreate)
		r.Get("/", app.UsersList)
		r.Get("/{id}", app.UsersGet)
		r.Patch("/{id}", app.UsersUpdate)
		r.Delete("/{id}", app.UsersDelete)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", app.ProductsCreate)
		r.Get("/", app.ProductsList)
		r.Get("/owner/{ownerId}", app.ProductsListByOwner)
		r.Get("/{id}", app.ProductsGet)
		r.Patch("/{id}", app.ProductsUpdate)
		r.Delete("/{id}", app.ProductsDelete)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", app.JobsCreate)
		r.Get("/", app.JobsList)
		r.Get("/offers", app.JobsOffers)
		r.Get("/seekers", app.JobsSeekers)
		r.Get("/{id}", app.JobsGet)
		r.Patch("/{id}", app.JobsUpdate)
		r.Delete("/{id}", app.JobsDelete)
	})

	r.Route("/investments", func(r chi.Router) {
		r.Post("/", app.CampaignsCreate)
		r.Get("/", app.CampaignsList)
		r.Get("/creator/{creatorId}", app.CampaignsListByCreator)
		r.Get("/users/{userId}/backings", app.BackingsByUser)
		r.Get("/{id}", app.CampaignsGet)
		r.Patch("/{id}", app.CampaignsUpdate)
		r.Delete("/{id}", app.CampaignsDelete)
		r.Post("/{id}/backings", app.BackingsAdd)
		r.Get("/{id}/backings", app.BackingsList)
		r.Get("/{id}/total", app.BackingsTotal)
	})

	return r
}
