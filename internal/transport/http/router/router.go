package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/suppertable/experience-service/internal/config"
	"github.com/suppertable/experience-service/internal/transport/http/handlers"
	authmw "github.com/suppertable/experience-service/internal/transport/http/middleware"
)

func New(
	eh *handlers.ExperiencesHandler,
	bh *handlers.BookingsHandler,
	auth *authmw.AuthMiddleware,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)

	r.Route("/experience/v1", func(r chi.Router) {
		r.Get("/experiences", eh.ListPublic)
		r.Get("/experiences/{experience_id}", eh.GetPublic)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Post("/experiences", eh.Create)
			r.Patch("/experiences/{experience_id}", eh.Update)
			r.Post("/experiences/{experience_id}/publish", eh.Publish)
			r.Post("/experiences/{experience_id}/unpublish", eh.Unpublish)

			r.Get("/host/experiences", eh.ListMine)
			r.Get("/host/experiences/{experience_id}", eh.GetMine)
			r.Get("/host/experiences/{experience_id}/capacity", eh.CheckCapacity)
			r.Post("/host/experiences/{experience_id}/capacity/reconcile", eh.Reconcile)
			r.Get("/host/experiences/{experience_id}/stats", eh.Stats)

			r.Get("/bookings", bh.ListMine)
			r.Get("/bookings/{booking_id}", bh.Get)
			r.Post("/bookings/{booking_id}/cancel", bh.Cancel)
		})
	})

	return r
}
