package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"home_maintenance/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/classify", handler(s.postV1Classify))
			r.Get("/schedule/next", handler(s.getV1ScheduleNext))

			r.Route("/pool-tests", func(r chi.Router) {
				r.Get("/", handler(s.getV1PoolTests))
				r.Post("/", handler(s.postV1PoolTest))
				r.Get("/{id}", handler(s.getV1PoolTest))
				r.Put("/{id}", handler(s.putV1PoolTest))
				r.Delete("/{id}", handler(s.deleteV1PoolTest))
			})

			r.Route("/ranges", func(r chi.Router) {
				r.Get("/", handler(s.getV1Ranges))
				r.Post("/seed", handler(s.postV1RangesSeed))
				r.Put("/{item}", handler(s.putV1Range))
				r.Delete("/{item}", handler(s.deleteV1Range))
			})

			r.Route("/rainfall", func(r chi.Router) {
				r.Get("/", handler(s.getV1RainfallList))
				r.Post("/", handler(s.postV1Rainfall))
				r.Get("/summary", handler(s.getV1RainfallSummary))
				r.Get("/{id}", handler(s.getV1Rainfall))
				r.Put("/{id}", handler(s.putV1Rainfall))
				r.Delete("/{id}", handler(s.deleteV1Rainfall))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", handler(s.getV1Settings))
				r.Get("/{key}", handler(s.getV1Setting))
				r.Put("/{key}", handler(s.putV1Setting))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
