package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(c.requestIDMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", c.listRooms)
			r.Post("/{room-name}/validate-join", c.validateJoin)
		})
		r.Route("/ws", func(r chi.Router) {
			r.Route("/room/{room-name}", func(r chi.Router) {
				r.Get("/join", c.joinRoom)
			})
		})
	})

	return r
}
