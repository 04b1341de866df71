package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *AudioHandler) {
	r.With(httputil.RecoverMiddleware).Get("/health", h.Health)

	r.Route("/audio", func(ar chi.Router) {
		ar.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
		)

		ar.Post("/upload", h.Upload)
		ar.Post("/convert", h.Convert)
		ar.Get("/status/{id}", h.Status)
		ar.Get("/download/{id}", h.Download)
	})
}
