package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	chargeHandler "fiado/internal/http/charge"
	clientHandler "fiado/internal/http/client"
	reportHandler "fiado/internal/http/report"
	snapshotHandler "fiado/internal/http/snapshot"
)

func New(
	allowedOrigins []string,
	clientsV1 *clientHandler.Handler,
	chargesV1 *chargeHandler.Handler,
	reportsV1 *reportHandler.Handler,
	snapshotV1 *snapshotHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			clientsV1.Routes(r)
		})

		r.Route("/charges", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			chargesV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		// No content-type restriction on snapshot import: legacy exports
		// arrive with whatever type the browser guessed.
		r.Route("/snapshot", snapshotV1.Routes)
	})

	return router
}
