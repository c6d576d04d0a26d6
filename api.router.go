package main

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/jeamon/biblio-api/docs"
)

// SetupRoutes enforces the api routes.
func (api *APIHandler) SetupRoutes(router *chi.Mux, m *MiddlewareMap) *chi.Mux {
	router.NotFound(m.public(api.NotFound()))
	router.Get("/", m.public(api.Index))
	router.Get("/status", m.public(api.Status))
	router.Get("/swagger/*", m.public(httpSwagger.Handler()))

	router = api.SetupBookRoutes(router, m)
	router = api.SetupUserRoutes(router, m)
	if api.config.OpsEndpointsEnable {
		router = api.SetupOpsRoutes(router, m)
	}
	return router
}
