package main

import (
	"github.com/go-chi/chi/v5"
)

// SetupBookRoutes injects book related api endpoints. The admin prefixed
// routes expect the acting user id in the payload to check the admin role.
func (api *APIHandler) SetupBookRoutes(router *chi.Mux, m *MiddlewareMap) *chi.Mux {
	router.Route("/v1/books", func(r chi.Router) {
		r.Get("/", m.public(api.GetAllBooks))
		r.Get("/{id}", m.public(api.GetOneBook))
		r.Post("/admin/add", m.public(api.CreateBook))
		r.Put("/admin/update/{id}", m.public(api.UpdateBook))
		r.Patch("/admin/update/{id}", m.public(api.UpdateBook))
		r.Delete("/admin/delete/{id}", m.public(api.DeleteOneBook))
		r.Post("/review/{id}", m.public(api.AddBookReview))
		r.Patch("/review/{id}", m.public(api.AddBookReview))
	})
	return router
}
