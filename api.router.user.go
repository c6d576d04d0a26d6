package main

import (
	"github.com/go-chi/chi/v5"
)

// SetupUserRoutes injects user and lending related api endpoints.
func (api *APIHandler) SetupUserRoutes(router *chi.Mux, m *MiddlewareMap) *chi.Mux {
	router.Route("/v1/users", func(r chi.Router) {
		r.Post("/", m.public(api.CreateUser))
		r.Get("/", m.public(api.GetAllUsers))
		r.Get("/{id}", m.public(api.GetOneUser))
		r.Patch("/{id}", m.public(api.UpdateUser))
		r.Delete("/{id}", m.public(api.DeleteOneUser))
		r.Patch("/borrow/{userId}/{bookId}", m.public(api.BorrowBook))
		r.Patch("/return/{userId}/{bookId}", m.public(api.ReturnBook))
	})
	return router
}
