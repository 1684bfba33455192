package routers

import (
	"net/http"

	"codetrack/api/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func TaskRoutes(r *chi.Mux, taskHandler *handlers.TaskHandler, writeLimit func(http.Handler) http.Handler) {
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasksHandler)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/", taskHandler.CreateTaskHandler)
			r.Put("/{id}", taskHandler.UpdateTaskHandler)
			r.Delete("/{id}", taskHandler.DeleteTaskHandler)
		})
	})
}
