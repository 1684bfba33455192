package routers

import (
	"net/http"

	"codetrack/api/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func TopicRoutes(r *chi.Mux, topicHandler *handlers.TopicHandler, writeLimit func(http.Handler) http.Handler) {
	r.Route("/api/v1/topics", func(r chi.Router) {
		r.Get("/", topicHandler.GetTopicsHandler)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/", topicHandler.AddTopicHandler)
			r.Patch("/{id}", topicHandler.EditTopicHandler)
			r.Delete("/{id}", topicHandler.DeleteTopicHandler)
		})
	})
}
