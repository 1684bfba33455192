package routers

import (
	"net/http"

	"codetrack/api/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// QuestionRoutes mounts /api/v1/questions. writeLimit wraps the mutating
// endpoints. Static segments are registered before /{id}.
func QuestionRoutes(r *chi.Mux, questionHandler *handlers.QuestionHandler, writeLimit func(http.Handler) http.Handler) {
	r.Route("/api/v1/questions", func(r chi.Router) {
		r.Get("/", questionHandler.GetQuestionsHandler)
		r.Get("/paged", questionHandler.GetPagedQuestionsHandler)
		r.Get("/stats", questionHandler.GetStatsHandler)
		r.Get("/topic/{topicName}", questionHandler.GetQuestionsByTopicHandler)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/", questionHandler.CreateQuestionHandler)
			r.Put("/{id}/toggle", questionHandler.ToggleQuestionStatusHandler)
			r.Delete("/{id}", questionHandler.DeleteQuestionHandler)
		})
	})
}
