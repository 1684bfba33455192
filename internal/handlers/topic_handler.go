package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"
	"codetrack/api/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const topicNotFound = "Topic not found"

type TopicRepo interface {
	List(ctx context.Context) ([]models.Topic, error)
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	// FindByNameFold returns the topic whose name equals name ignoring case,
	// skipping excludeID when it is set.
	FindByNameFold(ctx context.Context, name, excludeID string) (*models.Topic, error)
	Create(ctx context.Context, t *models.Topic) (*models.Topic, error)
	Rename(ctx context.Context, id, name string) (*models.Topic, error)
	Delete(ctx context.Context, id string) error
}

// TopicUsage is what the topic handlers need from the question store.
type TopicUsage interface {
	ExistsForTopic(ctx context.Context, topic string) (bool, error)
	RenameTopic(ctx context.Context, from, to string) (int64, error)
}

type TopicHandler struct {
	repo      TopicRepo
	questions TopicUsage
	logger    *zap.Logger
}

func NewTopicHandler(r TopicRepo, questions TopicUsage, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{repo: r, questions: questions, logger: logger}
}

// GET /topics
func (handler *TopicHandler) GetTopicsHandler(writer http.ResponseWriter, request *http.Request) {
	topics, err := handler.repo.List(request.Context())
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}

	utils.JSON(writer, http.StatusOK, models.ListEnvelope(topics, len(topics)))
}

// POST /topics
func (handler *TopicHandler) AddTopicHandler(writer http.ResponseWriter, request *http.Request) {
	var body models.TopicRequest
	if err := utils.DecodeJSON(request, &body); err != nil {
		badRequest(writer, "Invalid request payload")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		badRequest(writer, "Topic name is required")
		return
	}

	name := utils.NormalizeTopicName(body.Name)

	existing, err := handler.repo.FindByNameFold(request.Context(), name, "")
	switch {
	case err == nil:
		badRequest(writer, fmt.Sprintf("Topic '%s' already exists as '%s'.", body.Name, existing.Name))
		return
	case !errors.Is(err, repositories.ErrNotFound):
		respondError(writer, handler.logger, err, "")
		return
	}

	created, err := handler.repo.Create(request.Context(), &models.Topic{Name: name})
	if err != nil {
		// lost a race against a concurrent insert of the same name
		respondError(writer, handler.logger, err, "")
		return
	}

	handler.logger.Info("topic created", zap.String("name", created.Name))
	utils.JSON(writer, http.StatusCreated, models.DataEnvelope(created))
}

// PATCH /topics/{id}
func (handler *TopicHandler) EditTopicHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var body models.TopicRequest
	if err := utils.DecodeJSON(request, &body); err != nil {
		badRequest(writer, "Invalid request payload")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		badRequest(writer, "Topic name is required")
		return
	}

	current, err := handler.repo.GetByID(request.Context(), id)
	if err != nil {
		respondError(writer, handler.logger, err, topicNotFound)
		return
	}

	name := utils.NormalizeTopicName(body.Name)

	existing, err := handler.repo.FindByNameFold(request.Context(), name, id)
	switch {
	case err == nil:
		badRequest(writer, fmt.Sprintf("Another topic named '%s' already exists.", existing.Name))
		return
	case !errors.Is(err, repositories.ErrNotFound):
		respondError(writer, handler.logger, err, "")
		return
	}

	updated, err := handler.repo.Rename(request.Context(), id, name)
	if err != nil {
		respondError(writer, handler.logger, err, topicNotFound)
		return
	}

	if current.Name != updated.Name {
		moved, err := handler.questions.RenameTopic(request.Context(), current.Name, updated.Name)
		if err != nil {
			if _, rbErr := handler.repo.Rename(request.Context(), id, current.Name); rbErr != nil {
				handler.logger.Error("failed to roll back topic rename",
					zap.String("topic_id", id), zap.Error(rbErr))
			}
			respondError(writer, handler.logger, err, "")
			return
		}
		handler.logger.Info("topic renamed",
			zap.String("from", current.Name),
			zap.String("to", updated.Name),
			zap.Int64("questions_moved", moved))
	}

	utils.JSON(writer, http.StatusOK, models.DataEnvelope(updated))
}

// DELETE /topics/{id}
func (handler *TopicHandler) DeleteTopicHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	topic, err := handler.repo.GetByID(request.Context(), id)
	if err != nil {
		respondError(writer, handler.logger, err, topicNotFound)
		return
	}

	inUse, err := handler.questions.ExistsForTopic(request.Context(), topic.Name)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if inUse {
		badRequest(writer, fmt.Sprintf("Cannot delete topic '%s' because questions are associated with it. Please delete or reassign the questions first.", topic.Name))
		return
	}

	if err := handler.repo.Delete(request.Context(), id); err != nil {
		respondError(writer, handler.logger, err, topicNotFound)
		return
	}

	utils.JSON(writer, http.StatusOK, models.Envelope{
		Success: true,
		Message: fmt.Sprintf("Topic '%s' deleted successfully.", topic.Name),
		Data:    map[string]any{},
	})
}
