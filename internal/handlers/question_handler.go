package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"codetrack/api/internal/models"
	"codetrack/api/internal/utils"
	"codetrack/api/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const uncategorized = "Uncategorized"

type QuestionRepo interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	ListPage(ctx context.Context, filter models.QuestionFilter, skip, limit int) ([]models.Question, error)
	ListByTopic(ctx context.Context, topic string) ([]models.Question, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Delete(ctx context.Context, id string) error
	ToggleDone(ctx context.Context, id string) (*models.Question, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// TopicLookup is the slice of the topic store question creation needs.
type TopicLookup interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type QuestionHandler struct {
	repo            QuestionRepo
	topics          TopicLookup
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

func NewQuestionHandler(r QuestionRepo, topics TopicLookup, logger *zap.Logger, defaultPageSize, maxPageSize int) *QuestionHandler {
	return &QuestionHandler{
		repo:            r,
		topics:          topics,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// GET /questions?search=
func (handler *QuestionHandler) GetQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	filter := models.QuestionFilter{Search: strings.TrimSpace(request.URL.Query().Get("search"))}

	questions, err := handler.repo.List(request.Context(), filter)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	groups := groupByTopic(questions)
	utils.JSON(writer, http.StatusOK, models.ListEnvelope(groups, len(questions)))
}

// groupByTopic keeps the incoming order inside each group and sorts the groups
// by topic name.
func groupByTopic(questions []models.Question) []models.TopicGroup {
	index := map[string]int{}
	groups := []models.TopicGroup{}

	for _, q := range questions {
		topic := q.Topic
		if topic == "" {
			topic = uncategorized
		}
		i, ok := index[topic]
		if !ok {
			i = len(groups)
			index[topic] = i
			groups = append(groups, models.TopicGroup{Topic: topic})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}

	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Topic < groups[b].Topic })
	return groups
}

// GET /questions/topic/{topicName}
func (handler *QuestionHandler) GetQuestionsByTopicHandler(writer http.ResponseWriter, request *http.Request) {
	topic := chi.URLParam(request, "topicName")

	exists, err := handler.topics.ExistsByName(request.Context(), topic)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if !exists {
		utils.JSON(writer, http.StatusOK, models.ListEnvelope([]models.Question{}, 0))
		return
	}

	questions, err := handler.repo.ListByTopic(request.Context(), topic)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	utils.JSON(writer, http.StatusOK, models.ListEnvelope(questions, len(questions)))
}

// GET /questions/paged?page=&limit=&search=&topic=&difficulty=
func (handler *QuestionHandler) GetPagedQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	page := positiveInt(query.Get("page"), 1)
	limit := positiveInt(query.Get("limit"), handler.defaultPageSize)
	if handler.maxPageSize > 0 && limit > handler.maxPageSize {
		limit = handler.maxPageSize
	}

	filter := models.QuestionFilter{
		Search:     strings.TrimSpace(query.Get("search")),
		Topic:      query.Get("topic"),
		Difficulty: query.Get("difficulty"),
	}

	total, err := handler.repo.Count(request.Context(), filter)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	totalPages, _, _ := models.CalculatePaginationMeta(page, limit, total)
	if totalPages > 0 && page > totalPages {
		utils.JSON(writer, http.StatusNotFound, models.ErrorEnvelope(fmt.Sprintf("Page %d does not exist.", page)))
		return
	}

	// with no matches there is nothing to page, whatever page was asked for
	questions := []models.Question{}
	if total > 0 {
		questions, err = handler.repo.ListPage(request.Context(), filter, (page-1)*limit, limit)
		if err != nil {
			respondError(writer, handler.logger, err, "")
			return
		}
		if questions == nil {
			questions = []models.Question{}
		}
	}

	response := models.ListEnvelope(questions, len(questions))
	response.Pagination = &models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
	}
	utils.JSON(writer, http.StatusOK, response)
}

// positiveInt parses raw, falling back to def for anything that is not a
// positive integer.
func positiveInt(raw string, def int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}

// POST /questions
func (handler *QuestionHandler) CreateQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	var body models.CreateQuestionRequest
	if err := utils.DecodeJSON(request, &body); err != nil {
		badRequest(writer, "Invalid request payload")
		return
	}
	body.Topic = strings.TrimSpace(body.Topic)
	body.QuestionName = strings.TrimSpace(body.QuestionName)
	body.Link = strings.TrimSpace(body.Link)

	if body.Topic == "" || body.QuestionName == "" || body.Link == "" || body.Difficulty == "" {
		badRequest(writer, "Please provide all required fields: topic, questionName, link, difficulty")
		return
	}

	platform := utils.DerivePlatformName(body.Link)
	if platform == utils.PlatformUnknown {
		badRequest(writer, "The provided link is not a valid URL.")
		return
	}

	if err := validation.ValidateStruct(body); err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	exists, err := handler.topics.ExistsByName(request.Context(), body.Topic)
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if !exists {
		badRequest(writer, fmt.Sprintf("Topic '%s' does not exist. Please add the topic first or choose an existing one.", body.Topic))
		return
	}

	created, err := handler.repo.Create(request.Context(), &models.Question{
		Topic:        body.Topic,
		QuestionName: body.QuestionName,
		PlatformName: platform,
		Link:         body.Link,
		Difficulty:   models.Difficulty(body.Difficulty),
	})
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	handler.logger.Info("question created",
		zap.Int("question_number", created.QuestionNumber),
		zap.String("topic", created.Topic))
	utils.JSON(writer, http.StatusCreated, models.DataEnvelope(created))
}

// DELETE /questions/{id}
func (handler *QuestionHandler) DeleteQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	notFound := "Question not found with id of " + id

	question, err := handler.repo.GetByID(request.Context(), id)
	if err != nil {
		respondError(writer, handler.logger, err, notFound)
		return
	}

	if err := handler.repo.Delete(request.Context(), id); err != nil {
		respondError(writer, handler.logger, err, notFound)
		return
	}

	utils.JSON(writer, http.StatusOK, models.Envelope{
		Success: true,
		Message: fmt.Sprintf("Question '%s' deleted successfully.", question.QuestionName),
		Data:    map[string]any{},
	})
}

// PUT /questions/{id}/toggle
func (handler *QuestionHandler) ToggleQuestionStatusHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	updated, err := handler.repo.ToggleDone(request.Context(), id)
	if err != nil {
		respondError(writer, handler.logger, err, "Question not found with id of "+id)
		return
	}

	utils.JSON(writer, http.StatusOK, models.DataEnvelope(updated))
}

// GET /questions/stats
func (handler *QuestionHandler) GetStatsHandler(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.repo.Stats(request.Context())
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	utils.JSON(writer, http.StatusOK, models.DataEnvelope(stats))
}
