package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"codetrack/api/internal/models"
	"codetrack/api/internal/utils"
	"codetrack/api/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskRepo interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	Update(ctx context.Context, id string, t *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskHandler struct {
	repo         TaskRepo
	logger       *zap.Logger
	defaultEmail string
	now          func() time.Time
}

// NewTaskHandler builds the task handlers. defaultEmail receives reminders
// for tasks created without an email; it may be empty.
func NewTaskHandler(r TaskRepo, logger *zap.Logger, defaultEmail string) *TaskHandler {
	return &TaskHandler{repo: r, logger: logger, defaultEmail: defaultEmail, now: time.Now}
}

func taskEnvelope(message string, data any) models.Envelope {
	return models.Envelope{Success: true, Message: message, Data: data}
}

// POST /tasks
func (handler *TaskHandler) CreateTaskHandler(writer http.ResponseWriter, request *http.Request) {
	var body models.CreateTaskRequest
	if err := utils.DecodeJSON(request, &body); err != nil {
		badRequest(writer, "Invalid request payload")
		return
	}
	body.Heading = strings.TrimSpace(body.Heading)
	body.Content = strings.TrimSpace(body.Content)
	body.Email = strings.TrimSpace(body.Email)

	if body.Heading == "" || body.Content == "" || body.Time == nil {
		badRequest(writer, "All fields are required")
		return
	}
	if body.Email == "" {
		body.Email = handler.defaultEmail
	}
	if body.Email == "" {
		badRequest(writer, "An email address is required for task reminders")
		return
	}
	if err := validation.ValidateStruct(body); err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if !body.Time.After(handler.now()) {
		badRequest(writer, "Task time must be in the future")
		return
	}

	created, err := handler.repo.Create(request.Context(), &models.Task{
		Heading: body.Heading,
		Content: body.Content,
		Time:    body.Time.UTC(),
		Email:   body.Email,
	})
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	handler.logger.Info("task created",
		zap.String("task_id", created.ID.Hex()),
		zap.Time("time", created.Time))
	utils.JSON(writer, http.StatusCreated, taskEnvelope("Task created successfully", created))
}

// GET /tasks
func (handler *TaskHandler) GetTasksHandler(writer http.ResponseWriter, request *http.Request) {
	tasks, err := handler.repo.List(request.Context())
	if err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	utils.JSON(writer, http.StatusOK, taskEnvelope("Tasks fetched successfully", tasks))
}

// PUT /tasks/{id}
func (handler *TaskHandler) UpdateTaskHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var body models.UpdateTaskRequest
	if err := utils.DecodeJSON(request, &body); err != nil {
		badRequest(writer, "Invalid request payload")
		return
	}
	body.Heading = strings.TrimSpace(body.Heading)
	body.Content = strings.TrimSpace(body.Content)
	body.Email = strings.TrimSpace(body.Email)

	if body.Heading == "" || body.Content == "" || body.Time == nil || body.Email == "" {
		badRequest(writer, "All fields (heading, content, time, email) are required to update")
		return
	}
	if err := validation.ValidateStruct(body); err != nil {
		respondError(writer, handler.logger, err, "")
		return
	}

	updated, err := handler.repo.Update(request.Context(), id, &models.Task{
		Heading: body.Heading,
		Content: body.Content,
		Time:    body.Time.UTC(),
		Email:   body.Email,
	})
	if err != nil {
		respondError(writer, handler.logger, err, "Task not found")
		return
	}

	utils.JSON(writer, http.StatusOK, taskEnvelope("Task updated successfully", updated))
}

// DELETE /tasks/{id}
func (handler *TaskHandler) DeleteTaskHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.repo.Delete(request.Context(), id); err != nil {
		respondError(writer, handler.logger, err, "Task not found")
		return
	}

	utils.JSON(writer, http.StatusOK, taskEnvelope("Task deleted successfully", map[string]any{}))
}
