package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"

	"github.com/go-chi/chi/v5"
)

type fakeQuestionRepo struct {
	listFn        func(models.QuestionFilter) ([]models.Question, error)
	listPageFn    func(models.QuestionFilter, int, int) ([]models.Question, error)
	listByTopicFn func(string) ([]models.Question, error)
	countFn       func(models.QuestionFilter) (int, error)
	createFn      func(*models.Question) (*models.Question, error)
	getByIDFn     func(string) (*models.Question, error)
	deleteFn      func(string) error
	toggleFn      func(string) (*models.Question, error)
	statsFn       func() (models.Stats, error)
	existsFn      func(string) (bool, error)
	renameTopicFn func(string, string) (int64, error)
}

func (f *fakeQuestionRepo) List(_ context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	if f.listFn != nil {
		return f.listFn(filter)
	}
	return []models.Question{}, nil
}
func (f *fakeQuestionRepo) ListPage(_ context.Context, filter models.QuestionFilter, skip, limit int) ([]models.Question, error) {
	if f.listPageFn != nil {
		return f.listPageFn(filter, skip, limit)
	}
	return []models.Question{}, nil
}
func (f *fakeQuestionRepo) ListByTopic(_ context.Context, topic string) ([]models.Question, error) {
	if f.listByTopicFn != nil {
		return f.listByTopicFn(topic)
	}
	return nil, nil
}
func (f *fakeQuestionRepo) Count(_ context.Context, filter models.QuestionFilter) (int, error) {
	if f.countFn != nil {
		return f.countFn(filter)
	}
	return 0, nil
}
func (f *fakeQuestionRepo) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	if f.createFn != nil {
		return f.createFn(q)
	}
	return nil, errUnexpectedCall
}
func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*models.Question, error) {
	if _, err := repositories.ParseID(id); err != nil {
		return nil, err
	}
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}
func (f *fakeQuestionRepo) Delete(_ context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return errUnexpectedCall
}
func (f *fakeQuestionRepo) ToggleDone(_ context.Context, id string) (*models.Question, error) {
	if _, err := repositories.ParseID(id); err != nil {
		return nil, err
	}
	if f.toggleFn != nil {
		return f.toggleFn(id)
	}
	return nil, repositories.ErrNotFound
}
func (f *fakeQuestionRepo) Stats(context.Context) (models.Stats, error) {
	if f.statsFn != nil {
		return f.statsFn()
	}
	return models.Stats{}, nil
}
func (f *fakeQuestionRepo) ExistsForTopic(_ context.Context, topic string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(topic)
	}
	return false, nil
}
func (f *fakeQuestionRepo) RenameTopic(_ context.Context, from, to string) (int64, error) {
	if f.renameTopicFn != nil {
		return f.renameTopicFn(from, to)
	}
	return 0, nil
}

// fakeTopicRepo keeps topics in memory so duplicate checks behave like the
// real store.
type fakeTopicRepo struct {
	topics []models.Topic
}

func (f *fakeTopicRepo) find(id string) (int, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return -1, err
	}
	for i, t := range f.topics {
		if t.ID == oid {
			return i, nil
		}
	}
	return -1, repositories.ErrNotFound
}

func (f *fakeTopicRepo) List(context.Context) ([]models.Topic, error) {
	return append([]models.Topic(nil), f.topics...), nil
}
func (f *fakeTopicRepo) GetByID(_ context.Context, id string) (*models.Topic, error) {
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	t := f.topics[i]
	return &t, nil
}
func (f *fakeTopicRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, t := range f.topics {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeTopicRepo) FindByNameFold(_ context.Context, name, excludeID string) (*models.Topic, error) {
	for _, t := range f.topics {
		if strings.EqualFold(t.Name, name) && t.ID.Hex() != excludeID {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}
func (f *fakeTopicRepo) Create(_ context.Context, t *models.Topic) (*models.Topic, error) {
	t.ID = newID()
	f.topics = append(f.topics, *t)
	return t, nil
}
func (f *fakeTopicRepo) Rename(_ context.Context, id, name string) (*models.Topic, error) {
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	f.topics[i].Name = name
	t := f.topics[i]
	return &t, nil
}
func (f *fakeTopicRepo) Delete(_ context.Context, id string) error {
	i, err := f.find(id)
	if err != nil {
		return err
	}
	f.topics = append(f.topics[:i], f.topics[i+1:]...)
	return nil
}

type fakeTaskRepo struct {
	listFn   func() ([]models.Task, error)
	createFn func(*models.Task) (*models.Task, error)
	updateFn func(string, *models.Task) (*models.Task, error)
	deleteFn func(string) error
}

func (f *fakeTaskRepo) List(context.Context) ([]models.Task, error) {
	if f.listFn != nil {
		return f.listFn()
	}
	return nil, nil
}
func (f *fakeTaskRepo) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	if f.createFn != nil {
		return f.createFn(t)
	}
	return nil, errUnexpectedCall
}
func (f *fakeTaskRepo) Update(_ context.Context, id string, t *models.Task) (*models.Task, error) {
	if f.updateFn != nil {
		return f.updateFn(id, t)
	}
	return nil, errUnexpectedCall
}
func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return errUnexpectedCall
}

type unexpectedCallError struct{}

func (unexpectedCallError) Error() string { return "unexpected call" }

var errUnexpectedCall error = unexpectedCallError{}

// envelope mirrors models.Envelope with a typed payload.
type envelope[T any] struct {
	Success    bool               `json:"success"`
	Count      *int               `json:"count"`
	Pagination *models.Pagination `json:"pagination"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Data       T                  `json:"data"`
}

func serve(r *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var got envelope[T]
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v\nbody=%s", err, rr.Body.String())
	}
	return got
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}
