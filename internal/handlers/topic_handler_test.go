package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"codetrack/api/internal/handlers"
	"codetrack/api/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTopicRouter(topics *fakeTopicRepo, questions *fakeQuestionRepo) *chi.Mux {
	if questions == nil {
		questions = &fakeQuestionRepo{}
	}
	h := handlers.NewTopicHandler(topics, questions, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/v1/topics", h.GetTopicsHandler)
	r.Post("/api/v1/topics", h.AddTopicHandler)
	r.Patch("/api/v1/topics/{id}", h.EditTopicHandler)
	r.Delete("/api/v1/topics/{id}", h.DeleteTopicHandler)
	return r
}

func TestGetTopics(t *testing.T) {
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: newID(), Name: "Arrays"}, {ID: newID(), Name: "Graphs"}}}

	rr := serve(newTopicRouter(topics, nil), http.MethodGet, "/api/v1/topics", "")
	expectStatus(t, rr, http.StatusOK)

	got := decode[[]models.Topic](t, rr)
	if *got.Count != 2 || got.Data[1].Name != "Graphs" {
		t.Fatalf("unexpected topics: %+v", got)
	}
}

func TestAddTopic_Normalizes(t *testing.T) {
	topics := &fakeTopicRepo{}

	rr := serve(newTopicRouter(topics, nil), http.MethodPost, "/api/v1/topics", `{"name":"  dynamic PROGRAMMING "}`)
	expectStatus(t, rr, http.StatusCreated)

	got := decode[models.Topic](t, rr)
	if got.Data.Name != "Dynamic Programming" {
		t.Fatalf("expected normalized name, got %q", got.Data.Name)
	}
	if len(topics.topics) != 1 {
		t.Fatalf("expected one stored topic, got %d", len(topics.topics))
	}
}

func TestAddTopic_DuplicateIgnoringCase(t *testing.T) {
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: newID(), Name: "Arrays"}}}

	rr := serve(newTopicRouter(topics, nil), http.MethodPost, "/api/v1/topics", `{"name":"ARRAYS"}`)
	expectStatus(t, rr, http.StatusBadRequest)

	got := decode[any](t, rr)
	if got.Error != "Topic 'ARRAYS' already exists as 'Arrays'." {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if len(topics.topics) != 1 {
		t.Fatalf("duplicate should not be stored")
	}
}

func TestAddTopic_Empty(t *testing.T) {
	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `{}`} {
		rr := serve(newTopicRouter(&fakeTopicRepo{}, nil), http.MethodPost, "/api/v1/topics", body)
		expectStatus(t, rr, http.StatusBadRequest)
	}
}

func TestEditTopic_RenamesQuestions(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Dp"}}}

	var from, to string
	questions := &fakeQuestionRepo{
		renameTopicFn: func(f, tt string) (int64, error) {
			from, to = f, tt
			return 4, nil
		},
	}

	rr := serve(newTopicRouter(topics, questions), http.MethodPatch, "/api/v1/topics/"+id.Hex(), `{"name":"dynamic programming"}`)
	expectStatus(t, rr, http.StatusOK)

	got := decode[models.Topic](t, rr)
	if got.Data.Name != "Dynamic Programming" {
		t.Fatalf("unexpected name %q", got.Data.Name)
	}
	if from != "Dp" || to != "Dynamic Programming" {
		t.Fatalf("questions not re-pointed: %q -> %q", from, to)
	}
}

func TestEditTopic_CaseOnlyChangeOfSelf(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Graphs"}}}

	rr := serve(newTopicRouter(topics, nil), http.MethodPatch, "/api/v1/topics/"+id.Hex(), `{"name":"GRAPHS"}`)
	expectStatus(t, rr, http.StatusOK)
}

func TestEditTopic_ClashesWithAnother(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Graphs"}, {ID: newID(), Name: "Binary trees"}}}

	rr := serve(newTopicRouter(topics, nil), http.MethodPatch, "/api/v1/topics/"+id.Hex(), `{"name":"binary TREES"}`)
	expectStatus(t, rr, http.StatusBadRequest)

	if got := decode[any](t, rr); got.Error != "Another topic named 'Binary trees' already exists." {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if topics.topics[0].Name != "Graphs" {
		t.Fatalf("topic should be unchanged")
	}
}

func TestEditTopic_RollsBackWhenQuestionsFail(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Dp"}}}
	questions := &fakeQuestionRepo{
		renameTopicFn: func(string, string) (int64, error) {
			return 0, errors.New("write conflict")
		},
	}

	rr := serve(newTopicRouter(topics, questions), http.MethodPatch, "/api/v1/topics/"+id.Hex(), `{"name":"dynamic programming"}`)
	expectStatus(t, rr, http.StatusInternalServerError)

	if topics.topics[0].Name != "Dp" {
		t.Fatalf("topic rename not rolled back, got %q", topics.topics[0].Name)
	}
}

func TestEditTopic_NotFound(t *testing.T) {
	rr := serve(newTopicRouter(&fakeTopicRepo{}, nil), http.MethodPatch, "/api/v1/topics/"+newID().Hex(), `{"name":"X"}`)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestDeleteTopic_RefusedWhenReferenced(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Arrays"}}}
	questions := &fakeQuestionRepo{
		existsFn: func(topic string) (bool, error) { return topic == "Arrays", nil },
	}

	rr := serve(newTopicRouter(topics, questions), http.MethodDelete, "/api/v1/topics/"+id.Hex(), "")
	expectStatus(t, rr, http.StatusBadRequest)

	got := decode[any](t, rr)
	want := "Cannot delete topic 'Arrays' because questions are associated with it. Please delete or reassign the questions first."
	if got.Error != want {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if len(topics.topics) != 1 {
		t.Fatalf("topic should still exist")
	}
}

func TestDeleteTopic_Unreferenced(t *testing.T) {
	id := newID()
	topics := &fakeTopicRepo{topics: []models.Topic{{ID: id, Name: "Arrays"}}}

	rr := serve(newTopicRouter(topics, nil), http.MethodDelete, "/api/v1/topics/"+id.Hex(), "")
	expectStatus(t, rr, http.StatusOK)

	if len(topics.topics) != 0 {
		t.Fatalf("topic should be gone")
	}
}

func TestDeleteTopic_BadID(t *testing.T) {
	rr := serve(newTopicRouter(&fakeTopicRepo{}, nil), http.MethodDelete, "/api/v1/topics/123", "")
	expectStatus(t, rr, http.StatusBadRequest)
}
