package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"dmquiz-backend/internal/models"
	"dmquiz-backend/internal/services"
)

// fakeQuestionRepo implements the handler's repository interface in memory.
// BulkInsert re-keys records the same way the Postgres repository does.
type fakeQuestionRepo struct {
	questions []models.Question
	listErr   error
	deleted   []uuid.UUID
}

func (f *fakeQuestionRepo) List(ctx context.Context) ([]models.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.questions, nil
}

func (f *fakeQuestionRepo) BulkInsert(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	now := time.Now()
	for i := range questions {
		questions[i].ID = uuid.New().String()
		questions[i].CreatedAt = now
	}
	f.questions = append(f.questions, questions...)
	return questions, nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newQuestionServer(t *testing.T, repo *fakeQuestionRepo) *httptest.Server {
	t.Helper()
	return newServer(t, services.NewGeminiService("test-key", "", "", 1), repo)
}

const validQuestionJSON = `{
	"id": "q-1756600000000-0",
	"question": "What is $2^3$?",
	"options": ["6", "8", "9", "12"],
	"correctAnswer": 1,
	"difficulty": "easy",
	"explanation": "$2^3 = 8$",
	"topic": "Exponents"
}`

func TestBulkInsert_ReplacesClientIDs(t *testing.T) {
	repo := &fakeQuestionRepo{}
	srv := newQuestionServer(t, repo)

	resp, err := http.Post(srv.URL+"/api/questions", "application/json",
		strings.NewReader("["+validQuestionJSON+"]"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var inserted []models.Question
	if err := json.NewDecoder(resp.Body).Decode(&inserted); err != nil {
		t.Fatalf("response was not a question array: %v", err)
	}
	if len(inserted) != 1 {
		t.Fatalf("expected 1 inserted question, got %d", len(inserted))
	}
	if _, err := uuid.Parse(inserted[0].ID); err != nil {
		t.Errorf("client-supplied ID must be replaced with a server UUID, got %q", inserted[0].ID)
	}
	if inserted[0].CreatedAt.IsZero() {
		t.Error("inserted question missing createdAt")
	}
}

func TestBulkInsert_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an array", `{"question":"x"}`},
		{"empty array", `[]`},
		{"missing text", `[{"question":"","options":["a","b","c","d"],"correctAnswer":0}]`},
		{"three options", `[{"question":"x","options":["a","b","c"],"correctAnswer":0}]`},
		{"blank option", `[{"question":"x","options":["a","","c","d"],"correctAnswer":0}]`},
		{"answer out of range", `[{"question":"x","options":["a","b","c","d"],"correctAnswer":4}]`},
		{"negative answer", `[{"question":"x","options":["a","b","c","d"],"correctAnswer":-1}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeQuestionRepo{}
			srv := newQuestionServer(t, repo)

			resp, err := http.Post(srv.URL+"/api/questions", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			var body map[string]interface{}
			json.NewDecoder(resp.Body).Decode(&body)
			if code := errorCode(t, body); code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %q", code)
			}
			if len(repo.questions) != 0 {
				t.Error("invalid batch must not be persisted, even partially")
			}
		})
	}
}

func TestList_ReturnsBareArray(t *testing.T) {
	repo := &fakeQuestionRepo{questions: []models.Question{{
		ID:            uuid.New().String(),
		Text:          "What is $1+1$?",
		Options:       []string{"1", "2", "3", "4"},
		CorrectAnswer: 1,
		Difficulty:    models.DifficultyEasy,
		Explanation:   "basic",
		Topic:         "Arithmetic",
	}}}
	srv := newQuestionServer(t, repo)

	resp, err := http.Get(srv.URL + "/api/questions")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var listed []models.Question
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("expected a bare JSON array, decode failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Text != "What is $1+1$?" {
		t.Errorf("unexpected listing: %+v", listed)
	}
}

func TestDelete_Question(t *testing.T) {
	repo := &fakeQuestionRepo{}
	srv := newQuestionServer(t, repo)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/questions/not-a-uuid", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", resp.StatusCode)
	}

	id := uuid.New()
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/questions/"+id.String(), nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body["success"] {
		t.Error("expected success:true")
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Errorf("expected a single delete for %s, got %v", id, repo.deleted)
	}
}
