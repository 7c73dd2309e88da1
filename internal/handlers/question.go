package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dmquiz-backend/internal/models"
)

// QuestionHandler serves the saved-questions CRUD surface:
// GET /api/questions, POST /api/questions (bulk array), DELETE /api/questions/{id}.
type QuestionHandler struct {
	repo questionRepository
}

type questionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	BulkInsert(ctx context.Context, questions []models.Question) ([]models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func NewQuestionHandler(repo questionRepository) *QuestionHandler {
	return &QuestionHandler{repo: repo}
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.repo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch questions", r))
		return
	}

	// Bare array: that is the shape the frontend consumes.
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) BulkInsert(w http.ResponseWriter, r *http.Request) {
	var questions []models.Question
	if err := json.NewDecoder(r.Body).Decode(&questions); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Request body must be a JSON array of questions", r))
		return
	}
	if len(questions) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "At least one question is required", r))
		return
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR",
				fmt.Sprintf("Question %d is invalid: %v", i+1, err), r))
			return
		}
	}

	inserted, err := h.repo.BulkInsert(r.Context(), questions)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save questions", r))
		return
	}

	writeJSON(w, http.StatusOK, inserted)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete question", r))
		return
	}

	// Idempotent: deleting an already-removed ID reports success too.
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
