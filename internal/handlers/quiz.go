package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dmquiz-backend/internal/models"
	"dmquiz-backend/internal/quiz"
	"dmquiz-backend/internal/services"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// QuizHandler drives the generate -> answer -> submit flow. Each session is a
// single-use value living in the session store; starting a new quiz simply
// creates a new session and lets the old one expire.
type QuizHandler struct {
	gemini   *services.GeminiService
	sessions quiz.Store
}

func NewQuizHandler(gemini *services.GeminiService, sessions quiz.Store) *QuizHandler {
	return &QuizHandler{gemini: gemini, sessions: sessions}
}

// questionView is a question as shown during active play: no correct answer,
// no explanation.
type questionView struct {
	ID         string            `json:"id"`
	Text       string            `json:"question"`
	Options    []string          `json:"options"`
	Difficulty models.Difficulty `json:"difficulty"`
	Topic      string            `json:"topic"`
}

func redact(questions []models.Question) []questionView {
	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			Topic:      q.Topic,
		}
	}
	return views
}

func sessionResponse(s *quiz.Session) map[string]interface{} {
	resp := map[string]interface{}{
		"session_id":     s.ID,
		"topic":          s.Topic,
		"difficulty":     s.Difficulty,
		"question_count": len(s.Questions),
		"answers":        s.Answers,
		"completed":      s.Completed,
		"created_at":     s.CreatedAt,
	}
	if s.Completed {
		resp["score"] = s.Score
		resp["questions"] = s.Questions
	} else {
		resp["answered_count"] = s.AnsweredCount()
		resp["questions"] = redact(s.Questions)
	}
	return resp
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	count := req.QuestionCount
	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	difficulty := req.Difficulty
	if difficulty != "random" {
		difficulty = string(models.ParseDifficulty(difficulty))
	}

	svc := h.gemini
	if req.APIKey != "" {
		svc = h.gemini.WithAPIKey(req.APIKey)
	}

	questions, err := svc.GenerateQuestions(r.Context(), req.Topic, count, difficulty)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if len(questions) == 0 {
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_EMPTY", "Could not generate any questions. Please try again.", r))
		return
	}

	session, err := quiz.NewSession(req.Topic, difficulty, questions)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start quiz session", r))
		return
	}

	if err := h.sessions.Save(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store quiz session", r))
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse(session))
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *QuizHandler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.SelectAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// On a completed session this is a silent no-op, not an error.
	if err := session.SelectAnswer(req.QuestionIndex, req.AnswerIndex); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	if err := h.sessions.Save(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store quiz session", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answered_count": session.AnsweredCount(),
		"question_count": len(session.Questions),
		"completed":      session.Completed,
	})
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	score, err := session.Submit()
	switch {
	case errors.Is(err, quiz.ErrNotAllAnswered):
		writeJSON(w, http.StatusConflict, errorResp("NOT_ALL_ANSWERED", "Please answer all questions before submitting", r))
		return
	case errors.Is(err, quiz.ErrCompleted):
		writeJSON(w, http.StatusConflict, errorResp("ALREADY_COMPLETED", "This quiz has already been submitted", r))
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to submit quiz", r))
		return
	}

	if err := h.sessions.Save(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store quiz session", r))
		return
	}

	resp := sessionResponse(session)
	resp["score"] = score
	writeJSON(w, http.StatusOK, resp)
}

func (h *QuizHandler) loadSession(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, quiz.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz session not found", r))
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz session", r))
		return nil, false
	}
	return session, true
}
