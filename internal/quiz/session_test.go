package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dmquiz-backend/internal/models"
)

func threeQuestions() []models.Question {
	qs := make([]models.Question, 3)
	for i := range qs {
		qs[i] = models.Question{
			ID:            fmt.Sprintf("q-1-%d", i),
			Text:          "What is $1+1$?",
			Options:       []string{"1", "2", "3", "4"},
			CorrectAnswer: 1,
			Difficulty:    models.DifficultyEasy,
			Explanation:   "basic",
			Topic:         "Arithmetic",
		}
	}
	return qs
}

func TestNewSession_RequiresQuestions(t *testing.T) {
	if _, err := NewSession("Set theory", "easy", nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestNewSession_StartsActiveAndUnanswered(t *testing.T) {
	s, err := NewSession("Set theory", "random", threeQuestions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Completed {
		t.Error("new session must start active")
	}
	if s.AnsweredCount() != 0 {
		t.Errorf("expected 0 answered, got %d", s.AnsweredCount())
	}
	for i, a := range s.Answers {
		if a != Unanswered {
			t.Errorf("answer slot %d not initialized, got %d", i, a)
		}
	}
}

func TestSelectAnswer_BoundsAndOverwrite(t *testing.T) {
	s, _ := NewSession("Set theory", "easy", threeQuestions())

	if err := s.SelectAnswer(3, 0); !errors.Is(err, ErrQuestionOutOfRange) {
		t.Errorf("expected ErrQuestionOutOfRange, got %v", err)
	}
	if err := s.SelectAnswer(-1, 0); !errors.Is(err, ErrQuestionOutOfRange) {
		t.Errorf("expected ErrQuestionOutOfRange, got %v", err)
	}
	if err := s.SelectAnswer(0, 4); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("expected ErrAnswerOutOfRange, got %v", err)
	}
	if err := s.SelectAnswer(0, -1); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("expected ErrAnswerOutOfRange, got %v", err)
	}

	if err := s.SelectAnswer(0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SelectAnswer(0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Answers[0] != 1 {
		t.Errorf("expected overwrite to 1, got %d", s.Answers[0])
	}
	if s.AnsweredCount() != 1 {
		t.Errorf("overwriting must not change answered count, got %d", s.AnsweredCount())
	}
}

func TestSubmit_RefusesWhileUnanswered(t *testing.T) {
	s, _ := NewSession("Set theory", "easy", threeQuestions())
	s.SelectAnswer(0, 1)
	s.SelectAnswer(1, 1)

	if _, err := s.Submit(); !errors.Is(err, ErrNotAllAnswered) {
		t.Fatalf("expected ErrNotAllAnswered, got %v", err)
	}
	if s.Completed {
		t.Error("refused submission must leave the session active")
	}

	// Fill the remaining slot and the same submission goes through.
	s.SelectAnswer(2, 0)
	score, err := s.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Completed {
		t.Error("successful submission must complete the session")
	}
	if score != 2 || s.Score != 2 {
		t.Errorf("expected score 2 (two correct answers), got %d / %d", score, s.Score)
	}
}

func TestSubmit_AllCorrect(t *testing.T) {
	s, _ := NewSession("Set theory", "easy", threeQuestions())
	for i := range s.Questions {
		s.SelectAnswer(i, s.Questions[i].CorrectAnswer)
	}
	score, err := s.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != len(s.Questions) {
		t.Errorf("expected full score %d, got %d", len(s.Questions), score)
	}
}

func TestCompletedSessionIsLocked(t *testing.T) {
	s, _ := NewSession("Set theory", "easy", threeQuestions())
	for i := range s.Questions {
		s.SelectAnswer(i, 1)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Answer changes after completion are silently ignored.
	if err := s.SelectAnswer(0, 0); err != nil {
		t.Fatalf("post-completion answer must be a no-op, got %v", err)
	}
	if s.Answers[0] != 1 {
		t.Errorf("completed session's answers changed, got %d", s.Answers[0])
	}

	// Resubmission is refused and the score stands.
	before := s.Score
	if _, err := s.Submit(); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted, got %v", err)
	}
	if s.Score != before {
		t.Errorf("score changed on resubmission: %d -> %d", before, s.Score)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, _ := NewSession("Set theory", "easy", threeQuestions())
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != s.ID || got.Topic != s.Topic || len(got.Answers) != len(s.Answers) {
		t.Errorf("stored session does not match: %+v", got)
	}

	// The stored copy must not alias the caller's slice.
	got.Answers[0] = 3
	again, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Answers[0] != Unanswered {
		t.Error("mutating a returned session leaked into the store")
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_GetUnknownID(t *testing.T) {
	s, _ := NewSession("Set theory", "easy", threeQuestions())
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
