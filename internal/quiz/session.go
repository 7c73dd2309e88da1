package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"dmquiz-backend/internal/models"
)

// Unanswered marks an answer slot that has not been filled yet.
const Unanswered = -1

var (
	ErrNoQuestions        = errors.New("quiz: session needs at least one question")
	ErrQuestionOutOfRange = errors.New("quiz: question index out of range")
	ErrAnswerOutOfRange   = errors.New("quiz: answer index out of range")
	ErrNotAllAnswered     = errors.New("quiz: not all questions answered")
	ErrCompleted          = errors.New("quiz: session already completed")
	ErrSessionNotFound    = errors.New("quiz: session not found")
)

// Session tracks one user's progress through a fixed question set. It has two
// states: active and completed, and the transition is one-way. Sessions are
// exclusively-owned values; they are never shared between requests except
// through a Store.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	Topic      string            `json:"topic"`
	Difficulty string            `json:"difficulty"` // requested selector, may be "random"
	Questions  []models.Question `json:"questions"`
	Answers    []int             `json:"answers"`
	Completed  bool              `json:"completed"`
	Score      int               `json:"score"` // meaningful only once Completed
	CreatedAt  time.Time         `json:"created_at"`
}

// NewSession starts an active session over the given questions. The question
// set is fixed for the session's lifetime.
func NewSession(topic, difficulty string, questions []models.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}

	return &Session{
		ID:         uuid.New(),
		Topic:      topic,
		Difficulty: difficulty,
		Questions:  questions,
		Answers:    answers,
		CreatedAt:  time.Now(),
	}, nil
}

// SelectAnswer records (or overwrites) the answer for one question. Calls on
// a completed session are ignored without error.
func (s *Session) SelectAnswer(questionIndex, answerIndex int) error {
	if s.Completed {
		return nil
	}
	if questionIndex < 0 || questionIndex >= len(s.Questions) {
		return ErrQuestionOutOfRange
	}
	if answerIndex < 0 || answerIndex >= models.OptionCount {
		return ErrAnswerOutOfRange
	}
	s.Answers[questionIndex] = answerIndex
	return nil
}

// AnsweredCount reports how many slots have been filled.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != Unanswered {
			n++
		}
	}
	return n
}

// Submit grades the session. It refuses while any slot is unanswered and
// refuses again once completed; on success it computes the score and locks
// the session.
func (s *Session) Submit() (int, error) {
	if s.Completed {
		return 0, ErrCompleted
	}
	for _, a := range s.Answers {
		if a == Unanswered {
			return 0, ErrNotAllAnswered
		}
	}

	score := 0
	for i, a := range s.Answers {
		if a == s.Questions[i].CorrectAnswer {
			score++
		}
	}

	s.Score = score
	s.Completed = true
	return score, nil
}
