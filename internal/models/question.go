package models

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the graded level stored on a question. The request-time
// "random" selector is a directive to the generator and never appears here.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes a raw difficulty label. Anything outside the
// three known levels (including the empty string) falls back to medium.
func ParseDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	case DifficultyMedium:
		return DifficultyMedium
	default:
		return DifficultyMedium
	}
}

// OptionCount is fixed: answer position encodes the letter A-D.
const OptionCount = 4

// Question is a single multiple-choice question. JSON field names follow the
// wire contract the frontend already speaks (camelCase, "question" for the
// body text).
type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"` // 0-based index into Options
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation"`
	Topic         string     `json:"topic"`
	CreatedAt     time.Time  `json:"createdAt,omitempty"`
}

// Validate enforces the record invariant: exactly 4 options and a correct
// index inside them.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question must have exactly %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %c is empty", 'A'+i)
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return fmt.Errorf("correctAnswer must be between 0 and %d, got %d", OptionCount-1, q.CorrectAnswer)
	}
	return nil
}
