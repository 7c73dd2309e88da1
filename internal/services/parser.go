package services

import (
	"fmt"
	"strings"
	"time"

	"dmquiz-backend/internal/models"
)

// Markers the generator is instructed to wrap each question in. The parser
// and the prompt builder must agree on these.
const (
	questionStartMarker = "[QUESTION_START]"
	questionEndMarker   = "[QUESTION_END]"
)

var answerLetters = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// ParseQuestions extracts question records from raw generated text. Blocks
// are processed independently: a malformed block is dropped and counted, it
// never aborts the rest of the batch. An all-rejected or block-free input
// yields an empty slice, which is not an error here - the caller decides what
// an empty result means.
func ParseQuestions(text, topic string) ([]models.Question, int) {
	chunks := strings.Split(text, questionStartMarker)
	if len(chunks) > 0 {
		// Anything before the first start marker is preamble.
		chunks = chunks[1:]
	}

	stamp := time.Now().UnixMilli()
	questions := make([]models.Question, 0, len(chunks))
	rejected := 0

	for i, chunk := range chunks {
		end := strings.Index(chunk, questionEndMarker)
		if end < 0 {
			rejected++
			continue
		}

		q, ok := parseBlock(chunk[:end], topic)
		if !ok {
			rejected++
			continue
		}

		// Caller-visible identifier only; the storage layer re-keys on insert.
		q.ID = fmt.Sprintf("q-%d-%d", stamp, i)
		questions = append(questions, q)
	}

	return questions, rejected
}

// parseBlock scans the non-empty lines of one delimited block for the
// expected field prefixes. Matching is a literal prefix test, first match
// wins per prefix. All fields except Difficulty are required.
func parseBlock(content, topic string) (models.Question, bool) {
	var lines []string
	for _, raw := range strings.Split(content, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	find := func(prefix string) (string, bool) {
		for _, line := range lines {
			if strings.HasPrefix(line, prefix) {
				return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
			}
		}
		return "", false
	}

	text, okText := find("Question:")
	optA, okA := find("A.")
	optB, okB := find("B.")
	optC, okC := find("C.")
	optD, okD := find("D.")
	correct, okCorrect := find("Correct:")
	explanation, okExplanation := find("Explanation:")

	if !okText || !okA || !okB || !okC || !okD || !okCorrect || !okExplanation {
		return models.Question{}, false
	}

	correctIdx, ok := answerLetters[correct]
	if !ok {
		return models.Question{}, false
	}

	difficulty, _ := find("Difficulty:")

	return models.Question{
		Text:          text,
		Options:       []string{optA, optB, optC, optD},
		CorrectAnswer: correctIdx,
		Difficulty:    models.ParseDifficulty(difficulty),
		Explanation:   explanation,
		Topic:         topic,
	}, true
}
