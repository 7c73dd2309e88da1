package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dmquiz-backend/internal/models"
)

// QuestionRepo stores saved questions. Records are always re-keyed to the
// server-assigned UUID on insert; whatever identifier a client sends is
// discarded at this boundary.
type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) List(ctx context.Context) ([]models.Question, error) {
	query := `SELECT id, question, options, correct_answer, difficulty, explanation, topic, created_at
		FROM questions ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var (
			q           models.Question
			id          uuid.UUID
			optionsJSON []byte
			difficulty  string
		)
		if err := rows.Scan(&id, &q.Text, &optionsJSON, &q.CorrectAnswer, &difficulty, &q.Explanation, &q.Topic, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options for question %s: %w", id, err)
		}
		q.ID = id.String()
		q.Difficulty = models.ParseDifficulty(difficulty)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// BulkInsert stores the given records and returns them with their
// server-assigned identifiers. The caller is expected to have validated every
// record first; nothing is inserted on error.
func (r *QuestionRepo) BulkInsert(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	now := time.Now()
	batch := &pgx.Batch{}

	for i := range questions {
		id := uuid.New()
		questions[i].ID = id.String()
		questions[i].Difficulty = models.ParseDifficulty(string(questions[i].Difficulty))
		questions[i].CreatedAt = now

		optionsJSON, err := json.Marshal(questions[i].Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options: %w", err)
		}

		batch.Queue(`INSERT INTO questions (id, question, options, correct_answer, difficulty, explanation, topic, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, questions[i].Text, optionsJSON, questions[i].CorrectAnswer,
			string(questions[i].Difficulty), questions[i].Explanation, questions[i].Topic, now)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range questions {
		if _, err := br.Exec(); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// Delete removes one record. Deleting an unknown ID is not an error; the
// caller treats any completed delete as success.
func (r *QuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	return err
}
