package postgres

import (
	"context"
	"fmt"

	"chapter-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AnswerHistory stores the most recent answer state per user and question.
type AnswerHistory struct {
	pool *pgxpool.Pool
}

func NewAnswerHistory(pool *pgxpool.Pool) *AnswerHistory {
	return &AnswerHistory{pool: pool}
}

func (h *AnswerHistory) RecordAnswer(ctx context.Context, answer domain.RecentAnswer) error {
	_, err := h.pool.Exec(ctx, `
		INSERT INTO recent_answers (user_id, question_id, chapter_id, correct, answered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, question_id) DO UPDATE
		SET chapter_id = EXCLUDED.chapter_id, correct = EXCLUDED.correct, answered_at = EXCLUDED.answered_at`,
		answer.UserID, answer.QuestionID, answer.ChapterID, answer.Correct, answer.AnsweredAt)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (h *AnswerHistory) RecentAnswers(ctx context.Context, userID string) ([]domain.RecentAnswer, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT user_id, question_id, chapter_id, correct, answered_at
		FROM recent_answers WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("load recent answers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RecentAnswer, 0)
	for rows.Next() {
		var a domain.RecentAnswer
		if err := rows.Scan(&a.UserID, &a.QuestionID, &a.ChapterID, &a.Correct, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan recent answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (h *AnswerHistory) ResetChapter(ctx context.Context, userID, chapterID string) error {
	_, err := h.pool.Exec(ctx, `UPDATE recent_answers SET correct = FALSE WHERE user_id = $1 AND chapter_id = $2`, userID, chapterID)
	if err != nil {
		return fmt.Errorf("reset chapter: %w", err)
	}
	return nil
}
