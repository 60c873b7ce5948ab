package postgres

import (
	"context"
	"fmt"

	"chapter-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader reads chapters, categories and questions from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadChapters(ctx context.Context) ([]domain.Chapter, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT c.id, c.number, c.description,
			COALESCE(array_agg(cc.category_id) FILTER (WHERE cc.category_id IS NOT NULL), '{}')
		FROM chapters c
		LEFT JOIN chapter_categories cc ON cc.chapter_id = c.id
		GROUP BY c.id
		ORDER BY c.number`)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]domain.Chapter, 0)
	for rows.Next() {
		var ch domain.Chapter
		if err := rows.Scan(&ch.ID, &ch.Number, &ch.Description, &ch.CategoryIDs); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

func (l *CatalogLoader) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, name, hidden FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Hidden); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// LoadQuestions returns the questions of the selected chapters with their answers.
func (l *CatalogLoader) LoadQuestions(ctx context.Context, sel domain.Selection) ([]domain.Question, error) {
	numbers := make([]int32, 0, len(sel.ChapterNumbers))
	for _, n := range sel.ChapterNumbers {
		numbers = append(numbers, int32(n))
	}
	categories := append([]string{}, sel.CategoryIDs...)

	rows, err := l.pool.Query(ctx, `
		SELECT q.id, q.text, COALESCE(q.image_url, ''), c.id, c.number, c.description,
			a.id, a.text, a.is_correct
		FROM questions q
		JOIN chapters c ON c.id = q.chapter_id
		JOIN answers a ON a.question_id = q.id
		WHERE c.number = ANY($1::int[])
			AND (cardinality($2::text[]) = 0 OR EXISTS (
				SELECT 1 FROM chapter_categories cc
				WHERE cc.chapter_id = c.id AND cc.category_id = ANY($2::text[])))
		ORDER BY c.number, q.id, a.id`, numbers, categories)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			q domain.Question
			a domain.Answer
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.ImageURL, &q.Chapter.ID, &q.Chapter.Number, &q.Chapter.Description,
			&a.ID, &a.Text, &a.Correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		i, ok := index[q.ID]
		if !ok {
			i = len(questions)
			index[q.ID] = i
			questions = append(questions, q)
		}
		questions[i].Answers = append(questions[i].Answers, a)
	}
	return questions, rows.Err()
}
