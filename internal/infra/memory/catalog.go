package memory

import (
	"context"

	"chapter-quiz-service/internal/domain"
)

// StaticCatalog is a catalog backed by in-memory slices (useful for tests/demos).
type StaticCatalog struct {
	chapters   []domain.Chapter
	categories []domain.Category
	questions  []domain.Question
}

func NewStaticCatalog(chapters []domain.Chapter, categories []domain.Category, questions []domain.Question) *StaticCatalog {
	return &StaticCatalog{chapters: chapters, categories: categories, questions: questions}
}

func (c *StaticCatalog) LoadChapters(_ context.Context) ([]domain.Chapter, error) {
	return append([]domain.Chapter(nil), c.chapters...), nil
}

func (c *StaticCatalog) LoadCategories(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), c.categories...), nil
}

// LoadQuestions returns the questions of every chapter included in sel.
func (c *StaticCatalog) LoadQuestions(_ context.Context, sel domain.Selection) ([]domain.Question, error) {
	included := make(map[int]bool, len(c.chapters))
	for _, ch := range c.chapters {
		if sel.Includes(ch) {
			included[ch.Number] = true
		}
	}
	out := make([]domain.Question, 0)
	for _, q := range c.questions {
		if included[q.Chapter.Number] {
			out = append(out, q)
		}
	}
	return out, nil
}
