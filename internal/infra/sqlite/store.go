package sqlite

import (
	"context"
	"fmt"

	"chapter-quiz-service/internal/domain"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store is an embedded catalog and answer history backed by SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(
		&Category{},
		&Chapter{},
		&Question{},
		&Answer{},
		&RecentAnswer{},
	); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsEmpty reports whether no chapter has been stored yet.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Chapter{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// Seed stores a catalog in one transaction. Missing answer IDs are generated.
func (s *Store) Seed(ctx context.Context, chapters []domain.Chapter, categories []domain.Category, questions []domain.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byID := make(map[string]Category, len(categories))
		for _, c := range categories {
			row := Category{ID: c.ID, Name: c.Name, Hidden: c.Hidden}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
			byID[c.ID] = row
		}
		for _, ch := range chapters {
			row := Chapter{ID: ch.ID, Number: ch.Number, Description: ch.Description}
			for _, id := range ch.CategoryIDs {
				if c, ok := byID[id]; ok {
					row.Categories = append(row.Categories, c)
				}
			}
			if err := tx.Omit("Categories.*").Create(&row).Error; err != nil {
				return fmt.Errorf("seed chapter %d: %w", ch.Number, err)
			}
		}
		for _, q := range questions {
			row := Question{ID: q.ID, ChapterID: q.Chapter.ID, Text: q.Text}
			if q.ImageURL != "" {
				image := q.ImageURL
				row.ImageURL = &image
			}
			for _, a := range q.Answers {
				id := a.ID
				if id == "" {
					id = uuid.NewString()
				}
				row.Answers = append(row.Answers, Answer{ID: id, Text: a.Text, IsCorrect: a.Correct})
			}
			if err := tx.Omit("Chapter").Create(&row).Error; err != nil {
				return fmt.Errorf("seed question %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) LoadChapters(ctx context.Context) ([]domain.Chapter, error) {
	var rows []Chapter
	if err := s.db.WithContext(ctx).Preload("Categories").Order("number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	out := make([]domain.Chapter, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainChapter(row))
	}
	return out, nil
}

func (s *Store) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []Category
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category{ID: row.ID, Name: row.Name, Hidden: row.Hidden})
	}
	return out, nil
}

// LoadQuestions returns the questions of the selected chapters with their answers.
func (s *Store) LoadQuestions(ctx context.Context, sel domain.Selection) ([]domain.Question, error) {
	out := make([]domain.Question, 0)
	if len(sel.ChapterNumbers) == 0 {
		return out, nil
	}

	var chapters []Chapter
	if err := s.db.WithContext(ctx).Preload("Categories").
		Where("number IN ?", sel.ChapterNumbers).
		Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	ids := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		if sel.Includes(toDomainChapter(ch)) {
			ids = append(ids, ch.ID)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []Question
	if err := s.db.WithContext(ctx).
		Preload("Chapter").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("chapter_id IN ?", ids).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	for _, row := range rows {
		q := domain.Question{
			ID:   row.ID,
			Text: row.Text,
			Chapter: domain.ChapterRef{
				ID:          row.Chapter.ID,
				Number:      row.Chapter.Number,
				Description: row.Chapter.Description,
			},
			Answers: make([]domain.Answer, 0, len(row.Answers)),
		}
		if row.ImageURL != nil {
			q.ImageURL = *row.ImageURL
		}
		for _, a := range row.Answers {
			q.Answers = append(q.Answers, domain.Answer{ID: a.ID, Text: a.Text, Correct: a.IsCorrect})
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Store) RecordAnswer(ctx context.Context, answer domain.RecentAnswer) error {
	row := RecentAnswer{
		UserID:     answer.UserID,
		QuestionID: answer.QuestionID,
		ChapterID:  answer.ChapterID,
		Correct:    answer.Correct,
		AnsweredAt: answer.AnsweredAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chapter_id", "correct", "answered_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (s *Store) RecentAnswers(ctx context.Context, userID string) ([]domain.RecentAnswer, error) {
	var rows []RecentAnswer
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load recent answers: %w", err)
	}
	out := make([]domain.RecentAnswer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RecentAnswer{
			UserID:     row.UserID,
			QuestionID: row.QuestionID,
			ChapterID:  row.ChapterID,
			Correct:    row.Correct,
			AnsweredAt: row.AnsweredAt,
		})
	}
	return out, nil
}

func (s *Store) ResetChapter(ctx context.Context, userID, chapterID string) error {
	err := s.db.WithContext(ctx).Model(&RecentAnswer{}).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		Update("correct", false).Error
	if err != nil {
		return fmt.Errorf("reset chapter: %w", err)
	}
	return nil
}

func toDomainChapter(row Chapter) domain.Chapter {
	ch := domain.Chapter{ID: row.ID, Number: row.Number, Description: row.Description}
	for _, c := range row.Categories {
		ch.CategoryIDs = append(ch.CategoryIDs, c.ID)
	}
	return ch
}
