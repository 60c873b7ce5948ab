package app

import (
	"context"
	"sort"

	"chapter-quiz-service/internal/domain"
	"chapter-quiz-service/internal/play"
)

// Categories lists the visible categories ordered by name.
func (s *PlayService) Categories(ctx context.Context) ([]domain.Category, error) {
	all, err := s.catalog.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Name < visible[j].Name })
	return visible, nil
}

// Chapters lists chapters by number. With categoryIDs, only chapters tagged
// with at least one of those visible categories are returned.
func (s *PlayService) Chapters(ctx context.Context, categoryIDs []string) ([]domain.Chapter, error) {
	chapters, err := s.catalog.LoadChapters(ctx)
	if err != nil {
		return nil, err
	}
	if len(categoryIDs) > 0 {
		visible, err := s.Categories(ctx)
		if err != nil {
			return nil, err
		}
		chapters = FilterChapters(chapters, visible, categoryIDs)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return chapters, nil
}

// FilterChapters keeps chapters tagged with any wanted category that is also visible.
func FilterChapters(chapters []domain.Chapter, visible []domain.Category, wanted []string) []domain.Chapter {
	allowed := make(map[string]struct{}, len(wanted))
	isVisible := make(map[string]bool, len(visible))
	for _, c := range visible {
		isVisible[c.ID] = true
	}
	for _, id := range wanted {
		if isVisible[id] {
			allowed[id] = struct{}{}
		}
	}

	out := make([]domain.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		for _, id := range ch.CategoryIDs {
			if _, ok := allowed[id]; ok {
				out = append(out, ch)
				break
			}
		}
	}
	return out
}

// ChapterScores reports, per chapter, how many questions the user most
// recently answered correctly.
func (s *PlayService) ChapterScores(ctx context.Context, userID string) ([]domain.ChapterScore, error) {
	chapters, err := s.Chapters(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return []domain.ChapterScore{}, nil
	}

	numbers := make([]int, 0, len(chapters))
	for _, ch := range chapters {
		numbers = append(numbers, ch.Number)
	}
	questions, err := s.questions.GetPool(ctx, domain.Selection{ChapterNumbers: numbers})
	if err != nil {
		return nil, err
	}
	recent, err := s.history.RecentAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ScoreChapters(userID, chapters, questions, recent), nil
}

// ScoreChapters is the pure part of ChapterScores.
func ScoreChapters(userID string, chapters []domain.Chapter, questions []domain.Question, recent []domain.RecentAnswer) []domain.ChapterScore {
	correct := make(map[string]bool, len(recent))
	for _, r := range recent {
		if r.UserID == userID {
			correct[r.QuestionID] = r.Correct
		}
	}

	scores := make([]domain.ChapterScore, 0, len(chapters))
	for _, ch := range chapters {
		score := domain.ChapterScore{Chapter: ch, UserID: userID}
		for _, q := range questions {
			if q.Chapter.Number != ch.Number {
				continue
			}
			score.QuestionCount++
			if correct[q.ID] {
				score.CorrectCount++
			}
		}
		score.Percent = play.Percent(score.CorrectCount, score.QuestionCount)
		scores = append(scores, score)
	}
	return scores
}

// ResetChapterHistory marks the user's recent answers in a chapter as not correct.
func (s *PlayService) ResetChapterHistory(ctx context.Context, userID, chapterID string) error {
	chapters, err := s.catalog.LoadChapters(ctx)
	if err != nil {
		return err
	}
	for _, ch := range chapters {
		if ch.ID == chapterID {
			return s.history.ResetChapter(ctx, userID, chapterID)
		}
	}
	return domain.ErrChapterNotFound
}
